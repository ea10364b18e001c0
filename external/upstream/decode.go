package upstream

import (
	"bytes"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-standings/internal/usecase"
)

// Decode unmarshals a provider payload, reporting undecodable bodies as malformed.
func Decode(provider string, payload []byte, target any) error {
	if len(bytes.TrimSpace(payload)) == 0 {
		return crerr.Wrapf(usecase.ErrMalformedResponse, "%s returned an empty body", provider)
	}
	if err := sonic.Unmarshal(payload, target); err != nil {
		return crerr.Wrapf(usecase.ErrMalformedResponse, "%s decode payload: %v", provider, err)
	}
	return nil
}

// FlexInt accepts JSON numbers, numeric strings, empty strings and null.
type FlexInt struct {
	Value int
	Set   bool
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	f.Value, f.Set = 0, false

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	text := string(trimmed)
	if trimmed[0] == '"' {
		unquoted, err := strconv.Unquote(text)
		if err != nil {
			return err
		}
		text = strings.TrimSpace(unquoted)
		if text == "" {
			return nil
		}
		text = strings.TrimPrefix(text, "+")
	}

	if v, err := strconv.Atoi(text); err == nil {
		f.Value, f.Set = v, true
		return nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return crerr.Newf("not a number: %q", text)
	}
	f.Value, f.Set = int(v), true
	return nil
}

func (f FlexInt) Int() int {
	return f.Value
}

// Ptr returns nil when the field was absent, null or empty.
func (f FlexInt) Ptr() *int {
	if !f.Set {
		return nil
	}
	v := f.Value
	return &v
}

// FlexString accepts JSON strings and numbers as text.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = ""
		return nil
	}
	if trimmed[0] == '"' {
		unquoted, err := strconv.Unquote(string(trimmed))
		if err != nil {
			return err
		}
		*s = FlexString(strings.TrimSpace(unquoted))
		return nil
	}
	*s = FlexString(string(trimmed))
	return nil
}

func (s FlexString) String() string {
	return string(s)
}
