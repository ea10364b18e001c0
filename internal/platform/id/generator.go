package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

const defaultRequestIDBytes = 8

// Generator creates opaque identifiers used to correlate a request across log lines.
type Generator interface {
	NewID() (string, error)
}

type RandomGenerator struct {
	size int
}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{size: defaultRequestIDBytes}
}

func (g *RandomGenerator) NewID() (string, error) {
	size := g.size
	if size <= 0 {
		size = defaultRequestIDBytes
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// NewOrFallback never fails; a broken entropy source degrades to a clock-based id.
func NewOrFallback(g Generator) string {
	if g != nil {
		if v, err := g.NewID(); err == nil && v != "" {
			return v
		}
	}
	return "t" + strconv.FormatInt(time.Now().UnixNano(), 36)
}
