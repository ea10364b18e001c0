package usecase

import (
	"context"
	"fmt"
	"testing"

	crerr "github.com/cockroachdb/errors"
)

func TestReason(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("%w: league=germany", ErrUnsupportedLeague), "UnsupportedLeague"},
		{crerr.Wrapf(ErrAccessDenied, "allsports status=403"), "AccessDenied"},
		{crerr.Wrap(ErrTransport, "dial"), "TransportError"},
		{fmt.Errorf("normalize: %w", ErrEmptyStandings), "EmptyStandings"},
		{ErrScraperBusy, "ScraperBusy"},
		{context.DeadlineExceeded, "InternalError"},
	}
	for _, tc := range cases {
		if got := Reason(tc.err); got != tc.want {
			t.Fatalf("expected reason %q for %v, got %q", tc.want, tc.err, got)
		}
	}
}
