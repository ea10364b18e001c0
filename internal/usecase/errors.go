package usecase

import crerr "github.com/cockroachdb/errors"

var (
	ErrInvalidInput      = crerr.New("invalid input")
	ErrUnsupportedLeague = crerr.New("unsupported league")
	ErrLeagueNotFound    = crerr.New("league not found")
	ErrTransport         = crerr.New("transport error")
	ErrUpstreamHTTP      = crerr.New("upstream http error")
	ErrAccessDenied      = crerr.New("access denied")
	ErrMalformedResponse = crerr.New("malformed response")
	ErrEmptyStandings    = crerr.New("empty standings")
	ErrElementNotFound   = crerr.New("element not found")
	ErrScraperBusy       = crerr.New("scraper busy")
)

// Reason returns the stable reason string for an error from the taxonomy above.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case crerr.Is(err, ErrInvalidInput):
		return "InvalidInput"
	case crerr.Is(err, ErrUnsupportedLeague):
		return "UnsupportedLeague"
	case crerr.Is(err, ErrLeagueNotFound):
		return "LeagueNotFound"
	case crerr.Is(err, ErrAccessDenied):
		return "AccessDenied"
	case crerr.Is(err, ErrUpstreamHTTP):
		return "UpstreamHTTPError"
	case crerr.Is(err, ErrTransport):
		return "TransportError"
	case crerr.Is(err, ErrMalformedResponse):
		return "MalformedResponse"
	case crerr.Is(err, ErrEmptyStandings):
		return "EmptyStandings"
	case crerr.Is(err, ErrElementNotFound):
		return "ElementNotFound"
	case crerr.Is(err, ErrScraperBusy):
		return "ScraperBusy"
	default:
		return "InternalError"
	}
}
