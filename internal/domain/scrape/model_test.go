package scrape

import "testing"

func TestValidateURL(t *testing.T) {
	t.Parallel()

	if got, err := ValidateURL("  https://www.sofascore.com/tournament/football/england/premier-league/17 "); err != nil || got == "" {
		t.Fatalf("expected valid url, got %q err=%v", got, err)
	}

	for _, raw := range []string{"", "   ", "ftp://example.com/x", "/relative/path", "https://", "::bad"} {
		if _, err := ValidateURL(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
