package usecase

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractRows_Heuristic(t *testing.T) {
	t.Parallel()

	rows, err := ExtractRows(`<table>
		<tr><td>fifteen chars 1</td></tr>
		<tr><td>sixteen chars 12</td></tr>
		<tr><td>no digits in this long row</td></tr>
	</table>`)
	require.NoError(t, err)
	require.Equal(t, []string{"sixteen chars 12"}, rows)
}

func TestExtractRows_CapsAndDeduplicates(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString("<table>")
	for i := 0; i < 150; i++ {
		fmt.Fprintf(&b, "<tr><td>Team number %03d</td><td>pts</td></tr>", i)
		fmt.Fprintf(&b, "<tr><td>Team number %03d</td><td>pts</td></tr>", i)
	}
	b.WriteString("</table>")

	rows, err := ExtractRows(b.String())
	require.NoError(t, err)
	require.Len(t, rows, 100)
	require.Equal(t, "Team number 000 pts", rows[0])
	require.Equal(t, "Team number 099 pts", rows[99])
}

func TestExtractRows_EmptyDocument(t *testing.T) {
	t.Parallel()

	rows, err := ExtractRows("  ")
	require.NoError(t, err)
	require.NotNil(t, rows)
	require.Empty(t, rows)
}
