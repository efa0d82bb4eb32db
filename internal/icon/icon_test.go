package icon_test

import (
	"testing"

	"github.com/rpggio/folio/internal/icon"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := map[string]icon.Icon{
		"Code2":      icon.Code,
		"database":   icon.Database,
		"git-branch": icon.GitBranch,
		"BookOpen":   icon.BookOpen,
		"CPU":        icon.Cpu,
	}
	for name, want := range cases {
		got, ok := icon.Parse(name)
		require.True(t, ok, name)
		require.Equal(t, want, got, name)
	}
}

func TestParse_FallsBackToCode(t *testing.T) {
	got, ok := icon.Parse("Rocket")
	require.False(t, ok)
	require.Equal(t, icon.Code, got)

	got, ok = icon.Parse("")
	require.False(t, ok)
	require.Equal(t, icon.Default, got)
}

func TestRoundTripNames(t *testing.T) {
	seen := map[string]bool{}
	for _, i := range icon.All {
		name := i.String()
		require.False(t, seen[name], "duplicate name %s", name)
		seen[name] = true

		parsed, ok := icon.Parse(name)
		require.True(t, ok)
		require.Equal(t, i, parsed)
		require.NotEmpty(t, i.Glyph())
	}
}

func TestOutOfRangeRendersDefault(t *testing.T) {
	require.Equal(t, icon.Code.String(), icon.Icon(99).String())
	require.Equal(t, icon.Code.Glyph(), icon.Icon(-1).Glyph())
}
