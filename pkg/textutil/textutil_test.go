package textutil

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStripColourCodes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "hex codes", input: "&cHello &9World", want: "Hello World"},
		{name: "formatting codes", input: "&lBold&r &nUnder&ktext&m&o", want: "Bold Undertext"},
		{name: "case insensitive", input: "&AGreen &Fwhite &LBold", want: "Green white Bold"},
		{name: "outside class kept", input: "&gnope &zno &&", want: "&gnope &zno &&"},
		{name: "section sign untouched", input: "§cRed", want: "§cRed"},
		{name: "plain", input: "Welcome!", want: "Welcome!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripColourCodes(tt.input))
		})
	}
}

func TestStartCase(t *testing.T) {
	tests := map[string]string{
		"allow_flight":          "Allow Flight",
		"spawn-protection":      "Spawn Protection",
		"maxPlayers":            "Max Players",
		"pvp":                   "Pvp",
		"PVP":                   "PVP",
		"XMLHttpRequest":        "XML Http Request",
		"level2type":            "Level 2 Type",
		"  __enable--command__ ": "Enable Command",
		"":                      "",
	}

	for input, want := range tests {
		assert.Equal(t, want, StartCase(input), "input %q", input)
	}
}

func TestTruncate(t *testing.T) {
	short := "hello"
	assert.Equal(t, short, Truncate(short, 50))

	exact := strings.Repeat("a", 50)
	assert.Equal(t, exact, Truncate(exact, 50))

	long := strings.Repeat("b", 51)
	got := Truncate(long, 50)
	assert.Len(t, []rune(got), 50)
	assert.True(t, strings.HasSuffix(got, Ellipsis))
	assert.Equal(t, strings.Repeat("b", 47)+"...", got)

	// multi byte runes count as one character
	runes := strings.Repeat("é", 60)
	assert.Equal(t, strings.Repeat("é", 47)+"...", Truncate(runes, 50))
}

func TestPrettyDate(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "Never", PrettyDate(time.Time{}, now))

	got := PrettyDate(now.Add(-72*time.Hour), now)
	assert.Equal(t, "07 Mar 2024 12:00 UTC (3 days ago)", got)
}

func TestFormattingHelpers(t *testing.T) {
	assert.Equal(t, "```motd```", CodeBlock("motd"))
	assert.Equal(t, "`true`", InlineCode("true"))
	assert.Equal(t, "• Survival\n• PvP", Bullets([]string{"Survival", "PvP"}))
	assert.Equal(t, "", Bullets(nil))
}
