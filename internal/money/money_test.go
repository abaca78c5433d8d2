package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"100", "100"},
		{"  100  ", "100"},
		{"+50", "50"},
		{"-30", "-30"},
		{"12 500", "12500"},
		{"1,5", "1.5"},
		{"0", "0"},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		require.NoError(t, err, "вход %q", c.in)
		assert.True(t, got.Equal(decimal.RequireFromString(c.want)),
			"вход %q: получили %s, ждали %s", c.in, got, c.want)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "abc", "10р", "--5", "1.2.3"} {
		_, err := Parse(in)
		assert.Error(t, err, "вход %q", in)
	}
}

func TestRoundWhole(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"383.33", "383"},
		{"383.5", "384"},
		{"200.4", "200"},
		{"-10.5", "-11"},
		{"100", "100"},
	}
	for _, c := range cases {
		got := RoundWhole(decimal.RequireFromString(c.in))
		assert.True(t, got.Equal(decimal.RequireFromString(c.want)),
			"вход %s: получили %s, ждали %s", c.in, got, c.want)
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"500", "500"},
		{"12500", "12 500"},
		{"1234567", "1 234 567"},
		{"-12500", "-12 500"},
		{"1200.49", "1 200"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Format(decimal.RequireFromString(c.in)), "вход %s", c.in)
	}
}
