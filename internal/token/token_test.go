package token_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-datepicker/internal/config"
	"github.com/tartampluch/go-datepicker/internal/token"
)

func TestEncode_Format(t *testing.T) {
	data, err := token.Encode(token.State{
		Action:       token.ActionSelect,
		Date:         "20.02.2024",
		Month:        2,
		Year:         2024,
		Day:          token.Int(20),
		SelectedDate: "20.02.2024",
	})
	require.NoError(t, err)
	assert.Equal(t, "datepicker:select:20.02.2024:2:2024::20:20.02.2024", data)
}

func TestRoundTrip(t *testing.T) {
	states := []token.State{
		{Action: token.ActionIgnore},
		{Action: token.ActionPrevMonth, Month: 1, Year: 1906, SelectedDate: "01.01.1906"},
		{Action: token.ActionWeekday, Month: 12, Year: 2024, Weekday: token.Int(0)},
		{Action: token.ActionWeekday, Month: 7, Year: 2024, Weekday: token.Int(6)},
		{Action: token.ActionSelect, Date: "31.12.2024", Month: 12, Year: 2024, Day: token.Int(31), SelectedDate: "31.12.2024"},
		{Action: token.ActionOK, Month: 3, Year: 2025, Date: "15.03.2025"},
		// Layouts containing the separator must not break the framing.
		{Action: token.ActionSelectYear, Month: 5, Year: 2030, SelectedDate: "12:00 2030-05-01"},
		{Action: token.ActionChangeYear, Month: 5, Year: 2030, SelectedDate: "1 May 2030 %"},
	}

	for _, s := range states {
		t.Run(string(s.Action), func(t *testing.T) {
			data, err := token.Encode(s)
			require.NoError(t, err)
			assert.Equal(t, config.TokenParts, len(strings.Split(data, config.TokenSeparator)))

			got, err := token.Decode(data)
			require.NoError(t, err)
			assert.Equal(t, s, got)
		})
	}
}

// TestEncode_NaturalLayouts checks that commas and spaces pass through
// unescaped, so long human layouts still fit in a payload.
func TestEncode_NaturalLayouts(t *testing.T) {
	s := token.State{
		Action:       token.ActionSelect,
		Date:         "February 01, 2024",
		Month:        2,
		Year:         2024,
		Day:          token.Int(1),
		SelectedDate: "February 01, 2024",
	}
	data, err := token.Encode(s)
	require.NoError(t, err)
	assert.Equal(t, "datepicker:select:February 01, 2024:2:2024::1:February 01, 2024", data)
	assert.LessOrEqual(t, len(data), config.MaxTokenLength)

	got, err := token.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestEncode_EscapesSeparatorAndPercent(t *testing.T) {
	data, err := token.Encode(token.State{Action: token.ActionOK, Date: "12:30 100%", Month: 1, Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, "datepicker:ok:12%3A30 100%25:1:2024:::", data)

	// A literal "%3A" survives the round trip.
	s := token.State{Action: token.ActionOK, Date: "%3A", Month: 1, Year: 2024}
	data, err = token.Encode(s)
	require.NoError(t, err)
	got, err := token.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestEncode_TooLong(t *testing.T) {
	_, err := token.Encode(token.State{
		Action:       token.ActionSelectMonth,
		Month:        1,
		Year:         2024,
		SelectedDate: strings.Repeat("x", config.MaxTokenLength),
	})
	assert.ErrorIs(t, err, token.ErrTokenTooLong)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantMsg string
	}{
		{"empty", "", config.ErrTokenArity},
		{"foreign prefix", "calendar:select::2:2024:::", config.ErrTokenPrefix},
		{"too few fields", "datepicker:select:2:2024", config.ErrTokenArity},
		{"too many fields", "datepicker:select::2:2024::::extra", config.ErrTokenArity},
		{"unknown action", "datepicker:explode::2:2024:::", config.ErrTokenAction},
		{"non numeric month", "datepicker:next_m::feb:2024:::", config.ErrTokenNumber},
		{"month overflow", "datepicker:next_m::13:2024:::", config.ErrTokenRange},
		{"weekday overflow", "datepicker:weekday::2:2024:7::", config.ErrTokenRange},
		{"day zero", "datepicker:select::2:2024::0:", config.ErrTokenRange},
		{"bad escape", "datepicker:select:%zz:2:2024::1:", config.ErrTokenEscape},
		{"foreign escape", "datepicker:select:01%2C02:2:2024::1:", config.ErrTokenEscape},
		{"truncated escape", "datepicker:select:01.02.2024%:2:2024::1:", config.ErrTokenEscape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := token.Decode(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, token.ErrMalformedToken)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestAction_Valid(t *testing.T) {
	assert.True(t, token.ActionNextDecade.Valid())
	assert.False(t, token.Action("").Valid())
	assert.False(t, token.Action("SELECT").Valid())
}
