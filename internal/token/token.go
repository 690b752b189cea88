// Package token packs the picker navigation state into the payload attached
// to each inline button, and unpacks it again when the button is tapped.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tartampluch/go-datepicker/internal/config"
)

// Action names the transition a button triggers.
type Action string

const (
	ActionSelect      Action = "select"
	ActionSelectMonth Action = "select_month"
	ActionSelectYear  Action = "select_year"
	ActionNextMonth   Action = "next_m"
	ActionPrevMonth   Action = "prev_m"
	ActionNextYear    Action = "next_y"
	ActionPrevYear    Action = "prev_y"
	ActionNextDecade  Action = "next_decade"
	ActionPrevDecade  Action = "prev_decade"
	ActionChangeMonth Action = "change_month"
	ActionChangeYear  Action = "change_year"
	ActionOK          Action = "ok"
	ActionIgnore      Action = "ignore"
	ActionBlocked     Action = "blocked"
	ActionWeekday     Action = "weekday"
)

var knownActions = map[Action]struct{}{
	ActionSelect:      {},
	ActionSelectMonth: {},
	ActionSelectYear:  {},
	ActionNextMonth:   {},
	ActionPrevMonth:   {},
	ActionNextYear:    {},
	ActionPrevYear:    {},
	ActionNextDecade:  {},
	ActionPrevDecade:  {},
	ActionChangeMonth: {},
	ActionChangeYear:  {},
	ActionOK:          {},
	ActionIgnore:      {},
	ActionBlocked:     {},
	ActionWeekday:     {},
}

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	_, ok := knownActions[a]
	return ok
}

var (
	// ErrMalformedToken is returned for payloads this widget could not have produced.
	ErrMalformedToken = errors.New(config.ErrTokenMalformed)

	// ErrTokenTooLong is returned when a state does not fit in a button payload.
	ErrTokenTooLong = errors.New(config.ErrTokenTooLong)
)

// State is the navigation state carried by a single button.
// Zero values (and nil pointers) mean the field is absent.
type State struct {
	Action       Action
	Date         string // formatted date of a day cell, or the selection on the confirm button
	Month        int    // 1-12
	Year         int
	Weekday      *int // 0-6, only on weekday header buttons
	Day          *int // 1-31, only on day cells
	SelectedDate string
}

// Int returns a pointer to v, for the optional State fields.
func Int(v int) *int {
	return &v
}

// Encode serializes s into the button payload format:
//
//	datepicker:<action>:<date>:<month>:<year>:<weekday>:<day>:<selected_date>
func Encode(s State) (string, error) {
	parts := []string{
		config.TokenPrefix,
		string(s.Action),
		escape(s.Date),
		formatInt(s.Month),
		formatInt(s.Year),
		formatOptional(s.Weekday),
		formatOptional(s.Day),
		escape(s.SelectedDate),
	}
	data := strings.Join(parts, config.TokenSeparator)
	if len(data) > config.MaxTokenLength {
		return "", fmt.Errorf("%w: %d bytes", ErrTokenTooLong, len(data))
	}
	return data, nil
}

// Decode parses a payload produced by Encode.
func Decode(data string) (State, error) {
	parts := strings.Split(data, config.TokenSeparator)
	if len(parts) != config.TokenParts {
		return State{}, fmt.Errorf("%w: %s: got %d", ErrMalformedToken, config.ErrTokenArity, len(parts))
	}
	if parts[0] != config.TokenPrefix {
		return State{}, fmt.Errorf("%w: %s: %q", ErrMalformedToken, config.ErrTokenPrefix, parts[0])
	}

	s := State{Action: Action(parts[1])}
	if !s.Action.Valid() {
		return State{}, fmt.Errorf("%w: %s: %q", ErrMalformedToken, config.ErrTokenAction, parts[1])
	}

	var err error
	if s.Date, err = unescape("date", parts[2]); err != nil {
		return State{}, err
	}
	if s.Month, err = parseInt("month", parts[3]); err != nil {
		return State{}, err
	}
	if s.Month != 0 && (s.Month < 1 || s.Month > config.MonthsPerYear) {
		return State{}, rangeErr("month", s.Month)
	}
	if s.Year, err = parseInt("year", parts[4]); err != nil {
		return State{}, err
	}
	if s.Weekday, err = parseOptional("weekday", parts[5]); err != nil {
		return State{}, err
	}
	if s.Weekday != nil && (*s.Weekday < 0 || *s.Weekday >= config.DaysPerWeek) {
		return State{}, rangeErr("weekday", *s.Weekday)
	}
	if s.Day, err = parseOptional("day", parts[6]); err != nil {
		return State{}, err
	}
	if s.Day != nil && (*s.Day < 1 || *s.Day > config.MaxDaysInMonth) {
		return State{}, rangeErr("day", *s.Day)
	}
	if s.SelectedDate, err = unescape("selected_date", parts[7]); err != nil {
		return State{}, err
	}
	return s, nil
}

func formatInt(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func formatOptional(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func parseInt(field, raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %s: %q", ErrMalformedToken, config.ErrTokenNumber, field, raw)
	}
	return v, nil
}

func parseOptional(field, raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := parseInt(field, raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Only the separator and the escape character itself are escaped, so date
// layouts keep their natural length inside the payload.
var (
	escaper   = strings.NewReplacer("%", "%25", config.TokenSeparator, "%3A")
	unescaper = strings.NewReplacer("%25", "%", "%3A", config.TokenSeparator, "%3a", config.TokenSeparator)
)

func escape(v string) string {
	return escaper.Replace(v)
}

func unescape(field, raw string) (string, error) {
	rest := raw
	for i := strings.IndexByte(rest, '%'); i >= 0; i = strings.IndexByte(rest, '%') {
		seq := rest[i:min(i+3, len(rest))]
		if seq != "%25" && !strings.EqualFold(seq, "%3A") {
			return "", fmt.Errorf("%w: %s %s: %q", ErrMalformedToken, config.ErrTokenEscape, field, seq)
		}
		rest = rest[i+3:]
	}
	return unescaper.Replace(raw), nil
}

func rangeErr(field string, v int) error {
	return fmt.Errorf("%w: %s %s: %d", ErrMalformedToken, config.ErrTokenRange, field, v)
}
