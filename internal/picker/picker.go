// Package picker renders the inline calendar keyboards and drives them from
// button payloads. Every button carries the full navigation state, so a
// Picker keeps nothing between taps and is safe for concurrent use.
package picker

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tartampluch/go-datepicker/internal/calendar"
	"github.com/tartampluch/go-datepicker/internal/config"
	"github.com/tartampluch/go-datepicker/internal/locale"
	"github.com/tartampluch/go-datepicker/internal/token"
)

var (
	// ErrInvalidDate is returned when a date field of a token does not parse
	// with the configured layout.
	ErrInvalidDate = errors.New(config.ErrDateFieldParse)

	// ErrUnknownView is returned by Start for an unsupported view kind.
	ErrUnknownView = errors.New(config.ErrUnknownView)

	// ErrDateFormatLossy is returned by New for a layout that drops the year,
	// month or day, since selections must parse back to the same date.
	ErrDateFormatLossy = errors.New(config.ErrDateFormatLossy)

	// ErrSelectionFormat is returned by New for a highlight template that is
	// not empty and does not hold exactly one %s.
	ErrSelectionFormat = errors.New(config.ErrSelectionFormat)
)

// Picker is an immutable, configured calendar widget.
type Picker struct {
	opts    Options
	blocked map[calendar.Date]struct{}
	names   locale.Names
	clock   calendar.Clock
	log     *slog.Logger
}

// New builds a Picker. A nil catalog loads the embedded one; a nil clock uses
// the system time.
func New(opts Options, catalog *locale.Catalog, clock calendar.Clock) (*Picker, error) {
	if catalog == nil {
		var err error
		if catalog, err = locale.NewCatalog(); err != nil {
			return nil, err
		}
	}
	if clock == nil {
		clock = calendar.RealClock{}
	}
	if opts.DateFormat == "" {
		opts.DateFormat = config.DefaultDateFormat
	}
	if err := checkDateFormat(opts.DateFormat); err != nil {
		return nil, err
	}
	if err := checkSelectionFormat(opts.SelectionFormat); err != nil {
		return nil, err
	}
	if opts.YearRange < 0 {
		opts.YearRange = -opts.YearRange
	}
	opts.FirstWeekday = calendar.WeekdayAt(opts.FirstWeekday, 0)

	blocked := make(map[calendar.Date]struct{}, len(opts.BlockedDays))
	for _, d := range opts.BlockedDays {
		blocked[calendar.DateOf(d)] = struct{}{}
	}
	opts.BlockedDays = append([]time.Time(nil), opts.BlockedDays...)
	if opts.Predefined != nil {
		p := *opts.Predefined
		opts.Predefined = &p
	}

	return &Picker{
		opts:    opts,
		blocked: blocked,
		names:   catalog.Names(opts.Locale),
		clock:   clock,
		log:     slog.With(config.LogKeyComponent, config.CompPicker),
	}, nil
}

// Options returns a copy of the configuration.
func (p *Picker) Options() Options {
	opts := p.opts
	opts.BlockedDays = append([]time.Time(nil), p.opts.BlockedDays...)
	return opts
}

// StartOptions selects the first view shown to the user.
// Zero fields default to the current year/month and the Day view.
type StartOptions struct {
	Kind         ViewKind
	Year         int
	Month        time.Month
	SelectedDate string
}

// Start renders the initial keyboard. When no selection is given and a
// predefined date is configured, that date is selected and shown.
func (p *Picker) Start(so StartOptions) (*View, error) {
	now := p.clock.Now()
	year, month := so.Year, so.Month
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = now.Month()
	}
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month %d", calendar.ErrInvalidDate, month)
	}

	selected := so.SelectedDate
	if selected == "" && p.opts.Predefined != nil {
		selected = p.opts.Predefined.Format(p.opts.DateFormat)
		year, month = p.opts.Predefined.Year(), p.opts.Predefined.Month()
	}
	if selected != "" {
		if _, err := p.parseDate(selected); err != nil {
			return nil, err
		}
	}
	year = p.yearRange().Clamp(year)

	switch so.Kind {
	case "", ViewDay:
		return p.renderDay(year, month, selected)
	case ViewMonth:
		return p.renderMonth(year, month, selected)
	case ViewDecade:
		return p.renderDecade(year, month, selected)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, so.Kind)
	}
}

// roundTripDate has a day above 12 so day and month cannot be confused.
var roundTripDate = time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)

func checkDateFormat(layout string) error {
	t, err := time.Parse(layout, roundTripDate.Format(layout))
	if err != nil || calendar.DateOf(t) != calendar.DateOf(roundTripDate) {
		return fmt.Errorf("%w: %q", ErrDateFormatLossy, layout)
	}
	return nil
}

func checkSelectionFormat(format string) error {
	if format == "" {
		return nil
	}
	verbs := strings.Count(strings.ReplaceAll(format, "%%", ""), "%")
	if verbs != 1 || !strings.Contains(format, "%s") {
		return fmt.Errorf("%w: %q", ErrSelectionFormat, format)
	}
	return nil
}

func (p *Picker) yearRange() calendar.YearRange {
	return calendar.NewYearRange(p.clock.Now(), p.opts.YearRange)
}

func (p *Picker) parseDate(value string) (time.Time, error) {
	t, err := time.Parse(p.opts.DateFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w: %q", token.ErrMalformedToken, ErrInvalidDate, value)
	}
	return t, nil
}

func (p *Picker) isBlocked(d calendar.Date) bool {
	_, ok := p.blocked[d]
	return ok
}

func (p *Picker) highlight(label string) string {
	if p.opts.SelectionFormat == "" {
		return label
	}
	return fmt.Sprintf(p.opts.SelectionFormat, label)
}
