package picker

import (
	"fmt"
	"time"

	"github.com/tartampluch/go-datepicker/internal/config"
)

// Options configures a Picker. Start from DefaultOptions and override fields;
// New copies everything it keeps, so later changes to the caller's slices have no effect.
type Options struct {
	Placeholder     string     // prefix of the message text after a date is selected
	OneTap          bool       // a single tap on a day confirms it
	Locale          string     // e.g. "en_US", "fr_FR.UTF-8", "pt-BR"
	FirstWeekday    int        // 0 = Monday ... 6 = Sunday
	ControlButtons  [2]string  // previous / next labels
	BlockedDays     []time.Time
	BlockedButton   string
	EmptyButton     string
	DateFormat      string // Go time layout
	YearRange       int    // allowed span in years on both sides of the current year
	ConfirmButton   string
	SelectionFormat string // must contain one %s; empty disables highlighting
	Predefined      *time.Time
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		Placeholder:     config.DefaultPlaceholder,
		Locale:          config.DefaultLocale,
		FirstWeekday:    config.DefaultFirstWeekday,
		ControlButtons:  [2]string{config.DefaultPrevButton, config.DefaultNextButton},
		BlockedButton:   config.DefaultBlockedButton,
		EmptyButton:     config.DefaultEmptyButton,
		DateFormat:      config.DefaultDateFormat,
		YearRange:       config.DefaultYearRange,
		ConfirmButton:   config.DefaultConfirmButton,
		SelectionFormat: config.DefaultSelectionFormat,
	}
}

// OptionsFromFile overlays the values set in a configuration file on DefaultOptions.
func OptionsFromFile(fc config.FileConfig) (Options, error) {
	opts := DefaultOptions()
	p := fc.Picker

	setString(&opts.Placeholder, p.Placeholder)
	setString(&opts.Locale, p.Locale)
	setString(&opts.BlockedButton, p.BlockedButton)
	setString(&opts.EmptyButton, p.EmptyButton)
	setString(&opts.DateFormat, p.DateFormat)
	setString(&opts.ConfirmButton, p.ConfirmButton)
	setString(&opts.SelectionFormat, p.SelectionFormat)
	if p.OneTap != nil {
		opts.OneTap = *p.OneTap
	}
	if p.FirstWeekday != nil {
		opts.FirstWeekday = *p.FirstWeekday
	}
	if p.YearRange != nil {
		opts.YearRange = *p.YearRange
	}
	if p.ControlButtons != nil {
		if len(p.ControlButtons) != len(opts.ControlButtons) {
			return Options{}, fmt.Errorf("%s: got %d", config.ErrControlButtonLen, len(p.ControlButtons))
		}
		copy(opts.ControlButtons[:], p.ControlButtons)
	}
	if p.Predefined != nil {
		t, err := time.Parse(config.DateFormatFile, *p.Predefined)
		if err != nil {
			return Options{}, fmt.Errorf("%s: predefined: %w", config.ErrConfigDate, err)
		}
		opts.Predefined = &t
	}

	for _, raw := range fc.Blocked.Days {
		t, err := time.Parse(config.DateFormatFile, raw)
		if err != nil {
			return Options{}, fmt.Errorf("%s: blocked: %w", config.ErrConfigDate, err)
		}
		opts.BlockedDays = append(opts.BlockedDays, t)
	}
	return opts, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
