package picker

import (
	"context"
	"fmt"
	"time"

	"github.com/tartampluch/go-datepicker/internal/calendar"
	"github.com/tartampluch/go-datepicker/internal/config"
	"github.com/tartampluch/go-datepicker/internal/token"
)

// Result is the outcome of one tap.
type Result struct {
	// View is the keyboard to show next; nil when nothing changes or the picker is done.
	View *View
	// Text replaces the message text when non-empty.
	Text string
	// Confirmed is the chosen date, formatted with the configured layout, when Done.
	Confirmed string
	Done      bool
}

// Editor applies a Result to the message that carries the keyboard.
type Editor interface {
	EditText(ctx context.Context, text string, view *View) error
	EditMarkup(ctx context.Context, view *View) error
}

// Process decodes a button payload and computes the next state.
// It has no side effects; replaying the same payload gives the same Result.
func (p *Picker) Process(data string) (Result, error) {
	s, err := token.Decode(data)
	if err != nil {
		return Result{}, err
	}

	switch s.Action {
	case token.ActionIgnore, token.ActionBlocked, token.ActionWeekday:
		p.log.Debug(config.MsgNoop, config.LogKeyAction, string(s.Action))
		return Result{}, nil
	case token.ActionOK:
		return p.confirm(s.Date)
	case token.ActionSelect:
		return p.selectDay(s)
	}

	if s.Month == 0 || s.Year == 0 {
		return Result{}, fmt.Errorf("%w: %s: %s needs month and year", token.ErrMalformedToken, config.ErrTokenRange, s.Action)
	}
	if s.SelectedDate != "" {
		if _, err := p.parseDate(s.SelectedDate); err != nil {
			return Result{}, err
		}
	}

	r := p.yearRange()
	year, month := r.Clamp(s.Year), time.Month(s.Month)

	var view *View
	switch s.Action {
	case token.ActionSelectMonth:
		view, err = p.renderDay(year, month, s.SelectedDate)
	case token.ActionSelectYear, token.ActionChangeMonth:
		view, err = p.renderMonth(year, month, s.SelectedDate)
	case token.ActionChangeYear:
		view, err = p.renderDecade(year, month, s.SelectedDate)
	case token.ActionNextMonth, token.ActionPrevMonth:
		delta := 1
		if s.Action == token.ActionPrevMonth {
			delta = -1
		}
		year, month = calendar.StepMonth(year, month, delta, r)
		view, err = p.renderDay(year, month, s.SelectedDate)
	case token.ActionNextYear, token.ActionPrevYear:
		delta := 1
		if s.Action == token.ActionPrevYear {
			delta = -1
		}
		view, err = p.renderMonth(calendar.StepYear(year, delta, r), month, s.SelectedDate)
	case token.ActionNextDecade, token.ActionPrevDecade:
		delta := 1
		if s.Action == token.ActionPrevDecade {
			delta = -1
		}
		view, err = p.renderDecade(calendar.StepDecade(year, delta, r), month, s.SelectedDate)
	default:
		err = fmt.Errorf("%w: %s: %q", token.ErrMalformedToken, config.ErrTokenAction, s.Action)
	}
	if err != nil {
		return Result{}, err
	}

	p.log.Debug(config.MsgTransition,
		config.LogKeyAction, string(s.Action),
		config.LogKeyView, string(view.Kind),
		config.LogKeyYear, view.Year,
		config.LogKeyMonth, int(view.Month),
	)
	return Result{View: view}, nil
}

func (p *Picker) selectDay(s token.State) (Result, error) {
	t, err := p.parseDate(s.Date)
	if err != nil {
		return Result{}, err
	}
	if p.isBlocked(calendar.DateOf(t)) {
		p.log.Debug(config.MsgNoop, config.LogKeyAction, string(s.Action), config.LogKeyDate, s.Date)
		return Result{}, nil
	}
	if p.opts.OneTap {
		return p.confirm(s.Date)
	}

	view, err := p.renderDay(p.yearRange().Clamp(t.Year()), t.Month(), s.Date)
	if err != nil {
		return Result{}, err
	}
	return Result{View: view, Text: p.opts.Placeholder + s.Date}, nil
}

// confirm ends the interaction. Without a selection there is nothing to confirm.
func (p *Picker) confirm(date string) (Result, error) {
	if date == "" {
		p.log.Debug(config.MsgNoop, config.LogKeyAction, string(token.ActionOK))
		return Result{}, nil
	}
	if _, err := p.parseDate(date); err != nil {
		return Result{}, err
	}
	p.log.Info(config.MsgConfirmed, config.LogKeyDate, date)
	return Result{Confirmed: date, Done: true}, nil
}

// Handle processes a tap and applies the resulting edit through ed.
// The edit may fail when the message was deleted or already shows the same
// keyboard; that failure is logged and dropped because the transition itself
// succeeded. Only token errors are returned.
func (p *Picker) Handle(ctx context.Context, data string, ed Editor) (Result, error) {
	res, err := p.Process(data)
	if err != nil {
		return Result{}, err
	}
	if res.View == nil {
		return res, nil
	}

	if res.Text != "" {
		err = ed.EditText(ctx, res.Text, res.View)
	} else {
		err = ed.EditMarkup(ctx, res.View)
	}
	if err != nil {
		p.log.DebugContext(ctx, config.ErrEditFailed,
			config.LogKeyView, string(res.View.Kind),
			config.LogKeyError, err,
		)
	}
	return res, nil
}
