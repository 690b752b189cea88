package picker

import (
	"fmt"
	"strconv"
	"time"

	"github.com/tartampluch/go-datepicker/internal/calendar"
	"github.com/tartampluch/go-datepicker/internal/config"
	"github.com/tartampluch/go-datepicker/internal/token"
)

// ViewKind is the zoom level of the keyboard.
type ViewKind string

const (
	ViewDay    ViewKind = "day"
	ViewMonth  ViewKind = "month"
	ViewDecade ViewKind = "decade"
)

// Button is one tappable control. Data is the encoded token.
type Button struct {
	Text string `json:"text"`
	Data string `json:"callback_data"`
}

// Markup is the keyboard, row by row.
type Markup [][]Button

// View is a rendered keyboard plus the state it was rendered for.
type View struct {
	Kind         ViewKind   `json:"kind"`
	Year         int        `json:"year"`
	Month        time.Month `json:"month"`
	SelectedDate string     `json:"selected_date,omitempty"`
	Keyboard     Markup     `json:"inline_keyboard"`
}

// rowBuilder accumulates buttons and wraps rows at a fixed width.
type rowBuilder struct {
	rows  Markup
	width int
	err   error
}

func (b *rowBuilder) row(buttons ...Button) {
	b.rows = append(b.rows, buttons)
}

func (b *rowBuilder) add(text string, s token.State) {
	btn := b.button(text, s)
	last := len(b.rows) - 1
	if last < 0 || len(b.rows[last]) >= b.width {
		b.rows = append(b.rows, []Button{btn})
		return
	}
	b.rows[last] = append(b.rows[last], btn)
}

// wrap starts a new row on the next add.
func (b *rowBuilder) wrap(width int) {
	b.width = width
	b.rows = append(b.rows, nil)
}

func (b *rowBuilder) button(text string, s token.State) Button {
	data, err := token.Encode(s)
	if err != nil && b.err == nil {
		b.err = err
	}
	return Button{Text: text, Data: data}
}

func (b *rowBuilder) markup() (Markup, error) {
	if b.err != nil {
		return nil, b.err
	}
	rows := make(Markup, 0, len(b.rows))
	for _, r := range b.rows {
		if len(r) > 0 {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

func (p *Picker) renderDay(year int, month time.Month, selected string) (*View, error) {
	m := int(month)
	b := &rowBuilder{}

	b.row(
		b.button(p.opts.ControlButtons[0], token.State{Action: token.ActionPrevMonth, Month: m, Year: year, SelectedDate: selected}),
		b.button(fmt.Sprintf(config.FormatMonthHeader, p.names.Month(month), year),
			token.State{Action: token.ActionChangeMonth, Month: m, Year: year, SelectedDate: selected}),
		b.button(p.opts.ControlButtons[1], token.State{Action: token.ActionNextMonth, Month: m, Year: year, SelectedDate: selected}),
	)

	b.wrap(config.DaysPerWeek)
	for col, name := range calendar.WeekdayHeader(p.opts.FirstWeekday, p.names.Weekdays) {
		b.add(name, token.State{
			Action:  token.ActionWeekday,
			Month:   m,
			Year:    year,
			Weekday: token.Int(calendar.WeekdayAt(p.opts.FirstWeekday, col)),
		})
	}

	for _, week := range calendar.MonthGrid(year, month, p.opts.FirstWeekday) {
		b.wrap(config.DaysPerWeek)
		for _, day := range week {
			text, s := p.dayCell(year, month, day, selected)
			b.add(text, s)
		}
	}

	if !p.opts.OneTap {
		b.row(b.button(p.opts.ConfirmButton, token.State{Action: token.ActionOK, Month: m, Year: year, Date: selected}))
	}

	rows, err := b.markup()
	if err != nil {
		return nil, err
	}
	return &View{Kind: ViewDay, Year: year, Month: month, SelectedDate: selected, Keyboard: rows}, nil
}

// dayCell decides the label and token of one grid cell.
func (p *Picker) dayCell(year int, month time.Month, day int, selected string) (string, token.State) {
	empty := token.State{Action: token.ActionIgnore, Month: int(month), Year: year}
	if day == 0 {
		return p.opts.EmptyButton, empty
	}

	d, err := calendar.NewDate(year, month, day)
	if err != nil {
		p.log.Warn(config.ErrRenderCell,
			config.LogKeyYear, year,
			config.LogKeyMonth, int(month),
			config.LogKeyDay, day,
			config.LogKeyError, err,
		)
		return p.opts.EmptyButton, empty
	}

	date := d.Format(p.opts.DateFormat)
	s := token.State{
		Action:       token.ActionSelect,
		Date:         date,
		Month:        int(month),
		Year:         year,
		Day:          token.Int(day),
		SelectedDate: date,
	}
	if p.isBlocked(d) {
		s.Action = token.ActionBlocked
		return p.opts.BlockedButton, s
	}

	text := strconv.Itoa(day)
	if date == selected {
		text = p.highlight(text)
	}
	return text, s
}

func (p *Picker) renderMonth(year int, month time.Month, selected string) (*View, error) {
	m := int(month)
	b := &rowBuilder{}

	b.row(
		b.button(p.opts.ControlButtons[0], token.State{Action: token.ActionPrevYear, Month: m, Year: year, SelectedDate: selected}),
		b.button(strconv.Itoa(year), token.State{Action: token.ActionChangeYear, Month: m, Year: year, SelectedDate: selected}),
		b.button(p.opts.ControlButtons[1], token.State{Action: token.ActionNextYear, Month: m, Year: year, SelectedDate: selected}),
	)

	sel, hasSel := p.selection(selected)

	b.wrap(config.MonthRowSize)
	for i := time.January; i <= time.December; i++ {
		text := p.names.Month(i)
		if hasSel && sel.Year() == year && sel.Month() == i {
			text = p.highlight(text)
		}
		b.add(text, token.State{Action: token.ActionSelectMonth, Month: int(i), Year: year, SelectedDate: selected})
	}

	rows, err := b.markup()
	if err != nil {
		return nil, err
	}
	return &View{Kind: ViewMonth, Year: year, Month: month, SelectedDate: selected, Keyboard: rows}, nil
}

func (p *Picker) renderDecade(year int, month time.Month, selected string) (*View, error) {
	m := int(month)
	b := &rowBuilder{}

	start, end := calendar.DecadeWindow(year)
	b.row(
		b.button(p.opts.ControlButtons[0], token.State{Action: token.ActionPrevDecade, Month: m, Year: year, SelectedDate: selected}),
		b.button(fmt.Sprintf(config.FormatDecadeHeader, start, end), token.State{Action: token.ActionIgnore, Month: m, Year: year, SelectedDate: selected}),
		b.button(p.opts.ControlButtons[1], token.State{Action: token.ActionNextDecade, Month: m, Year: year, SelectedDate: selected}),
	)

	sel, hasSel := p.selection(selected)
	allowed := p.yearRange()

	b.wrap(config.YearRowSize)
	for _, y := range calendar.DecadeYears(year) {
		s := token.State{Action: token.ActionIgnore, Month: m, Year: y, SelectedDate: selected}
		text := p.opts.EmptyButton
		if allowed.Contains(y) {
			s.Action = token.ActionSelectYear
			text = strconv.Itoa(y)
			if hasSel && sel.Year() == y {
				text = p.highlight(text)
			}
		}
		b.add(text, s)
	}

	rows, err := b.markup()
	if err != nil {
		return nil, err
	}
	return &View{Kind: ViewDecade, Year: year, Month: month, SelectedDate: selected, Keyboard: rows}, nil
}

// selection parses the selected date for highlighting. A value that does not
// parse is logged and treated as no selection.
func (p *Picker) selection(selected string) (time.Time, bool) {
	if selected == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(p.opts.DateFormat, selected)
	if err != nil {
		p.log.Warn(config.ErrSelectionParse,
			config.LogKeyDate, selected,
			config.LogKeyError, err,
		)
		return time.Time{}, false
	}
	return t, true
}
