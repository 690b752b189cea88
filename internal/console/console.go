// Package console drives a picker from a terminal. Each button is printed
// with its "row.col" position and a tap is typed as "row col".
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/tartampluch/go-datepicker/internal/config"
	"github.com/tartampluch/go-datepicker/internal/picker"
	"github.com/tartampluch/go-datepicker/internal/token"
)

// Console implements picker.Editor on a pair of streams.
type Console struct {
	picker *picker.Picker
	in     *bufio.Scanner
	out    io.Writer
	view   *picker.View
	log    *slog.Logger
}

// New creates a console reading taps from in and printing to out.
func New(p *picker.Picker, in io.Reader, out io.Writer) *Console {
	return &Console{
		picker: p,
		in:     bufio.NewScanner(in),
		out:    out,
		log:    slog.With(config.LogKeyComponent, config.CompConsole),
	}
}

// EditText prints the new message text above the keyboard.
func (c *Console) EditText(_ context.Context, text string, view *picker.View) error {
	_, _ = fmt.Fprintln(c.out, color.New(color.Bold).Sprint(text))
	c.show(view)
	return nil
}

// EditMarkup replaces the keyboard.
func (c *Console) EditMarkup(_ context.Context, view *picker.View) error {
	c.show(view)
	return nil
}

// Run shows start and processes taps until a date is confirmed, the user
// quits or the input ends. The confirmed date is empty in the last two cases.
func (c *Console) Run(ctx context.Context, start *picker.View) (string, error) {
	c.show(start)
	errColor := color.New(color.FgRed)

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		_, _ = fmt.Fprint(c.out, config.ConsolePrompt)
		if !c.in.Scan() {
			if err := c.in.Err(); err != nil {
				return "", fmt.Errorf("%s: %w", config.ErrInputRead, err)
			}
			return "", nil
		}

		line := strings.TrimSpace(c.in.Text())
		if line == "" {
			continue
		}
		if strings.EqualFold(line, config.ConsoleQuit) {
			return "", nil
		}

		button, err := c.lookup(line)
		if err != nil {
			_, _ = fmt.Fprintln(c.out, errColor.Sprint(err))
			continue
		}

		res, err := c.picker.Handle(ctx, button.Data, c)
		if err != nil {
			return "", err
		}
		if res.Done {
			_, _ = fmt.Fprintf(c.out, config.ConsoleConfirmed, color.New(color.FgGreen).Sprint(res.Confirmed))
			return res.Confirmed, nil
		}
	}
}

// lookup resolves a 1-based "row col" pair against the current keyboard.
func (c *Console) lookup(line string) (picker.Button, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return picker.Button{}, errors.New(config.ErrInputSyntax)
	}
	row, err1 := strconv.Atoi(fields[0])
	col, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil {
		return picker.Button{}, errors.New(config.ErrInputSyntax)
	}
	if c.view == nil || row < 1 || row > len(c.view.Keyboard) || col < 1 || col > len(c.view.Keyboard[row-1]) {
		return picker.Button{}, fmt.Errorf("%s: %d %d", config.ErrInputCell, row, col)
	}
	return c.view.Keyboard[row-1][col-1], nil
}

// show prints the keyboard as a table. Buttons that do nothing are faint.
func (c *Console) show(view *picker.View) {
	c.view = view
	c.log.Debug(config.MsgTransition,
		config.LogKeyView, string(view.Kind),
		config.LogKeyYear, view.Year,
		config.LogKeyMonth, int(view.Month),
	)

	faint := color.New(color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	for r, row := range view.Keyboard {
		cells := make([]interface{}, len(row))
		for col, b := range row {
			label := fmt.Sprintf(config.ConsoleCellFmt, r+1, col+1, b.Text)
			if inert(b) {
				label = faint.Sprint(label)
			}
			cells[col] = label
		}
		tbl.AddRow(cells...)
	}
	_, _ = fmt.Fprintln(c.out, tbl)
}

func inert(b picker.Button) bool {
	s, err := token.Decode(b.Data)
	if err != nil {
		return true
	}
	switch s.Action {
	case token.ActionIgnore, token.ActionBlocked, token.ActionWeekday:
		return true
	}
	return false
}
