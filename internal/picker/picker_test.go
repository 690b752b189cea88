package picker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-datepicker/internal/config"
	"github.com/tartampluch/go-datepicker/internal/locale"
	"github.com/tartampluch/go-datepicker/internal/picker"
	"github.com/tartampluch/go-datepicker/internal/token"
)

// -----------------------------------------------------------------------------
// Mocks & Helpers
// -----------------------------------------------------------------------------

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

// MockEditor records the edits requested by Handle.
type MockEditor struct {
	mock.Mock
}

func (m *MockEditor) EditText(ctx context.Context, text string, view *picker.View) error {
	args := m.Called(ctx, text, view)
	return args.Error(0)
}

func (m *MockEditor) EditMarkup(ctx context.Context, view *picker.View) error {
	args := m.Called(ctx, view)
	return args.Error(0)
}

// now is June 15th, 2025.
var now = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

var catalog *locale.Catalog

func TestMain(m *testing.M) {
	var err error
	if catalog, err = locale.NewCatalog(); err != nil {
		panic(err)
	}
	m.Run()
}

func newPicker(t *testing.T, mutate func(*picker.Options)) *picker.Picker {
	t.Helper()
	opts := picker.DefaultOptions()
	if mutate != nil {
		mutate(&opts)
	}
	p, err := picker.New(opts, catalog, MockClock{CurrentTime: now})
	require.NoError(t, err)
	return p
}

func texts(row []picker.Button) []string {
	out := make([]string, len(row))
	for i, b := range row {
		out[i] = b.Text
	}
	return out
}

func decode(t *testing.T, b picker.Button) token.State {
	t.Helper()
	s, err := token.Decode(b.Data)
	require.NoError(t, err)
	return s
}

// findButton returns the first button whose label matches.
func findButton(t *testing.T, v *picker.View, text string) picker.Button {
	t.Helper()
	for _, row := range v.Keyboard {
		for _, b := range row {
			if b.Text == text {
				return b
			}
		}
	}
	require.Failf(t, "button not found", "%q", text)
	return picker.Button{}
}

func mustStart(t *testing.T, p *picker.Picker, so picker.StartOptions) *picker.View {
	t.Helper()
	v, err := p.Start(so)
	require.NoError(t, err)
	return v
}

func mustProcess(t *testing.T, p *picker.Picker, b picker.Button) picker.Result {
	t.Helper()
	res, err := p.Process(b.Data)
	require.NoError(t, err)
	return res
}

// -----------------------------------------------------------------------------
// Construction & Options
// -----------------------------------------------------------------------------

func TestNew_RejectsLossyDateFormat(t *testing.T) {
	for _, layout := range []string{"02.01", "01.2006", "02.2006", "Jan 2006", "15:04"} {
		t.Run(layout, func(t *testing.T) {
			opts := picker.DefaultOptions()
			opts.DateFormat = layout
			_, err := picker.New(opts, catalog, MockClock{CurrentTime: now})
			assert.ErrorIs(t, err, picker.ErrDateFormatLossy)
		})
	}

	for _, layout := range []string{"02.01.2006", "2006-01-02", "January 02, 2006", "Mon 2 Jan 06"} {
		t.Run(layout, func(t *testing.T) {
			opts := picker.DefaultOptions()
			opts.DateFormat = layout
			_, err := picker.New(opts, catalog, MockClock{CurrentTime: now})
			assert.NoError(t, err)
		})
	}
}

func TestNew_SelectionFormat(t *testing.T) {
	tests := []struct {
		format string
		valid  bool
	}{
		{"", true},
		{"[%s]", true},
		{"%s ✓ 100%%", true},
		{"[{}]", false},
		{"%s-%s", false},
		{"%d", false},
		{"[%%s]", false},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			opts := picker.DefaultOptions()
			opts.SelectionFormat = tt.format
			_, err := picker.New(opts, catalog, MockClock{CurrentTime: now})
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, picker.ErrSelectionFormat)
			}
		})
	}
}

func TestNew_CopiesOptions(t *testing.T) {
	blocked := []time.Time{time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)}
	opts := picker.DefaultOptions()
	opts.BlockedDays = blocked
	opts.YearRange = -10
	opts.FirstWeekday = 13

	p, err := picker.New(opts, catalog, MockClock{CurrentTime: now})
	require.NoError(t, err)

	blocked[0] = time.Date(2024, 2, 21, 0, 0, 0, 0, time.UTC)

	got := p.Options()
	assert.Equal(t, 10, got.YearRange)
	assert.Equal(t, 6, got.FirstWeekday)
	assert.Equal(t, 20, got.BlockedDays[0].Day(), "caller mutations must not leak into the picker")

	v := mustStart(t, p, picker.StartOptions{Year: 2024, Month: time.February})
	findButton(t, v, config.DefaultBlockedButton)
}

func TestOptionsFromFile(t *testing.T) {
	oneTap := true
	loc := "fr_FR"
	predefined := "2024-02-20"
	fc := config.FileConfig{
		Picker: config.PickerFile{
			OneTap:         &oneTap,
			Locale:         &loc,
			ControlButtons: []string{"‹", "›"},
			Predefined:     &predefined,
		},
		Blocked: config.BlockedFile{Days: []string{"2024-12-25"}},
	}

	opts, err := picker.OptionsFromFile(fc)
	require.NoError(t, err)
	assert.True(t, opts.OneTap)
	assert.Equal(t, "fr_FR", opts.Locale)
	assert.Equal(t, [2]string{"‹", "›"}, opts.ControlButtons)
	require.NotNil(t, opts.Predefined)
	assert.Equal(t, time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC), *opts.Predefined)
	require.Len(t, opts.BlockedDays, 1)
	assert.Equal(t, config.DefaultConfirmButton, opts.ConfirmButton, "unset fields keep defaults")

	fc.Picker.ControlButtons = []string{"<"}
	_, err = picker.OptionsFromFile(fc)
	assert.ErrorContains(t, err, config.ErrControlButtonLen)

	fc.Picker.ControlButtons = nil
	fc.Blocked.Days = []string{"25/12/2024"}
	_, err = picker.OptionsFromFile(fc)
	assert.ErrorContains(t, err, config.ErrConfigDate)
}

// -----------------------------------------------------------------------------
// Start
// -----------------------------------------------------------------------------

func TestStart_Defaults(t *testing.T) {
	p := newPicker(t, nil)
	v := mustStart(t, p, picker.StartOptions{})

	assert.Equal(t, picker.ViewDay, v.Kind)
	assert.Equal(t, 2025, v.Year)
	assert.Equal(t, time.June, v.Month)
	assert.Equal(t, []string{"<<", "Jun • 2025", ">>"}, texts(v.Keyboard[0]))

	last := v.Keyboard[len(v.Keyboard)-1]
	require.Len(t, last, 1)
	assert.Equal(t, config.DefaultConfirmButton, last[0].Text)
	assert.Equal(t, token.ActionOK, decode(t, last[0]).Action)
}

func TestStart_Predefined(t *testing.T) {
	predefined := time.Date(2023, 11, 5, 0, 0, 0, 0, time.UTC)
	p := newPicker(t, func(o *picker.Options) { o.Predefined = &predefined })

	v := mustStart(t, p, picker.StartOptions{})
	assert.Equal(t, 2023, v.Year)
	assert.Equal(t, time.November, v.Month)
	assert.Equal(t, "05.11.2023", v.SelectedDate)
	findButton(t, v, "∙5∙")

	// An explicit selection wins over the predefined date.
	v = mustStart(t, p, picker.StartOptions{Year: 2025, Month: time.January, SelectedDate: "02.01.2025"})
	assert.Equal(t, time.January, v.Month)
	findButton(t, v, "∙2∙")
}

func TestStart_Errors(t *testing.T) {
	p := newPicker(t, nil)

	_, err := p.Start(picker.StartOptions{Kind: "century"})
	assert.ErrorIs(t, err, picker.ErrUnknownView)

	_, err = p.Start(picker.StartOptions{Month: 13})
	assert.Error(t, err)

	_, err = p.Start(picker.StartOptions{SelectedDate: "2024-02-20"})
	assert.ErrorIs(t, err, picker.ErrInvalidDate)
}

func TestStart_ClampsYear(t *testing.T) {
	p := newPicker(t, func(o *picker.Options) { o.YearRange = 5 })
	v := mustStart(t, p, picker.StartOptions{Year: 1990, Month: time.March})
	assert.Equal(t, 2020, v.Year)
}

// -----------------------------------------------------------------------------
// Transitions
// -----------------------------------------------------------------------------

func TestProcess_SelectThenConfirm(t *testing.T) {
	p := newPicker(t, nil)
	v := mustStart(t, p, picker.StartOptions{Year: 2024, Month: time.February})

	res := mustProcess(t, p, findButton(t, v, "20"))
	assert.False(t, res.Done)
	assert.Equal(t, config.DefaultPlaceholder+"20.02.2024", res.Text)
	require.NotNil(t, res.View)
	assert.Equal(t, "20.02.2024", res.View.SelectedDate)
	findButton(t, res.View, "∙20∙")

	confirm := res.View.Keyboard[len(res.View.Keyboard)-1][0]
	res = mustProcess(t, p, confirm)
	assert.True(t, res.Done)
	assert.Equal(t, "20.02.2024", res.Confirmed)
	assert.Nil(t, res.View)
}

func TestProcess_ConfirmWithoutSelection(t *testing.T) {
	p := newPicker(t, nil)
	v := mustStart(t, p, picker.StartOptions{Year: 2024, Month: time.February})

	res := mustProcess(t, p, findButton(t, v, config.DefaultConfirmButton))
	assert.Equal(t, picker.Result{}, res)
}

func TestProcess_OneTap(t *testing.T) {
	p := newPicker(t, func(o *picker.Options) { o.OneTap = true })
	v := mustStart(t, p, picker.StartOptions{Year: 2024, Month: time.February})

	for _, row := range v.Keyboard {
		for _, b := range row {
			assert.NotEqual(t, config.DefaultConfirmButton, b.Text, "one-tap mode has no confirm row")
		}
	}

	day := findButton(t, v, "15")
	first := mustProcess(t, p, day)
	second := mustProcess(t, p, day)

	assert.True(t, first.Done)
	assert.Equal(t, "15.02.2024", first.Confirmed)
	assert.Nil(t, first.View, "no further render after confirmation")
	assert.Equal(t, first, second, "replaying the tap confirms the same date")
}

func TestProcess_Navigation(t *testing.T) {
	p := newPicker(t, nil)
	v := mustStart(t, p, picker.StartOptions{Year: 2024, Month: time.December, SelectedDate: "03.12.2024"})

	t.Run("next month carries the year", func(t *testing.T) {
		res := mustProcess(t, p, v.Keyboard[0][2])
		assert.Equal(t, picker.ViewDay, res.View.Kind)
		assert.Equal(t, 2025, res.View.Year)
		assert.Equal(t, time.January, res.View.Month)
		assert.Equal(t, "03.12.2024", res.View.SelectedDate, "selection survives navigation")
	})

	t.Run("previous month", func(t *testing.T) {
		res := mustProcess(t, p, v.Keyboard[0][0])
		assert.Equal(t, time.November, res.View.Month)
	})

	t.Run("header opens the month view", func(t *testing.T) {
		res := mustProcess(t, p, v.Keyboard[0][1])
		assert.Equal(t, picker.ViewMonth, res.View.Kind)
		assert.Equal(t, 2024, res.View.Year)
	})

	month := mustProcess(t, p, v.Keyboard[0][1]).View

	t.Run("month view steps years", func(t *testing.T) {
		res := mustProcess(t, p, month.Keyboard[0][2])
		assert.Equal(t, picker.ViewMonth, res.View.Kind)
		assert.Equal(t, 2025, res.View.Year)

		res = mustProcess(t, p, month.Keyboard[0][0])
		assert.Equal(t, 2023, res.View.Year)
	})

	t.Run("choosing a month returns to the day view", func(t *testing.T) {
		res := mustProcess(t, p, findButton(t, month, "Mar"))
		assert.Equal(t, picker.ViewDay, res.View.Kind)
		assert.Equal(t, 2024, res.View.Year)
		assert.Equal(t, time.March, res.View.Month)
		assert.Equal(t, "03.12.2024", res.View.SelectedDate)
	})

	decade := mustProcess(t, p, month.Keyboard[0][1]).View

	t.Run("year label opens the decade view", func(t *testing.T) {
		assert.Equal(t, picker.ViewDecade, decade.Kind)
		assert.Equal(t, "2020-2029", decade.Keyboard[0][1].Text)
	})

	t.Run("choosing a year returns to the month view", func(t *testing.T) {
		res := mustProcess(t, p, findButton(t, decade, "2027"))
		assert.Equal(t, picker.ViewMonth, res.View.Kind)
		assert.Equal(t, 2027, res.View.Year)
	})

	t.Run("decade stepping", func(t *testing.T) {
		res := mustProcess(t, p, decade.Keyboard[0][2])
		assert.Equal(t, picker.ViewDecade, res.View.Kind)
		assert.Equal(t, 2034, res.View.Year)
		assert.Equal(t, "2030-2039", res.View.Keyboard[0][1].Text)
	})
}

func TestProcess_NoOps(t *testing.T) {
	p := newPicker(t, nil)
	v := mustStart(t, p, picker.StartOptions{Year: 2024, Month: time.February})

	// Weekday header, empty leading cell, decade label.
	for _, b := range []picker.Button{v.Keyboard[1][0], v.Keyboard[2][0]} {
		res := mustProcess(t, p, b)
		assert.Equal(t, picker.Result{}, res)
	}

	decade := mustStart(t, p, picker.StartOptions{Kind: picker.ViewDecade, Year: 2024})
	assert.Equal(t, picker.Result{}, mustProcess(t, p, decade.Keyboard[0][1]))
}

func TestProcess_PrevMonthClampsAtLowerBound(t *testing.T) {
	p := newPicker(t, func(o *picker.Options) { o.YearRange = 5 })
	v := mustStart(t, p, picker.StartOptions{Year: 2020, Month: time.January})

	res := mustProcess(t, p, v.Keyboard[0][0])
	assert.Equal(t, 2020, res.View.Year, "year stays at now-yearRange")
	assert.Equal(t, time.January, res.View.Month)
}

func TestProcess_NextDecadeStaysInRange(t *testing.T) {
	p := newPicker(t, nil)
	v := mustStart(t, p, picker.StartOptions{Kind: picker.ViewDecade, Year: 2024})

	for i := 0; i < 20; i++ {
		res := mustProcess(t, p, v.Keyboard[0][2])
		v = res.View
		require.GreaterOrEqual(t, v.Year, now.Year()-config.DefaultYearRange)
		require.LessOrEqual(t, v.Year, now.Year()+config.DefaultYearRange)
	}
	assert.Equal(t, now.Year()+config.DefaultYearRange, v.Year)
}

func TestProcess_BlockedDay(t *testing.T) {
	p := newPicker(t, func(o *picker.Options) {
		o.BlockedDays = []time.Time{time.Date(2024, 2, 20, 12, 0, 0, 0, time.Local)}
	})
	v := mustStart(t, p, picker.StartOptions{Year: 2024, Month: time.February, SelectedDate: "19.02.2024"})

	// Feb 2024, Monday first: the 20th is the second cell of the fourth week.
	cell := v.Keyboard[5][1]
	assert.Equal(t, config.DefaultBlockedButton, cell.Text)
	s := decode(t, cell)
	assert.Equal(t, token.ActionBlocked, s.Action)
	assert.Equal(t, "20.02.2024", s.Date)

	assert.Equal(t, picker.Result{}, mustProcess(t, p, cell))

	// A forged select on a blocked day is ignored as well.
	forged, err := token.Encode(token.State{Action: token.ActionSelect, Date: "20.02.2024", Month: 2, Year: 2024, Day: token.Int(20)})
	require.NoError(t, err)
	res, err := p.Process(forged)
	require.NoError(t, err)
	assert.Equal(t, picker.Result{}, res)
}

func TestProcess_MalformedTokens(t *testing.T) {
	p := newPicker(t, nil)

	tests := []struct {
		name string
		data string
	}{
		{"garbage", "hello"},
		{"foreign widget", "calendar:next_m::2:2024:::"},
		{"missing month", "datepicker:next_m:::2024:::"},
		{"selection in another layout", "datepicker:next_m::2:2024:::2024-02-20"},
		{"select with bad date", "datepicker:select:30.02.2024:2:2024::30:30.02.2024"},
		{"ok with bad date", "datepicker:ok:yesterday:2:2024:::"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Process(tt.data)
			assert.ErrorIs(t, err, token.ErrMalformedToken)
		})
	}
}

// -----------------------------------------------------------------------------
// Handle
// -----------------------------------------------------------------------------

func TestHandle_EditFailureIsSwallowed(t *testing.T) {
	p := newPicker(t, nil)
	v := mustStart(t, p, picker.StartOptions{Year: 2024, Month: time.February})
	ctx := context.Background()

	ed := new(MockEditor)
	ed.On("EditMarkup", ctx, mock.Anything).Return(errors.New("message is not modified"))

	res, err := p.Handle(ctx, v.Keyboard[0][2].Data, ed)
	require.NoError(t, err)
	assert.Equal(t, time.March, res.View.Month)
	ed.AssertExpectations(t)
}

func TestHandle_SelectEditsText(t *testing.T) {
	p := newPicker(t, nil)
	v := mustStart(t, p, picker.StartOptions{Year: 2024, Month: time.February})
	ctx := context.Background()

	ed := new(MockEditor)
	ed.On("EditText", ctx, config.DefaultPlaceholder+"01.02.2024", mock.AnythingOfType("*picker.View")).Return(nil)

	res, err := p.Handle(ctx, findButton(t, v, "1").Data, ed)
	require.NoError(t, err)
	assert.False(t, res.Done)
	ed.AssertExpectations(t)
	ed.AssertNotCalled(t, "EditMarkup", mock.Anything, mock.Anything)
}

func TestHandle_NoEditForTerminalOrNoop(t *testing.T) {
	p := newPicker(t, func(o *picker.Options) { o.OneTap = true })
	v := mustStart(t, p, picker.StartOptions{Year: 2024, Month: time.February})

	ed := new(MockEditor)
	res, err := p.Handle(context.Background(), findButton(t, v, "15").Data, ed)
	require.NoError(t, err)
	assert.Equal(t, "15.02.2024", res.Confirmed)

	_, err = p.Handle(context.Background(), v.Keyboard[1][3].Data, ed)
	require.NoError(t, err)

	ed.AssertNotCalled(t, "EditText", mock.Anything, mock.Anything, mock.Anything)
	ed.AssertNotCalled(t, "EditMarkup", mock.Anything, mock.Anything)
}

func TestHandle_DecodeErrorIsReturned(t *testing.T) {
	p := newPicker(t, nil)
	_, err := p.Handle(context.Background(), "datepicker:nope::1:2024:::", new(MockEditor))
	assert.ErrorIs(t, err, token.ErrMalformedToken)
}
