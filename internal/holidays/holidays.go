// Package holidays turns an iCalendar feed (a public holiday calendar, a
// booking export) into the list of days the picker must refuse.
package holidays

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-datepicker/internal/config"
)

// Source locates the feed.
type Source struct {
	Mode string // config.SourceModeLocal or config.SourceModeWeb
	Path string
	URL  string
	User string
	Pass string
}

// SourceFor guesses the mode from a path or http(s) URL.
func SourceFor(location string) Source {
	u, err := url.Parse(location)
	if err == nil && (u.Scheme == config.SchemeHTTP || u.Scheme == config.SchemeHTTPS) {
		return Source{Mode: config.SourceModeWeb, URL: location}
	}
	return Source{Mode: config.SourceModeLocal, Path: location}
}

// Loader reads blocked days from a Source.
type Loader struct {
	Fetcher Fetcher // nil uses NewHTTPFetcher for web sources
}

// Load returns one entry per blocked day, at midnight UTC, in feed order.
func (l *Loader) Load(ctx context.Context, src Source) ([]time.Time, error) {
	log := slog.With(
		config.LogKeyComponent, config.CompHolidays,
		config.LogKeyMode, src.Mode,
	)

	reader, err := l.open(ctx, src)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w", config.ErrBlockedSource, err)
	}
	defer func() { _ = reader.Close() }()

	days, err := parse(ctx, reader)
	if err != nil {
		return nil, err
	}
	log.InfoContext(ctx, config.MsgBlockedLoaded, config.LogKeyCount, len(days))
	return days, nil
}

func (l *Loader) open(ctx context.Context, src Source) (io.ReadCloser, error) {
	switch src.Mode {
	case config.SourceModeLocal:
		if src.Path == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(src.Path)
	case config.SourceModeWeb:
		if src.URL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		f := l.Fetcher
		if f == nil {
			f = NewHTTPFetcher()
		}
		return f.Fetch(ctx, src.URL, src.User, src.Pass)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, src.Mode)
	}
}

// parse expands every VEVENT into the days it covers. All-day events end on
// their exclusive DTEND; an event without DTEND blocks its start day only.
func parse(ctx context.Context, r io.Reader) ([]time.Time, error) {
	dec := ical.NewDecoder(r)
	seen := make(map[time.Time]struct{})
	var days []time.Time

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cal, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrICalDecode, err)
		}

		for _, event := range cal.Events() {
			start, err := event.DateTimeStart(time.UTC)
			if err != nil {
				slog.Warn(config.ErrEventDate,
					config.LogKeyComponent, config.CompHolidays,
					config.LogKeyError, err,
				)
				continue
			}
			first := midnight(start)
			end, err := event.DateTimeEnd(time.UTC)
			if err != nil || !end.After(start) {
				end = first.AddDate(0, 0, 1)
			}

			for d := first; d.Before(end); d = d.AddDate(0, 0, 1) {
				if _, dup := seen[d]; dup {
					continue
				}
				seen[d] = struct{}{}
				days = append(days, d)
			}
		}
	}
	return days, nil
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
