// Package locale supplies the month and weekday abbreviations rendered by the
// picker. The names live in an embedded go-i18n bundle, one JSON file per language.
package locale

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-datepicker/internal/config"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Names holds the abbreviations for one locale.
type Names struct {
	Tag      language.Tag
	Months   [config.MonthsPerYear]string // index 0 is January
	Weekdays [config.DaysPerWeek]string   // index 0 is Monday
}

// Month returns the abbreviation of m.
func (n Names) Month(m time.Month) string {
	return n.Months[m-1]
}

// Catalog is the loaded translation bundle. It is read-only after NewCatalog.
type Catalog struct {
	bundle    *i18n.Bundle
	languages []string
}

// NewCatalog loads every embedded locale file.
// Files that fail to load are logged and skipped; English is always the fallback.
func NewCatalog() (*Catalog, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc(config.LocaleUnmarshal, json.Unmarshal)

	entries, err := localeFS.ReadDir(config.LocaleDir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrLocalesAccess, err)
	}

	var detected []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, config.LocaleFilePrefix) || !strings.HasSuffix(name, config.LocaleFileSuffix) {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, config.LocaleFilePrefix), config.LocaleFileSuffix)
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, config.LocaleDir+"/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		detected = append(detected, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
		)
	}

	return &Catalog{bundle: bundle, languages: detected}, nil
}

// Languages lists the language codes found in the embedded files.
func (c *Catalog) Languages() []string {
	return append([]string(nil), c.languages...)
}

// ParseTag accepts POSIX ("ru_RU.UTF-8") and BCP 47 ("pt-BR") identifiers.
// Unparseable identifiers fall back to English.
func ParseTag(id string) language.Tag {
	id, _, _ = strings.Cut(id, ".")
	id, _, _ = strings.Cut(id, "@")
	id = strings.ReplaceAll(id, "_", "-")
	if id == "" || strings.EqualFold(id, "C") || strings.EqualFold(id, "POSIX") {
		return language.English
	}
	tag, err := language.Parse(id)
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, id,
			config.LogKeyError, err,
		)
		return language.English
	}
	return tag
}

// Names resolves the abbreviations for a locale identifier. Month names are
// capitalized with the locale's casing rules; weekday names are kept as written.
func (c *Catalog) Names(id string) Names {
	tag := ParseTag(id)
	localizer := i18n.NewLocalizer(c.bundle, tag.String())
	title := cases.Title(tag, cases.NoLower)

	names := Names{Tag: tag}
	for i := range names.Months {
		m := time.Month(i + 1)
		fallback := m.String()[:3]
		names.Months[i] = title.String(c.msg(localizer, fmt.Sprintf(config.TKeyMonthAbbr, i+1), fallback))
	}
	for i := range names.Weekdays {
		// time.Weekday counts from Sunday.
		fallback := time.Weekday((i + 1) % config.DaysPerWeek).String()[:3]
		names.Weekdays[i] = c.msg(localizer, fmt.Sprintf(config.TKeyWeekdayAbbr, i), fallback)
	}
	return names
}

// msg translates a key, falling back to English text when every lookup fails.
func (c *Catalog) msg(localizer *i18n.Localizer, key, fallback string) string {
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: key})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		if msg == "" {
			return fallback
		}
	}
	return msg
}
