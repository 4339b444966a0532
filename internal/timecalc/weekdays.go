package timecalc

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/cs"
	"github.com/go-playground/locales/de"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/es"
	"github.com/go-playground/locales/fr"
	"github.com/go-playground/locales/it"
	"github.com/go-playground/locales/nl"
	"github.com/go-playground/locales/pl"
	"github.com/go-playground/locales/pt"
	"github.com/go-playground/locales/ru"
	"github.com/go-playground/locales/uk"
)

var weekdayTranslators = map[string]func() locales.Translator{
	"cs": cs.New,
	"de": de.New,
	"en": en.New,
	"es": es.New,
	"fr": fr.New,
	"it": it.New,
	"nl": nl.New,
	"pl": pl.New,
	"pt": pt.New,
	"ru": ru.New,
	"uk": uk.New,
}

// Weekdays reads and writes weekday names of one language. English names
// are always understood. A nil *Weekdays is English only.
type Weekdays struct {
	wide  []string
	names map[string]time.Weekday
}

// NewWeekdays returns the weekday names for a POSIX or BCP 47 locale name
// such as "pl_PL.UTF-8" or "de-AT". Unsupported languages fall back to
// English.
func NewWeekdays(locale string) *Weekdays {
	newTranslator, ok := weekdayTranslators[baseLanguage(locale)]
	if !ok {
		newTranslator = en.New
	}
	tr := newTranslator()

	w := &Weekdays{names: map[string]time.Weekday{}}
	if wide := tr.WeekdaysWide(); len(wide) == 7 {
		w.wide = wide
	}
	w.add(tr.WeekdaysWide())
	w.add(tr.WeekdaysAbbreviated())
	return w
}

func (w *Weekdays) add(names []string) {
	for i, n := range names {
		if i > int(time.Saturday) || n == "" {
			continue
		}
		if _, dup := w.names[weekdayKey(n)]; !dup {
			w.names[weekdayKey(n)] = time.Weekday(i)
		}
	}
}

// Parse accepts a full or abbreviated weekday name in any letter case.
func (w *Weekdays) Parse(name string) (time.Weekday, error) {
	if w != nil {
		if wd, ok := w.names[weekdayKey(name)]; ok {
			return wd, nil
		}
	}
	wd, err := ParseWeekday(name)
	if err != nil {
		return time.Sunday, fmt.Errorf("unknown day of week %q", name)
	}
	return wd, nil
}

// Name returns the full name of wd.
func (w *Weekdays) Name(wd time.Weekday) string {
	if w == nil || w.wide == nil {
		return wd.String()
	}
	return w.wide[wd]
}

func weekdayKey(s string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), ".")
}

// baseLanguage extracts the language subtag: "pl_PL.UTF-8" -> "pl".
func baseLanguage(locale string) string {
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	if i := strings.IndexAny(locale, "_-"); i >= 0 {
		locale = locale[:i]
	}
	return strings.ToLower(locale)
}
