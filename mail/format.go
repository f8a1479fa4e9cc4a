// Package mail composes and sends the menu notification email.
package mail

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/mensawerk/mensamail/menu"
)

// Formatter renders the per-day dish mapping into an HTML mail body. Dish
// titles come from an extracted document and pass through a strict
// sanitization policy before being interpolated into markup.
type Formatter struct {
	policy *bluemonday.Policy
	now    func() time.Time
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) FormatterOption {
	return func(f *Formatter) { f.now = now }
}

// NewFormatter creates a Formatter.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		policy: bluemonday.StrictPolicy(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Subject builds the mail subject for the current date.
func (f *Formatter) Subject() string {
	return "Mensa Menü – " + f.now().Format("02.01")
}

// Body renders the HTML mail: today's dishes, and tomorrow's on Monday
// through Thursday. On weekends it degrades to a friendly empty message.
func (f *Formatter) Body(week menu.DishesByDay) string {
	todayIdx := mondayIndex(f.now().Weekday())

	var sb strings.Builder
	sb.WriteString(`<html><head><style>body { font-family: sans-serif; } h2, h3 { color: #333; } p { margin: 0.5em 0; }</style></head><body>`)
	sb.WriteString("<h1>Mensa Menü</h1><hr>")

	type shown struct {
		label string
		day   string
	}
	var days []shown
	if todayIdx < 5 {
		days = append(days, shown{"Heute", menu.Weekdays[todayIdx]})
	}
	if todayIdx < 4 {
		days = append(days, shown{"Morgen", menu.Weekdays[todayIdx+1]})
	}

	if len(days) == 0 {
		sb.WriteString("<p>Schönes Wochenende! Keine Gerichte für heute oder morgen verfügbar.</p>")
	}
	for _, d := range days {
		fmt.Fprintf(&sb, "<h2>%s (%s)</h2>", d.label, d.day)
		dishes := week[d.day]
		if len(dishes) == 0 {
			sb.WriteString("<p>Keine Gerichte verfügbar.</p>")
		} else {
			f.writeSection(&sb, dishes, menu.CategoryMain, "Hauptgerichte")
			f.writeSection(&sb, dishes, menu.CategorySide, "Beilagen")
		}
		sb.WriteString("<br>")
	}

	sb.WriteString("<hr><p><small>Automatisch generiert.</small></p></body></html>")
	return sb.String()
}

// writeSection renders one category, cheapest dish first.
func (f *Formatter) writeSection(sb *strings.Builder, dishes []menu.Dish, cat menu.Category, title string) {
	var selected []menu.Dish
	for _, d := range dishes {
		if d.Category == cat {
			selected = append(selected, d)
		}
	}
	if len(selected) == 0 {
		return
	}
	sort.SliceStable(selected, func(i, j int) bool { return selected[i].Price < selected[j].Price })

	fmt.Fprintf(sb, "<h3>%s</h3>", title)
	for _, d := range selected {
		fmt.Fprintf(sb, "<p><b>%s</b><br>%.2f€</p>", f.policy.Sanitize(d.Title), d.Price)
	}
}

// mondayIndex converts Go's Sunday-based weekday to Monday=0.
func mondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
