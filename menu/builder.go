package menu

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrNoMenuTable reports that the menu page was absent or yielded no table.
// The Builder still returns the complete all-empty week alongside it, so
// callers can degrade to "no dishes" messaging instead of aborting.
var ErrNoMenuTable = errors.New("menu: no menu table available")

// Source is the document extraction contract the Builder consumes. Page
// numbers are 1-based. The footnote legend is expected on the last page, the
// menu table on the configured page.
type Source interface {
	PageCount() int
	PageText(pageNr int) (string, error)
	PageTable(pageNr int) ([][]string, error)
}

// Config configures a Builder.
type Config struct {
	// MenuPage is the 1-based page holding the menu table (default: 2).
	MenuPage int

	// DayColumns are the five Monday–Friday column indices within each
	// table row (default: 4, 8, 12, 16, 20).
	DayColumns []int

	// FilterWords are lowercase substrings; a dish whose title contains one
	// is dropped.
	FilterWords []string

	// FilterAllergens are allergen names resolved against the legend; a dish
	// carrying a resolved code is dropped.
	FilterAllergens []string

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.MenuPage <= 0 {
		c.MenuPage = 2
	}
	if len(c.DayColumns) == 0 {
		c.DayColumns = []int{4, 8, 12, 16, 20}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Builder turns one extracted menu document into the per-day dish mapping.
// It holds no mutable state across Build calls and is safe for concurrent
// use.
type Builder struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Builder with the given configuration.
func New(cfg Config) *Builder {
	cfg.defaults()
	return &Builder{cfg: cfg, logger: cfg.Logger}
}

// Build resolves the legend, merges the table cells and extracts dishes for
// the whole week. Every weekday key is always present; Saturday and Sunday
// stay empty. A missing menu page or table returns the all-empty week wrapped
// with ErrNoMenuTable. A missing legend is fatal only when allergen filters
// were configured and therefore cannot be resolved.
func (b *Builder) Build(src Source) (DishesByDay, error) {
	filters, err := b.resolveFilters(src)
	if err != nil {
		return nil, err
	}

	week := emptyWeek()

	if src.PageCount() < b.cfg.MenuPage {
		b.logger.Error("menu page missing", "pages", src.PageCount(), "want", b.cfg.MenuPage)
		return week, ErrNoMenuTable
	}
	table, err := src.PageTable(b.cfg.MenuPage)
	if err != nil || len(table) == 0 {
		b.logger.Error("no table extracted from menu page", "page", b.cfg.MenuPage, "error", err)
		return week, ErrNoMenuTable
	}

	merged := MergeRows(table, b.cfg.DayColumns)
	total := 0
	for day, cells := range merged {
		for _, cell := range cells {
			dish, ok := extractDish(cell, filters)
			if !ok {
				continue
			}
			week[Weekdays[day]] = append(week[Weekdays[day]], dish)
			total++
		}
	}

	b.logger.Info("menu built", "dishes", total)
	return week, nil
}

// resolveFilters builds the FilterSet for this run: the word list as
// configured, the allergen names resolved through the footnote legend.
func (b *Builder) resolveFilters(src Source) (FilterSet, error) {
	filters := FilterSet{Codes: map[string]bool{}}
	for _, w := range b.cfg.FilterWords {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			filters.Words = append(filters.Words, w)
		}
	}
	if len(b.cfg.FilterAllergens) == 0 {
		return filters, nil
	}

	text, err := src.PageText(src.PageCount())
	if err != nil {
		return FilterSet{}, fmt.Errorf("menu: allergen filters configured but legend text unavailable: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return FilterSet{}, errors.New("menu: allergen filters configured but legend text is empty")
	}
	legend := ParseLegend(text)
	codes, missing := legend.Resolve(b.cfg.FilterAllergens)
	for _, name := range missing {
		b.logger.Warn("allergen filter not found in legend", "name", name)
	}
	for code := range codes {
		b.logger.Info("filtering allergen code", "code", code)
	}
	filters.Codes = codes
	return filters, nil
}
