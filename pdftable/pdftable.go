// Package pdftable extracts per-page text and a best-effort table matrix
// from a PDF document. Text is pulled from the page content streams with a
// small operator interpreter that keeps track of text positioning, so runs
// can be bucketed into the rows and columns of a printed table.
//
// Usage:
//
//	ex, err := pdftable.FromBytes(pdfData)
//	text, err := ex.PageText(ex.PageCount()) // footnote legend
//	table, err := ex.PageTable(2)            // menu grid
package pdftable

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Extractor provides page-level access to one parsed PDF document.
type Extractor struct {
	ctx    *model.Context
	rowTol float64
	colTol float64
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRowTolerance sets the vertical distance (in PDF units) within which
// text runs are considered part of the same row. Default: 3.
func WithRowTolerance(tol float64) Option {
	return func(e *Extractor) { e.rowTol = tol }
}

// WithColumnTolerance sets the horizontal distance within which text runs
// share a column. Default: 12.
func WithColumnTolerance(tol float64) Option {
	return func(e *Extractor) { e.colTol = tol }
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// Open reads, validates and optimizes a PDF from rs.
func Open(rs io.ReadSeeker, opts ...Option) (*Extractor, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(rs, conf)
	if err != nil {
		return nil, fmt.Errorf("pdftable: read: %w", err)
	}
	e := &Extractor{
		ctx:    ctx,
		rowTol: 3,
		colTol: 12,
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

// FromBytes opens a PDF held in memory.
func FromBytes(data []byte, opts ...Option) (*Extractor, error) {
	return Open(bytes.NewReader(data), opts...)
}

// PageCount returns the number of pages in the document.
func (e *Extractor) PageCount() int {
	return e.ctx.PageCount
}

// PageText extracts the text of one page (1-based), reading order top to
// bottom, left to right. Lines are separated by newlines.
func (e *Extractor) PageText(pageNr int) (string, error) {
	runs, err := e.pageRuns(pageNr)
	if err != nil {
		return "", err
	}
	return layoutText(runs, e.rowTol), nil
}

// PageTable extracts the text of one page as a row×column matrix. Rows are
// ordered top of page first; columns are derived by clustering the runs'
// horizontal positions. Cells without text are empty strings.
func (e *Extractor) PageTable(pageNr int) ([][]string, error) {
	runs, err := e.pageRuns(pageNr)
	if err != nil {
		return nil, err
	}
	matrix := buildMatrix(runs, e.rowTol, e.colTol)
	e.logger.Debug("pdftable: table extracted",
		"page", pageNr, "rows", len(matrix), "runs", len(runs))
	return matrix, nil
}

func (e *Extractor) pageRuns(pageNr int) ([]textRun, error) {
	if pageNr < 1 || pageNr > e.ctx.PageCount {
		return nil, fmt.Errorf("pdftable: page %d out of range (1..%d)", pageNr, e.ctx.PageCount)
	}
	r, err := pdfcpu.ExtractPageContent(e.ctx, pageNr)
	if err != nil {
		return nil, fmt.Errorf("pdftable: page %d content: %w", pageNr, err)
	}
	if r == nil {
		return nil, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("pdftable: page %d read: %w", pageNr, err)
	}
	return parseContentStream(data), nil
}
