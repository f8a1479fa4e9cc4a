package pdftable

import (
	"strings"
	"testing"
)

func TestParseContentStreamTj(t *testing.T) {
	stream := []byte(`BT 1 0 0 1 50 700 Tm (Hello) Tj ET`)

	runs := parseContentStream(stream)
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d: %+v", len(runs), runs)
	}
	if runs[0].text != "Hello" || runs[0].x != 50 || runs[0].y != 700 {
		t.Errorf("run = %+v", runs[0])
	}
}

func TestParseContentStreamTJArray(t *testing.T) {
	stream := []byte(`BT 1 0 0 1 10 100 Tm [(Lin) -20 (sen)] TJ ET`)

	runs := parseContentStream(stream)
	if len(runs) != 1 || runs[0].text != "Linsen" {
		t.Fatalf("runs = %+v, want one 'Linsen' run", runs)
	}
}

func TestParseContentStreamTdMovesLine(t *testing.T) {
	stream := []byte(`BT 1 0 0 1 50 700 Tm (first) Tj 0 -14 Td (second) Tj ET`)

	runs := parseContentStream(stream)
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[1].y != 686 {
		t.Errorf("second run y = %v, want 686", runs[1].y)
	}
}

func TestParseContentStreamEscapes(t *testing.T) {
	stream := []byte(`BT 1 0 0 1 0 0 Tm (a\(b\)c \134 \101) Tj ET`)

	runs := parseContentStream(stream)
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].text != `a(b)c \ A` {
		t.Errorf("text = %q", runs[0].text)
	}
}

func TestParseContentStreamQuoteAdvancesLine(t *testing.T) {
	stream := []byte(`BT 14 TL 1 0 0 1 50 700 Tm (one) Tj (two) ' ET`)

	runs := parseContentStream(stream)
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[1].y != 686 {
		t.Errorf("second run y = %v, want 686", runs[1].y)
	}
}

func TestLayoutTextReadingOrder(t *testing.T) {
	runs := []textRun{
		{x: 200, y: 700, text: "right"},
		{x: 50, y: 700, text: "left"},
		{x: 50, y: 650, text: "below"},
	}

	text := layoutText(runs, 3)
	want := "left right\nbelow"
	if text != want {
		t.Errorf("text = %q, want %q", text, want)
	}
}

func TestBuildMatrix(t *testing.T) {
	// Two printed columns (x≈50 and x≈200), three lines.
	runs := []textRun{
		{x: 50, y: 700, text: "Suppe"},
		{x: 200, y: 700, text: "Salat"},
		{x: 51, y: 686, text: "3,50 € | 4,00 € | 4,50 €"},
		{x: 201, y: 672, text: "0,80 € | 0,90 € | 1,00 €"},
	}

	matrix := buildMatrix(runs, 3, 12)
	if len(matrix) != 3 {
		t.Fatalf("expected 3 rows, got %d: %q", len(matrix), matrix)
	}
	if matrix[0][0] != "Suppe" || matrix[0][1] != "Salat" {
		t.Errorf("row 0 = %q", matrix[0])
	}
	if !strings.HasPrefix(matrix[1][0], "3,50") || matrix[1][1] != "" {
		t.Errorf("row 1 = %q", matrix[1])
	}
	if matrix[2][0] != "" || !strings.HasPrefix(matrix[2][1], "0,80") {
		t.Errorf("row 2 = %q", matrix[2])
	}
}

func TestReadHexString(t *testing.T) {
	s, _ := readHexString([]byte("<48656C6C6F>"), 0)
	if s != "Hello" {
		t.Errorf("hex string = %q, want Hello", s)
	}
}
