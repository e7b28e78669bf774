package pdf

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Document wraps an open assessment PDF and exposes per-page layout content.
type Document struct {
	path   string
	file   *os.File
	reader *pdf.Reader
	closed bool

	// pages caches extracted content so section scans do not re-parse.
	pages map[int]*PageContent
}

// Open validates and opens a PDF document for layout extraction.
func Open(path string, maxFileSize int64) (*Document, error) {
	validator := NewValidator(maxFileSize)
	if err := validator.ValidateFile(path); err != nil {
		return nil, err
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	return &Document{
		path:   path,
		file:   f,
		reader: reader,
		pages:  make(map[int]*PageContent),
	}, nil
}

// Path returns the file path the document was opened from.
func (d *Document) Path() string {
	return d.path
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	if d.closed {
		return 0
	}
	return d.reader.NumPage()
}

// Close releases the underlying file handle.
func (d *Document) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}

// Page extracts the layout content of a single page (1-based). Pages that
// fail text extraction yield empty content, not an error; extraction is
// best-effort and absence of content is a valid result.
func (d *Document) Page(pageNum int) (PageContent, error) {
	if d.closed {
		return PageContent{}, fmt.Errorf("document is closed")
	}
	if pageNum < 1 || pageNum > d.reader.NumPage() {
		return PageContent{}, fmt.Errorf("invalid page number %d (document has %d pages)", pageNum, d.reader.NumPage())
	}

	if cached, ok := d.pages[pageNum]; ok {
		return *cached, nil
	}

	content := PageContent{Number: pageNum}

	page := d.reader.Page(pageNum)
	if !page.V.IsNull() {
		words := assembleWords(pageFragments(page))
		content.Words = words
		content.Lines = LinesFromWords(words)
		content.Tables = DetectTables(words)
	}

	d.pages[pageNum] = &content
	return content, nil
}

// pageFragments collects the raw positioned text fragments of a page,
// recovering from panics inside the PDF library on malformed content streams.
func pageFragments(page pdf.Page) (texts []pdf.Text) {
	defer func() {
		if recover() != nil {
			texts = nil
		}
	}()
	return page.Content().Text
}

// assembleWords merges adjacent character/fragment runs into words. Fragments
// on the same baseline whose horizontal gap is small relative to the font
// size belong to the same word.
func assembleWords(texts []pdf.Text) []Word {
	if len(texts) == 0 {
		return nil
	}

	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sameBaseline(sorted[i].Y, sorted[j].Y) {
			return sorted[i].Y > sorted[j].Y // top of page first
		}
		return sorted[i].X < sorted[j].X
	})

	var words []Word
	var cur *Word
	var curEnd float64

	flush := func() {
		if cur != nil && strings.TrimSpace(cur.Text) != "" {
			cur.Text = strings.TrimSpace(cur.Text)
			words = append(words, *cur)
		}
		cur = nil
	}

	for _, t := range sorted {
		if t.S == "" {
			continue
		}
		height := t.FontSize
		if height == 0 {
			height = 12.0
		}

		if cur != nil && sameBaseline(cur.Y, t.Y) && t.X-curEnd <= joinGap(height) {
			cur.Text += t.S
			cur.Width = t.X + t.W - cur.X
			curEnd = t.X + t.W
			continue
		}

		flush()
		cur = &Word{Text: t.S, X: t.X, Y: t.Y, Width: t.W, Height: height}
		curEnd = t.X + t.W
	}
	flush()

	return words
}

// joinGap is the maximum horizontal gap between fragments of a single word.
func joinGap(fontSize float64) float64 {
	gap := fontSize * 0.22
	if gap < 1.0 {
		gap = 1.0
	}
	return gap
}

const baselineTolerance = 2.0

func sameBaseline(y1, y2 float64) bool {
	return math.Abs(y1-y2) <= baselineTolerance
}

// GroupIntoLines buckets words into horizontal bands by rounded vertical
// coordinate, ordered top of page first, each band sorted left to right.
func GroupIntoLines(words []Word) [][]Word {
	if len(words) == 0 {
		return nil
	}

	bands := make(map[int][]Word)
	for _, w := range words {
		key := int(math.Round(w.Y / baselineTolerance))
		bands[key] = append(bands[key], w)
	}

	keys := make([]int, 0, len(bands))
	for k := range bands {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(keys))) // larger Y = higher on page

	lines := make([][]Word, 0, len(keys))
	for _, k := range keys {
		band := bands[k]
		sort.SliceStable(band, func(i, j int) bool { return band[i].X < band[j].X })
		lines = append(lines, band)
	}
	return lines
}

// LinesFromWords renders words as plain text lines in reading order.
func LinesFromWords(words []Word) []string {
	grouped := GroupIntoLines(words)
	lines := make([]string, 0, len(grouped))
	for _, band := range grouped {
		parts := make([]string, 0, len(band))
		for _, w := range band {
			parts = append(parts, w.Text)
		}
		line := strings.TrimSpace(strings.Join(parts, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
