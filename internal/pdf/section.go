package pdf

import (
	"fmt"
	"log/slog"
	"strings"
)

// Maximum number of continuation pages appended after the section start page.
const continuationWindow = 4

// PageSource yields page content by number. *Document satisfies it; tests
// substitute an in-memory fixture.
type PageSource interface {
	PageCount() int
	Page(pageNum int) (PageContent, error)
}

// Locator finds the pages of a document that plausibly contain a named
// section. Absence of the section is a normal outcome reported as an empty
// page list, never an error.
type Locator struct {
	logger *slog.Logger
}

// NewLocator creates a section locator. A nil logger disables logging.
func NewLocator(logger *slog.Logger) *Locator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Locator{logger: logger}
}

// FindSection returns the ordered pages containing the section, or an empty
// slice when the section is absent. An error is returned only for structural
// failures reading the document.
func (l *Locator) FindSection(doc PageSource, sec Section) ([]PageContent, error) {
	if sec.Marker == "" {
		return nil, fmt.Errorf("section %q has no marker", sec.Name)
	}

	total := doc.PageCount()
	start := 0
	var startPage PageContent

	for pageNum := 1; pageNum <= total; pageNum++ {
		page, err := doc.Page(pageNum)
		if err != nil {
			return nil, fmt.Errorf("failed to read page %d: %w", pageNum, err)
		}
		if pageHasMarker(page, sec) {
			start = pageNum
			startPage = page
			break
		}
	}

	if start == 0 {
		start, startPage = l.scanFallbackRange(doc, sec)
	}
	if start == 0 {
		l.logger.Debug("section not found", "section", sec.Name, "pages", total)
		return []PageContent{}, nil
	}

	l.logger.Debug("section start located", "section", sec.Name, "page", start)

	pages := []PageContent{startPage}
	for pageNum := start + 1; pageNum <= total && len(pages) <= continuationWindow; pageNum++ {
		page, err := doc.Page(pageNum)
		if err != nil {
			return nil, fmt.Errorf("failed to read page %d: %w", pageNum, err)
		}
		if !pageHasMarker(page, sec) && !pageHasVocabTerm(page, sec) {
			break
		}
		pages = append(pages, page)
	}

	return pages, nil
}

// scanFallbackRange re-scans the section's fixed fallback page range with the
// weaker qualification test (markers or vocabulary terms). Used when no page
// in the document carries a marker, which happens when the heading is drawn
// as an image or mangled by the text extractor.
func (l *Locator) scanFallbackRange(doc PageSource, sec Section) (int, PageContent) {
	if sec.FallbackStart < 1 || sec.FallbackEnd < sec.FallbackStart {
		return 0, PageContent{}
	}

	end := sec.FallbackEnd
	if end > doc.PageCount() {
		end = doc.PageCount()
	}

	for pageNum := sec.FallbackStart; pageNum <= end; pageNum++ {
		page, err := doc.Page(pageNum)
		if err != nil {
			continue
		}
		if pageHasMarker(page, sec) || pageHasVocabTerm(page, sec) {
			l.logger.Debug("section found via fallback range", "section", sec.Name, "page", pageNum)
			return pageNum, page
		}
	}

	return 0, PageContent{}
}

func pageHasMarker(page PageContent, sec Section) bool {
	text := strings.ToLower(strings.Join(page.Lines, "\n"))
	if sec.Marker != "" && strings.Contains(text, strings.ToLower(sec.Marker)) {
		return true
	}
	if sec.SecondaryMarker != "" && strings.Contains(text, strings.ToLower(sec.SecondaryMarker)) {
		return true
	}
	return false
}

func pageHasVocabTerm(page PageContent, sec Section) bool {
	if len(sec.VocabTerms) == 0 {
		return false
	}
	text := strings.ToLower(strings.Join(page.Lines, "\n"))
	for _, term := range sec.VocabTerms {
		if strings.Contains(text, strings.ToLower(term)) {
			return true
		}
	}
	return false
}
