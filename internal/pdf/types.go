package pdf

// Word is a positioned text fragment with its bounding box, in PDF
// coordinates (origin bottom-left).
type Word struct {
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Table is a detected grid of cell strings, rows in reading order.
type Table [][]string

// PageContent is everything the layout extractor recovers from one page:
// plain text lines in reading order, detected tables, and the raw positioned
// words for fallback reconstruction.
type PageContent struct {
	Number int      `json:"number"`
	Lines  []string `json:"lines"`
	Tables []Table  `json:"tables"`
	Words  []Word   `json:"words"`
}

// Empty reports whether nothing usable was extracted from the page.
func (p PageContent) Empty() bool {
	return len(p.Lines) == 0 && len(p.Tables) == 0 && len(p.Words) == 0
}

// Section describes how to locate a document subsection: a primary heading
// marker, a secondary column-header marker, vocabulary terms for
// continuation-page detection, and a fallback page range scanned when no page
// carries a marker.
type Section struct {
	Name            string   `json:"name"`
	Marker          string   `json:"marker"`
	SecondaryMarker string   `json:"secondary_marker,omitempty"`
	VocabTerms      []string `json:"vocab_terms,omitempty"`
	FallbackStart   int      `json:"fallback_start,omitempty"`
	FallbackEnd     int      `json:"fallback_end,omitempty"`
}
