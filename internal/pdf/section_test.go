package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtureSource is an in-memory PageSource built from plain text lines.
type fixtureSource struct {
	pages []PageContent
}

func newFixtureSource(pageLines ...[]string) *fixtureSource {
	src := &fixtureSource{}
	for i, lines := range pageLines {
		src.pages = append(src.pages, PageContent{Number: i + 1, Lines: lines})
	}
	return src
}

func (f *fixtureSource) PageCount() int { return len(f.pages) }

func (f *fixtureSource) Page(pageNum int) (PageContent, error) {
	return f.pages[pageNum-1], nil
}

var questionnaireSection = Section{
	Name:            "NeuroPsych Questionnaire",
	Marker:          "NeuroPsych Questionnaire",
	SecondaryMarker: "Domain Score Severity",
	VocabTerms:      []string{"Depression", "Anxiety", "Memory"},
	FallbackStart:   3,
	FallbackEnd:     6,
}

func TestFindSectionByPrimaryMarker(t *testing.T) {
	src := newFixtureSource(
		[]string{"Cover page"},
		[]string{"NeuroPsych Questionnaire", "Depression 2 Moderate"},
		[]string{"Anxiety 1 Mild"},
		[]string{"Unrelated appendix"},
	)

	pages, err := NewLocator(nil).FindSection(src, questionnaireSection)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, 2, pages[0].Number)
	assert.Equal(t, 3, pages[1].Number, "continuation page with vocabulary term should be included")
}

func TestFindSectionBySecondaryMarker(t *testing.T) {
	src := newFixtureSource(
		[]string{"Cover page"},
		[]string{"Domain Score Severity", "Sleep 0 Not a problem"},
	)

	pages, err := NewLocator(nil).FindSection(src, questionnaireSection)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 2, pages[0].Number)
}

func TestFindSectionFallbackRange(t *testing.T) {
	// No markers anywhere; page 4 sits inside the fallback range and carries
	// a vocabulary term, so it qualifies under the weaker test.
	src := newFixtureSource(
		[]string{"Cover page"},
		[]string{"Summary of testing"},
		[]string{"Validity indicators"},
		[]string{"Depression 2 Moderate"},
		[]string{"Closing remarks"},
	)

	pages, err := NewLocator(nil).FindSection(src, questionnaireSection)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 4, pages[0].Number)
}

func TestFindSectionAbsent(t *testing.T) {
	src := newFixtureSource(
		[]string{"Cover page"},
		[]string{"Nothing relevant"},
	)

	pages, err := NewLocator(nil).FindSection(src, questionnaireSection)
	require.NoError(t, err, "absence must not be an error")
	assert.Empty(t, pages)
}

func TestFindSectionContinuationStopsAtFirstMiss(t *testing.T) {
	src := newFixtureSource(
		[]string{"NeuroPsych Questionnaire"},
		[]string{"Anxiety 1 Mild"},
		[]string{"Completely unrelated page"},
		[]string{"Memory 3 Severe"}, // after the miss, never reached
	)

	pages, err := NewLocator(nil).FindSection(src, questionnaireSection)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, 2, pages[len(pages)-1].Number)
}

func TestFindSectionContinuationWindowCap(t *testing.T) {
	pageSet := [][]string{{"NeuroPsych Questionnaire"}}
	for i := 0; i < 10; i++ {
		pageSet = append(pageSet, []string{"Anxiety 1 Mild"})
	}
	src := newFixtureSource(pageSet...)

	pages, err := NewLocator(nil).FindSection(src, questionnaireSection)
	require.NoError(t, err)
	assert.Len(t, pages, continuationWindow+1)
}

func TestFindSectionRequiresMarker(t *testing.T) {
	src := newFixtureSource([]string{"anything"})
	_, err := NewLocator(nil).FindSection(src, Section{Name: "broken"})
	assert.Error(t, err)
}
