package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogniscan/cogniscan/internal/npq"
)

// fakeCohortSource serves canned cohort data and counts snapshot reads.
type fakeCohortSource struct {
	cohort   map[string][]int
	patients map[int][]npq.DomainScore
	rebuilds int
}

func (f *fakeCohortSource) CohortScores(ctx context.Context) (map[string][]int, error) {
	f.rebuilds++
	return f.cohort, nil
}

func (f *fakeCohortSource) ScoredPatientIDs(ctx context.Context) ([]int, error) {
	ids := make([]int, 0, len(f.patients))
	for id := range f.patients {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeCohortSource) FetchDomainScores(ctx context.Context, patientID int) ([]npq.DomainScore, error) {
	return f.patients[patientID], nil
}

func TestPopulationCachePercentiles(t *testing.T) {
	source := &fakeCohortSource{
		cohort: map[string][]int{"Anxiety": {1, 2, 3, 5}},
		patients: map[int][]npq.DomainScore{
			1: {{PatientID: 1, Domain: "Anxiety", RawScore: 5, Severity: npq.SeveritySevere}},
			2: {{PatientID: 2, Domain: "Anxiety", RawScore: 1, Severity: npq.SeverityMild}},
		},
	}
	cache := NewPopulationCache(source, nil)

	percentiles, invalid, err := cache.Percentiles(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, invalid)
	assert.Equal(t, map[string]int{"Anxiety": 100}, percentiles)

	percentiles, _, err = cache.Percentiles(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Anxiety": 25}, percentiles)
}

func TestPopulationCacheRebuildsLazily(t *testing.T) {
	source := &fakeCohortSource{
		cohort: map[string][]int{"Memory": {2, 4}},
		patients: map[int][]npq.DomainScore{
			1: {{PatientID: 1, Domain: "Memory", RawScore: 4, Severity: npq.SeveritySevere}},
		},
	}
	cache := NewPopulationCache(source, nil)

	_, _, err := cache.Percentiles(context.Background(), 1)
	require.NoError(t, err)
	_, _, err = cache.Percentiles(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, source.rebuilds, "cached patient must not trigger a rebuild")

	// A patient the cache has never seen forces a fresh snapshot.
	source.cohort = map[string][]int{"Memory": {2, 4, 6}}
	source.patients[3] = []npq.DomainScore{{PatientID: 3, Domain: "Memory", RawScore: 6, Severity: npq.SeveritySevere}}
	percentiles, _, err := cache.Percentiles(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 2, source.rebuilds)
	assert.Equal(t, map[string]int{"Memory": 100}, percentiles)
}

func TestPopulationCacheFlagsUnknownDomains(t *testing.T) {
	source := &fakeCohortSource{
		cohort: map[string][]int{"Daydreaming": {1, 2}},
		patients: map[int][]npq.DomainScore{
			1: {{PatientID: 1, Domain: "Daydreaming", Unknown: true, RawScore: 2, Severity: npq.SeverityModerate}},
		},
	}
	cache := NewPopulationCache(source, nil)

	percentiles, invalid, err := cache.Percentiles(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Daydreaming": 100}, percentiles)
	assert.Equal(t, []string{"Daydreaming"}, invalid)
}

func TestSymptomCluster(t *testing.T) {
	tests := []struct {
		domain string
		want   string
	}{
		{"ADHD", "ADHD Symptoms"},
		{"Attention", "ADHD Symptoms"},
		{"Impulsive", "ADHD Symptoms"},
		{"Anxiety", "Anxiety Symptoms"},
		{"Panic", "Anxiety Symptoms"},
		{"Obsessions & Compulsions", "Anxiety Symptoms"},
		{"Depression", "Mood Symptoms"},
		{"Bipolar", "Mood Symptoms"},
		{"Mood Stability", "Mood Symptoms"},
		{"Autism", "Autism Spectrum Symptoms"},
		{"Asperger's", "Autism Spectrum Symptoms"},
		{"Sleep", "Other Symptoms"},
		{"Pain", "Other Symptoms"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, symptomCluster(tt.domain), tt.domain)
	}
}

func TestSeverityColor(t *testing.T) {
	r, g, b := severityColor(npq.SeveritySevere)
	assert.Equal(t, [3]int{255, 80, 80}, [3]int{r, g, b})
	r, g, b = severityColor(npq.SeverityNotProblem)
	assert.Equal(t, [3]int{255, 255, 255}, [3]int{r, g, b})
}

func TestRadarPointGeometry(t *testing.T) {
	// Spoke 0 points at twelve o'clock.
	x, y := radarPoint(100, 100, 0, 4, 100)
	assert.InDelta(t, 100, x, 0.001)
	assert.InDelta(t, 100-radarRadius, y, 0.001)

	// Spoke 1 of 4 points at three o'clock (clockwise).
	x, y = radarPoint(100, 100, 1, 4, 50)
	assert.InDelta(t, 100+radarRadius/2, x, 0.001)
	assert.InDelta(t, 100, y, 0.001)
}

func TestRenderWritesPDF(t *testing.T) {
	renderer := NewRenderer(nil)
	out := filepath.Join(t.TempDir(), "report.pdf")

	data := Data{
		Patient: npq.Patient{ID: 12345, TestDate: "2024-03-01", Age: 34, Language: "English"},
		DomainScores: []npq.DomainScore{
			{PatientID: 12345, Domain: "Anxiety", RawScore: 5, Severity: npq.SeveritySevere,
				Description: "Clinically significant, requires attention"},
			{PatientID: 12345, Domain: "Depression", RawScore: 2, Severity: npq.SeverityModerate,
				Description: "Potentially significant, monitor closely"},
			{PatientID: 12345, Domain: "Sleep", RawScore: 1, Severity: npq.SeverityMild,
				Description: "Mild concern, may benefit from monitoring"},
		},
		Questions: []npq.QuestionResponse{
			{PatientID: 12345, Domain: "Anxiety", QuestionNumber: 3, QuestionText: "I feel anxious",
				Score: 1, Severity: npq.SeverityMild},
		},
		Percentiles:    map[string]int{"Anxiety": 90, "Depression": 60, "Sleep": 30},
		InvalidDomains: nil,
	}

	require.NoError(t, renderer.Render(data, out))

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, len(raw) > 1000)
	assert.Equal(t, "%PDF", string(raw[:4]))
}
