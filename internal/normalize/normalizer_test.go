package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogniscan/cogniscan/internal/extract"
	"github.com/cogniscan/cogniscan/internal/npq"
)

func score(domain string, raw int, severity npq.Severity) npq.DomainScore {
	return npq.DomainScore{PatientID: 1, Domain: domain, RawScore: raw, Severity: severity}
}

func TestNormalizeDerivesDescriptions(t *testing.T) {
	n := NewNormalizer(nil)
	out := n.Normalize(extract.Result{DomainScores: []npq.DomainScore{
		score("Depression", 2, npq.SeverityModerate),
	}})

	require.Len(t, out.DomainScores, 1)
	assert.Equal(t, "Potentially significant, monitor closely", out.DomainScores[0].Description)
}

func TestNormalizeDedupesFirstWins(t *testing.T) {
	n := NewNormalizer(nil)
	out := n.Normalize(extract.Result{DomainScores: []npq.DomainScore{
		score("Anxiety", 5, npq.SeveritySevere),
		score("Anxiety", 5, npq.SeveritySevere),
		score("Memory", 1, npq.SeverityMild),
	}})

	require.Len(t, out.DomainScores, 2)
	assert.Equal(t, "Anxiety", out.DomainScores[0].Domain)
	assert.Equal(t, "Memory", out.DomainScores[1].Domain)
	assert.Empty(t, out.Warnings, "identical duplicates are not conflicts")
}

func TestNormalizeConflictingSeverityWarns(t *testing.T) {
	n := NewNormalizer(nil)
	out := n.Normalize(extract.Result{DomainScores: []npq.DomainScore{
		score("Sleep", 3, npq.SeveritySevere),
		score("Sleep", 3, npq.SeverityMild),
	}})

	require.Len(t, out.DomainScores, 1)
	assert.Equal(t, npq.SeveritySevere, out.DomainScores[0].Severity, "first classification wins")
	require.Len(t, out.Warnings, 1)
	assert.Equal(t, "Sleep", out.Warnings[0].Domain)
	assert.Contains(t, out.Warnings[0].Message, "conflicting severities")
}

func TestNormalizeDropsInvalidRecords(t *testing.T) {
	n := NewNormalizer(nil)
	out := n.Normalize(extract.Result{
		DomainScores: []npq.DomainScore{
			{PatientID: 1, Domain: "Daydreaming", RawScore: 1, Severity: npq.SeverityMild}, // unknown, untagged
			{PatientID: 1, Domain: "Pain", RawScore: 2},                                    // severity missing
			score("Stress", 0, npq.SeverityNotProblem),
		},
		Questions: []npq.QuestionResponse{
			{PatientID: 1, Domain: "Stress", QuestionNumber: 0, QuestionText: "x", Score: 1, Severity: npq.SeverityMild},
			{PatientID: 1, Domain: "Stress", QuestionNumber: 2, QuestionText: "", Score: 1, Severity: npq.SeverityMild},
			{PatientID: 1, Domain: "Stress", QuestionNumber: 3, QuestionText: "I feel tense", Score: 5, Severity: npq.SeveritySevere},
			{PatientID: 1, Domain: "Stress", QuestionNumber: 4, QuestionText: "I worry a lot", Score: 2, Severity: npq.SeverityModerate},
		},
	})

	require.Len(t, out.DomainScores, 1)
	assert.Equal(t, "Stress", out.DomainScores[0].Domain)
	require.Len(t, out.Questions, 1)
	assert.Equal(t, 4, out.Questions[0].QuestionNumber)
}

func TestNormalizeKeepsTaggedUnknownDomain(t *testing.T) {
	n := NewNormalizer(nil)
	out := n.Normalize(extract.Result{DomainScores: []npq.DomainScore{
		{PatientID: 1, Domain: "Daydreaming", Unknown: true, RawScore: 1, Severity: npq.SeverityMild},
	}})

	require.Len(t, out.DomainScores, 1)
	assert.True(t, out.DomainScores[0].Unknown)
	assert.Equal(t, "Mild concern, may benefit from monitoring", out.DomainScores[0].Description)
}

func TestNormalizeQuestionUniqueness(t *testing.T) {
	n := NewNormalizer(nil)
	q := func(domain string, number int) npq.QuestionResponse {
		return npq.QuestionResponse{
			PatientID: 1, Domain: domain, QuestionNumber: number,
			QuestionText: "text", Score: 1, Severity: npq.SeverityMild,
		}
	}
	out := n.Normalize(extract.Result{Questions: []npq.QuestionResponse{
		q("Memory", 3),
		q("Memory", 3),
		q("Attention", 3), // same number, different domain: distinct
	}})

	require.Len(t, out.Questions, 2)
	assert.Equal(t, "Memory", out.Questions[0].Domain)
	assert.Equal(t, "Attention", out.Questions[1].Domain)
}

func TestNormalizePreservesStrategyAndWarnings(t *testing.T) {
	n := NewNormalizer(nil)
	out := n.Normalize(extract.Result{
		Strategy: "table",
		Warnings: []extract.Warning{{Message: "upstream warning"}},
	})

	assert.Equal(t, "table", out.Strategy)
	require.Len(t, out.Warnings, 1)
	assert.True(t, out.Empty())
}
