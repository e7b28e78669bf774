package normalize

import (
	"fmt"
	"log/slog"

	"github.com/cogniscan/cogniscan/internal/extract"
	"github.com/cogniscan/cogniscan/internal/npq"
)

// Normalizer shapes a raw extraction result into the canonical record sets
// the store accepts: one domain score per (patient, domain), one question per
// (patient, domain, number), each with a derived severity description.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a normalizer. A nil logger disables logging.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Normalizer{logger: logger}
}

// Normalize deduplicates records in strategy order, drops records that fail
// structural validation, and derives severity descriptions. Duplicate domain
// scores keep the first valid record; a duplicate carrying a different
// severity is surfaced as a warning, never merged. The input is not modified.
func (n *Normalizer) Normalize(result extract.Result) extract.Result {
	out := extract.Result{
		Strategy: result.Strategy,
		Warnings: append([]extract.Warning(nil), result.Warnings...),
	}

	seenScores := make(map[string]npq.Severity)
	for _, record := range result.DomainScores {
		record.Description = npq.DescriptionForSeverity(record.Severity)
		if err := record.Validate(); err != nil {
			n.logger.Debug("domain score rejected", "domain", record.Domain, "error", err)
			continue
		}

		kept, seen := seenScores[record.Domain]
		if !seen {
			seenScores[record.Domain] = record.Severity
			out.DomainScores = append(out.DomainScores, record)
			continue
		}
		if kept != record.Severity {
			out.Warnings = append(out.Warnings, extract.Warning{
				Domain: record.Domain,
				Message: fmt.Sprintf("conflicting severities for domain %q: kept %q, dropped %q",
					record.Domain, kept, record.Severity),
			})
			n.logger.Warn("conflicting domain severities",
				"domain", record.Domain, "kept", kept, "dropped", record.Severity)
		}
	}

	type questionKey struct {
		domain string
		number int
	}
	seenQuestions := make(map[questionKey]bool)
	for _, record := range result.Questions {
		if err := record.Validate(); err != nil {
			n.logger.Debug("question rejected",
				"domain", record.Domain, "number", record.QuestionNumber, "error", err)
			continue
		}
		key := questionKey{domain: record.Domain, number: record.QuestionNumber}
		if seenQuestions[key] {
			continue
		}
		seenQuestions[key] = true
		out.Questions = append(out.Questions, record)
	}

	return out
}
