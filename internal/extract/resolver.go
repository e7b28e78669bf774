package extract

import (
	"log/slog"

	"github.com/cogniscan/cogniscan/internal/pdf"
)

// Strategy converts raw page content into typed records. Strategies are pure:
// same input, same output, no retained state between calls. An empty result
// means the strategy could not read the content, not that something failed.
type Strategy interface {
	Name() string
	Extract(pages []pdf.PageContent, logger *slog.Logger) Result
}

// Resolver runs an ordered cascade of extraction strategies. Each strategy is
// tried only if every strategy before it produced zero records; the first
// non-empty result wins.
type Resolver struct {
	strategies []Strategy
	logger     *slog.Logger
}

// NewResolver creates a resolver with the default strategy order:
// table grids, single-line text patterns, stateful line assembly, and finally
// bounding-box reconstruction. A nil logger disables logging.
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{
		strategies: []Strategy{
			&TableStrategy{},
			&TextPatternStrategy{},
			&LineAssemblyStrategy{},
			&BoundingBoxStrategy{},
		},
		logger: logger,
	}
}

// NewResolverWithStrategies creates a resolver with a custom cascade. Used by
// tests and by callers that need to disable individual tiers.
func NewResolverWithStrategies(logger *slog.Logger, strategies ...Strategy) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{strategies: strategies, logger: logger}
}

// Resolve runs the cascade over the section pages and stamps the patient ID
// onto every record of the winning result. Empty input yields an empty
// result, never an error.
func (r *Resolver) Resolve(patientID int, pages []pdf.PageContent) Result {
	if len(pages) == 0 {
		return Result{}
	}

	for _, strategy := range r.strategies {
		result := strategy.Extract(pages, r.logger)
		if result.Empty() {
			r.logger.Debug("strategy produced no records, falling back",
				"strategy", strategy.Name())
			continue
		}

		result.Strategy = strategy.Name()
		for i := range result.DomainScores {
			result.DomainScores[i].PatientID = patientID
		}
		for i := range result.Questions {
			result.Questions[i].PatientID = patientID
		}

		r.logger.Debug("strategy succeeded",
			"strategy", strategy.Name(),
			"domain_scores", len(result.DomainScores),
			"questions", len(result.Questions))
		return result
	}

	r.logger.Debug("no strategy produced records", "pages", len(pages))
	return Result{}
}
