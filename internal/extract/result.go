package extract

import "github.com/cogniscan/cogniscan/internal/npq"

// Warning is a data-quality signal attached to a result. Warnings never stop
// the pipeline; the caller decides whether to surface them.
type Warning struct {
	Domain  string `json:"domain,omitempty"`
	Message string `json:"message"`
}

// Result is the typed output of one resolver run: whatever records the
// winning strategy produced, plus data-quality warnings. An all-empty result
// is a valid terminal state meaning the section carried no parseable data.
type Result struct {
	DomainScores []npq.DomainScore      `json:"domain_scores"`
	Questions    []npq.QuestionResponse `json:"questions"`
	Warnings     []Warning              `json:"warnings,omitempty"`
	Strategy     string                 `json:"strategy,omitempty"`
}

// Empty reports whether the result carries no records.
func (r Result) Empty() bool {
	return len(r.DomainScores) == 0 && len(r.Questions) == 0
}

// merge appends another result's records and warnings.
func (r *Result) merge(other Result) {
	r.DomainScores = append(r.DomainScores, other.DomainScores...)
	r.Questions = append(r.Questions, other.Questions...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}
