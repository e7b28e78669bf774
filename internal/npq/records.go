package npq

import "fmt"

// DomainScore is one extracted summary row: a domain with its raw score and
// severity classification.
type DomainScore struct {
	PatientID   int      `json:"patient_id"`
	Domain      string   `json:"domain"`
	Unknown     bool     `json:"unknown,omitempty"` // domain not in the vocabulary
	RawScore    int      `json:"raw_score"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description,omitempty"`
}

// Validate checks the structural invariants: score and severity must be
// jointly present, and the domain must be known or explicitly tagged unknown.
// Score/severity cross-consistency is intentionally not checked.
func (d DomainScore) Validate() error {
	if d.Domain == "" {
		return fmt.Errorf("domain name is empty")
	}
	if d.Severity == "" {
		return fmt.Errorf("domain %q: severity missing", d.Domain)
	}
	if _, ok := KnownDomain(d.Domain); !ok && !d.Unknown {
		return fmt.Errorf("domain %q not in vocabulary and not tagged unknown", d.Domain)
	}
	return nil
}

// QuestionResponse is one extracted questionnaire item with its answer score.
type QuestionResponse struct {
	PatientID      int      `json:"patient_id"`
	Domain         string   `json:"domain"`
	QuestionNumber int      `json:"question_number"`
	QuestionText   string   `json:"question_text"`
	Score          int      `json:"score"`
	Severity       Severity `json:"severity"`
}

// Validate checks the structural invariants for a question record.
func (q QuestionResponse) Validate() error {
	if q.QuestionNumber < 1 {
		return fmt.Errorf("question number %d out of range", q.QuestionNumber)
	}
	if q.QuestionText == "" {
		return fmt.Errorf("question %d: text is empty", q.QuestionNumber)
	}
	if q.Score < 0 || q.Score > 3 {
		return fmt.Errorf("question %d: score %d outside [0,3]", q.QuestionNumber, q.Score)
	}
	return nil
}

// Patient holds the identifying information stored with each import.
type Patient struct {
	ID       int
	TestDate string
	Age      int
	Language string
}
