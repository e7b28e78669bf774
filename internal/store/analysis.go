package store

import (
	"context"
	"fmt"

	"github.com/cogniscan/cogniscan/internal/npq"
)

// Completeness reports which data components exist for a patient.
type Completeness struct {
	PatientInfo  bool `json:"patient_info"`
	DomainScores bool `json:"domain_scores"`
	Questions    bool `json:"questions"`
}

// DomainPercentiles returns the patient's domain scores expressed as cohort
// percentiles (share of stored scores for the same domain at or below the
// patient's score), plus the list of domains outside the known vocabulary,
// which the report marks as invalid on the radar chart.
func (s *Store) DomainPercentiles(ctx context.Context, patientID int) (map[string]int, []string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.domain, p.score,
			(SELECT COUNT(*) FROM npq_scores c WHERE c.domain = p.domain AND c.score <= p.score),
			(SELECT COUNT(*) FROM npq_scores c WHERE c.domain = p.domain)
		FROM npq_scores p WHERE p.patient_id = ?`, patientID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query domain percentiles for patient %d: %w", patientID, err)
	}
	defer rows.Close()

	percentiles := make(map[string]int)
	var invalid []string
	for rows.Next() {
		var domain string
		var score, atOrBelow, total int
		if err := rows.Scan(&domain, &score, &atOrBelow, &total); err != nil {
			return nil, nil, fmt.Errorf("failed to scan percentile row: %w", err)
		}
		if total == 0 {
			continue
		}
		percentiles[domain] = atOrBelow * 100 / total
		if _, known := npq.KnownDomain(domain); !known {
			invalid = append(invalid, domain)
			s.logger.Debug("domain marked invalid for radar", "domain", domain)
		}
	}
	return percentiles, invalid, rows.Err()
}

// CohortScores returns every stored score grouped by domain, across all
// patients. The report layer's population cache is built from this.
func (s *Store) CohortScores(ctx context.Context) (map[string][]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT domain, score FROM npq_scores ORDER BY domain, score`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cohort scores: %w", err)
	}
	defer rows.Close()

	cohort := make(map[string][]int)
	for rows.Next() {
		var domain string
		var score int
		if err := rows.Scan(&domain, &score); err != nil {
			return nil, fmt.Errorf("failed to scan cohort row: %w", err)
		}
		cohort[domain] = append(cohort[domain], score)
	}
	return cohort, rows.Err()
}

// ScoredPatientIDs returns the IDs of every patient with at least one stored
// domain score.
func (s *Store) ScoredPatientIDs(ctx context.Context) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT patient_id FROM npq_scores ORDER BY patient_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query scored patients: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan patient id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DataCompleteness reports which components are present for the patient.
func (s *Store) DataCompleteness(ctx context.Context, patientID int) (Completeness, error) {
	var c Completeness

	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM patients WHERE patient_id = ?`, patientID).Scan(&exists)
	if err != nil {
		return c, fmt.Errorf("failed to check patient %d: %w", patientID, err)
	}
	c.PatientInfo = exists > 0

	var scores int
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM npq_scores WHERE patient_id = ?`, patientID).Scan(&scores)
	if err != nil {
		return c, fmt.Errorf("failed to count domain scores for patient %d: %w", patientID, err)
	}
	c.DomainScores = scores > 0

	var questions int
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM npq_questions WHERE patient_id = ?`, patientID).Scan(&questions)
	if err != nil {
		return c, fmt.Errorf("failed to count question responses for patient %d: %w", patientID, err)
	}
	c.Questions = questions > 0

	return c, nil
}

// LogSection records the outcome of processing one document section, e.g.
// "found", "absent" or "empty". The log is append-only.
func (s *Store) LogSection(ctx context.Context, patientID int, section, status string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO test_log (patient_id, section, status) VALUES (?, ?, ?)`,
		patientID, section, status)
	if err != nil {
		return fmt.Errorf("failed to log section %q for patient %d: %w", section, patientID, err)
	}
	return nil
}

// SectionLog returns the recorded (section, status) pairs for a patient in
// insertion order.
func (s *Store) SectionLog(ctx context.Context, patientID int) ([][2]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT section, status FROM test_log WHERE patient_id = ? ORDER BY id`, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query section log for patient %d: %w", patientID, err)
	}
	defer rows.Close()

	var entries [][2]string
	for rows.Next() {
		var section, status string
		if err := rows.Scan(&section, &status); err != nil {
			return nil, fmt.Errorf("failed to scan section log row: %w", err)
		}
		entries = append(entries, [2]string{section, status})
	}
	return entries, rows.Err()
}
