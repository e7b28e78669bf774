package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cogniscan/cogniscan/internal/npq"
)

// UpsertPatient inserts the patient row, or refreshes its test date, age and
// language if the patient already exists.
func (s *Store) UpsertPatient(ctx context.Context, p npq.Patient) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO patients (patient_id, test_date, age, language)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(patient_id) DO UPDATE SET
			test_date = excluded.test_date,
			age = excluded.age,
			language = excluded.language`,
		p.ID, p.TestDate, p.Age, p.Language)
	if err != nil {
		return fmt.Errorf("failed to upsert patient %d: %w", p.ID, err)
	}
	return nil
}

// FetchPatient returns the stored patient row, or a zero Patient if the
// patient is unknown.
func (s *Store) FetchPatient(ctx context.Context, patientID int) (npq.Patient, error) {
	var p npq.Patient
	err := s.db.QueryRowContext(ctx, `
		SELECT patient_id, test_date, age, language
		FROM patients WHERE patient_id = ?`, patientID).
		Scan(&p.ID, &p.TestDate, &p.Age, &p.Language)
	if err == sql.ErrNoRows {
		return npq.Patient{ID: patientID}, nil
	}
	if err != nil {
		return npq.Patient{}, fmt.Errorf("failed to fetch patient %d: %w", patientID, err)
	}
	return p, nil
}

// ReplaceDomainScores replaces every stored domain score for the patient with
// the given records, inside one transaction. Passing zero records clears the
// patient's scores; that is a valid call, not an error. Returns the number of
// rows inserted.
func (s *Store) ReplaceDomainScores(ctx context.Context, patientID int, records []npq.DomainScore) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM npq_scores WHERE patient_id = ?`, patientID); err != nil {
		return 0, fmt.Errorf("failed to delete domain scores for patient %d: %w", patientID, err)
	}
	for _, r := range records {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO npq_scores (patient_id, domain, score, severity, description)
			VALUES (?, ?, ?, ?, ?)`,
			patientID, r.Domain, r.RawScore, string(r.Severity), r.Description)
		if err != nil {
			return 0, fmt.Errorf("failed to insert domain score %q for patient %d: %w", r.Domain, patientID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit domain scores: %w", err)
	}

	if len(records) == 0 {
		s.logger.Info("no domain scores to store, cleared existing rows", "patient_id", patientID)
	} else {
		s.logger.Debug("replaced domain scores", "patient_id", patientID, "count", len(records))
	}
	return len(records), nil
}

// ReplaceQuestionResponses replaces every stored question response for the
// patient with the given records, inside one transaction. Returns the number
// of rows inserted.
func (s *Store) ReplaceQuestionResponses(ctx context.Context, patientID int, records []npq.QuestionResponse) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM npq_questions WHERE patient_id = ?`, patientID); err != nil {
		return 0, fmt.Errorf("failed to delete question responses for patient %d: %w", patientID, err)
	}
	for _, r := range records {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO npq_questions (patient_id, domain, question_number, question_text, score, severity)
			VALUES (?, ?, ?, ?, ?, ?)`,
			patientID, r.Domain, r.QuestionNumber, r.QuestionText, r.Score, string(r.Severity))
		if err != nil {
			return 0, fmt.Errorf("failed to insert question %d for patient %d: %w", r.QuestionNumber, patientID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit question responses: %w", err)
	}

	if len(records) == 0 {
		s.logger.Info("no question responses to store, cleared existing rows", "patient_id", patientID)
	} else {
		s.logger.Debug("replaced question responses", "patient_id", patientID, "count", len(records))
	}
	return len(records), nil
}

// FetchDomainScores returns the stored domain scores for a patient, ordered
// by domain. Domains outside the vocabulary come back tagged unknown.
func (s *Store) FetchDomainScores(ctx context.Context, patientID int) ([]npq.DomainScore, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT patient_id, domain, score, severity, description
		FROM npq_scores WHERE patient_id = ? ORDER BY domain`, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query domain scores for patient %d: %w", patientID, err)
	}
	defer rows.Close()

	var records []npq.DomainScore
	for rows.Next() {
		var r npq.DomainScore
		var severity string
		if err := rows.Scan(&r.PatientID, &r.Domain, &r.RawScore, &severity, &r.Description); err != nil {
			return nil, fmt.Errorf("failed to scan domain score: %w", err)
		}
		r.Severity = npq.Severity(severity)
		_, known := npq.KnownDomain(r.Domain)
		r.Unknown = !known
		records = append(records, r)
	}
	return records, rows.Err()
}

// FetchQuestionResponses returns the stored question responses for a patient,
// ordered by domain then question number.
func (s *Store) FetchQuestionResponses(ctx context.Context, patientID int) ([]npq.QuestionResponse, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT patient_id, domain, question_number, question_text, score, severity
		FROM npq_questions WHERE patient_id = ? ORDER BY domain, question_number`, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query question responses for patient %d: %w", patientID, err)
	}
	defer rows.Close()

	var records []npq.QuestionResponse
	for rows.Next() {
		var r npq.QuestionResponse
		var severity string
		if err := rows.Scan(&r.PatientID, &r.Domain, &r.QuestionNumber, &r.QuestionText, &r.Score, &severity); err != nil {
			return nil, fmt.Errorf("failed to scan question response: %w", err)
		}
		r.Severity = npq.Severity(severity)
		records = append(records, r)
	}
	return records, rows.Err()
}
