package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cogniscan/cogniscan/internal/extract"
	"github.com/cogniscan/cogniscan/internal/normalize"
	"github.com/cogniscan/cogniscan/internal/npq"
	"github.com/cogniscan/cogniscan/internal/pdf"
)

// QuestionnaireSection locates the NPQ results inside the assessment
// document. The section usually opens with its own heading; some layouts only
// carry the summary column header, and a few bury it without either, which
// the fallback page range covers.
var QuestionnaireSection = pdf.Section{
	Name:            "NeuroPsych Questionnaire",
	Marker:          "NeuroPsych Questionnaire",
	SecondaryMarker: "Domain Score Severity",
	VocabTerms:      npq.Domains,
	FallbackStart:   2,
	FallbackEnd:     8,
}

// Sink is the slice of the store the importer writes through.
type Sink interface {
	UpsertPatient(ctx context.Context, p npq.Patient) error
	ReplaceDomainScores(ctx context.Context, patientID int, records []npq.DomainScore) (int, error)
	ReplaceQuestionResponses(ctx context.Context, patientID int, records []npq.QuestionResponse) (int, error)
	LogSection(ctx context.Context, patientID int, section, status string) error
}

// Request describes one import run.
type Request struct {
	Path      string
	PatientID int // 0 means derive from the filename
}

// Summary reports what one import run did.
type Summary struct {
	RunID        string            `json:"run_id"`
	PatientID    int               `json:"patient_id"`
	SectionFound bool              `json:"section_found"`
	Strategy     string            `json:"strategy,omitempty"`
	DomainScores int               `json:"domain_scores"`
	Questions    int               `json:"questions"`
	Warnings     []extract.Warning `json:"warnings,omitempty"`
}

// Document is the slice of an opened PDF the importer reads. *pdf.Document
// satisfies it.
type Document interface {
	pdf.PageSource
	Close() error
}

// Service runs the import pipeline for one document: open and validate the
// PDF, locate the questionnaire section, resolve records through the strategy
// cascade, normalize them, and replace the patient's stored records.
type Service struct {
	sink        Sink
	locator     *pdf.Locator
	resolver    *extract.Resolver
	normalizer  *normalize.Normalizer
	open        func(path string, maxFileSize int64) (Document, error)
	maxFileSize int64
	logger      *slog.Logger
}

// NewService creates an import service writing through the given sink. A nil
// logger disables logging.
func NewService(sink Sink, maxFileSize int64, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		sink:       sink,
		locator:    pdf.NewLocator(logger),
		resolver:   extract.NewResolver(logger),
		normalizer: normalize.NewNormalizer(logger),
		open: func(path string, maxFileSize int64) (Document, error) {
			return pdf.Open(path, maxFileSize)
		},
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// Import processes one document end to end and returns a run summary.
// A document without a questionnaire section is a valid outcome, not an
// error; the prior stored records for the patient are cleared either way so
// the store always reflects the latest run.
func (s *Service) Import(ctx context.Context, req Request) (*Summary, error) {
	runID := uuid.NewString()
	logger := s.logger.With("run_id", runID)

	patientID := req.PatientID
	testDate := ""
	if patientID == 0 {
		var err error
		patientID, testDate, err = ParseFilename(req.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to determine patient: %w", err)
		}
	} else if _, date, err := ParseFilename(req.Path); err == nil {
		testDate = date
	}
	logger = logger.With("patient_id", patientID)
	logger.Info("starting import", "path", req.Path)

	doc, err := s.open(req.Path, s.maxFileSize)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer doc.Close()

	pages, err := s.locator.FindSection(doc, QuestionnaireSection)
	if err != nil {
		return nil, fmt.Errorf("failed to locate section: %w", err)
	}

	result := s.normalizer.Normalize(s.resolver.Resolve(patientID, pages))

	if err := s.sink.UpsertPatient(ctx, npq.Patient{ID: patientID, TestDate: testDate}); err != nil {
		return nil, err
	}
	scoreCount, err := s.sink.ReplaceDomainScores(ctx, patientID, result.DomainScores)
	if err != nil {
		return nil, err
	}
	questionCount, err := s.sink.ReplaceQuestionResponses(ctx, patientID, result.Questions)
	if err != nil {
		return nil, err
	}

	status := sectionStatus(len(pages) > 0, result.Empty())
	if err := s.sink.LogSection(ctx, patientID, QuestionnaireSection.Name, status); err != nil {
		return nil, err
	}

	summary := &Summary{
		RunID:        runID,
		PatientID:    patientID,
		SectionFound: len(pages) > 0,
		Strategy:     result.Strategy,
		DomainScores: scoreCount,
		Questions:    questionCount,
		Warnings:     result.Warnings,
	}
	logger.Info("import finished",
		"status", status,
		"strategy", result.Strategy,
		"domain_scores", scoreCount,
		"questions", questionCount,
		"warnings", len(result.Warnings))
	return summary, nil
}

func sectionStatus(found, empty bool) string {
	switch {
	case !found:
		return "absent"
	case empty:
		return "empty"
	default:
		return "found"
	}
}
