package report

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/cogniscan/cogniscan/internal/npq"
)

const disclaimer = "The NPQ is a screening tool and not a diagnostic instrument. " +
	"Results should be interpreted by a qualified healthcare professional in " +
	"conjunction with clinical evaluation."

// Data is everything the renderer needs for one patient's report.
type Data struct {
	Patient        npq.Patient
	DomainScores   []npq.DomainScore
	Questions      []npq.QuestionResponse
	Percentiles    map[string]int
	InvalidDomains []string
}

// Renderer produces the patient report PDF: a radar chart of domain
// percentiles, severity-colored symptom summaries grouped by symptom
// cluster, and per-domain response tables.
type Renderer struct {
	logger *slog.Logger
}

// NewRenderer creates a renderer. A nil logger disables logging.
func NewRenderer(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Renderer{logger: logger}
}

// Render writes the report to outPath.
func (r *Renderer) Render(data Data, outPath string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("NeuroPsych Questionnaire Report", false)

	r.titlePage(pdf, data)
	if len(data.Percentiles) >= 3 {
		r.radarPage(pdf, data)
	}
	r.summaryPages(pdf, data)
	if len(data.Questions) > 0 {
		r.questionPages(pdf, data)
	}

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", outPath, err)
	}
	r.logger.Info("report written", "path", outPath, "patient_id", data.Patient.ID)
	return nil
}

func (r *Renderer) titlePage(pdf *fpdf.Fpdf, data Data) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "NeuroPsych Questionnaire Report", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Patient ID: %d", data.Patient.ID), "", 1, "L", false, 0, "")
	if data.Patient.TestDate != "" {
		pdf.CellFormat(0, 7, fmt.Sprintf("Test date: %s", data.Patient.TestDate), "", 1, "L", false, 0, "")
	}
	if data.Patient.Age > 0 {
		pdf.CellFormat(0, 7, fmt.Sprintf("Age: %d", data.Patient.Age), "", 1, "L", false, 0, "")
	}
	if data.Patient.Language != "" {
		pdf.CellFormat(0, 7, fmt.Sprintf("Language: %s", data.Patient.Language), "", 1, "L", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 5, disclaimer, "", "L", false)
}

func (r *Renderer) radarPage(pdf *fpdf.Fpdf, data Data) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Domain Percentiles", "", 1, "C", false, 0, "")

	drawRadarChart(pdf, 105, 120, data.Percentiles, data.InvalidDomains)

	if len(data.InvalidDomains) > 0 {
		pdf.SetY(200)
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 5, "Note: domains marked (INVALID) failed validity checks", "", "C", false)
	}
}

func (r *Renderer) summaryPages(pdf *fpdf.Fpdf, data Data) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Symptom Severity Summary", "", 1, "L", false, 0, "")
	r.severityLegend(pdf)
	pdf.Ln(4)

	grouped := make(map[string][]npq.DomainScore)
	for _, record := range data.DomainScores {
		cluster := symptomCluster(record.Domain)
		grouped[cluster] = append(grouped[cluster], record)
	}

	for _, cluster := range clusterOrder {
		records := grouped[cluster]
		if len(records) == 0 {
			continue
		}
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, cluster, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, record := range records {
			fillR, fillG, fillB := severityColor(record.Severity)
			pdf.CellFormat(70, 6, record.Domain, "", 0, "L", false, 0, "")
			pdf.SetFillColor(fillR, fillG, fillB)
			pdf.CellFormat(30, 6, string(record.Severity), "1", 0, "C", true, 0, "")
			pdf.CellFormat(0, 6, record.Description, "", 1, "L", false, 0, "")
		}
		pdf.Ln(3)
	}
}

func (r *Renderer) questionPages(pdf *fpdf.Fpdf, data Data) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Detailed NPQ Responses", "", 1, "L", false, 0, "")

	byDomain := make(map[string][]npq.QuestionResponse)
	for _, q := range data.Questions {
		byDomain[q.Domain] = append(byDomain[q.Domain], q)
	}
	domains := make([]string, 0, len(byDomain))
	for domain := range byDomain {
		domains = append(domains, domain)
	}
	sort.Strings(domains)

	for _, domain := range domains {
		questions := byDomain[domain]
		sort.Slice(questions, func(i, j int) bool { return questions[i].QuestionNumber < questions[j].QuestionNumber })

		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 8, domain, "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(211, 211, 211)
		pdf.CellFormat(12, 6, "#", "1", 0, "C", true, 0, "")
		pdf.CellFormat(128, 6, "Question", "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 6, "Response", "1", 1, "C", true, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		for _, q := range questions {
			fillR, fillG, fillB := severityColor(q.Severity)
			pdf.CellFormat(12, 6, fmt.Sprintf("%d", q.QuestionNumber), "1", 0, "C", false, 0, "")
			pdf.CellFormat(128, 6, q.QuestionText, "1", 0, "L", false, 0, "")
			pdf.SetFillColor(fillR, fillG, fillB)
			pdf.CellFormat(40, 6, fmt.Sprintf("%d - %s", q.Score, q.Severity), "1", 1, "C", true, 0, "")
		}
		pdf.Ln(4)
	}
}

func (r *Renderer) severityLegend(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(28, 6, "Severity legend:", "", 0, "L", false, 0, "")
	for _, severity := range []npq.Severity{npq.SeveritySevere, npq.SeverityModerate, npq.SeverityMild} {
		fillR, fillG, fillB := severityColor(severity)
		pdf.SetFillColor(fillR, fillG, fillB)
		pdf.CellFormat(24, 6, string(severity), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)
}

// severityColor maps a severity to its highlight color.
func severityColor(severity npq.Severity) (int, int, int) {
	switch severity {
	case npq.SeveritySevere:
		return 255, 80, 80
	case npq.SeverityModerate:
		return 255, 165, 0
	case npq.SeverityMild:
		return 255, 255, 102
	default:
		return 255, 255, 255
	}
}

var clusterOrder = []string{
	"ADHD Symptoms",
	"Anxiety Symptoms",
	"Mood Symptoms",
	"Autism Spectrum Symptoms",
	"Other Symptoms",
}

// symptomCluster groups a domain into one of the report's summary sections
// by keyword.
func symptomCluster(domain string) string {
	lower := strings.ToLower(domain)
	switch {
	case containsAny(lower, "adhd", "attention", "hyperactivity", "impulsiv"):
		return "ADHD Symptoms"
	case containsAny(lower, "anxiety", "panic", "phobia", "obsession", "compulsion", "ocd"):
		return "Anxiety Symptoms"
	case containsAny(lower, "depress", "mood", "mania", "bipolar", "suicide"):
		return "Mood Symptoms"
	case containsAny(lower, "autism", "asd", "asperger"):
		return "Autism Spectrum Symptoms"
	default:
		return "Other Symptoms"
	}
}

func containsAny(s string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
