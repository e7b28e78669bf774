package extract

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/cogniscan/cogniscan/internal/npq"
	"github.com/cogniscan/cogniscan/internal/pdf"
)

var questionHeaderRe = regexp.MustCompile(`(?i)^\s*([A-Za-z][A-Za-z'& ]*?)\s+Questions\b`)

// TableStrategy reads records out of machine-detected table grids. Grids are
// classified as summary tables (domain/score/severity columns) or detail
// tables (numbered question rows); anything else is ignored.
type TableStrategy struct{}

// Name implements Strategy.
func (s *TableStrategy) Name() string { return "table" }

// Extract implements Strategy.
func (s *TableStrategy) Extract(pages []pdf.PageContent, logger *slog.Logger) Result {
	var result Result
	for _, page := range pages {
		result.merge(s.extractPage(page, logger))
	}
	return result
}

func (s *TableStrategy) extractPage(page pdf.PageContent, logger *slog.Logger) Result {
	var result Result

	// Detail tables carry no domain column; the owning domain comes from the
	// nearest "<Domain> Questions" header on the page.
	headers := domainQuestionHeaders(page.Lines)
	detailSeen := 0

	for _, table := range page.Tables {
		switch {
		case isSummaryTable(table):
			result.merge(extractSummaryTable(table, logger))
		case isDetailTable(table):
			domain := ""
			if len(headers) > 0 {
				idx := detailSeen
				if idx >= len(headers) {
					idx = len(headers) - 1
				}
				domain = headers[idx]
			}
			detailSeen++
			result.merge(extractDetailTable(table, domain, logger))
		}
	}

	return result
}

// isSummaryTable reports whether the grid's header row names both a domain
// column and a score column.
func isSummaryTable(table pdf.Table) bool {
	if len(table) < 2 {
		return false
	}
	header := strings.ToLower(strings.Join(table[0], " "))
	return strings.Contains(header, "domain") && strings.Contains(header, "score")
}

// isDetailTable reports whether the grid's data rows start with a numeric
// question index.
func isDetailTable(table pdf.Table) bool {
	if len(table) == 0 {
		return false
	}
	numeric := 0
	for _, row := range table {
		if len(row) > 0 {
			if _, err := strconv.Atoi(strings.TrimSpace(row[0])); err == nil {
				numeric++
			}
		}
	}
	return numeric > 0 && numeric >= len(table)/2
}

func extractSummaryTable(table pdf.Table, logger *slog.Logger) Result {
	var result Result

	for _, row := range table[1:] {
		if countLeadingNonEmpty(row) < 3 {
			continue
		}

		name := strings.TrimSpace(row[0])
		score, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil {
			logger.Debug("summary row skipped, score cell not an integer", "row", row)
			continue
		}
		severity, ok := npq.ParseSeverity(row[2])
		if !ok {
			logger.Debug("summary row skipped, unknown severity word", "row", row)
			continue
		}

		record := npq.DomainScore{RawScore: score, Severity: severity}
		if canonical, known := npq.KnownDomain(name); known {
			record.Domain = canonical
		} else {
			record.Domain = name
			record.Unknown = true
		}
		result.DomainScores = append(result.DomainScores, record)
	}

	return result
}

func extractDetailTable(table pdf.Table, domain string, logger *slog.Logger) Result {
	var result Result

	for _, row := range table {
		if len(row) < 4 {
			continue
		}
		number, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil || number < 1 {
			continue
		}
		text := strings.TrimSpace(row[1])
		if text == "" {
			continue
		}
		score, err := strconv.Atoi(strings.TrimSpace(row[2]))
		if err != nil || score < 0 || score > 3 {
			logger.Debug("detail row skipped, score outside [0,3]", "row", row)
			continue
		}

		result.Questions = append(result.Questions, npq.QuestionResponse{
			Domain:         domain,
			QuestionNumber: number,
			QuestionText:   text,
			Score:          score,
			Severity:       npq.SeverityForScore(score),
		})
	}

	return result
}

// domainQuestionHeaders returns the domains named by "<Domain> Questions"
// header lines, in page order.
func domainQuestionHeaders(lines []string) []string {
	var headers []string
	for _, line := range lines {
		if m := questionHeaderRe.FindStringSubmatch(line); m != nil {
			if canonical, ok := npq.KnownDomain(m[1]); ok {
				headers = append(headers, canonical)
			}
		}
	}
	return headers
}

func countLeadingNonEmpty(row []string) int {
	n := 0
	for _, cell := range row {
		if strings.TrimSpace(cell) == "" {
			break
		}
		n++
	}
	return n
}
