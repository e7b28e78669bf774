package extract

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/cogniscan/cogniscan/internal/npq"
	"github.com/cogniscan/cogniscan/internal/pdf"
)

var (
	questionLineRe = regexp.MustCompile(`^(\d+)\s+(\S.*)$`)
	answerLineRe   = regexp.MustCompile(`(?i)^(\d+)\s*-\s*(Severe|Moderate|Mild|Not a problem)\.?\s*$`)
)

// BoundingBoxStrategy is the last tier: it rebuilds lines from positioned
// words grouped by rounded vertical coordinate and parses two shapes the
// other tiers cannot see. Question sub-sections open with a "<Domain>
// Questions" header, then alternate "<number> <text>" question lines with
// "<number> - <severity>" answer lines. Domain scores appear as
// domain/score/severity triples spread across three consecutive lines.
type BoundingBoxStrategy struct{}

// Name implements Strategy.
func (s *BoundingBoxStrategy) Name() string { return "bounding-box" }

// Extract implements Strategy.
func (s *BoundingBoxStrategy) Extract(pages []pdf.PageContent, logger *slog.Logger) Result {
	var result Result
	for _, page := range pages {
		if len(page.Words) == 0 {
			continue
		}
		lines := pdf.LinesFromWords(page.Words)
		result.merge(parseReconstructedLines(lines, logger))
	}
	return result
}

func parseReconstructedLines(lines []string, logger *slog.Logger) Result {
	var result Result
	currentDomain := ""

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		if m := questionHeaderRe.FindStringSubmatch(line); m != nil {
			if canonical, ok := npq.KnownDomain(m[1]); ok {
				currentDomain = canonical
			} else {
				currentDomain = strings.TrimSpace(m[1])
			}
			continue
		}

		// Question line paired with the immediately following answer line.
		if currentDomain != "" && i+1 < len(lines) {
			if q := questionLineRe.FindStringSubmatch(line); q != nil {
				if a := answerLineRe.FindStringSubmatch(strings.TrimSpace(lines[i+1])); a != nil {
					number, _ := strconv.Atoi(q[1])
					score, _ := strconv.Atoi(a[1])
					if number >= 1 && score >= 0 && score <= 3 && strings.TrimSpace(q[2]) != "" {
						result.Questions = append(result.Questions, npq.QuestionResponse{
							Domain:         currentDomain,
							QuestionNumber: number,
							QuestionText:   strings.TrimSpace(q[2]),
							Score:          score,
							Severity:       npq.SeverityForScore(score),
						})
						i++ // consume the answer line
						continue
					}
				}
			}
		}

		// Domain, score, and severity spread across three consecutive lines.
		if record, consumed := parseSpreadTriple(lines, i); consumed {
			result.DomainScores = append(result.DomainScores, record)
			i += 2
			continue
		}

		logger.Debug("reconstructed line skipped", "line", line)
	}

	return result
}

// parseSpreadTriple tries to read lines[i..i+2] as a domain name, a bare
// integer score, and a severity word.
func parseSpreadTriple(lines []string, i int) (npq.DomainScore, bool) {
	if i+2 >= len(lines) {
		return npq.DomainScore{}, false
	}

	canonical, ok := npq.KnownDomain(lines[i])
	if !ok {
		return npq.DomainScore{}, false
	}
	score, err := strconv.Atoi(strings.TrimSpace(lines[i+1]))
	if err != nil {
		return npq.DomainScore{}, false
	}
	severity, ok := npq.ParseSeverity(lines[i+2])
	if !ok {
		return npq.DomainScore{}, false
	}

	return npq.DomainScore{Domain: canonical, RawScore: score, Severity: severity}, true
}
