package extract

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/cogniscan/cogniscan/internal/npq"
	"github.com/cogniscan/cogniscan/internal/pdf"
)

// scoreLineRe matches the regular single-line form "<name> <integer>
// <severity-word>". This is the preferred fallback after table extraction
// because it needs no cross-line state.
var scoreLineRe = regexp.MustCompile(
	`(?i)^([A-Za-z][A-Za-z'&/ ]*?)\s+(\d+)\s+(Severe|Moderate|Mild|Not a problem)\.?\s*$`)

// TextPatternStrategy scans plain text lines for fully-formed
// domain/score/severity triples on a single line.
type TextPatternStrategy struct{}

// Name implements Strategy.
func (s *TextPatternStrategy) Name() string { return "text-pattern" }

// Extract implements Strategy.
func (s *TextPatternStrategy) Extract(pages []pdf.PageContent, logger *slog.Logger) Result {
	var result Result

	for _, page := range pages {
		for _, line := range page.Lines {
			record, ok := ParseScoreLine(line)
			if !ok {
				continue
			}
			result.DomainScores = append(result.DomainScores, record)
		}
	}

	return result
}

// ParseScoreLine parses one "<name> <integer> <severity>" line into a domain
// score record. Exported because the line-assembly and bounding-box tiers
// reuse it for lines that happen to be fully formed.
func ParseScoreLine(line string) (npq.DomainScore, bool) {
	m := scoreLineRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return npq.DomainScore{}, false
	}

	score, err := strconv.Atoi(m[2])
	if err != nil {
		return npq.DomainScore{}, false
	}
	severity, ok := npq.ParseSeverity(m[3])
	if !ok {
		return npq.DomainScore{}, false
	}

	record := npq.DomainScore{RawScore: score, Severity: severity}
	name := strings.TrimSpace(m[1])
	if canonical, known := npq.KnownDomain(name); known {
		record.Domain = canonical
	} else {
		record.Domain = name
		record.Unknown = true
	}
	return record, true
}
