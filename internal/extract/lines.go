package extract

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/cogniscan/cogniscan/internal/npq"
	"github.com/cogniscan/cogniscan/internal/pdf"
)

// assemblyState is the explicit state of the line-assembly scan.
type assemblyState int

const (
	stateIdle assemblyState = iota
	stateHaveDomain
	stateHaveDomainAndScore
)

// accumulator carries the partially assembled record between lines.
type accumulator struct {
	state  assemblyState
	domain string
	score  int
}

func (a *accumulator) reset() {
	*a = accumulator{}
}

// LineAssemblyStrategy recovers records whose fields were split across lines
// by bad line breaking. It scans lines sequentially holding current-domain
// and current-score slots: a vocabulary line resets the score slot, a bare
// integer fills it, and a severity line completes and emits the record.
type LineAssemblyStrategy struct{}

// Name implements Strategy.
func (s *LineAssemblyStrategy) Name() string { return "line-assembly" }

// Extract implements Strategy.
func (s *LineAssemblyStrategy) Extract(pages []pdf.PageContent, logger *slog.Logger) Result {
	var result Result
	var acc accumulator

	for _, page := range pages {
		for _, line := range page.Lines {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}

			// A fully formed line needs no assembly.
			if record, ok := ParseScoreLine(line); ok {
				result.DomainScores = append(result.DomainScores, record)
				acc.reset()
				continue
			}

			if domain, ok := npq.ContainsDomainTerm(line); ok {
				// New domain always resets the score slot, even mid-assembly.
				acc = accumulator{state: stateHaveDomain, domain: domain}
				continue
			}

			if acc.state == stateHaveDomain {
				if score, err := strconv.Atoi(line); err == nil {
					acc.score = score
					acc.state = stateHaveDomainAndScore
					continue
				}
			}

			if acc.state == stateHaveDomainAndScore {
				if severity, ok := npq.ContainsSeverityTerm(line); ok {
					result.DomainScores = append(result.DomainScores, npq.DomainScore{
						Domain:   acc.domain,
						RawScore: acc.score,
						Severity: severity,
					})
					acc.reset()
					continue
				}
			}

			logger.Debug("line not classified by assembly scan", "line", line, "state", int(acc.state))
		}
	}

	return result
}
