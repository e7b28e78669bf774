package npq

import "strings"

// Severity is a qualitative label describing the magnitude of a domain or
// question score.
type Severity string

const (
	SeveritySevere     Severity = "Severe"
	SeverityModerate   Severity = "Moderate"
	SeverityMild       Severity = "Mild"
	SeverityNotProblem Severity = "Not a problem"
)

// Domains is the closed vocabulary of questionnaire domains scored by the
// instrument. Extracted names are matched against this list; anything else is
// tagged unknown rather than dropped.
var Domains = []string{
	"Attention",
	"Impulsive",
	"Learning",
	"Memory",
	"Anxiety",
	"Panic",
	"Agoraphobia",
	"Obsessions & Compulsions",
	"Social Anxiety",
	"Depression",
	"Mood Stability",
	"Suicide",
	"Aggression",
	"Psychotic",
	"Somatic",
	"Fatigue",
	"Sleep",
	"Substance Abuse",
	"Pain",
	"PTSD",
	"Bipolar",
	"Autism",
	"Asperger's",
	"ADHD",
	"Concussion",
	"Dementia",
	"Anorexia",
	"Bulimia",
	"Stress",
}

var domainIndex = buildDomainIndex()

func buildDomainIndex() map[string]string {
	idx := make(map[string]string, len(Domains))
	for _, d := range Domains {
		idx[strings.ToLower(d)] = d
	}
	return idx
}

// KnownDomain reports whether name matches the domain vocabulary and returns
// the canonical spelling when it does.
func KnownDomain(name string) (string, bool) {
	canonical, ok := domainIndex[strings.ToLower(strings.TrimSpace(name))]
	return canonical, ok
}

// ContainsDomainTerm reports whether the line mentions any vocabulary domain.
// Used for page-continuation checks and the line-assembly strategy, where a
// domain name may be embedded in surrounding text. The longest matching term
// wins, so "Social Anxiety" is never reported as "Anxiety".
func ContainsDomainTerm(line string) (string, bool) {
	if canonical, ok := KnownDomain(line); ok {
		return canonical, true
	}

	lower := strings.ToLower(line)
	best := ""
	for _, d := range Domains {
		if strings.Contains(lower, strings.ToLower(d)) && len(d) > len(best) {
			best = d
		}
	}
	return best, best != ""
}

// ParseSeverity matches a token against the severity vocabulary.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "severe":
		return SeveritySevere, true
	case "moderate":
		return SeverityModerate, true
	case "mild":
		return SeverityMild, true
	case "not a problem", "not a problem.", "none":
		return SeverityNotProblem, true
	}
	return "", false
}

// ContainsSeverityTerm scans a line for any severity word and returns the
// first match.
func ContainsSeverityTerm(line string) (Severity, bool) {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "severe"):
		return SeveritySevere, true
	case strings.Contains(lower, "moderate"):
		return SeverityModerate, true
	case strings.Contains(lower, "mild"):
		return SeverityMild, true
	case strings.Contains(lower, "not a problem"):
		return SeverityNotProblem, true
	}
	return "", false
}

// SeverityForScore maps a question score in [0,3] onto the severity scale.
func SeverityForScore(score int) Severity {
	switch score {
	case 3:
		return SeveritySevere
	case 2:
		return SeverityModerate
	case 1:
		return SeverityMild
	default:
		return SeverityNotProblem
	}
}

// DescriptionForSeverity returns the clinical interpretation text stored
// alongside each domain score.
func DescriptionForSeverity(sev Severity) string {
	switch sev {
	case SeveritySevere:
		return "Clinically significant, requires attention"
	case SeverityModerate:
		return "Potentially significant, monitor closely"
	case SeverityMild:
		return "Mild concern, may benefit from monitoring"
	default:
		return "Not clinically significant"
	}
}
