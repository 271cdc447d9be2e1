package guardrails

import "regexp"

// PIIType is the category of personal data found in a question.
type PIIType string

const (
	PIITypeCPF         PIIType = "cpf"
	PIITypeCNPJ        PIIType = "cnpj"
	PIITypePhone       PIIType = "phone"
	PIITypeEmail       PIIType = "email"
	PIITypePatientName PIIType = "patient_name"
)

type piiPattern struct {
	Type    PIIType
	Pattern *regexp.Regexp
}

// piiPatterns is evaluated in order; the first match wins. Patterns target
// Brazilian identifiers since the protocol base and its users are Brazilian.
var piiPatterns = []piiPattern{
	{PIITypeCPF, regexp.MustCompile(`\d{3}\.\d{3}\.\d{3}-\d{2}`)},
	{PIITypeCNPJ, regexp.MustCompile(`\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}`)},
	{PIITypePhone, regexp.MustCompile(`(\+\d{1,3})?\s?\(?\d{2}\)?\s?\d{4,5}-?\d{4}`)},
	{PIITypeEmail, regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)},
	{PIITypePatientName, regexp.MustCompile(`(?i:paciente|patient|sr\.|dra?\.|mrs?\.)\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*`)},
}

// DetectPII scans text against the fixed pattern set and returns the first
// matching category. The matched content itself is never returned; only the
// category may surface in user-facing messages.
func DetectPII(text string) (PIIType, bool) {
	for _, p := range piiPatterns {
		if p.Pattern.MatchString(text) {
			return p.Type, true
		}
	}
	return "", false
}
