package grounding

import "strings"

// rejectionPhrases mark a generation as a deliberate non-answer. Portuguese
// first (the assistant's language), English variants kept for mixed-language
// model output.
var rejectionPhrases = []string{
	"não encontrei",
	"nao encontrei",
	"não consta nos protocolos",
	"nao consta nos protocolos",
	"não tenho acesso",
	"não posso responder",
	"não há informações",
	"informações insuficientes",
	"no access",
	"cannot answer",
	"could not find",
	"unable to",
	"i don't have",
}

// isAppropriateRejection reports whether the generation contains a refusal
// phrase.
func isAppropriateRejection(generation string) bool {
	genLower := strings.ToLower(generation)
	for _, phrase := range rejectionPhrases {
		if strings.Contains(genLower, phrase) {
			return true
		}
	}
	return false
}
