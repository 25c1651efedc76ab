package renderer

import "strings"

// sentenceEnders terminate a synthesis segment. CJK enders are included
// since replies may come back in the character's language.
const sentenceEnders = ".?!。！？"

// SplitSentences breaks synthesis text into speakable segments, keeping
// the terminating punctuation attached. Trailing text without a
// terminator becomes its own segment.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		if sentence := strings.TrimSpace(current.String()); sentence != "" {
			sentences = append(sentences, sentence)
		}
		current.Reset()
	}

	for _, r := range text {
		current.WriteRune(r)
		if strings.ContainsRune(sentenceEnders, r) {
			flush()
		}
	}
	flush()

	return sentences
}
