package services

import (
	"strings"
	"unicode"
)

type Classification string

const (
	ClassStrength    Classification = "strength"
	ClassImprovement Classification = "improvement"
	ClassNeutral     Classification = "neutral"
)

const maxKeywords = 10

// Classifier scores free text against a Lexicon. It matches substrings, so
// negation ("not effective") and sarcasm are not recognized.
type Classifier struct {
	strength    []string
	improvement []string
	stop        map[string]struct{}
}

func NewClassifier(lex Lexicon) *Classifier {
	stop := make(map[string]struct{}, len(lex.StopWords))
	for _, w := range lex.StopWords {
		stop[strings.ToLower(w)] = struct{}{}
	}
	return &Classifier{
		strength:    lowerAll(lex.Strength),
		improvement: lowerAll(lex.Improvement),
		stop:        stop,
	}
}

// Classify counts occurrences of strength and improvement indicators and
// returns the majority class. Ties, including no hits at all, are neutral.
func (c *Classifier) Classify(text string) Classification {
	lower := strings.ToLower(text)
	pos := countOccurrences(lower, c.strength)
	neg := countOccurrences(lower, c.improvement)
	switch {
	case pos > neg:
		return ClassStrength
	case neg > pos:
		return ClassImprovement
	default:
		return ClassNeutral
	}
}

// ExtractKeywords returns up to ten distinct lower-case tokens in order of
// first appearance, skipping stop words and tokens of two runes or fewer.
func (c *Classifier) ExtractKeywords(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return unicode.ToLower(r)
		case unicode.IsSpace(r):
			return ' '
		}
		return -1
	}, text)

	out := make([]string, 0, maxKeywords)
	seen := make(map[string]struct{})
	for _, tok := range strings.Fields(cleaned) {
		if len([]rune(tok)) <= 2 {
			continue
		}
		if _, ok := c.stop[tok]; ok {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
		if len(out) == maxKeywords {
			break
		}
	}
	return out
}

func countOccurrences(text string, words []string) int {
	n := 0
	for _, w := range words {
		if w == "" {
			continue
		}
		n += strings.Count(text, w)
	}
	return n
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, w := range in {
		out = append(out, strings.ToLower(w))
	}
	return out
}
