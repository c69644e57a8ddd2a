package services

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var defaultStrengthWords = []string{
	"excellent", "effective", "collaborative", "great", "strong", "outstanding",
	"helpful", "reliable", "skilled", "innovative", "proactive", "supportive",
	"thorough", "dependable", "creative", "knowledgeable", "clear communicator",
}

var defaultImprovementWords = []string{
	"improve", "should", "struggle", "could", "better", "lack", "needs to",
	"difficult", "challenge", "work on", "inconsistent", "slow", "missed",
}

var defaultStopWords = []string{
	"the", "is", "and", "very", "a", "an", "to", "of", "in", "on", "for", "with",
	"at", "by", "from", "as", "are", "was", "were", "be", "been", "being", "it",
	"its", "this", "that", "these", "those", "he", "she", "they", "them", "his",
	"her", "their", "we", "our", "you", "your", "me", "my", "or", "but", "so",
	"too", "has", "have", "had", "do", "does", "did", "can", "will", "would",
	"just", "also", "really", "about", "into", "than", "then", "there", "what",
	"when", "which", "who", "all", "any", "some", "more", "most", "not", "always",
	"often", "much", "well", "get", "gets", "how",
}

// Lexicon is the fixed vocabulary driving classification and keyword
// extraction. Entries are lower-case. Treat a Lexicon as read-only once built.
type Lexicon struct {
	Strength    []string
	Improvement []string
	StopWords   []string
}

// DefaultLexicon returns a fresh copy of the built-in English lexicon.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Strength:    append([]string(nil), defaultStrengthWords...),
		Improvement: append([]string(nil), defaultImprovementWords...),
		StopWords:   append([]string(nil), defaultStopWords...),
	}
}

// lexiconFile is the YAML shape accepted by ParseLexicon.
//
//	mode: extend      # or replace
//	strength: [stellar]
//	improvement: [revisit]
//	stop_words: [la, le]
type lexiconFile struct {
	Mode        string   `yaml:"mode"`
	Strength    []string `yaml:"strength"`
	Improvement []string `yaml:"improvement"`
	StopWords   []string `yaml:"stop_words"`
}

// ParseLexicon builds a lexicon from YAML. In extend mode (the default) the
// lists are appended to the built-in ones; in replace mode any list given
// replaces its built-in counterpart.
func ParseLexicon(data []byte) (Lexicon, error) {
	var f lexiconFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Lexicon{}, fmt.Errorf("parse lexicon: %w", err)
	}
	lex := DefaultLexicon()
	switch strings.ToLower(strings.TrimSpace(f.Mode)) {
	case "", "extend":
		lex.Strength = mergeWords(lex.Strength, f.Strength)
		lex.Improvement = mergeWords(lex.Improvement, f.Improvement)
		lex.StopWords = mergeWords(lex.StopWords, f.StopWords)
	case "replace":
		if len(f.Strength) > 0 {
			lex.Strength = mergeWords(nil, f.Strength)
		}
		if len(f.Improvement) > 0 {
			lex.Improvement = mergeWords(nil, f.Improvement)
		}
		if len(f.StopWords) > 0 {
			lex.StopWords = mergeWords(nil, f.StopWords)
		}
	default:
		return Lexicon{}, fmt.Errorf("parse lexicon: unknown mode %q", f.Mode)
	}
	return lex, nil
}

// LoadLexicon reads a YAML lexicon file. An empty path yields DefaultLexicon.
func LoadLexicon(path string) (Lexicon, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultLexicon(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, fmt.Errorf("read lexicon %s: %w", path, err)
	}
	return ParseLexicon(data)
}

func mergeWords(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, w := range list {
			w = strings.ToLower(strings.TrimSpace(w))
			if w == "" {
				continue
			}
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			out = append(out, w)
		}
	}
	return out
}
