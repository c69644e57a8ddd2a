package services

import "sort"

const (
	maxThemes       = 5
	minThemeMention = 2
)

// CommonThemes returns up to five keywords mentioned by at least two
// different reviews. Keywords rank by how many text responses contain them;
// equal counts keep the order in which the keywords were first seen.
func (c *Classifier) CommonThemes(reviews []Review) []string {
	type tally struct {
		word      string
		mentions  int
		reviewers int
	}
	index := map[string]int{}
	var counts []tally
	for _, rv := range reviews {
		mentioned := map[string]struct{}{}
		for _, r := range rv.Responses {
			if r.Type != QuestionText || !r.Answered() {
				continue
			}
			for _, kw := range c.ExtractKeywords(r.Text) {
				i, ok := index[kw]
				if !ok {
					i = len(counts)
					index[kw] = i
					counts = append(counts, tally{word: kw})
				}
				counts[i].mentions++
				mentioned[kw] = struct{}{}
			}
		}
		for kw := range mentioned {
			counts[index[kw]].reviewers++
		}
	}

	common := make([]tally, 0, len(counts))
	for _, t := range counts {
		if t.reviewers >= minThemeMention {
			common = append(common, t)
		}
	}
	sort.SliceStable(common, func(i, j int) bool { return common[i].mentions > common[j].mentions })

	out := make([]string, 0, maxThemes)
	for _, t := range common {
		if len(out) == maxThemes {
			break
		}
		out = append(out, t.word)
	}
	return out
}
