package services

import (
	"strings"

	"gonum.org/v1/gonum/stat"
)

const (
	maxStrengths    = 5
	maxImprovements = 3
)

// Summarizer composes a PeerReviewSummary from a subject's reviews. It holds
// only immutable configuration and is safe for concurrent use.
type Summarizer struct {
	classifier  *Classifier
	scalePoints int
}

type SummarizerOption func(*Summarizer)

// WithScalePoints sets the minimum length of category distributions.
func WithScalePoints(n int) SummarizerOption {
	return func(s *Summarizer) {
		if n > 0 {
			s.scalePoints = n
		}
	}
}

func NewSummarizer(lex Lexicon, opts ...SummarizerOption) *Summarizer {
	s := &Summarizer{classifier: NewClassifier(lex), scalePoints: DefaultScalePoints}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Summarizer) Classifier() *Classifier { return s.classifier }

// Summarize aggregates the complete review set of one subject. It performs
// no I/O and reads no clock, so equal inputs give equal summaries.
func (s *Summarizer) Summarize(subjectID string, reviews []Review) (*PeerReviewSummary, error) {
	if len(reviews) == 0 {
		return nil, newEmptyReviewSetError(subjectID)
	}

	overall := make([]float64, 0, len(reviews))
	incomplete := 0
	for _, rv := range reviews {
		overall = append(overall, rv.OverallRating)
		if !rv.Complete {
			incomplete++
		}
	}
	average := round(stat.Mean(overall, nil), 1)

	var strengths, improvements []string
	for _, rv := range reviews {
		for _, r := range rv.Responses {
			if r.Type != QuestionText || !r.Answered() {
				continue
			}
			text := strings.TrimSpace(r.Text)
			switch s.classifier.Classify(text) {
			case ClassStrength:
				strengths = append(strengths, text)
			case ClassImprovement:
				improvements = append(improvements, text)
			}
		}
	}
	consistency, _ := RatingConsistency(reviews)

	return &PeerReviewSummary{
		SubjectID:         subjectID,
		TotalReviews:      len(reviews),
		IncompleteReviews: incomplete,
		OverallRating:     average,
		CategoryRatings:   CategoryRatings(reviews, s.scalePoints),
		Strengths:         truncate(strengths, maxStrengths),
		Improvements:      truncate(improvements, maxImprovements),
		CommonThemes:      s.classifier.CommonThemes(reviews),
		Composition:       composition(reviews),
		Sentiment:         DeriveSentiment(average, len(strengths), len(improvements)),
		Confidence:        Confidence(len(reviews)),
		RatingConsistency: round(consistency, 3),
	}, nil
}

// composition counts visible reviewer fields. A record without a known level
// is read as fully_anonymous, the same fallback ProjectMetadata applies.
func composition(reviews []Review) ReviewerComposition {
	c := ReviewerComposition{
		ByRole:         map[string]int{},
		ByDepartment:   map[string]int{},
		ByRelationship: map[string]int{},
		ByFrequency:    map[string]int{},
	}
	for _, rv := range reviews {
		if rv.Metadata == nil {
			continue
		}
		m := *rv.Metadata
		if role, ok := m.RoleVisible(); ok {
			c.ByRole[role]++
		}
		if dept, ok := m.DepartmentVisible(); ok {
			c.ByDepartment[dept]++
		}
		if m.WorkRelationship != "" {
			c.ByRelationship[m.WorkRelationship]++
		}
		if m.CollaborationFrequency != "" {
			c.ByFrequency[m.CollaborationFrequency]++
		}
	}
	return c
}

func truncate(in []string, n int) []string {
	if len(in) > n {
		in = in[:n]
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
