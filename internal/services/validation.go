package services

import (
	"math"
	"strings"
)

// ValidateQuestion checks the constraints a question must declare before a
// request can use it.
func ValidateQuestion(q Question) error {
	if strings.TrimSpace(q.ID) == "" {
		return NewInputError("question", "id required")
	}
	if !q.Type.valid() {
		return NewInputError(q.ID, "unknown question type %q", q.Type)
	}
	if !q.Category.valid() {
		return NewInputError(q.ID, "unknown category %q", q.Category)
	}
	switch q.Type {
	case QuestionRating:
		if q.Scale == nil {
			return NewInputError(q.ID, "rating question must declare scale bounds")
		}
		if q.Scale.Min >= q.Scale.Max {
			return NewInputError(q.ID, "scale min %d must be below max %d", q.Scale.Min, q.Scale.Max)
		}
		if n := len(q.Scale.Labels); n > 0 && n != q.Scale.Max-q.Scale.Min+1 {
			return NewInputError(q.ID, "scale %s needs %d labels, got %d", q.Scale, q.Scale.Max-q.Scale.Min+1, n)
		}
	case QuestionMultipleChoice, QuestionRanking:
		if len(q.Options) == 0 {
			return NewInputError(q.ID, "%s question must declare options", q.Type)
		}
		seen := make(map[string]struct{}, len(q.Options))
		for _, opt := range q.Options {
			if _, dup := seen[opt]; dup {
				return NewInputError(q.ID, "duplicate option %q", opt)
			}
			seen[opt] = struct{}{}
		}
	}
	return nil
}

// ValidateResponse checks one answer against the question it claims to answer.
// Unanswered responses pass; required-ness is tracked by ValidateReview.
func ValidateResponse(q Question, r Response) error {
	if r.QuestionID != q.ID {
		return NewInputError(r.QuestionID, "response does not answer question %q", q.ID)
	}
	if r.Type != q.Type {
		return NewInputError(q.ID, "response type %q does not match question type %q", r.Type, q.Type)
	}
	if !r.Answered() {
		return nil
	}
	switch q.Type {
	case QuestionRating:
		if q.Scale == nil {
			return NewInputError(q.ID, "rating question has no scale")
		}
		if math.IsInf(r.Number, 0) || r.Number != math.Trunc(r.Number) {
			return NewInputError(q.ID, "rating %v is not an integer", r.Number)
		}
		if r.Number < float64(q.Scale.Min) || r.Number > float64(q.Scale.Max) {
			return NewInputError(q.ID, "rating %v outside %s", r.Number, q.Scale)
		}
	case QuestionMultipleChoice, QuestionRanking:
		allowed := make(map[string]struct{}, len(q.Options))
		for _, opt := range q.Options {
			allowed[opt] = struct{}{}
		}
		seen := make(map[string]struct{}, len(r.Choices))
		for _, c := range r.Choices {
			if _, ok := allowed[c]; !ok {
				return NewInputError(q.ID, "%q is not a declared option", c)
			}
			if _, dup := seen[c]; dup && q.Type == QuestionRanking {
				return NewInputError(q.ID, "%q ranked more than once", c)
			}
			seen[c] = struct{}{}
		}
	}
	return nil
}

// ReviewCheck is the outcome of validating a full submission.
type ReviewCheck struct {
	Missing []string
}

func (c ReviewCheck) Complete() bool { return len(c.Missing) == 0 }

// ValidateReview validates every response against the request's question set
// and lists required questions left unanswered. Missing answers only mark the
// review incomplete; malformed answers are returned as input errors.
func ValidateReview(questions []Question, responses []Response) (ReviewCheck, error) {
	byID := make(map[string]Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	answered := make(map[string]bool, len(responses))
	for _, r := range responses {
		q, ok := byID[r.QuestionID]
		if !ok {
			return ReviewCheck{}, NewInputError(r.QuestionID, "unknown question")
		}
		if _, dup := answered[r.QuestionID]; dup {
			return ReviewCheck{}, NewInputError(r.QuestionID, "answered more than once")
		}
		if err := ValidateResponse(q, r); err != nil {
			return ReviewCheck{}, err
		}
		answered[r.QuestionID] = r.Answered()
	}
	var check ReviewCheck
	for _, q := range questions {
		if q.Required && !answered[q.ID] {
			check.Missing = append(check.Missing, q.ID)
		}
	}
	return check, nil
}

// CheckRatings rejects rating answers that are not whole numbers in
// [1, maxRating]. It guards reviews that did not pass through
// ValidateReview, such as those read from a file.
func CheckRatings(reviews []Review, maxRating int) error {
	for _, rv := range reviews {
		for _, r := range rv.Responses {
			if r.Type != QuestionRating || !r.Answered() {
				continue
			}
			if math.IsInf(r.Number, 0) || r.Number != math.Trunc(r.Number) {
				return NewInputError(r.QuestionID, "review %s: rating %v is not an integer", rv.ID, r.Number)
			}
			if r.Number < 1 || r.Number > float64(maxRating) {
				return NewInputError(r.QuestionID, "review %s: rating %v outside 1-%d", rv.ID, r.Number, maxRating)
			}
		}
	}
	return nil
}
