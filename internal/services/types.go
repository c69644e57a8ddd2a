package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

type QuestionType string

const (
	QuestionRating         QuestionType = "rating"
	QuestionText           QuestionType = "text"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionRanking        QuestionType = "ranking"
)

type Category string

const (
	CategoryTechnical     Category = "technical"
	CategoryCommunication Category = "communication"
	CategoryLeadership    Category = "leadership"
	CategoryCollaboration Category = "collaboration"
	CategoryGeneral       Category = "general"
)

type ReviewType string

const (
	ReviewQuarterly  ReviewType = "quarterly"
	ReviewAnnual     ReviewType = "annual"
	ReviewProjectEnd ReviewType = "project_end"
	ReviewAdHoc      ReviewType = "ad_hoc"
)

// RatingScale declares the integer bounds of a rating question.
// Labels, when present, name each point from Min to Max.
type RatingScale struct {
	Min    int      `json:"min"`
	Max    int      `json:"max"`
	Labels []string `json:"labels,omitempty"`
}

type Question struct {
	ID       string       `json:"id"`
	Text     string       `json:"text"`
	Type     QuestionType `json:"type"`
	Category Category     `json:"category"`
	Required bool         `json:"required,omitempty"`
	Scale    *RatingScale `json:"scale,omitempty"`
	Options  []string     `json:"options,omitempty"`
}

// ReviewRequest asks a set of reviewers to answer a fixed question set about one subject.
type ReviewRequest struct {
	ID                string         `json:"id"`
	SubjectID         string         `json:"subject_id"`
	SubjectRole       string         `json:"subject_role,omitempty"`
	SubjectDepartment string         `json:"subject_department,omitempty"`
	DueDate           time.Time      `json:"due_date"`
	ReviewType        ReviewType     `json:"review_type"`
	AnonymityLevel    AnonymityLevel `json:"anonymity_level"`
	ReviewerIDs       []string       `json:"reviewer_ids,omitempty"`
	Questions         []Question     `json:"questions"`
	CreatedAt         time.Time      `json:"created_at"`
}

// Question returns the question with the given id.
func (r *ReviewRequest) Question(id string) (Question, bool) {
	for _, q := range r.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Response is a single answer. Only the field matching Type is meaningful:
// Number for rating, Text for text, Choices for multiple_choice and ranking.
type Response struct {
	QuestionID string
	Type       QuestionType
	Category   Category
	Number     float64
	Text       string
	Choices    []string
}

type responseJSON struct {
	QuestionID string          `json:"question_id"`
	Type       QuestionType    `json:"type"`
	Category   Category        `json:"category,omitempty"`
	Value      json.RawMessage `json:"value"`
}

func (r Response) MarshalJSON() ([]byte, error) {
	var (
		value []byte
		err   error
	)
	switch r.Type {
	case QuestionRating:
		if !r.Answered() {
			value = []byte("null")
			break
		}
		value, err = json.Marshal(r.Number)
	case QuestionText:
		value, err = json.Marshal(r.Text)
	default:
		choices := r.Choices
		if choices == nil {
			choices = []string{}
		}
		value, err = json.Marshal(choices)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(responseJSON{QuestionID: r.QuestionID, Type: r.Type, Category: r.Category, Value: value})
}

// UnmarshalJSON decodes the polymorphic value according to the declared type.
// Values are not coerced: a rating must be a JSON number and choices a JSON
// array of strings. A missing rating decodes as NaN so Answered reports false.
func (r *Response) UnmarshalJSON(b []byte) error {
	var raw responseJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = Response{QuestionID: raw.QuestionID, Type: raw.Type, Category: raw.Category}
	if len(raw.Value) == 0 || string(raw.Value) == "null" {
		if raw.Type == QuestionRating {
			r.Number = math.NaN()
		}
		return nil
	}
	switch raw.Type {
	case QuestionRating:
		if err := json.Unmarshal(raw.Value, &r.Number); err != nil {
			return NewInputError(raw.QuestionID, "rating value must be a number")
		}
	case QuestionText:
		if err := json.Unmarshal(raw.Value, &r.Text); err != nil {
			return NewInputError(raw.QuestionID, "text value must be a string")
		}
	case QuestionMultipleChoice, QuestionRanking:
		if err := json.Unmarshal(raw.Value, &r.Choices); err != nil {
			return NewInputError(raw.QuestionID, "%s value must be a list of strings", raw.Type)
		}
	default:
		return NewInputError(raw.QuestionID, "unknown response type %q", raw.Type)
	}
	return nil
}

// Answered reports whether the response carries a usable value.
func (r Response) Answered() bool {
	switch r.Type {
	case QuestionRating:
		return !math.IsNaN(r.Number)
	case QuestionText:
		return strings.TrimSpace(r.Text) != ""
	default:
		return len(r.Choices) > 0
	}
}

// Review is one reviewer's submission. It never holds the raw reviewer id.
type Review struct {
	ID                string            `json:"id"`
	RequestID         string            `json:"request_id"`
	ReviewerPseudonym string            `json:"reviewer_pseudonym"`
	SubjectID         string            `json:"subject_id"`
	SubmittedAt       time.Time         `json:"submitted_at"`
	Responses         []Response        `json:"responses"`
	OverallRating     float64           `json:"overall_rating"`
	Metadata          *ReviewerMetadata `json:"reviewer_metadata,omitempty"`
	Complete          bool              `json:"complete"`
	MissingRequired   []string          `json:"missing_required,omitempty"`
}

type CategoryRating struct {
	Average      float64 `json:"average"`
	Count        int     `json:"count"`
	Distribution []int   `json:"distribution"`
}

type ReviewerComposition struct {
	ByRole         map[string]int `json:"by_role"`
	ByDepartment   map[string]int `json:"by_department"`
	ByRelationship map[string]int `json:"by_relationship"`
	ByFrequency    map[string]int `json:"by_frequency"`
}

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentMixed    Sentiment = "mixed"
	SentimentNeutral  Sentiment = "neutral"
)

// PeerReviewSummary is computed from the complete review set of one subject
// and replaced, never updated, when that set changes.
type PeerReviewSummary struct {
	SubjectID         string                      `json:"subject_id"`
	TotalReviews      int                         `json:"total_reviews"`
	IncompleteReviews int                         `json:"incomplete_reviews"`
	OverallRating     float64                     `json:"overall_rating"`
	CategoryRatings   map[Category]CategoryRating `json:"category_ratings"`
	Strengths         []string                    `json:"strengths"`
	Improvements      []string                    `json:"improvements"`
	CommonThemes      []string                    `json:"common_themes"`
	Composition       ReviewerComposition         `json:"reviewer_composition"`
	Sentiment         Sentiment                   `json:"sentiment"`
	Confidence        float64                     `json:"confidence"`
	RatingConsistency float64                     `json:"rating_consistency"`
}

func (q QuestionType) valid() bool {
	switch q {
	case QuestionRating, QuestionText, QuestionMultipleChoice, QuestionRanking:
		return true
	}
	return false
}

func (c Category) valid() bool {
	switch c {
	case CategoryTechnical, CategoryCommunication, CategoryLeadership, CategoryCollaboration, CategoryGeneral:
		return true
	}
	return false
}

func (t ReviewType) valid() bool {
	switch t {
	case ReviewQuarterly, ReviewAnnual, ReviewProjectEnd, ReviewAdHoc:
		return true
	}
	return false
}

func (s RatingScale) String() string { return fmt.Sprintf("%d-%d", s.Min, s.Max) }
