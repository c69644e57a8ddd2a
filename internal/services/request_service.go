package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RequestStore abstracts persistence operations required by RequestService.
type RequestStore interface {
	InsertRequest(r *ReviewRequest) error
	GetRequest(id string) (*ReviewRequest, error)
}

type RequestService struct {
	store       RequestStore
	now         func() time.Time
	idGenerator func() string
}

// CreateRequestInput transports the sanitized handler input into the service layer.
type CreateRequestInput struct {
	SubjectID         string     `json:"subject_id"`
	SubjectRole       string     `json:"subject_role,omitempty"`
	SubjectDepartment string     `json:"subject_department,omitempty"`
	DueDate           time.Time  `json:"due_date"`
	ReviewType        ReviewType `json:"review_type"`
	AnonymityLevel    string     `json:"anonymity_level"`
	ReviewerIDs       []string   `json:"reviewer_ids,omitempty"`
	Questions         []Question `json:"questions"`
}

func NewRequestService(store RequestStore) *RequestService {
	return &RequestService{
		store:       store,
		now:         func() time.Time { return time.Now().UTC() },
		idGenerator: uuid.NewString,
	}
}

// CreateRequest validates and stores a review request. The question set is
// copied so later changes to the input cannot alter what reviewers answer.
func (s *RequestService) CreateRequest(in CreateRequestInput) (*ReviewRequest, error) {
	subject := strings.TrimSpace(in.SubjectID)
	if subject == "" {
		return nil, NewInputError("subject_id", "required")
	}
	level, err := ParseAnonymityLevel(in.AnonymityLevel)
	if err != nil {
		return nil, NewInputError("anonymity_level", "%v: %q", err, in.AnonymityLevel)
	}
	reviewType := in.ReviewType
	if reviewType == "" {
		reviewType = ReviewAdHoc
	}
	if !reviewType.valid() {
		return nil, NewInputError("review_type", "unknown review type %q", in.ReviewType)
	}
	if len(in.Questions) == 0 {
		return nil, NewInputError("questions", "at least one question required")
	}
	seen := make(map[string]struct{}, len(in.Questions))
	for _, q := range in.Questions {
		if err := ValidateQuestion(q); err != nil {
			return nil, err
		}
		if _, dup := seen[q.ID]; dup {
			return nil, NewInputError(q.ID, "duplicate question id")
		}
		seen[q.ID] = struct{}{}
	}

	req := &ReviewRequest{
		ID:                s.idGenerator(),
		SubjectID:         subject,
		SubjectRole:       in.SubjectRole,
		SubjectDepartment: in.SubjectDepartment,
		DueDate:           in.DueDate,
		ReviewType:        reviewType,
		AnonymityLevel:    level,
		ReviewerIDs:       append([]string(nil), in.ReviewerIDs...),
		Questions:         copyQuestions(in.Questions),
		CreatedAt:         s.now(),
	}
	if err := s.store.InsertRequest(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *RequestService) GetRequest(id string) (*ReviewRequest, error) {
	req, err := s.store.GetRequest(id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, newRequestNotFoundError(id)
	}
	return req, nil
}

func copyQuestions(in []Question) []Question {
	out := make([]Question, len(in))
	for i, q := range in {
		if q.Scale != nil {
			sc := *q.Scale
			sc.Labels = append([]string(nil), q.Scale.Labels...)
			q.Scale = &sc
		}
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}
