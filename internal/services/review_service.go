package services

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
)

// ReviewStore abstracts persistence operations required by ReviewService.
type ReviewStore interface {
	GetRequest(id string) (*ReviewRequest, error)
	AddReview(rv *Review) error
}

// SubmitReviewInput carries one reviewer's answers. ReviewerID and Metadata
// are consumed here and never stored as given.
type SubmitReviewInput struct {
	RequestID  string
	ReviewerID string
	Metadata   *RawReviewerMetadata
	Responses  []Response
}

// SubmissionResult collects the data needed to acknowledge a submission.
type SubmissionResult struct {
	ReviewID        string   `json:"review_id"`
	Pseudonym       string   `json:"reviewer_pseudonym"`
	OverallRating   float64  `json:"overall_rating"`
	Complete        bool     `json:"complete"`
	MissingRequired []string `json:"missing_required,omitempty"`
}

// ReviewService hosts the submission workflow: validate, pseudonymize,
// project reviewer metadata and store.
type ReviewService struct {
	store       ReviewStore
	anonymizer  *Anonymizer
	now         func() time.Time
	idGenerator func() string
}

func NewReviewService(store ReviewStore, anonymizer *Anonymizer) *ReviewService {
	return &ReviewService{
		store:       store,
		anonymizer:  anonymizer,
		now:         func() time.Time { return time.Now().UTC() },
		idGenerator: uuid.NewString,
	}
}

func (s *ReviewService) Submit(in SubmitReviewInput) (*SubmissionResult, error) {
	if s.store == nil {
		return nil, errors.New("review service store is nil")
	}
	if in.ReviewerID == "" {
		return nil, NewInputError("reviewer_id", "required")
	}
	req, err := s.store.GetRequest(in.RequestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, newRequestNotFoundError(in.RequestID)
	}

	check, err := ValidateReview(req.Questions, in.Responses)
	if err != nil {
		return nil, err
	}

	responses := make([]Response, 0, len(in.Responses))
	for _, r := range in.Responses {
		if !r.Answered() {
			continue
		}
		q, _ := req.Question(r.QuestionID)
		r.Category = q.Category
		r.Choices = append([]string(nil), r.Choices...)
		responses = append(responses, r)
	}

	submittedAt := s.now()
	rv := &Review{
		ID:                s.idGenerator(),
		RequestID:         req.ID,
		ReviewerPseudonym: s.anonymizer.DerivePseudonym(in.ReviewerID, req.ID, submittedAt),
		SubjectID:         req.SubjectID,
		SubmittedAt:       submittedAt,
		Responses:         responses,
		OverallRating:     OverallRating(responses),
		Complete:          check.Complete(),
		MissingRequired:   check.Missing,
	}
	if in.Metadata != nil {
		if !req.AnonymityLevel.Valid() {
			log.Printf("review %s: %v %q, keeping fully_anonymous fields only", rv.ID, ErrUnknownPolicyLevel, req.AnonymityLevel)
		}
		if m := ProjectMetadata(req.AnonymityLevel, *in.Metadata); !m.Empty() {
			rv.Metadata = &m
		}
	}

	if err := s.store.AddReview(rv); err != nil {
		return nil, err
	}
	return &SubmissionResult{
		ReviewID:        rv.ID,
		Pseudonym:       rv.ReviewerPseudonym,
		OverallRating:   rv.OverallRating,
		Complete:        rv.Complete,
		MissingRequired: rv.MissingRequired,
	}, nil
}
