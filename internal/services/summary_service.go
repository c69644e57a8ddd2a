package services

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

type SummaryStore interface {
	ListReviewsBySubject(subjectID string) ([]Review, error)
}

// SummaryService recomputes summaries from the full review set each time;
// the store stays the single source of truth.
type SummaryService struct {
	store      SummaryStore
	summarizer *Summarizer
	workers    int
}

type BatchSummary struct {
	Summaries []*PeerReviewSummary `json:"summaries"`
	Empty     []string             `json:"empty_subjects,omitempty"`
}

func NewSummaryService(store SummaryStore, summarizer *Summarizer, workers int) *SummaryService {
	if workers <= 0 {
		workers = 4
	}
	return &SummaryService{store: store, summarizer: summarizer, workers: workers}
}

func (s *SummaryService) Summary(subjectID string) (*PeerReviewSummary, error) {
	if subjectID == "" {
		return nil, NewInputError("subject_id", "required")
	}
	reviews, err := s.store.ListReviewsBySubject(subjectID)
	if err != nil {
		return nil, err
	}
	return s.summarizer.Summarize(subjectID, reviews)
}

// SummarizeSubjects computes summaries for several subjects in parallel.
// Results keep the order of subjectIDs; subjects without reviews are listed
// in Empty instead of failing the batch.
func (s *SummaryService) SummarizeSubjects(ctx context.Context, subjectIDs []string) (*BatchSummary, error) {
	results := make([]*PeerReviewSummary, len(subjectIDs))
	empty := make([]bool, len(subjectIDs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, id := range subjectIDs {
		i, id := i, id
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sum, err := s.Summary(id)
			if errors.Is(err, ErrEmptyReviewSet) {
				empty[i] = true
				return nil
			}
			if err != nil {
				return err
			}
			results[i] = sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &BatchSummary{Summaries: make([]*PeerReviewSummary, 0, len(subjectIDs))}
	for i, id := range subjectIDs {
		if empty[i] {
			out.Empty = append(out.Empty, id)
			continue
		}
		out.Summaries = append(out.Summaries, results[i])
	}
	return out, nil
}
