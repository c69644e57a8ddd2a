package api

import (
	"log"

	"github.com/soaringjerry/peerlens/internal/services"
)

type reviewStoreAdapter struct {
	store Store
}

func newReviewStoreAdapter(store Store) services.ReviewStore {
	return &reviewStoreAdapter{store: store}
}

func (a *reviewStoreAdapter) GetRequest(id string) (*services.ReviewRequest, error) {
	return a.store.GetRequest(id), nil
}

func (a *reviewStoreAdapter) AddReview(rv *services.Review) error {
	a.store.AddReview(rv)
	note := ""
	if !rv.Complete {
		note = "incomplete"
	}
	a.store.AddAudit(AuditEntry{Time: rv.SubmittedAt, Actor: rv.ReviewerPseudonym, Action: "submit_review", Target: rv.RequestID, Note: note})
	log.Printf("review %s stored for request %s (%d responses)", rv.ID, rv.RequestID, len(rv.Responses))
	return nil
}

var _ services.ReviewStore = (*reviewStoreAdapter)(nil)
