package api

import (
	"time"

	"github.com/soaringjerry/peerlens/internal/services"
)

type requestStoreAdapter struct {
	store Store
}

func newRequestStoreAdapter(store Store) services.RequestStore {
	return &requestStoreAdapter{store: store}
}

func (a *requestStoreAdapter) InsertRequest(r *services.ReviewRequest) error {
	a.store.AddRequest(r)
	a.store.AddAudit(AuditEntry{Time: time.Now().UTC(), Actor: "host", Action: "create_request", Target: r.ID, Note: r.SubjectID})
	return nil
}

func (a *requestStoreAdapter) GetRequest(id string) (*services.ReviewRequest, error) {
	return a.store.GetRequest(id), nil
}

var _ services.RequestStore = (*requestStoreAdapter)(nil)
