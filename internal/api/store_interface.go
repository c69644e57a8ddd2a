package api

import (
	"time"

	"github.com/soaringjerry/peerlens/internal/services"
)

type Store interface {
	AddRequest(r *services.ReviewRequest)
	GetRequest(id string) *services.ReviewRequest
	ListRequests() []*services.ReviewRequest

	AddReview(rv *services.Review)
	CountReviews(requestID string) int
	ListReviewsBySubject(subjectID string) []*services.Review
	CleanupBefore(cutoff time.Time) int

	AddAudit(e AuditEntry)
	ListAudit() []AuditEntry
}

var _ Store = (*memoryStore)(nil)
