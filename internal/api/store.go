package api

import (
	"sort"
	"sync"
	"time"

	"github.com/soaringjerry/peerlens/internal/services"
)

// memoryStore is the in-process review registry. Reviews are kept only for
// the life of the process.
type memoryStore struct {
	mu               sync.RWMutex
	requests         map[string]*services.ReviewRequest
	reviewsBySubject map[string][]*services.Review
	reviewCount      map[string]int // by request id
	audit            []AuditEntry
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		requests:         map[string]*services.ReviewRequest{},
		reviewsBySubject: map[string][]*services.Review{},
		reviewCount:      map[string]int{},
		audit:            []AuditEntry{},
	}
}

func (s *memoryStore) AddRequest(r *services.ReviewRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[r.ID] = r
}

func (s *memoryStore) GetRequest(id string) *services.ReviewRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.requests[id]
}

func (s *memoryStore) ListRequests() []*services.ReviewRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*services.ReviewRequest, 0, len(s.requests))
	for _, r := range s.requests {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *memoryStore) AddReview(rv *services.Review) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviewsBySubject[rv.SubjectID] = append(s.reviewsBySubject[rv.SubjectID], rv)
	s.reviewCount[rv.RequestID]++
}

func (s *memoryStore) CountReviews(requestID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reviewCount[requestID]
}

// ListReviewsBySubject returns reviews in submission order.
func (s *memoryStore) ListReviewsBySubject(subjectID string) []*services.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*services.Review(nil), s.reviewsBySubject[subjectID]...)
}

// drop reviews submitted before cutoff, return removed count
func (s *memoryStore) CleanupBefore(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for subject, rs := range s.reviewsBySubject {
		kept := make([]*services.Review, 0, len(rs))
		for _, rv := range rs {
			if rv.SubmittedAt.Before(cutoff) {
				removed++
				s.reviewCount[rv.RequestID]--
				continue
			}
			kept = append(kept, rv)
		}
		if len(kept) == 0 {
			delete(s.reviewsBySubject, subject)
			continue
		}
		s.reviewsBySubject[subject] = kept
	}
	return removed
}

// audit log. Actor is always a pseudonym or "host", never a raw reviewer id.
type AuditEntry struct {
	Time   time.Time `json:"time"`
	Actor  string    `json:"actor"`
	Action string    `json:"action"`
	Target string    `json:"target"`
	Note   string    `json:"note,omitempty"`
}

func (s *memoryStore) AddAudit(e AuditEntry) {
	s.mu.Lock()
	s.audit = append(s.audit, e)
	s.mu.Unlock()
}

func (s *memoryStore) ListAudit() []AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]AuditEntry, len(s.audit))
	copy(out, s.audit)
	return out
}
