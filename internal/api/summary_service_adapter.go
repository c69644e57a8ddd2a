package api

import "github.com/soaringjerry/peerlens/internal/services"

type summaryStoreAdapter struct {
	store Store
}

func newSummaryStoreAdapter(store Store) services.SummaryStore {
	return &summaryStoreAdapter{store: store}
}

// ListReviewsBySubject hands the composer value copies so summarizing never
// races with later submissions.
func (a *summaryStoreAdapter) ListReviewsBySubject(subjectID string) ([]services.Review, error) {
	rs := a.store.ListReviewsBySubject(subjectID)
	out := make([]services.Review, 0, len(rs))
	for _, rv := range rs {
		out = append(out, *rv)
	}
	return out, nil
}

var _ services.SummaryStore = (*summaryStoreAdapter)(nil)
