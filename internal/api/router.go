package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/soaringjerry/peerlens/internal/services"
)

const maxBodyBytes = 1 << 20

// Options configures the engine behind the router.
type Options struct {
	PseudonymKey   []byte
	Lexicon        services.Lexicon
	ScalePoints    int
	SummaryWorkers int
}

type Router struct {
	store      Store
	requests   *services.RequestService
	reviews    *services.ReviewService
	summaries  *services.SummaryService
	classifier *services.Classifier
}

func NewRouter(opts Options) *Router {
	store := newMemoryStore()
	summarizer := services.NewSummarizer(opts.Lexicon, services.WithScalePoints(opts.ScalePoints))
	return &Router{
		store:      store,
		requests:   services.NewRequestService(newRequestStoreAdapter(store)),
		reviews:    services.NewReviewService(newReviewStoreAdapter(store), services.NewAnonymizer(opts.PseudonymKey)),
		summaries:  services.NewSummaryService(newSummaryStoreAdapter(store), summarizer, opts.SummaryWorkers),
		classifier: summarizer.Classifier(),
	}
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/requests", rt.handleRequests)        // POST create, GET list
	mux.HandleFunc("/api/requests/", rt.handleRequestScoped)  // GET /api/requests/{id}, POST /api/requests/{id}/reviews
	mux.HandleFunc("/api/subjects/", rt.handleSubjectScoped)  // GET /api/subjects/{id}/summary|export
	mux.HandleFunc("/api/summaries", rt.handleBatchSummaries) // POST
	mux.HandleFunc("/api/classify", rt.handleClassify)        // POST
	mux.HandleFunc("/api/audit", rt.handleAudit)              // GET
}

// CleanupBefore drops reviews submitted before cutoff and reports how many
// were removed.
func (rt *Router) CleanupBefore(cutoff time.Time) int {
	n := rt.store.CleanupBefore(cutoff)
	if n > 0 {
		rt.store.AddAudit(AuditEntry{Time: time.Now().UTC(), Actor: "host", Action: "retention_cleanup", Target: cutoff.Format(time.RFC3339)})
	}
	return n
}

func (rt *Router) handleRequests(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		reqs := rt.store.ListRequests()
		out := make([]map[string]any, 0, len(reqs))
		for _, req := range reqs {
			out = append(out, map[string]any{
				"id":              req.ID,
				"subject_id":      req.SubjectID,
				"review_type":     req.ReviewType,
				"anonymity_level": req.AnonymityLevel,
				"due_date":        req.DueDate,
				"review_count":    rt.store.CountReviews(req.ID),
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{"requests": out})
	case http.MethodPost:
		var in services.CreateRequestInput
		if !decodeBody(w, r, &in) {
			return
		}
		req, err := rt.requests.CreateRequest(in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, req)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// GET /api/requests/{id}
// POST /api/requests/{id}/reviews
// { reviewer_id: string, metadata?: {...}, responses: [{question_id, type, value}] }
func (rt *Router) handleRequestScoped(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/requests/"), "/"), "/")
	id := parts[0]
	if id == "" {
		http.NotFound(w, r)
		return
	}
	switch {
	case len(parts) == 1:
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		req, err := rt.requests.GetRequest(id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"request": req, "review_count": rt.store.CountReviews(id)})
	case len(parts) == 2 && parts[1] == "reviews":
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var body struct {
			ReviewerID string                        `json:"reviewer_id"`
			Metadata   *services.RawReviewerMetadata `json:"metadata"`
			Responses  []services.Response           `json:"responses"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		res, err := rt.reviews.Submit(services.SubmitReviewInput{
			RequestID:  id,
			ReviewerID: body.ReviewerID,
			Metadata:   body.Metadata,
			Responses:  body.Responses,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	default:
		http.NotFound(w, r)
	}
}

// GET /api/subjects/{id}/summary
// GET /api/subjects/{id}/export?format=csv|markdown
func (rt *Router) handleSubjectScoped(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/subjects/"), "/"), "/")
	if len(parts) != 2 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	id := parts[0]
	switch parts[1] {
	case "summary":
		sum, err := rt.summaries.Summary(id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sum)
	case "export":
		format := r.URL.Query().Get("format")
		if format == "" {
			format = "csv"
		}
		if format != "csv" && format != "markdown" {
			http.Error(w, "unsupported format", http.StatusBadRequest)
			return
		}
		sum, err := rt.summaries.Summary(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if format == "markdown" {
			w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
			_, _ = w.Write([]byte(services.RenderSummaryMarkdown(sum)))
			return
		}
		b, err := services.ExportSummaryCSV(sum)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=summary.csv")
		_, _ = w.Write(b)
	default:
		http.NotFound(w, r)
	}
}

// POST /api/summaries { subject_ids: [...] }
func (rt *Router) handleBatchSummaries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		SubjectIDs []string `json:"subject_ids"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if len(body.SubjectIDs) == 0 {
		writeError(w, services.NewInputError("subject_ids", "at least one subject required"))
		return
	}
	batch, err := rt.summaries.SummarizeSubjects(r.Context(), body.SubjectIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

// POST /api/classify { text: string }
func (rt *Router) handleClassify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		Text string `json:"text"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"classification": rt.classifier.Classify(body.Text),
		"keywords":       rt.classifier.ExtractKeywords(body.Text),
	})
}

func (rt *Router) handleAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": rt.store.ListAudit()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var se *services.ServiceError
		if errors.As(err, &se) {
			writeError(w, se)
			return false
		}
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	se, ok := services.AsServiceError(err)
	if !ok {
		log.Printf("api: internal error: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	status := http.StatusInternalServerError
	switch se.Code {
	case services.ErrorInvalid:
		status = http.StatusBadRequest
	case services.ErrorNotFound, services.ErrorEmptyReviewSet:
		status = http.StatusNotFound
	}
	body := map[string]any{"error": se.Message, "code": se.Code}
	if se.Field != "" {
		body["field"] = se.Field
	}
	writeJSON(w, status, body)
}
