//go:build integration

package integration_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

func baseURL() string {
	if v := os.Getenv("PEERLENS_TEST_BASE_URL"); strings.TrimSpace(v) != "" {
		return strings.TrimRight(v, "/")
	}
	return "http://127.0.0.1:18080"
}

func TestReviewJourneyIntegration(t *testing.T) {
	client := &http.Client{Timeout: 5 * time.Second}
	base := baseURL()
	subject := fmt.Sprintf("subject_%d", time.Now().UnixNano())

	var created struct {
		ID string `json:"id"`
	}
	doPost(t, client, base+"/api/requests", map[string]any{
		"subject_id":      subject,
		"review_type":     "project_end",
		"anonymity_level": "department_visible",
		"questions": []map[string]any{
			{"id": "Q1", "text": "Technical depth", "type": "rating", "category": "technical", "required": true, "scale": map[string]int{"min": 1, "max": 5}},
			{"id": "Q2", "text": "Communication", "type": "rating", "category": "communication", "scale": map[string]int{"min": 1, "max": 5}},
			{"id": "Q3", "text": "Anything else?", "type": "text", "category": "general"},
		},
	}, &created)
	if created.ID == "" {
		t.Fatalf("expected request id in response")
	}

	reviewers := []struct {
		id        string
		tech      int
		comm      int
		text      string
		dept      string
		frequency string
	}{
		{"r1", 5, 4, "Thorough design documents", "platform", "daily"},
		{"r2", 4, 4, "Design documents could be shorter", "platform", "weekly"},
		{"r3", 3, 2, "Helpful in incidents", "sales", "monthly"},
	}
	pseudonyms := map[string]bool{}
	for _, rv := range reviewers {
		var res struct {
			Pseudonym string `json:"reviewer_pseudonym"`
			Complete  bool   `json:"complete"`
		}
		doPost(t, client, base+"/api/requests/"+created.ID+"/reviews", map[string]any{
			"reviewer_id": rv.id,
			"metadata":    map[string]string{"name": "Reviewer " + rv.id, "department": rv.dept, "collaboration_frequency": rv.frequency},
			"responses": []map[string]any{
				{"question_id": "Q1", "type": "rating", "value": rv.tech},
				{"question_id": "Q2", "type": "rating", "value": rv.comm},
				{"question_id": "Q3", "type": "text", "value": rv.text},
			},
		}, &res)
		if !res.Complete || !strings.HasPrefix(res.Pseudonym, "rv_") || pseudonyms[res.Pseudonym] {
			t.Fatalf("unexpected submission result %+v", res)
		}
		pseudonyms[res.Pseudonym] = true
	}

	var summary struct {
		TotalReviews  int      `json:"total_reviews"`
		OverallRating float64  `json:"overall_rating"`
		CommonThemes  []string `json:"common_themes"`
		Composition   struct {
			ByDepartment map[string]int `json:"by_department"`
		} `json:"reviewer_composition"`
	}
	doGet(t, client, base+"/api/subjects/"+subject+"/summary", &summary)
	if summary.TotalReviews != 3 {
		t.Fatalf("total reviews=%d, want 3", summary.TotalReviews)
	}
	if summary.Composition.ByDepartment["platform"] != 2 {
		t.Fatalf("composition=%+v", summary.Composition)
	}
	if len(summary.CommonThemes) < 2 || summary.CommonThemes[0] != "design" {
		t.Fatalf("themes=%v", summary.CommonThemes)
	}

	resp, err := client.Get(base + "/api/subjects/" + subject + "/export?format=markdown")
	if err != nil {
		t.Fatalf("export request failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), subject) {
		t.Fatalf("export status %d body %s", resp.StatusCode, string(body))
	}
	for _, raw := range []string{"Reviewer r1", "r2", "Reviewer r3"} {
		if strings.Contains(string(body), raw) {
			t.Fatalf("export leaks reviewer identity %q", raw)
		}
	}
}

func doGet(t *testing.T, client *http.Client, url string, out any) {
	t.Helper()
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("http get %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		t.Fatalf("unexpected status %d for %s: %s", resp.StatusCode, url, string(bodyBytes))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response from %s: %v", url, err)
	}
}

func doPost(t *testing.T, client *http.Client, url string, body any, out any) {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("http post %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		t.Fatalf("unexpected status %d for %s: %s", resp.StatusCode, url, string(bodyBytes))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			t.Fatalf("decode response from %s: %v", url, err)
		}
	}
}
