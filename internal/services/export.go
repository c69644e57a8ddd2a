package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ExportSummaryCSV renders one row per rated category. Distribution buckets
// are joined with "|" so each row stays one CSV record.
func ExportSummaryCSV(s *PeerReviewSummary) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"subject_id", "category", "average", "count", "distribution"}); err != nil {
		return nil, err
	}
	for _, cat := range sortedCategories(s.CategoryRatings) {
		cr := s.CategoryRatings[cat]
		dist := make([]string, len(cr.Distribution))
		for i, n := range cr.Distribution {
			dist[i] = strconv.Itoa(n)
		}
		rec := []string{
			s.SubjectID,
			string(cat),
			strconv.FormatFloat(cr.Average, 'f', 2, 64),
			strconv.Itoa(cr.Count),
			strings.Join(dist, "|"),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// RenderSummaryMarkdown formats a summary for people reading it in a document
// or terminal.
func RenderSummaryMarkdown(s *PeerReviewSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Peer review summary: %s\n\n", s.SubjectID)
	fmt.Fprintf(&b, "- Reviews: %d", s.TotalReviews)
	if s.IncompleteReviews > 0 {
		fmt.Fprintf(&b, " (%d incomplete)", s.IncompleteReviews)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "- Overall rating: %.1f\n", s.OverallRating)
	fmt.Fprintf(&b, "- Sentiment: %s\n", s.Sentiment)
	fmt.Fprintf(&b, "- Confidence: %.2f\n\n", s.Confidence)

	if len(s.CategoryRatings) > 0 {
		b.WriteString("## Ratings by category\n\n| Category | Average | Count | Distribution |\n|---|---|---|---|\n")
		for _, cat := range sortedCategories(s.CategoryRatings) {
			cr := s.CategoryRatings[cat]
			dist := make([]string, len(cr.Distribution))
			for i, n := range cr.Distribution {
				dist[i] = strconv.Itoa(n)
			}
			fmt.Fprintf(&b, "| %s | %.2f | %d | %s |\n", cat, cr.Average, cr.Count, strings.Join(dist, " / "))
		}
		b.WriteString("\n")
	}
	writeList(&b, "Strengths", s.Strengths)
	writeList(&b, "Areas for improvement", s.Improvements)
	writeList(&b, "Common themes", s.CommonThemes)

	c := s.Composition
	if len(c.ByRole)+len(c.ByDepartment)+len(c.ByRelationship)+len(c.ByFrequency) > 0 {
		b.WriteString("## Reviewers\n\n")
		writeCounts(&b, "Relationship", c.ByRelationship)
		writeCounts(&b, "Collaboration", c.ByFrequency)
		writeCounts(&b, "Role", c.ByRole)
		writeCounts(&b, "Department", c.ByDepartment)
	}
	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
	b.WriteString("\n")
}

func writeCounts(b *strings.Builder, label string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %d", k, counts[k]))
	}
	fmt.Fprintf(b, "- %s: %s\n", label, strings.Join(parts, ", "))
}

func sortedCategories(m map[Category]CategoryRating) []Category {
	cats := make([]Category, 0, len(m))
	for c := range m {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}
