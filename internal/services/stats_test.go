package services

import (
	"reflect"
	"testing"
)

func rating(qid string, cat Category, v float64) Response {
	return Response{QuestionID: qid, Type: QuestionRating, Category: cat, Number: v}
}

func textAnswer(qid, s string) Response {
	return Response{QuestionID: qid, Type: QuestionText, Category: CategoryGeneral, Text: s}
}

func TestOverallRating(t *testing.T) {
	cases := []struct {
		in   []Response
		want float64
	}{
		{[]Response{rating("a", CategoryTechnical, 4), rating("b", CategoryTechnical, 5), rating("c", CategoryGeneral, 3)}, 4},
		{[]Response{rating("a", CategoryTechnical, 4), rating("b", CategoryTechnical, 5)}, 4.5},
		{[]Response{rating("a", CategoryTechnical, 1), rating("b", CategoryTechnical, 2), rating("c", CategoryTechnical, 2)}, 1.7},
		{[]Response{textAnswer("t", "fine")}, 0},
		{nil, 0},
	}
	for i, c := range cases {
		if got := OverallRating(c.in); got != c.want {
			t.Fatalf("case %d: OverallRating=%v, want %v", i, got, c.want)
		}
	}
}

func TestOverallRatingStaysInScale(t *testing.T) {
	for a := 1; a <= 5; a++ {
		for b := 1; b <= 5; b++ {
			got := OverallRating([]Response{rating("a", CategoryTechnical, float64(a)), rating("b", CategoryTechnical, float64(b))})
			if got < 1 || got > 5 {
				t.Fatalf("OverallRating(%d,%d)=%v outside [1,5]", a, b, got)
			}
		}
	}
}

func TestCategoryRatings(t *testing.T) {
	reviews := []Review{
		{Responses: []Response{rating("q1", CategoryTechnical, 4), rating("q2", CategoryCommunication, 3), textAnswer("t", "ok")}},
		{Responses: []Response{rating("q1", CategoryTechnical, 5)}},
	}
	got := CategoryRatings(reviews, 5)
	if len(got) != 2 {
		t.Fatalf("categories=%v, want technical and communication", got)
	}
	tech := got[CategoryTechnical]
	if tech.Average != 4.5 || tech.Count != 2 || !reflect.DeepEqual(tech.Distribution, []int{0, 0, 0, 1, 1}) {
		t.Fatalf("technical=%+v", tech)
	}
	comm := got[CategoryCommunication]
	if comm.Average != 3 || comm.Count != 1 || !reflect.DeepEqual(comm.Distribution, []int{0, 0, 1, 0, 0}) {
		t.Fatalf("communication=%+v", comm)
	}
	if _, ok := got[CategoryGeneral]; ok {
		t.Fatalf("category without ratings must not appear")
	}
}

func TestCategoryRatingsWideScale(t *testing.T) {
	got := CategoryRatings([]Review{{Responses: []Response{rating("q", CategoryLeadership, 7)}}}, 0)
	want := []int{0, 0, 0, 0, 0, 0, 1}
	if !reflect.DeepEqual(got[CategoryLeadership].Distribution, want) {
		t.Fatalf("distribution=%v, want %v", got[CategoryLeadership].Distribution, want)
	}
}

func TestCategoryRatingsCapsDistribution(t *testing.T) {
	reviews := []Review{{Responses: []Response{rating("q", CategoryTechnical, 5e7)}}}
	got := CategoryRatings(reviews, 5)[CategoryTechnical]
	if got.Count != 1 || got.Average != 5e7 || len(got.Distribution) != 5 {
		t.Fatalf("technical=%+v", got)
	}
	if n := len(CategoryRatings(reviews, 1<<20)[CategoryTechnical].Distribution); n != MaxScalePoints {
		t.Fatalf("distribution length=%d, want %d", n, MaxScalePoints)
	}
}

func TestConfidence(t *testing.T) {
	cases := []struct {
		n    int
		want float64
	}{
		{1, 0.36}, {2, 0.52}, {3, 0.68}, {4, 0.84}, {5, 1}, {12, 1},
	}
	for _, c := range cases {
		if got := Confidence(c.n); got != c.want {
			t.Fatalf("Confidence(%d)=%v, want %v", c.n, got, c.want)
		}
	}
}

func TestDeriveSentiment(t *testing.T) {
	cases := []struct {
		avg      float64
		pos, neg int
		want     Sentiment
	}{
		{4.5, 3, 1, SentimentPositive},
		{4.0, 0, 5, SentimentPositive},
		{2.0, 10, 0, SentimentNegative},
		{2.5, 5, 0, SentimentNegative},
		{3.0, 2, 1, SentimentPositive},
		{3.0, 1, 2, SentimentMixed},
		{3.0, 1, 1, SentimentNeutral},
	}
	for _, c := range cases {
		if got := DeriveSentiment(c.avg, c.pos, c.neg); got != c.want {
			t.Fatalf("DeriveSentiment(%v,%d,%d)=%s, want %s", c.avg, c.pos, c.neg, got, c.want)
		}
	}
}
