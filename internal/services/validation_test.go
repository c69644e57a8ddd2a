package services

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"
)

func sampleQuestions() []Question {
	return []Question{
		{ID: "Q1", Text: "Technical depth", Type: QuestionRating, Category: CategoryTechnical, Required: true, Scale: &RatingScale{Min: 1, Max: 5}},
		{ID: "Q2", Text: "What works well?", Type: QuestionText, Category: CategoryGeneral, Required: true},
		{ID: "Q3", Text: "Strongest area", Type: QuestionMultipleChoice, Category: CategoryGeneral, Options: []string{"design", "delivery", "mentoring"}},
		{ID: "Q4", Text: "Rank priorities", Type: QuestionRanking, Category: CategoryLeadership, Options: []string{"a", "b", "c"}},
	}
}

func TestValidateQuestion(t *testing.T) {
	for _, q := range sampleQuestions() {
		if err := ValidateQuestion(q); err != nil {
			t.Fatalf("ValidateQuestion(%s): %v", q.ID, err)
		}
	}
	bad := []Question{
		{ID: "", Type: QuestionText, Category: CategoryGeneral},
		{ID: "R1", Type: QuestionRating, Category: CategoryTechnical},
		{ID: "R2", Type: QuestionRating, Category: CategoryTechnical, Scale: &RatingScale{Min: 5, Max: 5}},
		{ID: "R3", Type: QuestionRating, Category: CategoryTechnical, Scale: &RatingScale{Min: 1, Max: 3, Labels: []string{"low", "high"}}},
		{ID: "C1", Type: QuestionMultipleChoice, Category: CategoryGeneral},
		{ID: "C2", Type: QuestionRanking, Category: CategoryGeneral, Options: []string{"a", "a"}},
		{ID: "T1", Type: "essay", Category: CategoryGeneral},
		{ID: "T2", Type: QuestionText, Category: "vibes"},
	}
	for _, q := range bad {
		if err := ValidateQuestion(q); !IsInputError(err) {
			t.Fatalf("ValidateQuestion(%+v) = %v, want input error", q, err)
		}
	}
}

func TestValidateResponse(t *testing.T) {
	qs := sampleQuestions()
	cases := []struct {
		name string
		q    Question
		r    Response
		ok   bool
	}{
		{"rating in bounds", qs[0], Response{QuestionID: "Q1", Type: QuestionRating, Number: 5}, true},
		{"rating below", qs[0], Response{QuestionID: "Q1", Type: QuestionRating, Number: 0}, false},
		{"rating above", qs[0], Response{QuestionID: "Q1", Type: QuestionRating, Number: 6}, false},
		{"rating fractional", qs[0], Response{QuestionID: "Q1", Type: QuestionRating, Number: 3.5}, false},
		{"rating unanswered", qs[0], Response{QuestionID: "Q1", Type: QuestionRating, Number: math.NaN()}, true},
		{"type mismatch", qs[0], Response{QuestionID: "Q1", Type: QuestionText, Text: "5"}, false},
		{"wrong question", qs[0], Response{QuestionID: "Q2", Type: QuestionRating, Number: 3}, false},
		{"choice ok", qs[2], Response{QuestionID: "Q3", Type: QuestionMultipleChoice, Choices: []string{"design", "delivery"}}, true},
		{"choice unknown", qs[2], Response{QuestionID: "Q3", Type: QuestionMultipleChoice, Choices: []string{"sales"}}, false},
		{"ranking duplicate", qs[3], Response{QuestionID: "Q4", Type: QuestionRanking, Choices: []string{"a", "a"}}, false},
		{"ranking ok", qs[3], Response{QuestionID: "Q4", Type: QuestionRanking, Choices: []string{"c", "a"}}, true},
	}
	for _, c := range cases {
		err := ValidateResponse(c.q, c.r)
		if c.ok && err != nil {
			t.Fatalf("%s: unexpected error %v", c.name, err)
		}
		if !c.ok && !IsInputError(err) {
			t.Fatalf("%s: expected input error, got %v", c.name, err)
		}
	}
}

func TestValidateReviewFlagsMissingRequired(t *testing.T) {
	check, err := ValidateReview(sampleQuestions(), []Response{
		{QuestionID: "Q1", Type: QuestionRating, Number: 4},
		{QuestionID: "Q2", Type: QuestionText, Text: "   "},
	})
	if err != nil {
		t.Fatalf("ValidateReview: %v", err)
	}
	if check.Complete() || !reflect.DeepEqual(check.Missing, []string{"Q2"}) {
		t.Fatalf("missing=%v, want [Q2]", check.Missing)
	}
}

func TestValidateReviewRejects(t *testing.T) {
	qs := sampleQuestions()
	_, err := ValidateReview(qs, []Response{{QuestionID: "Q9", Type: QuestionText, Text: "x"}})
	var se *ServiceError
	if !errors.As(err, &se) || se.Code != ErrorInvalid || se.Field != "Q9" {
		t.Fatalf("expected input error on Q9, got %v", err)
	}
	_, err = ValidateReview(qs, []Response{
		{QuestionID: "Q1", Type: QuestionRating, Number: 4},
		{QuestionID: "Q1", Type: QuestionRating, Number: 5},
	})
	if !IsInputError(err) {
		t.Fatalf("expected duplicate answer error, got %v", err)
	}
}

func TestCheckRatings(t *testing.T) {
	cases := []struct {
		name string
		v    float64
		ok   bool
	}{
		{"in range", 5, true},
		{"lowest", 1, true},
		{"fraction", 3.5, false},
		{"zero", 0, false},
		{"above scale", 6, false},
		{"huge", 5e7, false},
		{"infinite", math.Inf(1), false},
	}
	for _, c := range cases {
		reviews := []Review{{ID: "r1", Responses: []Response{rating("Q1", CategoryTechnical, c.v), textAnswer("Q2", "fine")}}}
		err := CheckRatings(reviews, 5)
		if c.ok && err != nil {
			t.Fatalf("%s: unexpected error %v", c.name, err)
		}
		if !c.ok && !IsInputError(err) {
			t.Fatalf("%s: expected input error, got %v", c.name, err)
		}
	}
	unanswered := []Review{{Responses: []Response{rating("Q1", CategoryTechnical, math.NaN())}}}
	if err := CheckRatings(unanswered, 5); err != nil {
		t.Fatalf("unanswered rating rejected: %v", err)
	}
}

func TestResponseJSONValue(t *testing.T) {
	var rs []Response
	payload := `[
		{"question_id":"Q1","type":"rating","value":4},
		{"question_id":"Q1b","type":"rating","value":3.0},
		{"question_id":"Q1c","type":"rating","value":null},
		{"question_id":"Q2","type":"text","value":"solid"},
		{"question_id":"Q3","type":"multiple_choice","value":["design"]},
		{"question_id":"Q4","type":"ranking","value":["b","a"]}
	]`
	if err := json.Unmarshal([]byte(payload), &rs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rs[0].Number != 4 || rs[1].Number != 3 || rs[2].Answered() {
		t.Fatalf("rating values decoded wrong: %+v", rs[:3])
	}
	if rs[3].Text != "solid" || !reflect.DeepEqual(rs[4].Choices, []string{"design"}) || !reflect.DeepEqual(rs[5].Choices, []string{"b", "a"}) {
		t.Fatalf("values decoded wrong: %+v", rs[3:])
	}
	b, err := json.Marshal(rs[2])
	if err != nil {
		t.Fatalf("marshal unanswered rating: %v", err)
	}
	if string(b) != `{"question_id":"Q1c","type":"rating","value":null}` {
		t.Fatalf("marshal=%s", b)
	}

	for _, in := range []string{
		`{"question_id":"Q1","type":"rating","value":"four"}`,
		`{"question_id":"Q1","type":"rating","value":"4"}`,
		`{"question_id":"Q1","type":"rating","value":true}`,
		`{"question_id":"Q2","type":"text","value":5}`,
		`{"question_id":"Q3","type":"multiple_choice","value":"design"}`,
		`{"question_id":"Q4","type":"ranking","value":[1,2]}`,
	} {
		var bad Response
		if err := json.Unmarshal([]byte(in), &bad); !IsInputError(err) {
			t.Fatalf("%s: expected input error, got %v", in, err)
		}
	}
}
