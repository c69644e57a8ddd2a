package services

import (
	"reflect"
	"testing"
)

func textReview(texts ...string) Review {
	rv := Review{}
	for i, s := range texts {
		rv.Responses = append(rv.Responses, textAnswer(string(rune('A'+i)), s))
	}
	return rv
}

func TestCommonThemes(t *testing.T) {
	c := NewClassifier(DefaultLexicon())
	reviews := []Review{
		textReview("Strong documentation and testing habits"),
		textReview("Documentation is thorough; testing could improve"),
		textReview("Mentoring juniors, documentation"),
		textReview("Deploys often", "Deploys carefully"),
	}
	got := c.CommonThemes(reviews)
	want := []string{"documentation", "testing"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("CommonThemes=%v, want %v", got, want)
	}
}

func TestCommonThemesRankByMentions(t *testing.T) {
	c := NewClassifier(DefaultLexicon())
	// tests: 3 reviews, 3 responses; docs: 2 reviews, 4 responses
	reviews := []Review{
		textReview("docs lag", "docs again", "tests flaky"),
		textReview("docs stale", "docs missing", "tests slow"),
		textReview("tests green"),
	}
	got := c.CommonThemes(reviews)
	want := []string{"docs", "tests"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("CommonThemes=%v, want %v", got, want)
	}
}

func TestCommonThemesNeedTwoReviewers(t *testing.T) {
	c := NewClassifier(DefaultLexicon())
	got := c.CommonThemes([]Review{textReview("pairing pairing pairing", "pairing again")})
	if len(got) != 0 {
		t.Fatalf("single reviewer produced themes %v", got)
	}
}

func TestCommonThemesTieOrderAndCap(t *testing.T) {
	c := NewClassifier(DefaultLexicon())
	got := c.CommonThemes([]Review{textReview("alpha beta"), textReview("beta alpha")})
	if !reflect.DeepEqual(got, []string{"alpha", "beta"}) {
		t.Fatalf("tie order=%v, want [alpha beta]", got)
	}
	words := "apple banana cherry damson elder figs"
	got = c.CommonThemes([]Review{textReview(words), textReview(words)})
	if !reflect.DeepEqual(got, []string{"apple", "banana", "cherry", "damson", "elder"}) {
		t.Fatalf("cap=%v", got)
	}
}
