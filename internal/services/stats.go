package services

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// DefaultScalePoints sizes category distributions when no rating exceeds it.
const DefaultScalePoints = 5

// MaxScalePoints bounds distribution length. Larger ratings still count
// toward the category average.
const MaxScalePoints = 100

// Confidence coefficients. They are fixed design constants, not a derived
// statistical interval.
const (
	confidenceSaturation = 5
	confidenceWeight     = 0.8
	confidenceFloor      = 0.2
)

// OverallRating averages the rating answers in responses, rounded to one
// decimal. It is 0 when there are no rating answers.
func OverallRating(responses []Response) float64 {
	values := make([]float64, 0, len(responses))
	for _, r := range responses {
		if r.Type == QuestionRating && r.Answered() {
			values = append(values, r.Number)
		}
	}
	if len(values) == 0 {
		return 0
	}
	return round(stat.Mean(values, nil), 1)
}

// CategoryRatings aggregates every rating answer across reviews by category.
// Distribution[i] counts answers equal to i+1; it has at least scalePoints
// buckets and grows to fit larger values up to MaxScalePoints. Values below 1
// or above MaxScalePoints count toward the average but not the distribution.
func CategoryRatings(reviews []Review, scalePoints int) map[Category]CategoryRating {
	if scalePoints <= 0 {
		scalePoints = DefaultScalePoints
	}
	scalePoints = min(scalePoints, MaxScalePoints)
	type acc struct {
		sum   float64
		count int
		dist  []int
	}
	byCat := map[Category]*acc{}
	for _, rv := range reviews {
		for _, r := range rv.Responses {
			if r.Type != QuestionRating || !r.Answered() {
				continue
			}
			a := byCat[r.Category]
			if a == nil {
				a = &acc{dist: make([]int, scalePoints)}
				byCat[r.Category] = a
			}
			a.sum += r.Number
			a.count++
			if r.Number < 1 || r.Number > MaxScalePoints {
				continue
			}
			v := int(r.Number)
			for len(a.dist) < v {
				a.dist = append(a.dist, 0)
			}
			a.dist[v-1]++
		}
	}
	out := make(map[Category]CategoryRating, len(byCat))
	for cat, a := range byCat {
		out[cat] = CategoryRating{
			Average:      a.sum / float64(a.count),
			Count:        a.count,
			Distribution: a.dist,
		}
	}
	return out
}

// Confidence maps a review count to [0.2, 1], saturating at five reviews.
// The result is rounded to two decimals.
func Confidence(reviewCount int) float64 {
	if reviewCount <= 0 {
		return 0
	}
	c := float64(reviewCount)/confidenceSaturation*confidenceWeight + confidenceFloor
	return round(math.Min(1, c), 2)
}

// DeriveSentiment applies the rating thresholds first and falls back to the
// balance of strength and improvement snippets. The check order is part of
// the contract.
func DeriveSentiment(average float64, strengths, improvements int) Sentiment {
	switch {
	case average >= 4:
		return SentimentPositive
	case average <= 2.5:
		return SentimentNegative
	case strengths > improvements:
		return SentimentPositive
	case improvements > strengths:
		return SentimentMixed
	default:
		return SentimentNeutral
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
