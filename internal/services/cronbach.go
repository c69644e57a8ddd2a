package services

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// CronbachAlpha computes Cronbach's alpha for a matrix shaped
// [nReviews][nCategories]. Population variance is used throughout, so
// perfectly correlated columns give 1. The result is clamped to [0, 1] and is
// 0 when alpha is undefined.
func CronbachAlpha(matrix [][]float64) float64 {
	n := len(matrix)
	if n == 0 {
		return 0
	}
	k := len(matrix[0])
	if k < 2 {
		return 0
	}
	totals := make([]float64, n)
	column := make([]float64, n)
	var sumItemVars float64
	for j := 0; j < k; j++ {
		for i, row := range matrix {
			if len(row) != k {
				return 0
			}
			column[i] = row[j]
			totals[i] += row[j]
		}
		_, v := stat.PopMeanVariance(column, nil)
		sumItemVars += v
	}
	_, totalVar := stat.PopMeanVariance(totals, nil)
	if totalVar == 0 {
		return 0
	}
	kf := float64(k)
	alpha := (kf / (kf - 1)) * (1 - sumItemVars/totalVar)
	if alpha < 0 {
		return 0
	}
	if alpha > 1 {
		return 1
	}
	return alpha
}

// RatingConsistency measures how consistently reviewers rate across
// categories. Each review contributes its mean rating per category; only
// categories rated in every review that has ratings are used. It returns the
// alpha and the number of reviews that formed the matrix.
func RatingConsistency(reviews []Review) (float64, int) {
	perReview := make([]map[Category][]float64, 0, len(reviews))
	for _, rv := range reviews {
		m := map[Category][]float64{}
		for _, r := range rv.Responses {
			if r.Type == QuestionRating && r.Answered() {
				m[r.Category] = append(m[r.Category], r.Number)
			}
		}
		if len(m) > 0 {
			perReview = append(perReview, m)
		}
	}
	if len(perReview) < 2 {
		return 0, 0
	}

	var cats []Category
	for cat := range perReview[0] {
		shared := true
		for _, m := range perReview[1:] {
			if _, ok := m[cat]; !ok {
				shared = false
				break
			}
		}
		if shared {
			cats = append(cats, cat)
		}
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })

	matrix := make([][]float64, 0, len(perReview))
	for _, m := range perReview {
		row := make([]float64, 0, len(cats))
		for _, cat := range cats {
			row = append(row, stat.Mean(m[cat], nil))
		}
		matrix = append(matrix, row)
	}
	return CronbachAlpha(matrix), len(matrix)
}
