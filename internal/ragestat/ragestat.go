// Package ragestat computes every derived display number: trophy unlocks,
// word-cloud weights, timeline bar heights, and duel shares. All functions
// are pure and perform no I/O.
package ragestat

import "github.com/ragequitlabs/ragewatch/internal/catalog"

// Word-cloud display mapping: the normalized weight in [0,1] maps onto a
// 0.8-2.4 rem size range and a 0.4-1.0 opacity range.
const (
	wordSizeBase    = 0.8
	wordSizeSpan    = 1.6
	wordOpacityBase = 0.4
	wordOpacitySpan = 0.6
)

// Clamp bounds a value to [0,100] before it is rendered as a width or height
// percentage, whatever range the source value actually has.
func Clamp(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

// WordWeight is one word-cloud entry with its display attributes.
type WordWeight struct {
	Word    string
	Weight  float64
	Size    float64
	Opacity float64
}

// WordCloud normalizes raw word scores for display. When every score is
// equal, each word gets weight 0.5 so no item is arbitrarily favored and the
// zero span never divides.
func WordCloud(words []catalog.RageWord) []WordWeight {
	if len(words) == 0 {
		return []WordWeight{}
	}

	minScore, maxScore := words[0].Score, words[0].Score
	for _, word := range words[1:] {
		if word.Score < minScore {
			minScore = word.Score
		}
		if word.Score > maxScore {
			maxScore = word.Score
		}
	}

	weights := make([]WordWeight, 0, len(words))
	span := maxScore - minScore
	for _, word := range words {
		weight := 0.5
		if span > 0 {
			weight = (word.Score - minScore) / span
		}
		weights = append(weights, WordWeight{
			Word:    word.Word,
			Weight:  weight,
			Size:    wordSizeBase + weight*wordSizeSpan,
			Opacity: wordOpacityBase + weight*wordOpacitySpan,
		})
	}
	return weights
}

// TimelineHeights converts a score-over-time series into bar heights
// relative to the series maximum. An all-zero series yields all-zero heights
// instead of dividing by zero.
func TimelineHeights(points []catalog.RagePoint) []float64 {
	heights := make([]float64, len(points))
	if len(points) == 0 {
		return heights
	}

	maxScore := 0.0
	for _, point := range points {
		if point.RageScore > maxScore {
			maxScore = point.RageScore
		}
	}
	if maxScore <= 0 {
		return heights
	}
	for i, point := range points {
		heights[i] = Clamp(point.RageScore / maxScore * 100)
	}
	return heights
}

// DuelShares splits two values into proportional percentages. The
// denominator is floored to 1 when both sides are zero, so the degenerate
// case yields (0, 0) rather than NaN.
func DuelShares(left, right float64) (float64, float64) {
	total := left + right
	if total == 0 {
		total = 1
	}
	return left / total * 100, right / total * 100
}
