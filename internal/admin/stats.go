// Package admin summarizes stored assessment results for the dashboard and CSV export.
package admin

import (
	"math"
	"sort"
	"time"

	"github.com/jonathan/strategy-profiler/internal/db"
	"github.com/jonathan/strategy-profiler/internal/types"
)

const (
	// HistogramBins is the number of equal-width overall score bins over 0-100.
	HistogramBins = 20
	// RecentWindow is how far back a submission counts as recent.
	RecentWindow = 7 * 24 * time.Hour
)

// Bin is one histogram bucket covering [Min, Max). The last bin includes 100.
type Bin struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// CategoryAverage is the mean of one legacy category score.
type CategoryAverage struct {
	Category string  `json:"category"`
	Average  float64 `json:"average"`
}

// StageCount is the number of submissions reporting a divorce stage.
type StageCount struct {
	Stage string `json:"stage"`
	Count int    `json:"count"`
}

// Stats is the dashboard summary.
type Stats struct {
	Total             int                  `json:"total"`
	AverageOverall    float64              `json:"average_overall_score"`
	RecentSubmissions int                  `json:"recent_submissions"`
	Histogram         []Bin                `json:"overall_histogram"`
	CategoryAverages  []CategoryAverage    `json:"category_averages"`
	StageCounts       []StageCount         `json:"divorce_stages"`
	DominantCounts    types.StrategyCounts `json:"dominant_strategies"`
}

// Summarize computes dashboard stats. now anchors the recent window.
func Summarize(results []db.AssessmentResult, now time.Time) Stats {
	stats := Stats{
		Total:            len(results),
		Histogram:        make([]Bin, HistogramBins),
		CategoryAverages: make([]CategoryAverage, 0, 5),
		StageCounts:      []StageCount{},
		DominantCounts:   types.StrategyCounts{},
	}
	width := 100.0 / HistogramBins
	for i := range stats.Histogram {
		stats.Histogram[i] = Bin{Min: float64(i) * width, Max: float64(i+1) * width}
	}
	for _, code := range types.StrategyCodes() {
		stats.DominantCounts[code] = 0
	}

	var (
		sum        float64
		categories [5]float64
		stages     = map[string]int{}
		cutoff     = now.Add(-RecentWindow)
	)
	for _, r := range results {
		sum += r.OverallScore
		stats.Histogram[binIndex(r.OverallScore, width)].Count++
		if r.CreatedAt.After(cutoff) {
			stats.RecentSubmissions++
		}
		categories[0] += r.LegalScore
		categories[1] += r.EmotionalScore
		categories[2] += r.FinancialScore
		categories[3] += r.ChildrenScore
		categories[4] += r.RecoveryScore
		if r.DivorceStage != "" {
			stages[r.DivorceStage]++
		}
		if r.DominantStrategy != "" {
			stats.DominantCounts[r.DominantStrategy]++
		}
	}

	for i, name := range []string{"Legal", "Emotional", "Financial", "Children", "Recovery"} {
		stats.CategoryAverages = append(stats.CategoryAverages, CategoryAverage{
			Category: name,
			Average:  mean(categories[i], len(results)),
		})
	}
	stats.AverageOverall = mean(sum, len(results))

	for stage, count := range stages {
		stats.StageCounts = append(stats.StageCounts, StageCount{Stage: stage, Count: count})
	}
	sort.Slice(stats.StageCounts, func(i, j int) bool {
		a, b := stats.StageCounts[i], stats.StageCounts[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Stage < b.Stage
	})
	return stats
}

func binIndex(score, width float64) int {
	i := int(math.Floor(score / width))
	if i < 0 {
		return 0
	}
	if i >= HistogramBins {
		return HistogramBins - 1
	}
	return i
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
