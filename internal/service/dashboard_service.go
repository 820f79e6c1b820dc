package service

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/limbo/bloom/pkg/entity"
)

// emotionColors is the 4-slot palette for the top-emotion bars, assigned by
// rank. The palette size matches the top-4 cap on purpose; do not extend it.
var emotionColors = []string{"bg-blue-500", "bg-yellow-500", "bg-red-500", "bg-slate-500"}

const defaultEmotionColor = "bg-slate-500"

const chartWindow = 7

type DashboardService struct {
}

func NewDashboardService() *DashboardService {
	return &DashboardService{}
}

// BuildStats derives the dashboard from the raw collection. It never
// mutates its input; the ascending sort works on a copy.
func (ds *DashboardService) BuildStats(entries []entity.MoodEntry) *entity.DashboardStats {
	if len(entries) == 0 {
		return &entity.DashboardStats{
			Streak:       0,
			TotalEntries: 0,
			Highlight:    entity.Highlight{Day: "-", Note: "No data yet"},
			TopEmotions:  []entity.EmotionShare{},
			ChartSeries:  []entity.ChartPoint{},
		}
	}

	sorted := slices.Clone(entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	return &entity.DashboardStats{
		Streak:       streak(entries),
		TotalEntries: len(entries),
		Highlight:    happiestDay(sorted),
		TopEmotions:  topEmotions(entries),
		ChartSeries:  chartSeries(sorted),
	}
}

// chartSeries projects the last entries of the ascending sort, oldest of
// the window first.
func chartSeries(sorted []entity.MoodEntry) []entity.ChartPoint {
	window := sorted
	if len(window) > chartWindow {
		window = window[len(window)-chartWindow:]
	}
	series := make([]entity.ChartPoint, 0, len(window))
	for _, e := range window {
		series = append(series, entity.ChartPoint{
			Day:    e.Date.Format("Mon"),
			Mood:   e.MoodValue,
			Stress: e.StressLevel,
		})
	}
	return series
}

// happiestDay keeps the first entry of the scan whenever a later one is
// not strictly happier, so the earliest-dated entry wins ties.
func happiestDay(sorted []entity.MoodEntry) entity.Highlight {
	best := sorted[0]
	for _, e := range sorted[1:] {
		if e.MoodValue > best.MoodValue {
			best = e
		}
	}
	return entity.Highlight{
		Day:  best.Date.Format("Monday"),
		Note: fmt.Sprintf("You felt %q with stress level %d.", best.Mood, best.StressLevel),
	}
}

// topEmotions counts mood labels across the whole unsorted collection and
// reports the four most frequent as rounded percentages of the total.
// Labels with equal counts keep their first-seen order.
func topEmotions(entries []entity.MoodEntry) []entity.EmotionShare {
	counts := make(map[string]int, len(entries))
	order := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, seen := counts[e.Mood]; !seen {
			order = append(order, e.Mood)
		}
		counts[e.Mood]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > len(emotionColors) {
		order = order[:len(emotionColors)]
	}
	total := len(entries)
	top := make([]entity.EmotionShare, 0, len(order))
	for i, label := range order {
		color := defaultEmotionColor
		if i < len(emotionColors) {
			color = emotionColors[i]
		}
		top = append(top, entity.EmotionShare{
			Label:      label,
			Percentage: int(math.Round(float64(counts[label]) / float64(total) * 100)),
			Color:      color,
		})
	}
	return top
}

// streak is an engagement heuristic, not a true consecutive-day streak: it
// never looks at dates. n/1.5 == 2n/3 for non-negative counts.
func streak(entries []entity.MoodEntry) int {
	if len(entries) == 0 {
		return 0
	}
	if len(entries) > 1 {
		return len(entries) * 2 / 3
	}
	return 1
}
