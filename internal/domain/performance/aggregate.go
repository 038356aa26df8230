package performance

import (
	"sort"
)

// Summary holds unrounded aggregates. Call Rounded before returning it to a
// client.
type Summary struct {
	TotalAssessments   int     `json:"totalAssessments"`
	AverageScore       float64 `json:"averageScore"`
	TotalAchievement   float64 `json:"totalAchievement"`
	AverageAchievement float64 `json:"averageAchievement"`
}

func Summarize(items []Assessment) Summary {
	summary := Summary{TotalAssessments: len(items)}
	if len(items) == 0 {
		return summary
	}
	var totalScore float64
	for _, item := range items {
		totalScore += item.Score
		summary.TotalAchievement += item.Achievement
	}
	count := float64(len(items))
	summary.AverageScore = totalScore / count
	summary.AverageAchievement = summary.TotalAchievement / count
	return summary
}

func (s Summary) Rounded() Summary {
	s.AverageScore = Round2(s.AverageScore)
	s.TotalAchievement = Round2(s.TotalAchievement)
	s.AverageAchievement = Round2(s.AverageAchievement)
	return s
}

type GroupBy int

const (
	GroupNone GroupBy = iota
	GroupPeriod
	GroupEmployee
	GroupDivision
)

type Group struct {
	Key         string
	Label       string
	Assessments []Assessment
	Summary     Summary
}

// GroupAssessments buckets items and summarizes each bucket. Period groups
// come newest first; other groupings are ordered by key.
func GroupAssessments(items []Assessment, by GroupBy) []Group {
	if by == GroupNone {
		return []Group{{Key: "all", Label: "All", Assessments: items, Summary: Summarize(items)}}
	}

	buckets := map[string]*Group{}
	for _, item := range items {
		key, label := groupKey(item, by)
		group, ok := buckets[key]
		if !ok {
			group = &Group{Key: key, Label: label}
			buckets[key] = group
		}
		group.Assessments = append(group.Assessments, item)
	}

	groups := make([]Group, 0, len(buckets))
	for _, group := range buckets {
		group.Summary = Summarize(group.Assessments)
		groups = append(groups, *group)
	}
	sort.Slice(groups, func(i, j int) bool {
		if by == GroupPeriod {
			return groups[i].Key > groups[j].Key
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}

func groupKey(item Assessment, by GroupBy) (string, string) {
	switch by {
	case GroupPeriod:
		key := PeriodKey(item.Period)
		return key, key
	case GroupEmployee:
		return item.EmployeeID, item.EmployeeName()
	case GroupDivision:
		return item.DivisionKey()
	default:
		return "all", "All"
	}
}

// Rank returns a copy of items ordered by score, highest first. Equal scores
// keep their input order.
func Rank(items []Assessment) []Assessment {
	ranked := make([]Assessment, len(items))
	copy(ranked, items)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// Top is the first n entries of a ranked slice.
func Top(ranked []Assessment, n int) []Assessment {
	if n > len(ranked) {
		n = len(ranked)
	}
	if n < 0 {
		n = 0
	}
	return ranked[:n]
}

// Bottom is the last n entries of a ranked slice, still highest first.
func Bottom(ranked []Assessment, n int) []Assessment {
	if n > len(ranked) {
		n = len(ranked)
	}
	if n < 0 {
		n = 0
	}
	return ranked[len(ranked)-n:]
}

// DistinctEmployees counts the employees represented in items.
func DistinctEmployees(items []Assessment) int {
	seen := map[string]struct{}{}
	for _, item := range items {
		seen[item.EmployeeID] = struct{}{}
	}
	return len(seen)
}
