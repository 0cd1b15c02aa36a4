package services

import (
	"sort"
	"strconv"
	"time"

	"callbot-management/models"

	"gorm.io/gorm"
)

// ResultHistogram counts consultations per outcome code.
type ResultHistogram struct {
	NotPossible    int `json:"notPossible"`
	NoActionNeeded int `json:"noActionNeeded"`
	DeepDiveNeeded int `json:"deepDiveNeeded"`
}

// TypeFrequency is one bar of a top-N type table.
type TypeFrequency struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DashboardSummary is the aggregate view behind the main dashboard.
type DashboardSummary struct {
	TotalVulnerableCount   int64           `json:"totalVulnerableCount"`
	TodayConsultationCount int64           `json:"todayConsultationCount"`
	TotalConsultationCount int64           `json:"totalConsultationCount"`
	ByResult               ResultHistogram `json:"byResult"`
	SuccessRate            float64         `json:"successRate"` // percent
	AverageRuntime         float64         `json:"averageRuntime"`
	TopRiskTypes           []TypeFrequency `json:"topRiskTypes"`
	TopDesireTypes         []TypeFrequency `json:"topDesireTypes"`
}

const topTypeCount = 5

type DashboardService struct {
	DB *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{DB: db}
}

// ReduceConsultationStats folds call logs into the dashboard aggregates:
// result histogram, success rate (noActionNeeded+deepDiveNeeded over
// total), average runtime and summed per-index risk/desire counts.
func ReduceConsultationStats(consultations []models.Consultation) (ResultHistogram, float64, float64, map[int]int, map[int]int) {
	var hist ResultHistogram
	var totalRuntime int64
	riskCounts := make(map[int]int)
	desireCounts := make(map[int]int)

	for _, c := range consultations {
		switch c.Result {
		case models.ResultNotPossible:
			hist.NotPossible++
		case models.ResultNoActionNeeded:
			hist.NoActionNeeded++
		case models.ResultDeepDiveNeeded:
			hist.DeepDiveNeeded++
		}
		totalRuntime += c.Runtime

		if c.ResultVulnerabilities == nil {
			continue
		}
		for key, n := range c.ResultVulnerabilities.RiskIndexCount {
			if idx, err := strconv.Atoi(key); err == nil {
				riskCounts[idx] += n
			}
		}
		for key, n := range c.ResultVulnerabilities.DesireIndexCount {
			if idx, err := strconv.Atoi(key); err == nil {
				desireCounts[idx] += n
			}
		}
	}

	total := len(consultations)
	successRate := 0.0
	averageRuntime := 0.0
	if total > 0 {
		successRate = float64(hist.NoActionNeeded+hist.DeepDiveNeeded) / float64(total) * 100
		averageRuntime = float64(totalRuntime) / float64(total)
	}
	return hist, successRate, averageRuntime, riskCounts, desireCounts
}

// TopTypes ranks summed index counts descending; equal counts order by
// ascending index so the ranking is stable across runs.
func TopTypes(counts map[int]int, catalog []models.CatalogEntry, n int) []TypeFrequency {
	freqs := make([]TypeFrequency, 0, len(counts))
	for idx, count := range counts {
		label := ""
		for _, e := range catalog {
			if e.Index == idx {
				label = e.Label
				break
			}
		}
		freqs = append(freqs, TypeFrequency{Index: idx, Label: label, Count: count})
	}

	sort.Slice(freqs, func(i, j int) bool {
		if freqs[i].Count != freqs[j].Count {
			return freqs[i].Count > freqs[j].Count
		}
		return freqs[i].Index < freqs[j].Index
	})

	if len(freqs) > n {
		freqs = freqs[:n]
	}
	return freqs
}

// Summary computes the dashboard aggregates from live data.
func (s *DashboardService) Summary() (*DashboardSummary, error) {
	summary := &DashboardSummary{}

	if err := s.DB.Model(&models.Vulnerable{}).Count(&summary.TotalVulnerableCount).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Consultation{}).Count(&summary.TotalConsultationCount).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	err := s.DB.Model(&models.Consultation{}).
		Where("time >= ? AND time < ?", todayStart, todayStart.Add(24*time.Hour)).
		Count(&summary.TodayConsultationCount).Error
	if err != nil {
		return nil, err
	}

	var consultations []models.Consultation
	if err := s.DB.Find(&consultations).Error; err != nil {
		return nil, err
	}

	hist, successRate, averageRuntime, riskCounts, desireCounts := ReduceConsultationStats(consultations)
	summary.ByResult = hist
	summary.SuccessRate = successRate
	summary.AverageRuntime = averageRuntime
	summary.TopRiskTypes = TopTypes(riskCounts, models.RiskTypes, topTypeCount)
	summary.TopDesireTypes = TopTypes(desireCounts, models.DesireTypes, topTypeCount)

	return summary, nil
}
