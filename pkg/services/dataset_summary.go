package services

import (
	"math"
	"strconv"

	"github.com/hopeIsCo0l/DemandPridiction/pkg/models"
)

// Summarize データセットの需要統計を計算する
func Summarize(records []models.DemandRecord) models.DatasetSummary {
	summary := models.DatasetSummary{
		Count:      len(records),
		ByMonth:    make([]models.GroupSummary, 0, 12),
		ByCategory: make(map[string]models.GroupSummary),
	}
	if len(records) == 0 {
		return summary
	}

	type accumulator struct {
		count         int
		demand        int
		previousSales int
	}
	var months [12]accumulator
	categories := make(map[string]*accumulator)

	summary.MinDemand = records[0].Demand
	summary.MaxDemand = records[0].Demand
	for _, rec := range records {
		summary.TotalDemand += rec.Demand
		if rec.Demand < summary.MinDemand {
			summary.MinDemand = rec.Demand
		}
		if rec.Demand > summary.MaxDemand {
			summary.MaxDemand = rec.Demand
		}

		if rec.Month >= 1 && rec.Month <= 12 {
			m := &months[rec.Month-1]
			m.count++
			m.demand += rec.Demand
			m.previousSales += rec.PreviousSales
		}

		c, ok := categories[rec.ProductCategory]
		if !ok {
			c = &accumulator{}
			categories[rec.ProductCategory] = c
		}
		c.count++
		c.demand += rec.Demand
		c.previousSales += rec.PreviousSales
	}

	summary.AverageDemand = float64(summary.TotalDemand) / float64(len(records))

	// 標準偏差を計算
	var variance float64
	for _, rec := range records {
		variance += math.Pow(float64(rec.Demand)-summary.AverageDemand, 2)
	}
	variance /= float64(len(records))
	summary.StandardDev = math.Sqrt(variance)

	for i, m := range months {
		if m.count == 0 {
			continue
		}
		summary.ByMonth = append(summary.ByMonth, models.GroupSummary{
			Key:                  strconv.Itoa(i + 1),
			Count:                m.count,
			AverageDemand:        float64(m.demand) / float64(m.count),
			AveragePreviousSales: float64(m.previousSales) / float64(m.count),
		})
	}

	for name, c := range categories {
		summary.ByCategory[name] = models.GroupSummary{
			Key:                  name,
			Count:                c.count,
			AverageDemand:        float64(c.demand) / float64(c.count),
			AveragePreviousSales: float64(c.previousSales) / float64(c.count),
		}
	}

	return summary
}
