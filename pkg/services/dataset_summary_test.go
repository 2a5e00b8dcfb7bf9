package services

import (
	"testing"

	"github.com/hopeIsCo0l/DemandPridiction/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)

	assert.Equal(t, 0, summary.Count)
	assert.Empty(t, summary.ByMonth)
	assert.Empty(t, summary.ByCategory)
}

func TestSummarize(t *testing.T) {
	records := []models.DemandRecord{
		{Month: 1, ProductCategory: "Snacks", PreviousSales: 100, SeasonalityFactor: 1.0, Demand: 100},
		{Month: 1, ProductCategory: "Beverages", PreviousSales: 200, SeasonalityFactor: 1.0, Demand: 200},
		{Month: 12, ProductCategory: "Snacks", PreviousSales: 300, SeasonalityFactor: 1.8, Demand: 600},
	}

	summary := Summarize(records)

	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, 900, summary.TotalDemand)
	assert.InDelta(t, 300.0, summary.AverageDemand, 1e-9)
	assert.Equal(t, 100, summary.MinDemand)
	assert.Equal(t, 600, summary.MaxDemand)
	assert.InDelta(t, 216.0247, summary.StandardDev, 1e-4)

	require.Len(t, summary.ByMonth, 2)
	assert.Equal(t, "1", summary.ByMonth[0].Key)
	assert.Equal(t, 2, summary.ByMonth[0].Count)
	assert.InDelta(t, 150.0, summary.ByMonth[0].AverageDemand, 1e-9)
	assert.Equal(t, "12", summary.ByMonth[1].Key)

	snacks := summary.ByCategory["Snacks"]
	assert.Equal(t, 2, snacks.Count)
	assert.InDelta(t, 350.0, snacks.AverageDemand, 1e-9)
	assert.InDelta(t, 200.0, snacks.AveragePreviousSales, 1e-9)
}

func TestSummarizeGeneratedDataset(t *testing.T) {
	records, err := NewDatasetService().GenerateRecords(1000, 42)
	require.NoError(t, err)

	summary := Summarize(records)

	assert.Equal(t, 1000, summary.Count)
	total := 0
	for _, g := range summary.ByMonth {
		total += g.Count
	}
	assert.Equal(t, 1000, total)
	assert.LessOrEqual(t, summary.MaxDemand, 1077)
	assert.GreaterOrEqual(t, summary.MinDemand, 40)
}
