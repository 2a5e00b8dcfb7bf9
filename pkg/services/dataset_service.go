package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"

	"github.com/hopeIsCo0l/DemandPridiction/pkg/models"
)

const (
	minPreviousSales = 50
	maxPreviousSales = 500 // 排他的上限
	minNoise         = 0.8
	maxNoise         = 1.2 // 排他的上限
)

var (
	// ErrWriteFailure 出力先の作成・書き込みに失敗した
	ErrWriteFailure = errors.New("データセットの書き込みに失敗しました")
	// ErrInvalidSampleCount サンプル数が負
	ErrInvalidSampleCount = errors.New("サンプル数は0以上である必要があります")
)

// DatasetService 需要シミュレーションデータセットの生成サービス
type DatasetService struct{}

// NewDatasetService 新しいデータセット生成サービスを作成
func NewDatasetService() *DatasetService {
	return &DatasetService{}
}

// NewSeededRand シードから決定的な乱数生成器を作成する。
// グローバルな乱数状態は使わず、呼び出し側が所有するインスタンスを返す。
func NewSeededRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

// Synthesize rから num_samples 件のレコードを生成する。
// 1レコードごとに Month, Product_Category, Previous_Sales, noise の順で乱数を引く。
func (ds *DatasetService) Synthesize(r *rand.Rand, numSamples int) ([]models.DemandRecord, error) {
	if numSamples < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleCount, numSamples)
	}

	records := make([]models.DemandRecord, 0, numSamples)
	for i := 0; i < numSamples; i++ {
		month := 1 + r.IntN(12)
		category := models.ProductCategories[r.IntN(len(models.ProductCategories))]
		previousSales := minPreviousSales + r.IntN(maxPreviousSales-minPreviousSales)
		noise := minNoise + (maxNoise-minNoise)*r.Float64()

		factor, _ := models.SeasonalityFactor(month)

		records = append(records, models.DemandRecord{
			Month:             month,
			ProductCategory:   category,
			PreviousSales:     previousSales,
			SeasonalityFactor: factor,
			Demand:            computeDemand(previousSales, factor, noise),
		})
	}

	return records, nil
}

// computeDemand 需要 = 前期売上 × 季節係数 × ノイズ（小数点以下は切り捨て）
func computeDemand(previousSales int, factor, noise float64) int {
	return int(float64(previousSales) * factor * noise)
}

// GenerateRecords シードを指定してレコードを生成する
func (ds *DatasetService) GenerateRecords(numSamples int, seed int64) ([]models.DemandRecord, error) {
	return ds.Synthesize(NewSeededRand(seed), numSamples)
}

// GenerateDataset データセットを生成して outputPath に書き出す。
// 同じ numSamples と seed なら常にバイト単位で同一のファイルになる。
func (ds *DatasetService) GenerateDataset(outputPath string, numSamples int, seed int64) error {
	records, err := ds.GenerateRecords(numSamples, seed)
	if err != nil {
		return err
	}

	if err := WriteDataset(outputPath, records); err != nil {
		return err
	}

	log.Printf("📦 [データセット] %d件のレコードを生成しました (seed=%d, output=%s)", len(records), seed, outputPath)
	return nil
}
