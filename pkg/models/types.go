package models

// DemandRecord 需要データセットの1行
type DemandRecord struct {
	Month             int     `json:"month"`
	ProductCategory   string  `json:"product_category"`
	PreviousSales     int     `json:"previous_sales"`
	SeasonalityFactor float64 `json:"seasonality_factor"`
	Demand            int     `json:"demand"`
}

// DatasetHeader 出力ファイルのヘッダー行（列順はこの順で固定）
var DatasetHeader = []string{
	"Month",
	"Product_Category",
	"Previous_Sales",
	"Seasonality_Factor",
	"Demand",
}

// ProductCategories 生成対象の製品カテゴリ
var ProductCategories = []string{"Confectionery", "Beverages", "Snacks"}

// seasonalityFactors 月ごとの季節係数（年末・繁忙期ほど高い）
var seasonalityFactors = [12]float64{
	1.0, // 1月
	1.1, // 2月
	1.2, // 3月
	1.0, // 4月
	1.3, // 5月
	1.5, // 6月
	1.4, // 7月
	1.2, // 8月
	1.3, // 9月
	1.4, // 10月
	1.6, // 11月
	1.8, // 12月
}

// SeasonalityFactor 月(1-12)に対応する季節係数を返す。範囲外の月はfalse。
func SeasonalityFactor(month int) (float64, bool) {
	if month < 1 || month > 12 {
		return 0, false
	}
	return seasonalityFactors[month-1], true
}

// SeasonalityTable 月 -> 季節係数のコピーを返す
func SeasonalityTable() map[int]float64 {
	table := make(map[int]float64, len(seasonalityFactors))
	for i, f := range seasonalityFactors {
		table[i+1] = f
	}
	return table
}

// IsProductCategory カテゴリ名が既知のものか判定
func IsProductCategory(name string) bool {
	for _, c := range ProductCategories {
		if c == name {
			return true
		}
	}
	return false
}

// DatasetSummary 生成データセットの集計結果
type DatasetSummary struct {
	Count         int                     `json:"count"`
	AverageDemand float64                 `json:"average_demand"`
	MinDemand     int                     `json:"min_demand"`
	MaxDemand     int                     `json:"max_demand"`
	StandardDev   float64                 `json:"standard_deviation"`
	TotalDemand   int                     `json:"total_demand"`
	ByMonth       []GroupSummary          `json:"by_month"`
	ByCategory    map[string]GroupSummary `json:"by_category"`
}

// GroupSummary 月別・カテゴリ別の集計
type GroupSummary struct {
	Key                  string  `json:"key"`
	Count                int     `json:"count"`
	AverageDemand        float64 `json:"average_demand"`
	AveragePreviousSales float64 `json:"average_previous_sales"`
}

// DatasetGenerateRequest データセット生成リクエスト
type DatasetGenerateRequest struct {
	OutputFile string `json:"output_file"`
	NumSamples *int   `json:"num_samples"`
	Seed       *int64 `json:"seed"`
}

// DatasetGenerateResponse データセット生成結果
type DatasetGenerateResponse struct {
	RunID      string         `json:"run_id"`
	OutputFile string         `json:"output_file"`
	NumSamples int            `json:"num_samples"`
	Seed       int64          `json:"seed"`
	Summary    DatasetSummary `json:"summary"`
	CreatedAt  string         `json:"created_at"`
}
