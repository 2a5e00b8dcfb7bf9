package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	config "github.com/hopeIsCo0l/DemandPridiction/configs"
	"github.com/hopeIsCo0l/DemandPridiction/pkg/models"
	"github.com/hopeIsCo0l/DemandPridiction/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxDownloadSamples 1リクエストで生成できる最大行数
const maxDownloadSamples = 1_000_000

// DatasetHandler データセット生成ハンドラー
type DatasetHandler struct {
	datasetService *services.DatasetService
	cfg            *config.Config
}

// NewDatasetHandler 新しいデータセット生成ハンドラーを作成
func NewDatasetHandler(cfg *config.Config) *DatasetHandler {
	return &DatasetHandler{
		datasetService: services.NewDatasetService(),
		cfg:            cfg,
	}
}

// GetSeasonality 月別の季節係数と製品カテゴリを返す
func (dh *DatasetHandler) GetSeasonality(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"seasonality":        models.SeasonalityTable(),
			"product_categories": models.ProductCategories,
			"previous_sales":     gin.H{"min": 50, "max_exclusive": 500},
			"noise":              gin.H{"min": 0.8, "max_exclusive": 1.2},
		},
	})
}

// PreviewDataset 生成結果をJSONで返す（件数は MAX_PREVIEW_ROWS まで）
func (dh *DatasetHandler) PreviewDataset(c *gin.Context) {
	numSamples, seed, ok := dh.parseGenerationQuery(c)
	if !ok {
		return
	}
	if numSamples > dh.cfg.MaxPreviewRows {
		numSamples = dh.cfg.MaxPreviewRows
	}

	records, err := dh.datasetService.GenerateRecords(numSamples, seed)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"num_samples": numSamples,
			"seed":        seed,
			"records":     records,
		},
	})
}

// GetDatasetSummary 生成データセットの統計を返す
func (dh *DatasetHandler) GetDatasetSummary(c *gin.Context) {
	numSamples, seed, ok := dh.parseGenerationQuery(c)
	if !ok {
		return
	}
	if !checkSampleLimit(c, numSamples) {
		return
	}

	records, err := dh.datasetService.GenerateRecords(numSamples, seed)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    services.Summarize(records),
	})
}

// DownloadDataset CSVまたはExcel形式でデータセットをダウンロードさせる
func (dh *DatasetHandler) DownloadDataset(c *gin.Context) {
	numSamples, seed, ok := dh.parseGenerationQuery(c)
	if !ok {
		return
	}
	if !checkSampleLimit(c, numSamples) {
		return
	}

	format, err := services.ParseFormat(c.DefaultQuery("format", "csv"))
	if err != nil {
		respondError(c, err)
		return
	}

	records, err := dh.datasetService.GenerateRecords(numSamples, seed)
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := services.WriteFormatted(&buf, format, records); err != nil {
		respondError(c, err)
		return
	}

	fileName := fmt.Sprintf("simulated_demand_data_%d_%d.%s", numSamples, seed, format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// GenerateDataset DATA_DIR 配下にデータセットを書き出す
func (dh *DatasetHandler) GenerateDataset(c *gin.Context) {
	var request models.DatasetGenerateRequest

	// リクエストボディをバインド（空ボディはすべてデフォルト値）
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "リクエストの解析に失敗しました: " + err.Error(),
			})
			return
		}
	}

	// デフォルト値の設定
	numSamples := dh.cfg.NumSamples
	if request.NumSamples != nil {
		numSamples = *request.NumSamples
	}
	seed := dh.cfg.Seed
	if request.Seed != nil {
		seed = *request.Seed
	}
	if !checkSampleLimit(c, numSamples) {
		return
	}

	// パス指定はファイル名のみ受け付け、DATA_DIR の外には書き込まない
	fileName := filepath.Base(request.OutputFile)
	if request.OutputFile == "" || fileName == "." || fileName == string(filepath.Separator) {
		fileName = filepath.Base(dh.cfg.OutputFile)
	}

	if err := os.MkdirAll(dh.cfg.DataDir, 0o755); err != nil {
		respondError(c, fmt.Errorf("%w: %v", services.ErrWriteFailure, err))
		return
	}
	outputPath := filepath.Join(dh.cfg.DataDir, fileName)

	records, err := dh.datasetService.GenerateRecords(numSamples, seed)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := services.WriteDataset(outputPath, records); err != nil {
		respondError(c, err)
		return
	}

	runID := uuid.NewString()
	log.Printf("📦 [データセット] run=%s %d件を%sに保存しました", runID, len(records), outputPath)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": models.DatasetGenerateResponse{
			RunID:      runID,
			OutputFile: outputPath,
			NumSamples: numSamples,
			Seed:       seed,
			Summary:    services.Summarize(records),
			CreatedAt:  time.Now().Format("2006-01-02 15:04:05"),
		},
	})
}

// parseGenerationQuery num_samples / seed クエリを解析する。失敗時はレスポンス済み。
func (dh *DatasetHandler) parseGenerationQuery(c *gin.Context) (int, int64, bool) {
	numSamples := dh.cfg.NumSamples
	if s := c.Query("num_samples"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "num_samplesは0以上の整数で指定してください: " + s,
			})
			return 0, 0, false
		}
		numSamples = n
	}

	seed := dh.cfg.Seed
	if s := c.Query("seed"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "seedは整数で指定してください: " + s,
			})
			return 0, 0, false
		}
		seed = n
	}

	return numSamples, seed, true
}

// checkSampleLimit 生成件数が上限を超えていれば400を返す
func checkSampleLimit(c *gin.Context, numSamples int) bool {
	if numSamples > maxDownloadSamples {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   fmt.Sprintf("num_samplesは%d以下で指定してください", maxDownloadSamples),
		})
		return false
	}
	return true
}

// respondError サービスのエラーをHTTPステータスに変換して返す
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, services.ErrInvalidSampleCount) || errors.Is(err, services.ErrUnsupportedFormat) {
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		log.Printf("❌ [データセット] %v", err)
	}
	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}
