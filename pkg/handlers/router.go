package handlers

import (
	"net/http"

	config "github.com/hopeIsCo0l/DemandPridiction/configs"
	"github.com/hopeIsCo0l/DemandPridiction/pkg/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter はサーバーとサーバーレス関数の両方で使うGinルーターを構築します。
func SetupRouter(cfg *config.Config, monitoringService *services.MonitoringService) *gin.Engine {
	r := gin.Default()

	// ハンドラーの初期化
	datasetHandler := NewDatasetHandler(cfg)
	monitoringHandler := NewMonitoringHandler(monitoringService)

	// ミドルウェアの登録
	r.Use(monitoringService.LoggingMiddleware())
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.ExposeHeaders = []string{"Content-Disposition", "X-Request-ID"}
	r.Use(cors.New(corsConfig))

	// ヘルスチェックエンドポイント
	r.GET("/health", HealthCheck)

	// APIバージョン1のルートグループ
	v1 := r.Group("/api/v1")
	v1.Use(AuthMiddleware(cfg.APIKey))
	{
		// データセット生成API
		dataset := v1.Group("/dataset")
		{
			dataset.GET("/seasonality", datasetHandler.GetSeasonality)
			dataset.GET("/preview", datasetHandler.PreviewDataset)
			dataset.GET("/summary", datasetHandler.GetDatasetSummary)
			dataset.GET("/download", datasetHandler.DownloadDataset)
			dataset.POST("/generate", datasetHandler.GenerateDataset)
		}

		// モニタリングAPI
		monitoring := v1.Group("/monitoring")
		{
			monitoring.GET("/logs", monitoringHandler.GetLogs)
		}
	}

	return r
}

// AuthMiddleware は X-API-KEY ヘッダーを検証します。apiKey が空なら認証しません。
func AuthMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}
		if c.GetHeader("X-API-KEY") != apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
