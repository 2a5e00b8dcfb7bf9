package main

import (
	"log"

	config "github.com/hopeIsCo0l/DemandPridiction/configs"
	"github.com/hopeIsCo0l/DemandPridiction/pkg/handlers"
	"github.com/hopeIsCo0l/DemandPridiction/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .envファイルを読み込み
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	// 設定の読み込み
	cfg := config.LoadConfig()
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// サービスの初期化
	monitoringService := services.NewMonitoringService()

	// Ginルーターの初期化
	r := handlers.SetupRouter(cfg, monitoringService)

	log.Printf("Starting Dataset API server on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
