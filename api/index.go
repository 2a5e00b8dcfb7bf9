package handler

import (
	"log"
	"net/http"
	"sync"

	config "github.com/hopeIsCo0l/DemandPridiction/configs"
	"github.com/hopeIsCo0l/DemandPridiction/pkg/handlers"
	"github.com/hopeIsCo0l/DemandPridiction/pkg/services"

	"github.com/gin-gonic/gin"
)

var (
	app  *gin.Engine
	once sync.Once
)

// setupApp はGinアプリケーションを初期化します。
// サーバーレス環境では、リクエストごとに初期化が走らないようsync.Onceで一度だけ実行します。
func setupApp() *gin.Engine {
	once.Do(func() {
		// .envファイルはVercelの環境変数設定から読み込まれるため、ここではgodotenvを呼び出しません。
		cfg := config.LoadConfig()

		// サーバーレス環境で書き込めるのは/tmpのみ
		if cfg.DataDir == "data" {
			cfg.DataDir = "/tmp/data"
		}

		app = handlers.SetupRouter(cfg, services.NewMonitoringService())
		log.Printf("🟢 [setupApp] Gin application initialized (data dir: %s)", cfg.DataDir)
	})
	return app
}

// Handler はVercelのエントリポイントです。
func Handler(w http.ResponseWriter, r *http.Request) {
	setupApp().ServeHTTP(w, r)
}
