package handler

import (
	"log"
	"net/http"
	"sync"

	config "pricing-analysis-api/configs"
	"pricing-analysis-api/pkg/handlers"
	"pricing-analysis-api/pkg/services"

	"github.com/gin-contrib/cors"
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

		// Ginルーターの初期化
		r := gin.Default()

		// サービスの初期化
		monitoringService := services.NewMonitoringService()

		// ハンドラーの初期化
		pricingHandler := handlers.NewPricingHandler(cfg)
		adminHandler := handlers.NewAdminHandler(cfg)
		monitoringHandler := handlers.NewMonitoringHandler(monitoringService)

		// ミドルウェアの登録
		r.Use(monitoringService.LoggingMiddleware())
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowAllOrigins = true
		r.Use(cors.New(corsConfig))

		// 認証ミドルウェア
		authMiddleware := func(apiKey string) gin.HandlerFunc {
			return func(c *gin.Context) {
				if apiKey == "" || apiKey == "default_secret_key" {
					c.Next()
					return
				}
				providedKey := c.GetHeader("X-API-KEY")
				if providedKey != apiKey {
					log.Printf("❌ [認証] 無効なAPI Key")
					c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
					return
				}
				c.Next()
			}
		}

		// ヘルスチェックエンドポイント
		r.GET("/health", handlers.HealthCheck)

		// APIルートの定義
		v1 := r.Group("/api/v1")
		v1.Use(authMiddleware(cfg.APIKey))
		{
			// 管理者向けAPI
			admin := v1.Group("/admin")
			{
				admin.GET("/health-status", adminHandler.GetHealthStatus)
				admin.POST("/maintenance/start", adminHandler.StartMaintenance)
				admin.POST("/maintenance/stop", adminHandler.StopMaintenance)
			}

			// モニタリングAPI
			monitoring := v1.Group("/monitoring")
			{
				monitoring.GET("/logs", monitoringHandler.GetLogs)
			}

			// 価格分析API
			pricing := v1.Group("/pricing")
			{
				pricing.POST("/analyze", pricingHandler.AnalyzeResults)
				pricing.POST("/aggregate", pricingHandler.AggregatePrices)
				pricing.POST("/trend", pricingHandler.AnalyzeTrend)
				pricing.POST("/normalize-specs", pricingHandler.NormalizeSpecs)
				pricing.POST("/export", pricingHandler.ExportResults)
				pricing.POST("/analyze-file", pricingHandler.AnalyzeFile)
			}
		}

		app = r
	})
	return app
}

// Handler はVercelからのすべてのリクエストを処理するエントリーポイントです。
func Handler(w http.ResponseWriter, r *http.Request) {
	// Ginアプリケーションをセットアップ（初回のみ実行される）
	app := setupApp()

	// Ginにリクエストを処理させる
	app.ServeHTTP(w, r)
}
