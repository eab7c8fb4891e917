package main

import (
	"log"
	"net/http"
	"os"

	config "pricing-analysis-api/configs"
	"pricing-analysis-api/pkg/handlers"
	"pricing-analysis-api/pkg/services"

	"github.com/gin-contrib/cors"
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

	// エクスポート先ディレクトリを用意
	if err := os.MkdirAll(cfg.ExportDir, 0o755); err != nil {
		log.Printf("Warning: could not create export directory %s: %v", cfg.ExportDir, err)
	}

	// Ginルーターの初期化
	r := gin.Default()

	// サービスの初期化
	monitoringService := services.NewMonitoringService()

	// ハンドラーの初期化
	pricingHandler := handlers.NewPricingHandler(cfg)
	adminHandler := handlers.NewAdminHandler(cfg)
	monitoringHandler := handlers.NewMonitoringHandler(monitoringService)

	// ミドルウェアの登録
	r.Use(monitoringService.LoggingMiddleware()) // ロギングミドルウェアをグローバルに適用
	r.Use(cors.Default())

	// 認証ミドルウェア
	authMiddleware := func(apiKey string) gin.HandlerFunc {
		return func(c *gin.Context) {
			if apiKey == "" || apiKey == "default_secret_key" {
				c.Next()
				return
			}
			providedKey := c.GetHeader("X-API-KEY")
			if providedKey != apiKey {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				return
			}
			c.Next()
		}
	}

	// ヘルスチェックエンドポイント
	r.GET("/health", handlers.HealthCheck)

	// APIバージョン1のルートグループ
	v1 := r.Group("/api/v1")
	v1.Use(authMiddleware(cfg.APIKey))
	{
		v1.GET("/hello", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message": "Hello from Pricing Analysis API!",
			})
		})

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

	log.Printf("Starting Pricing Analysis API server on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
