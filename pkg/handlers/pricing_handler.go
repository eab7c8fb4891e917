package handlers

import (
	"log"
	"net/http"
	"path/filepath"

	config "pricing-analysis-api/configs"
	"pricing-analysis-api/pkg/models"
	"pricing-analysis-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// PricingHandler は価格分析コアへのHTTPハンドラです。
type PricingHandler struct {
	formatter   *services.ResultFormatter
	cleaner     *services.SeriesCleaner
	aggregation *services.AggregationService
	trend       *services.TrendAnalyzer
	normalizer  *services.SpecNormalizer
	exporter    *services.ExportService
	cfg         *config.Config
}

// NewPricingHandler は新しいPricingHandlerを生成します。
func NewPricingHandler(cfg *config.Config) *PricingHandler {
	return &PricingHandler{
		formatter:   services.NewResultFormatter(),
		cleaner:     services.NewSeriesCleaner(),
		aggregation: services.NewAggregationService(),
		trend:       services.NewTrendAnalyzer(),
		normalizer:  services.NewSpecNormalizer(),
		exporter:    services.NewExportService(),
		cfg:         cfg,
	}
}

// AnalyzeResults は生の分析結果を整形済みドキュメントに変換して返します。
// 入力が部分的・不正でも必ず well-formed なドキュメントを返すため、常に200です。
func (h *PricingHandler) AnalyzeResults(c *gin.Context) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "リクエストボディのJSONを解釈できません。",
		})
		return
	}

	doc := h.formatter.FormatPricingResults(payload)
	c.JSON(http.StatusOK, gin.H{
		"success": doc.Error == "",
		"data":    doc,
	})
}

// AggregatePrices は観測レコード列の記述統計を返します。
func (h *PricingHandler) AggregatePrices(c *gin.Context) {
	var req models.AggregateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "records フィールドが必要です。",
		})
		return
	}

	stats := h.aggregation.Aggregate(req.Records)
	log.Printf("📊 [集計] %d件のレコードから%d件の観測価格を集計しました", len(req.Records), stats.Count)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}

// AnalyzeTrend は観測レコード列の価格トレンドを分類して返します。
func (h *PricingHandler) AnalyzeTrend(c *gin.Context) {
	var req models.TrendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "records フィールドが必要です。",
		})
		return
	}

	windowDays := req.WindowDays
	if windowDays <= 0 {
		windowDays = h.cfg.TrendWindowDays
	}

	result := h.trend.AnalyzeTrend(req.Records, windowDays)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// NormalizeSpecs は製品スペックのマップを正規化して返します。
func (h *PricingHandler) NormalizeSpecs(c *gin.Context) {
	var req models.NormalizeSpecsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "specs フィールドが必要です。",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.normalizer.NormalizeSpecs(req.Specs),
	})
}

// ExportResults は分析結果を整形し、表形式ファイルに書き出します。
// 出力先はサーバー設定のエクスポートディレクトリ配下に限定します。
func (h *PricingHandler) ExportResults(c *gin.Context) {
	var req models.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "results と destination フィールドが必要です。",
		})
		return
	}

	// パストラバーサルを防ぐためファイル名部分のみを使用する
	destination := filepath.Join(h.cfg.ExportDir, filepath.Base(req.Destination))

	doc := h.formatter.FormatPricingResults(req.Results)
	ok := h.exporter.ExportToTable(doc, destination)

	c.JSON(http.StatusOK, gin.H{
		"success":     ok,
		"destination": destination,
	})
}
