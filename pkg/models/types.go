package models

import "time"

// RawRecord はスクレイピング層から渡される生の観測レコードです。
// キーの存在は保証されず、値は数値・文字列・null のいずれの可能性もあります。
type RawRecord map[string]interface{}

// PriceFieldNames は価格として解釈するフィールド名（優先順）。
var PriceFieldNames = []string{"price", "current_price", "original_price", "sale_price"}

// DateFieldNames は日付として解釈するフィールド名（優先順）。
var DateFieldNames = []string{"date", "timestamp", "scraped_at", "updated_at"}

// CleanedRecord はクリーニング済みの1観測行です。
// Prices / Dates には解釈に成功したフィールドのみが入ります。
// 解釈できなかった値は「欠損」としてキーごと存在しません（0 や番兵値は使いません）。
type CleanedRecord struct {
	Name   string               `json:"name,omitempty"`
	URL    string               `json:"url,omitempty"`
	Source string               `json:"source,omitempty"`
	Prices map[string]float64   `json:"prices,omitempty"`
	Dates  map[string]time.Time `json:"dates,omitempty"`
}

// AggregateStats は観測価格の記述統計です。count が 0 のとき全フィールドが 0 になります。
type AggregateStats struct {
	Count        int     `json:"count"`
	AvgPrice     float64 `json:"avg_price"`
	MinPrice     float64 `json:"min_price"`
	MaxPrice     float64 `json:"max_price"`
	PriceRange   float64 `json:"price_range"`
	StdDeviation float64 `json:"std_deviation"` // 母標準偏差
	MedianPrice  float64 `json:"median_price"`
	Percentile25 float64 `json:"percentile_25"`
	Percentile75 float64 `json:"percentile_75"`
}

// TrendResult は価格トレンドの分類結果です。呼び出しごとに再計算され、状態を持ちません。
type TrendResult struct {
	Trend              string  `json:"trend"` // "increasing" / "decreasing" / "stable"
	TrendStrength      float64 `json:"trend_strength"`
	PriceChange        float64 `json:"price_change"`
	PriceChangePercent float64 `json:"price_change_percent"`
	Volatility         float64 `json:"volatility"`
	Slope              float64 `json:"slope"`
}

// AnalysisResult は上位の分析レイヤーから渡される生の分析結果です。
// 同じ形の map[string]interface{} も受け付けます（ResultFormatter 参照）。
type AnalysisResult struct {
	RecommendedPrice float64                `json:"recommended_price"`
	CurrentPrice     float64                `json:"current_price"`
	ConfidenceScore  float64                `json:"confidence_score"`
	ExpectedMargin   float64                `json:"expected_margin"`
	Competitors      []RawRecord            `json:"competitors"`
	MarketData       map[string]interface{} `json:"market_data"`
	Risks            []RawRecord            `json:"risks"`
	Recommendations  []RawRecord            `json:"recommendations"`
}

// PricingRecommendation 価格推奨のサマリー
type PricingRecommendation struct {
	RecommendedPrice   float64 `json:"recommended_price"`
	CurrentPrice       float64 `json:"current_price"`
	PriceChangePercent float64 `json:"price_change_percent"`
	ConfidenceScore    float64 `json:"confidence_score"`
	ExpectedMargin     float64 `json:"expected_margin"`
}

// CompetitorEntry 競合1件の整形済みレコード。全フィールドにデフォルト値が入ります。
type CompetitorEntry struct {
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	URL             string  `json:"url"`
	MarketPosition  string  `json:"market_position"`
	SimilarityScore float64 `json:"similarity_score"`
	LastUpdated     string  `json:"last_updated"`
}

// PriceStatistics 競合価格の統計と推奨価格とのギャップ
type PriceStatistics struct {
	MinPrice     float64 `json:"min_price"`
	MaxPrice     float64 `json:"max_price"`
	AvgPrice     float64 `json:"avg_price"`
	MedianPrice  float64 `json:"median_price"`
	GapToLowest  float64 `json:"gap_to_lowest"`  // 推奨価格 - 最安値
	GapToHighest float64 `json:"gap_to_highest"` // 最高値 - 推奨価格
	GapToAverage float64 `json:"gap_to_average"`
	GapToMedian  float64 `json:"gap_to_median"`
}

// CompetitiveAnalysis 競合分析セクション
type CompetitiveAnalysis struct {
	TotalCompetitors int               `json:"total_competitors"`
	PricePosition    string            `json:"price_position"` // "low" / "middle" / "high" / "unknown"
	Competitors      []CompetitorEntry `json:"competitors"`
	PriceStatistics  *PriceStatistics  `json:"price_statistics,omitempty"`
}

// MarketAnalysis 市場分析セクション。欠損フィールドは名前付きデフォルトで埋めます。
type MarketAnalysis struct {
	MarketTrend      string  `json:"market_trend"`      // デフォルト "neutral"
	DemandLevel      string  `json:"demand_level"`      // デフォルト "moderate"
	CompetitionLevel string  `json:"competition_level"` // デフォルト "moderate"
	MarketSize       string  `json:"market_size"`       // デフォルト "unknown"
	GrowthRate       float64 `json:"growth_rate"`
}

// RiskItem リスク1件の整形済みレコード
type RiskItem struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Impact      string `json:"impact"` // "high" / "medium" / "low"
	Probability string `json:"probability"`
	Mitigation  string `json:"mitigation"`
}

// RiskAssessment リスク評価セクション
type RiskAssessment struct {
	TotalRisks  int        `json:"total_risks"`
	HighRisks   int        `json:"high_risks"`
	MediumRisks int        `json:"medium_risks"`
	LowRisks    int        `json:"low_risks"`
	Risks       []RiskItem `json:"risks"`
}

// RecommendationItem 推奨アクション1件
type RecommendationItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Effort      string `json:"effort"`
	Timeline    string `json:"timeline"`
}

// AnalysisSummary ドキュメント先頭のサマリー
type AnalysisSummary struct {
	TotalCompetitorsAnalyzed      int      `json:"total_competitors_analyzed"`
	PriceRecommendationConfidence float64  `json:"price_recommendation_confidence"`
	MarketTrend                   string   `json:"market_trend"`
	RiskLevel                     string   `json:"risk_level"`
	KeyInsights                   []string `json:"key_insights"`
}

// FormattedResult は整形パイプラインの最終ドキュメントです。
// 整形中に内部エラーが起きた場合は Timestamp / Error / RawResults のみの
// 縮退ドキュメントになります（呼び出し側には常に well-formed な値を返します）。
type FormattedResult struct {
	Timestamp             string                 `json:"timestamp"`
	AnalysisSummary       *AnalysisSummary       `json:"analysis_summary,omitempty"`
	PricingRecommendation *PricingRecommendation `json:"pricing_recommendation,omitempty"`
	CompetitiveAnalysis   *CompetitiveAnalysis   `json:"competitive_analysis,omitempty"`
	MarketAnalysis        *MarketAnalysis        `json:"market_analysis,omitempty"`
	RiskAssessment        *RiskAssessment        `json:"risk_assessment,omitempty"`
	Recommendations       []RecommendationItem   `json:"recommendations,omitempty"`
	Error                 string                 `json:"error,omitempty"`
	RawResults            string                 `json:"raw_results,omitempty"`
}

// AggregateRequest represents a request to compute aggregate statistics.
type AggregateRequest struct {
	Records []RawRecord `json:"records" binding:"required"`
}

// TrendRequest represents a request to classify a price trend.
type TrendRequest struct {
	Records    []RawRecord `json:"records" binding:"required"`
	WindowDays int         `json:"window_days,omitempty"` // 省略時は30日
}

// NormalizeSpecsRequest represents a request to normalize product specifications.
type NormalizeSpecsRequest struct {
	Specs map[string]interface{} `json:"specs" binding:"required"`
}

// ExportRequest represents a request to export a formatted result to a tabular file.
type ExportRequest struct {
	Results     map[string]interface{} `json:"results" binding:"required"`
	Destination string                 `json:"destination" binding:"required"`
}

// FileAnalysisResult はアップロードされた観測ファイルの分析サマリーです。
type FileAnalysisResult struct {
	FileName     string         `json:"file_name"`
	RowCount     int            `json:"row_count"`
	CleanedCount int            `json:"cleaned_count"`
	Stats        AggregateStats `json:"stats"`
	Trend        TrendResult    `json:"trend"`
}
