package services

import (
	"math"
	"time"

	"pricing-analysis-api/pkg/models"
)

// DefaultTrendWindowDays はトレンド分析のデフォルトの遡及期間（日数）です。
const DefaultTrendWindowDays = 30

// stableThresholdRatio は「安定」と判定する傾きの閾値（平均価格に対する比率）です。
const stableThresholdRatio = 0.01

// TrendAnalyzer は時系列の価格シリーズに回帰直線を当て、トレンドの方向と強さを分類します。
type TrendAnalyzer struct {
	cleaner *SeriesCleaner
}

// NewTrendAnalyzer は新しいTrendAnalyzerを生成します。
func NewTrendAnalyzer() *TrendAnalyzer {
	return &TrendAnalyzer{
		cleaner: NewSeriesCleaner(),
	}
}

// AnalyzeTrend は遡及期間内の価格にOLS回帰を当ててトレンドを分類します。
// windowDays が 0 以下の場合は DefaultTrendWindowDays を使います。
// フィルタ後に使用可能な価格が2点未満の場合は stable/ゼロの結果を返します。
// 回帰の独立変数はカレンダー時刻ではなく観測インデックス（0..n-1）です。
// サンプリング間隔が不規則でも傾きが暴れないようにするためです。
func (s *TrendAnalyzer) AnalyzeTrend(records []models.RawRecord, windowDays int) models.TrendResult {
	if windowDays <= 0 {
		windowDays = DefaultTrendWindowDays
	}

	cleaned := s.cleaner.Clean(records)
	prices := s.windowedPrices(cleaned, windowDays)
	if len(prices) < 2 {
		return stableResult()
	}

	slope := olsSlope(prices)
	mean := calculateMean(prices)

	first := prices[0]
	last := prices[len(prices)-1]
	priceChange := last - first

	volatility := 0.0
	trendStrength := 0.0
	if mean != 0 {
		volatility = calculateStandardDeviation(prices) / mean * 100
		trendStrength = math.Abs(slope) / mean * 100
	}

	trend := "stable"
	if math.Abs(slope) >= stableThresholdRatio*mean {
		if slope > 0 {
			trend = "increasing"
		} else {
			trend = "decreasing"
		}
	}

	return models.TrendResult{
		Trend:              trend,
		TrendStrength:      trendStrength,
		PriceChange:        priceChange,
		PriceChangePercent: percentChange(last, first),
		Volatility:         volatility,
		Slope:              slope,
	}
}

// windowedPrices は遡及期間内の行の主価格を時系列順に集めます。
// 日付フィールドが1つも存在しない場合は日付フィルタをスキップして全行を使います。
func (s *TrendAnalyzer) windowedPrices(rows []models.CleanedRecord, windowDays int) []float64 {
	dateField := ""
	for _, field := range models.DateFieldNames {
		for _, row := range rows {
			if _, ok := row.Dates[field]; ok {
				dateField = field
				break
			}
		}
		if dateField != "" {
			break
		}
	}

	var prices []float64
	if dateField == "" {
		for _, row := range rows {
			if price, ok := primaryPrice(row); ok {
				prices = append(prices, price)
			}
		}
		return prices
	}

	cutoff := time.Now().AddDate(0, 0, -windowDays)
	for _, row := range rows {
		ts, dated := row.Dates[dateField]
		if !dated || ts.Before(cutoff) {
			continue
		}
		if price, ok := primaryPrice(row); ok {
			prices = append(prices, price)
		}
	}
	return prices
}

// olsSlope は price = slope*index + intercept の最小二乗法による傾きを返します。
func olsSlope(prices []float64) float64 {
	n := float64(len(prices))
	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range prices {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}
	denominator := n*sumX2 - sumX*sumX
	if denominator == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denominator
}

// stableResult はデータ不足時のゼロ値トレンドを返します。
func stableResult() models.TrendResult {
	return models.TrendResult{Trend: "stable"}
}
