package services

import (
	"pricing-analysis-api/pkg/models"
)

// AggregationService はクリーニング済みの価格シリーズから記述統計を計算します。
type AggregationService struct {
	cleaner *SeriesCleaner
}

// NewAggregationService は新しいAggregationServiceを生成します。
func NewAggregationService() *AggregationService {
	return &AggregationService{
		cleaner: NewSeriesCleaner(),
	}
}

// Aggregate は生レコード列の記述統計を計算します。
// クリーニング後に使用可能な価格が1件もない場合は全フィールド0の統計を返します
// （エラーにはしません）。パーセンタイルは線形補間、標準偏差は母集団式です。
func (s *AggregationService) Aggregate(records []models.RawRecord) models.AggregateStats {
	cleaned := s.cleaner.Clean(records)
	prices := observedPrices(cleaned)
	if len(prices) == 0 {
		return models.AggregateStats{}
	}

	minPrice := prices[0]
	maxPrice := prices[0]
	for _, p := range prices {
		if p < minPrice {
			minPrice = p
		}
		if p > maxPrice {
			maxPrice = p
		}
	}

	return models.AggregateStats{
		Count:        len(prices),
		AvgPrice:     calculateMean(prices),
		MinPrice:     minPrice,
		MaxPrice:     maxPrice,
		PriceRange:   maxPrice - minPrice,
		StdDeviation: calculateStandardDeviation(prices),
		MedianPrice:  calculateMedian(prices),
		Percentile25: percentile(prices, 25),
		Percentile75: percentile(prices, 75),
	}
}

// observedPrices は各行の主価格（優先順で最初に存在する価格フィールド）を集めます。
// 価格が欠損している行は統計から除外します。
func observedPrices(rows []models.CleanedRecord) []float64 {
	prices := make([]float64, 0, len(rows))
	for _, row := range rows {
		if price, ok := primaryPrice(row); ok {
			prices = append(prices, price)
		}
	}
	return prices
}

// primaryPrice は行の主価格を返します。
func primaryPrice(row models.CleanedRecord) (float64, bool) {
	for _, field := range models.PriceFieldNames {
		if price, ok := row.Prices[field]; ok {
			return price, true
		}
	}
	return 0, false
}
