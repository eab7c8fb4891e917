package services

import (
	"fmt"
	"log"
	"time"

	"pricing-analysis-api/pkg/models"
)

// ResultFormatter は分析結果の生データを構造化ドキュメントに整形する
// トップレベルのパイプラインです。内部で何が起きても呼び出し側には
// 常に well-formed なドキュメントを返します。
type ResultFormatter struct {
	parser *ValueParser
}

// NewResultFormatter は新しいResultFormatterを生成します。
func NewResultFormatter() *ResultFormatter {
	return &ResultFormatter{
		parser: NewValueParser(),
	}
}

// FormatPricingResults は生の分析結果を整形します。
// models.AnalysisResult（値/ポインタ）と同じ形の map[string]interface{} の
// どちらも受け付けます。整形中のあらゆる内部エラーはこの境界で回収され、
// timestamp / error / raw_results のみの縮退ドキュメントに変換されます。
func (f *ResultFormatter) FormatPricingResults(results interface{}) (doc models.FormattedResult) {
	timestamp := time.Now().Format(time.RFC3339)

	defer func() {
		if r := recover(); r != nil {
			log.Printf("⚠️ [整形] 結果整形中に内部エラーが発生しました: %v", r)
			doc = models.FormattedResult{
				Timestamp:  timestamp,
				Error:      fmt.Sprintf("%v", r),
				RawResults: fmt.Sprintf("%+v", results),
			}
		}
	}()

	acc := newResultAccessor(results)

	pricing := f.buildPricingRecommendation(acc)
	competitive := f.buildCompetitiveAnalysis(acc, pricing.RecommendedPrice)
	market := f.buildMarketAnalysis(acc)
	risk := f.buildRiskAssessment(acc)
	recommendations := f.buildRecommendations(acc)
	summary := f.buildSummary(pricing, competitive, market, risk)

	return models.FormattedResult{
		Timestamp:             timestamp,
		AnalysisSummary:       &summary,
		PricingRecommendation: &pricing,
		CompetitiveAnalysis:   &competitive,
		MarketAnalysis:        &market,
		RiskAssessment:        &risk,
		Recommendations:       recommendations,
	}
}

// buildPricingRecommendation は価格推奨セクションを組み立てます。欠損値は0で埋めます。
func (f *ResultFormatter) buildPricingRecommendation(acc resultAccessor) models.PricingRecommendation {
	recommended := acc.float("recommended_price")
	current := acc.float("current_price")
	return models.PricingRecommendation{
		RecommendedPrice:   recommended,
		CurrentPrice:       current,
		PriceChangePercent: percentChange(recommended, current),
		ConfidenceScore:    acc.float("confidence_score"),
		ExpectedMargin:     acc.float("expected_margin"),
	}
}

// buildCompetitiveAnalysis は競合分析セクションを組み立てます。
// 正の観測価格を持つ競合が1件以上ある場合のみ価格統計を計算し、
// 推奨価格のポジション（分布の中で下から何割か）をバケット化します。
func (f *ResultFormatter) buildCompetitiveAnalysis(acc resultAccessor, recommendedPrice float64) models.CompetitiveAnalysis {
	records := acc.records("competitors")

	entries := make([]models.CompetitorEntry, 0, len(records))
	var observed []float64

	for _, record := range records {
		price := 0.0
		if v, ok := f.parser.ParsePrice(record["price"]); ok {
			price = v
		}
		entry := models.CompetitorEntry{
			Name:            recordString(record, "name", "Unknown"),
			Price:           price,
			URL:             recordString(record, "url", ""),
			MarketPosition:  recordString(record, "market_position", "unknown"),
			SimilarityScore: recordFloat(record, "similarity_score"),
			LastUpdated:     recordString(record, "last_updated", "unknown"),
		}
		entries = append(entries, entry)
		if price > 0 {
			observed = append(observed, price)
		}
	}

	analysis := models.CompetitiveAnalysis{
		TotalCompetitors: len(entries),
		PricePosition:    "unknown",
		Competitors:      entries,
	}

	if len(observed) > 0 {
		minPrice := observed[0]
		maxPrice := observed[0]
		below := 0
		for _, p := range observed {
			if p < minPrice {
				minPrice = p
			}
			if p > maxPrice {
				maxPrice = p
			}
			if p < recommendedPrice {
				below++
			}
		}
		avgPrice := calculateMean(observed)
		medianPrice := calculateMedian(observed)

		analysis.PriceStatistics = &models.PriceStatistics{
			MinPrice:     minPrice,
			MaxPrice:     maxPrice,
			AvgPrice:     avgPrice,
			MedianPrice:  medianPrice,
			GapToLowest:  recommendedPrice - minPrice,
			GapToHighest: maxPrice - recommendedPrice,
			GapToAverage: recommendedPrice - avgPrice,
			GapToMedian:  recommendedPrice - medianPrice,
		}

		// 推奨価格より安い競合の割合でポジションを決定
		fraction := float64(below) / float64(len(observed))
		switch {
		case fraction < 0.25:
			analysis.PricePosition = "low"
		case fraction < 0.75:
			analysis.PricePosition = "middle"
		default:
			analysis.PricePosition = "high"
		}
	}

	return analysis
}

// buildMarketAnalysis は市場分析セクションを組み立てます。
// フィールドを落とすことはせず、欠損は名前付きデフォルトで埋めます。
func (f *ResultFormatter) buildMarketAnalysis(acc resultAccessor) models.MarketAnalysis {
	market := acc.marketData()
	return models.MarketAnalysis{
		MarketTrend:      mapString(market, "market_trend", "neutral"),
		DemandLevel:      mapString(market, "demand_level", "moderate"),
		CompetitionLevel: mapString(market, "competition_level", "moderate"),
		MarketSize:       mapString(market, "market_size", "unknown"),
		GrowthRate:       asFloat(market["growth_rate"]),
	}
}

// buildRiskAssessment はリスク評価セクションを組み立てます。
// 影響度（impact）は大文字小文字を無視してバケット化します。
func (f *ResultFormatter) buildRiskAssessment(acc resultAccessor) models.RiskAssessment {
	records := acc.records("risks")

	assessment := models.RiskAssessment{
		Risks: make([]models.RiskItem, 0, len(records)),
	}

	for _, record := range records {
		item := models.RiskItem{
			Category:    recordString(record, "category", "general"),
			Description: recordString(record, "description", ""),
			Impact:      recordString(record, "impact", "medium"),
			Probability: recordString(record, "probability", "unknown"),
			Mitigation:  recordString(record, "mitigation", ""),
		}
		assessment.Risks = append(assessment.Risks, item)

		switch normalizeLevel(item.Impact) {
		case "high":
			assessment.HighRisks++
		case "low":
			assessment.LowRisks++
		default:
			assessment.MediumRisks++
		}
	}
	assessment.TotalRisks = len(assessment.Risks)

	return assessment
}

// buildRecommendations は推奨アクションのリストを組み立てます。
func (f *ResultFormatter) buildRecommendations(acc resultAccessor) []models.RecommendationItem {
	records := acc.records("recommendations")

	items := make([]models.RecommendationItem, 0, len(records))
	for _, record := range records {
		items = append(items, models.RecommendationItem{
			Title:       recordString(record, "title", "Recommendation"),
			Description: recordString(record, "description", ""),
			Priority:    recordString(record, "priority", "medium"),
			Effort:      recordString(record, "effort", "medium"),
			Timeline:    recordString(record, "timeline", "short_term"),
		})
	}
	return items
}

// buildSummary はドキュメント全体のサマリーを生成します。
// key_insights は条件付きで追加され、リスク水準は高影響リスクの有無で引き上げられます。
func (f *ResultFormatter) buildSummary(
	pricing models.PricingRecommendation,
	competitive models.CompetitiveAnalysis,
	market models.MarketAnalysis,
	risk models.RiskAssessment,
) models.AnalysisSummary {
	insights := []string{}

	if pricing.PriceChangePercent > 10 {
		insights = append(insights, fmt.Sprintf("significant price increase recommended: %.1f%%", pricing.PriceChangePercent))
	} else if pricing.PriceChangePercent < -10 {
		insights = append(insights, fmt.Sprintf("significant price decrease recommended: %.1f%%", pricing.PriceChangePercent))
	}

	if risk.HighRisks >= 1 {
		insights = append(insights, fmt.Sprintf("%d high-impact risks identified", risk.HighRisks))
	}

	riskLevel := "moderate"
	if risk.HighRisks >= 1 {
		riskLevel = "high"
	} else if risk.TotalRisks >= 3 {
		riskLevel = "medium"
	}

	return models.AnalysisSummary{
		TotalCompetitorsAnalyzed:      competitive.TotalCompetitors,
		PriceRecommendationConfidence: pricing.ConfidenceScore,
		MarketTrend:                   market.MarketTrend,
		RiskLevel:                     riskLevel,
		KeyInsights:                   insights,
	}
}
