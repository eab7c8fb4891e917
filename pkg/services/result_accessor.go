package services

import (
	"strconv"
	"strings"

	"pricing-analysis-api/pkg/models"
)

// resultAccessor は分析結果への読み取り専用アクセサです。
// 構造体表現（models.AnalysisResult）を優先し、マップ表現にフォールバックします。
// 実行時の型検査を各所に散らさず、「フィールドXをデフォルトDで読む」パターンを
// ここに集約しています。
type resultAccessor struct {
	structured *models.AnalysisResult
	mapping    map[string]interface{}
}

// newResultAccessor は入力の表現を判別してアクセサを生成します。
// 未知の型の場合は全フィールドがデフォルト値になる空のアクセサを返します。
func newResultAccessor(results interface{}) resultAccessor {
	switch v := results.(type) {
	case models.AnalysisResult:
		return resultAccessor{structured: &v}
	case *models.AnalysisResult:
		if v != nil {
			return resultAccessor{structured: v}
		}
		return resultAccessor{}
	case map[string]interface{}:
		return resultAccessor{mapping: v}
	case models.RawRecord:
		return resultAccessor{mapping: v}
	default:
		return resultAccessor{}
	}
}

// float は数値フィールドを読み取ります。欠損・解釈不能は 0 です。
func (a resultAccessor) float(key string) float64 {
	if a.structured != nil {
		switch key {
		case "recommended_price":
			return a.structured.RecommendedPrice
		case "current_price":
			return a.structured.CurrentPrice
		case "confidence_score":
			return a.structured.ConfidenceScore
		case "expected_margin":
			return a.structured.ExpectedMargin
		}
		return 0
	}
	return asFloat(a.mapping[key])
}

// records はレコードのリストフィールドを読み取ります。欠損は空リストです。
func (a resultAccessor) records(key string) []models.RawRecord {
	if a.structured != nil {
		switch key {
		case "competitors":
			return a.structured.Competitors
		case "risks":
			return a.structured.Risks
		case "recommendations":
			return a.structured.Recommendations
		}
		return nil
	}
	return asRecordList(a.mapping[key])
}

// marketData は市場データのマップを読み取ります。
func (a resultAccessor) marketData() map[string]interface{} {
	if a.structured != nil {
		return a.structured.MarketData
	}
	if m, ok := a.mapping["market_data"].(map[string]interface{}); ok {
		return m
	}
	return nil
}

// asRecordList は緩く型付けされたリストを RawRecord のリストに変換します。
// JSONデコード結果（[]interface{}）と型付きリストの両方を受け付けます。
func asRecordList(raw interface{}) []models.RawRecord {
	switch v := raw.(type) {
	case []models.RawRecord:
		return v
	case []map[string]interface{}:
		records := make([]models.RawRecord, 0, len(v))
		for _, m := range v {
			records = append(records, models.RawRecord(m))
		}
		return records
	case []interface{}:
		records := make([]models.RawRecord, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]interface{}); ok {
				records = append(records, models.RawRecord(m))
			}
		}
		return records
	default:
		return nil
	}
}

// asFloat は緩く型付けされた値を数値に変換します。失敗時は 0 です。
func asFloat(raw interface{}) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
		return 0
	default:
		return 0
	}
}

// recordString はレコードから文字列フィールドをデフォルト付きで取得します。
func recordString(record models.RawRecord, key, defaultValue string) string {
	if v, ok := record[key]; ok {
		if s, isStr := v.(string); isStr {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed
			}
		}
	}
	return defaultValue
}

// recordFloat はレコードから数値フィールドを取得します。欠損は 0 です。
func recordFloat(record models.RawRecord, key string) float64 {
	if v, ok := record[key]; ok {
		return asFloat(v)
	}
	return 0
}

// mapString はマップから文字列をデフォルト付きで取得します。
func mapString(m map[string]interface{}, key, defaultValue string) string {
	if m == nil {
		return defaultValue
	}
	if v, ok := m[key]; ok {
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return defaultValue
}

// normalizeLevel は影響度などの水準ラベルを小文字に正規化します。
func normalizeLevel(level string) string {
	return strings.ToLower(strings.TrimSpace(level))
}
