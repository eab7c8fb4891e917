package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"pricing-analysis-api/pkg/models"
)

// SeriesCleaner は生の観測レコード列をクリーニング済みの時系列に変換します。
// 価格・日付フィールドの正規化、完全重複行の除去、日付昇順ソートを行います。
type SeriesCleaner struct {
	parser      *ValueParser
	dateLayouts []string // 受け付ける日付形式（順に試行）
}

// NewSeriesCleaner は新しいSeriesCleanerを生成します。
func NewSeriesCleaner() *SeriesCleaner {
	return &SeriesCleaner{
		parser: NewValueParser(),
		dateLayouts: []string{
			time.RFC3339,
			"2006-01-02 15:04:05",
			"2006-01-02T15:04:05",
			"2006-01-02",
			"2006-1-2",
			"2006/01/02",
			"2006/1/2",
			"01/02/2006",
			"20060102",
		},
	}
}

// Clean はレコード列をクリーニングします。空入力は空のシリーズを返します（エラーにしません）。
//   - 認識される価格フィールドはValueParserで解釈し、失敗した値は欠損として落とします
//   - 認識される日付フィールドはタイムスタンプに変換し、失敗しても行は残します
//   - 全フィールドが一致する重複行を除去します
//   - いずれかの行に日付があれば、優先順で最初に見つかった日付フィールドで昇順ソートします
func (c *SeriesCleaner) Clean(records []models.RawRecord) []models.CleanedRecord {
	if len(records) == 0 {
		return []models.CleanedRecord{}
	}

	cleaned := make([]models.CleanedRecord, 0, len(records))
	seen := make(map[string]struct{}, len(records))

	for _, record := range records {
		row := models.CleanedRecord{
			Name:   stringField(record, "name"),
			URL:    stringField(record, "url"),
			Source: stringField(record, "source"),
			Prices: make(map[string]float64),
			Dates:  make(map[string]time.Time),
		}

		for _, field := range models.PriceFieldNames {
			raw, ok := record[field]
			if !ok {
				continue
			}
			if price, valid := c.parser.ParsePrice(raw); valid {
				row.Prices[field] = price
			}
		}

		for _, field := range models.DateFieldNames {
			raw, ok := record[field]
			if !ok {
				continue
			}
			if ts, valid := c.parseTimestamp(raw); valid {
				row.Dates[field] = ts
			}
		}

		key := fingerprint(row)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, row)
	}

	c.sortByDate(cleaned)
	return cleaned
}

// parseTimestamp は生の日付値をtime.Timeに変換します。
// 文字列は登録済みレイアウトを順に試し、数値はUNIX秒として解釈します。
func (c *SeriesCleaner) parseTimestamp(raw interface{}) (time.Time, bool) {
	switch v := raw.(type) {
	case time.Time:
		return v, true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range c.dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	case float64:
		if v <= 0 {
			return time.Time{}, false
		}
		return time.Unix(int64(v), 0).UTC(), true
	case int64:
		if v <= 0 {
			return time.Time{}, false
		}
		return time.Unix(v, 0).UTC(), true
	case int:
		if v <= 0 {
			return time.Time{}, false
		}
		return time.Unix(int64(v), 0).UTC(), true
	default:
		return time.Time{}, false
	}
}

// sortByDate は優先順で最初に存在する日付フィールドで昇順ソートします。
// そのフィールドを持たない行は元の順序のまま末尾に並べます。
func (c *SeriesCleaner) sortByDate(rows []models.CleanedRecord) {
	sortField := ""
	for _, field := range models.DateFieldNames {
		for _, row := range rows {
			if _, ok := row.Dates[field]; ok {
				sortField = field
				break
			}
		}
		if sortField != "" {
			break
		}
	}
	if sortField == "" {
		return
	}

	sort.SliceStable(rows, func(i, j int) bool {
		ti, iOK := rows[i].Dates[sortField]
		tj, jOK := rows[j].Dates[sortField]
		if iOK && jOK {
			return ti.Before(tj)
		}
		// 日付を持つ行を先に
		return iOK && !jOK
	})
}

// stringField はレコードから文字列フィールドを取得します。
func stringField(record models.RawRecord, key string) string {
	if v, ok := record[key]; ok {
		if s, isStr := v.(string); isStr {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// productFillerWords はマッチング精度を下げる宣伝文句です。製品名の正規化で除去します。
var productFillerWords = map[string]struct{}{
	"new":       {},
	"original":  {},
	"genuine":   {},
	"authentic": {},
	"latest":    {},
}

// NormalizeProductName は製品名を突き合わせ用に正規化します。
// 小文字化し、連続する空白を1つにまとめ、宣伝文句を取り除きます。
func NormalizeProductName(name string) string {
	words := strings.Fields(strings.ToLower(name))
	kept := make([]string, 0, len(words))
	for _, word := range words {
		if _, filler := productFillerWords[word]; filler {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}

// fingerprint は重複判定用に行の全フィールドを文字列化します。
func fingerprint(row models.CleanedRecord) string {
	var b strings.Builder
	b.WriteString(row.Name)
	b.WriteByte('|')
	b.WriteString(row.URL)
	b.WriteByte('|')
	b.WriteString(row.Source)
	for _, field := range models.PriceFieldNames {
		if v, ok := row.Prices[field]; ok {
			fmt.Fprintf(&b, "|%s=%g", field, v)
		}
	}
	for _, field := range models.DateFieldNames {
		if t, ok := row.Dates[field]; ok {
			fmt.Fprintf(&b, "|%s=%d", field, t.UnixNano())
		}
	}
	return b.String()
}
