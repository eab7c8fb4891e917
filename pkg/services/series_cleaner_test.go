package services

import (
	"testing"

	"pricing-analysis-api/pkg/models"

	"github.com/stretchr/testify/assert"
)

func TestCleanEmptyInput(t *testing.T) {
	cleaner := NewSeriesCleaner()

	// 空入力はエラーではなく空のシリーズ
	cleaned := cleaner.Clean([]models.RawRecord{})
	assert.NotNil(t, cleaned)
	assert.Empty(t, cleaned)

	cleaned = cleaner.Clean(nil)
	assert.Empty(t, cleaned)
}

func TestCleanParsesPriceFields(t *testing.T) {
	cleaner := NewSeriesCleaner()

	records := []models.RawRecord{
		{
			"name":           "iPhone 15",
			"price":          "₹79,900",
			"original_price": "invalid",
			"sale_price":     float64(75000),
		},
	}

	cleaned := cleaner.Clean(records)
	assert.Len(t, cleaned, 1)

	row := cleaned[0]
	assert.Equal(t, "iPhone 15", row.Name)
	assert.InDelta(t, 79900, row.Prices["price"], 0.001)
	assert.InDelta(t, 75000, row.Prices["sale_price"], 0.001)

	// 解釈できない値はキーごと欠損になる（0は入らない）
	_, exists := row.Prices["original_price"]
	assert.False(t, exists, "解釈できない価格は欠損として落とされるべき")
}

func TestCleanRemovesDuplicates(t *testing.T) {
	cleaner := NewSeriesCleaner()

	record := models.RawRecord{
		"name":  "Galaxy S24",
		"url":   "https://example.com/galaxy-s24",
		"price": "89,999",
	}
	records := []models.RawRecord{record, record, record}

	cleaned := cleaner.Clean(records)
	assert.Len(t, cleaned, 1, "完全重複行は1件にまとめられるべき")
}

func TestCleanSortsByDate(t *testing.T) {
	cleaner := NewSeriesCleaner()

	records := []models.RawRecord{
		{"name": "C", "price": "300", "date": "2026-08-03"},
		{"name": "A", "price": "100", "date": "2026-08-01"},
		{"name": "B", "price": "200", "date": "2026-08-02"},
		{"name": "undated", "price": "999"}, // 日付なし
	}

	cleaned := cleaner.Clean(records)
	assert.Len(t, cleaned, 4)

	// 日付昇順、日付なしの行は末尾
	assert.Equal(t, "A", cleaned[0].Name)
	assert.Equal(t, "B", cleaned[1].Name)
	assert.Equal(t, "C", cleaned[2].Name)
	assert.Equal(t, "undated", cleaned[3].Name)
}

func TestCleanAcceptsMultipleDateFormats(t *testing.T) {
	cleaner := NewSeriesCleaner()

	records := []models.RawRecord{
		{"name": "rfc3339", "price": "100", "date": "2026-08-01T10:00:00Z"},
		{"name": "slash", "price": "100", "date": "2026/08/02"},
		{"name": "unix", "price": "100", "date": float64(1754179200)}, // UNIX秒
	}

	cleaned := cleaner.Clean(records)
	assert.Len(t, cleaned, 3)
	for _, row := range cleaned {
		_, ok := row.Dates["date"]
		assert.True(t, ok, "行 %s の日付が解釈されるべき", row.Name)
	}
}

func TestNormalizeProductName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"New Original iPhone 15 Pro", "iphone 15 pro"},
		{"Genuine  Galaxy   S24", "galaxy s24"},
		{"Latest Authentic Pixel 9", "pixel 9"},
		{"MacBook Air M3", "macbook air m3"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeProductName(tt.input))
	}
}
