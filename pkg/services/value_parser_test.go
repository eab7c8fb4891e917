package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePriceStrings(t *testing.T) {
	parser := NewValueParser()

	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{"通貨記号と千区切り", "₹79,900", 79900, true},
		{"ドル記号と小数", "$1,299.99", 1299.99, true},
		{"千区切りと小数の混在", "1,234.56", 1234.56, true},
		{"カンマのみ・最終セグメント2文字は小数", "12,34", 12.34, true},
		{"カンマのみ・最終セグメント3文字は千区切り", "1,234", 1234, true},
		{"プレーンな数値文字列", "79900", 79900, true},
		{"円記号", "¥45,800", 45800, true},
		{"空文字列", "", 0, false},
		{"数字を含まない文字列", "price unavailable", 0, false},
		{"ゼロは欠損扱い", "0", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parser.ParsePrice(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 0.001)
			}
		})
	}
}

func TestParsePriceNumericTypes(t *testing.T) {
	parser := NewValueParser()

	// 数値型はそのまま受け付ける
	got, ok := parser.ParsePrice(float64(199.99))
	assert.True(t, ok)
	assert.InDelta(t, 199.99, got, 0.001)

	got, ok = parser.ParsePrice(int(500))
	assert.True(t, ok)
	assert.Equal(t, 500.0, got)

	// nil・ゼロ・負値は欠損
	_, ok = parser.ParsePrice(nil)
	assert.False(t, ok)

	_, ok = parser.ParsePrice(float64(0))
	assert.False(t, ok, "ゼロ価格は欠損として扱われるべき")

	_, ok = parser.ParsePrice(float64(-100))
	assert.False(t, ok, "負の価格は無効")

	// 未知の型も欠損
	_, ok = parser.ParsePrice([]string{"100"})
	assert.False(t, ok)
}

func TestParseSpec(t *testing.T) {
	parser := NewValueParser()

	tests := []struct {
		name  string
		input string
		want  interface{}
	}{
		{"ストレージGB", "256GB", 256.0},
		{"ストレージTBはGB換算", "1TB", 1024.0},
		{"ストレージMBはGB換算", "512MB", 0.5},
		{"RAM接尾辞", "8GB RAM", 8.0},
		{"RAM接頭辞", "RAM 16GB", 16.0},
		{"memoryキーワード", "4GB memory", 4.0},
		{"画面サイズinch", "6.5 inch", 6.5},
		{"画面サイズダブルクォート", `6.1"`, 6.1},
		{"プレーンな数値", "128", 128.0},
		{"認識できない値は小文字化のみ", "Blue", "blue"},
		{"空白はトリムされる", "  64GB  ", 64.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parser.ParseSpec(tt.input))
		})
	}
}
