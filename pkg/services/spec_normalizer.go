package services

import (
	"strings"
)

// SpecNormalizer は自由記述の製品スペックを比較可能な単位・スケールに正規化します。
type SpecNormalizer struct {
	parser *ValueParser
}

// NewSpecNormalizer は新しいSpecNormalizerを生成します。
func NewSpecNormalizer() *SpecNormalizer {
	return &SpecNormalizer{
		parser: NewValueParser(),
	}
}

// NormalizeSpecs はスペックのマップを正規化します。
//   - キー: 小文字化・トリムし、内部のスペースとハイフンをアンダースコアに置換
//   - 文字列値: ValueParser.ParseSpec で数値化（認識できない場合は小文字化のみ）
//   - 文字列以外の値: そのまま通過
//
// 正規化は冪等です。正規化済みのマップを再度正規化しても結果は変わりません。
func (s *SpecNormalizer) NormalizeSpecs(specs map[string]interface{}) map[string]interface{} {
	normalized := make(map[string]interface{}, len(specs))
	for key, value := range specs {
		normalizedKey := normalizeSpecKey(key)
		if str, isString := value.(string); isString {
			normalized[normalizedKey] = s.parser.ParseSpec(str)
		} else {
			normalized[normalizedKey] = value
		}
	}
	return normalized
}

// normalizeSpecKey はスペックのキーを正規化します。
func normalizeSpecKey(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	k = strings.ReplaceAll(k, " ", "_")
	k = strings.ReplaceAll(k, "-", "_")
	return k
}
