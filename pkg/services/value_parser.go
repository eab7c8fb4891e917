package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// zeroPriceMeansMissing は「観測価格がちょうど 0 の場合はデータ無しとみなす」ポリシーです。
// スクレイピング元では取得失敗時に 0 が入ることがあるため、0 を正当な観測価格と
// 区別します。無料（0円）の商品を扱う場合はこのポリシー自体を見直す必要があります。
const zeroPriceMeansMissing = true

var (
	// priceCharsRegexp は価格文字列から数字・小数点・カンマ以外を取り除くためのパターン
	priceCharsRegexp = regexp.MustCompile(`[^0-9.,]`)
	// storageRegexp は "256GB" / "1TB" / "512MB" 形式のストレージ容量
	storageRegexp = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(gb|tb|mb)$`)
	// ramSuffixRegexp / ramPrefixRegexp は RAM キーワード付きのメモリ容量
	ramSuffixRegexp = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(gb|mb)\s*(?:ram|memory)$`)
	ramPrefixRegexp = regexp.MustCompile(`^(?:ram|memory)\s*(\d+(?:\.\d+)?)\s*(gb|mb)$`)
	// screenRegexp は "6.5 inch" / `6.1"` 形式の画面サイズ
	screenRegexp = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(?:inch(?:es)?|")$`)
)

// ValueParser は単一の生値（価格文字列・スペック文字列）を正規化された値に変換します。
// 状態を持たないため並行利用可能です。
type ValueParser struct{}

// NewValueParser は新しいValueParserを生成します。
func NewValueParser() *ValueParser {
	return &ValueParser{}
}

// ParsePrice は生の価格値をfloatに変換します。
// 解釈できない値・欠損値は ok=false を返します（0 や番兵値は返しません）。
func (p *ValueParser) ParsePrice(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case float64:
		return validPrice(v)
	case float32:
		return validPrice(float64(v))
	case int:
		return validPrice(float64(v))
	case int32:
		return validPrice(float64(v))
	case int64:
		return validPrice(float64(v))
	case string:
		return p.parsePriceString(v)
	default:
		return 0, false
	}
}

// parsePriceString は通貨記号・桁区切り混在の価格文字列を解釈します。
// カンマとピリオドが両方ある場合はカンマを桁区切りとみなします。
// カンマのみの場合は最終セグメントが2文字のときだけ小数点として扱います
// （"1,234" は千区切り、"12,34" は小数）。ロケール対応の完全なパーサーではなく
// 経験則であることに注意してください。
func (p *ValueParser) parsePriceString(raw string) (float64, bool) {
	cleaned := priceCharsRegexp.ReplaceAllString(strings.TrimSpace(raw), "")
	if cleaned == "" {
		return 0, false
	}

	hasComma := strings.Contains(cleaned, ",")
	hasDot := strings.Contains(cleaned, ".")

	switch {
	case hasComma && hasDot:
		// カンマは桁区切り、ピリオドが小数点
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case hasComma:
		parts := strings.Split(cleaned, ",")
		last := parts[len(parts)-1]
		if len(last) == 2 {
			// 最終セグメント2文字 → カンマを小数点として解釈
			cleaned = strings.Join(parts[:len(parts)-1], "") + "." + last
		} else {
			// それ以外 → 全カンマを桁区切りとして除去
			cleaned = strings.Join(parts, "")
		}
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return validPrice(value)
}

// validPrice は数値が観測価格として有効かどうかを判定します。
func validPrice(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	if zeroPriceMeansMissing && v == 0 {
		return 0, false
	}
	return v, true
}

// ParseSpec はスペック値の文字列を比較可能な値に正規化します。
// パターンは ストレージ → RAM → 画面サイズ → 数値 → そのまま の固定順で判定し、
// 最初にマッチしたものを採用します。容量はGB単位に揃えます（TB→×1024、MB→÷1024）。
func (p *ValueParser) ParseSpec(raw string) interface{} {
	s := strings.ToLower(strings.TrimSpace(raw))

	if m := storageRegexp.FindStringSubmatch(s); m != nil {
		return toGigabytes(m[1], m[2])
	}
	if m := ramSuffixRegexp.FindStringSubmatch(s); m != nil {
		return toGigabytes(m[1], m[2])
	}
	if m := ramPrefixRegexp.FindStringSubmatch(s); m != nil {
		return toGigabytes(m[1], m[2])
	}
	if m := screenRegexp.FindStringSubmatch(s); m != nil {
		inches, _ := strconv.ParseFloat(m[1], 64)
		return inches
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return s
}

// toGigabytes は容量値をGB単位に変換します。
func toGigabytes(number, unit string) float64 {
	v, _ := strconv.ParseFloat(number, 64)
	switch unit {
	case "tb":
		return v * 1024
	case "mb":
		return v / 1024
	default: // gb
		return v
	}
}
