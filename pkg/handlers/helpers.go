package handlers

import (
	"strings"
)

// normalizeHeader は表ヘッダーのセルをレコードのキーに正規化します。
// 小文字化・トリムし、スペースとハイフンをアンダースコアに置換します。
func normalizeHeader(cell string) string {
	h := strings.ToLower(strings.TrimSpace(cell))
	h = strings.ReplaceAll(h, " ", "_")
	return strings.ReplaceAll(h, "-", "_")
}

// findIndex finds the index of the first candidate in a slice
func findIndex(slice []string, candidates ...string) int {
	for _, candidate := range candidates {
		for i, item := range slice {
			if strings.EqualFold(item, candidate) {
				return i
			}
		}
	}
	return -1
}
