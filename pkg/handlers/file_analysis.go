package handlers

import (
	"encoding/csv"
	"log"
	"net/http"
	"strconv"
	"strings"

	"pricing-analysis-api/pkg/models"
	"pricing-analysis-api/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// AnalyzeFile はアップロードされた観測ファイル（.csv / .xlsx）をクリーニングし、
// 集計統計とトレンド分類のサマリーを返します。
// 1行目をヘッダーとして解釈し、認識される列（price, date, name など）を取り込みます。
func (h *PricingHandler) AnalyzeFile(c *gin.Context) {
	c.Request.ParseMultipartForm(10 << 20) // 10MB limit

	windowDays := h.cfg.TrendWindowDays
	if v := c.PostForm("window_days"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			windowDays = parsed
		}
	}

	file, fileHeader, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "ファイルの取得に失敗しました。",
		})
		return
	}
	defer file.Close()

	fileName := fileHeader.Filename
	var rows [][]string

	if strings.HasSuffix(strings.ToLower(fileName), ".xlsx") {
		f, err := excelize.OpenReader(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Excelファイルの読み込みに失敗しました。",
			})
			return
		}
		defer f.Close()
		rows, err = f.GetRows(f.GetSheetName(0))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Excelシートの行取得に失敗しました。",
			})
			return
		}
	} else {
		reader := csv.NewReader(file)
		reader.FieldsPerRecord = -1
		rows, err = reader.ReadAll()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "CSVファイルの読み込みに失敗しました。",
			})
			return
		}
	}

	if len(rows) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "ヘッダー行とデータ行が必要です。",
		})
		return
	}

	records := rowsToRecords(rows)
	log.Printf("📊 [ファイル分析] %s: %d行を読み込みました", fileName, len(records))

	cleaned := h.cleaner.Clean(records)
	result := models.FileAnalysisResult{
		FileName:     fileName,
		RowCount:     len(records),
		CleanedCount: len(cleaned),
		Stats:        h.aggregation.Aggregate(records),
		Trend:        h.trend.AnalyzeTrend(records, windowDays),
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// rowsToRecords はヘッダー付きの行列を生の観測レコード列に変換します。
// ヘッダーは正規化してキーとし、空セルはキーごと省略します（欠損扱い）。
func rowsToRecords(rows [][]string) []models.RawRecord {
	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = normalizeHeader(cell)
	}
	nameIdx := findIndex(header, "name", "product_name", "title")

	records := make([]models.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := models.RawRecord{}
		for i, cell := range row {
			if i >= len(header) || strings.TrimSpace(cell) == "" {
				continue
			}
			key := header[i]
			value := strings.TrimSpace(cell)
			if i == nameIdx {
				record["name"] = services.NormalizeProductName(value)
				continue
			}
			record[key] = value
		}
		if len(record) > 0 {
			records = append(records, record)
		}
	}
	return records
}
