package services

import (
	"encoding/csv"
	"log"
	"os"
	"strconv"
	"strings"

	"pricing-analysis-api/pkg/models"

	"github.com/xuri/excelize/v2"
)

// exportHeader は表形式エクスポートの固定カラムです。
var exportHeader = []string{"timestamp", "competitor_name", "competitor_price", "market_position", "similarity_score"}

// ExportService は整形済みドキュメントの競合分析を表形式ファイルに書き出します。
// 拡張子が .xlsx の場合はExcelブック、それ以外はCSVとして出力します。
type ExportService struct{}

// NewExportService は新しいExportServiceを生成します。
func NewExportService() *ExportService {
	return &ExportService{}
}

// ExportToTable はドキュメントを競合1件につき1行の表に平坦化して書き出します。
// エクスポートする競合が存在しない場合や書き込みに失敗した場合は false を返します
// （エラーは返さずログに記録します）。
func (s *ExportService) ExportToTable(result models.FormattedResult, destination string) bool {
	rows := flattenCompetitors(result)
	if len(rows) == 0 {
		log.Printf("⚠️ [エクスポート] 出力対象の競合データがありません: %s", destination)
		return false
	}

	var err error
	if strings.HasSuffix(strings.ToLower(destination), ".xlsx") {
		err = writeXLSX(destination, rows)
	} else {
		err = writeCSV(destination, rows)
	}
	if err != nil {
		log.Printf("⚠️ [エクスポート] 書き込みに失敗しました %s: %v", destination, err)
		return false
	}

	log.Printf("✅ [エクスポート] %d件の競合データを書き出しました: %s", len(rows)-1, destination)
	return true
}

// flattenCompetitors はドキュメントをヘッダー付きの行列に平坦化します。
// 競合がいない場合は nil を返します。
func flattenCompetitors(result models.FormattedResult) [][]string {
	if result.CompetitiveAnalysis == nil || len(result.CompetitiveAnalysis.Competitors) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(result.CompetitiveAnalysis.Competitors)+1)
	rows = append(rows, exportHeader)
	for _, competitor := range result.CompetitiveAnalysis.Competitors {
		rows = append(rows, []string{
			result.Timestamp,
			competitor.Name,
			strconv.FormatFloat(competitor.Price, 'f', -1, 64),
			competitor.MarketPosition,
			strconv.FormatFloat(competitor.SimilarityScore, 'f', -1, 64),
		})
	}
	return rows
}

// writeCSV は行列をCSVファイルとして書き出します。
func writeCSV(destination string, rows [][]string) error {
	file, err := os.Create(destination)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// writeXLSX は行列をExcelブックとして書き出します。
func writeXLSX(destination string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(destination)
}
