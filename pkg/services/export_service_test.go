package services

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pricing-analysis-api/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleFormattedResult() models.FormattedResult {
	return models.FormattedResult{
		Timestamp: time.Now().Format(time.RFC3339),
		CompetitiveAnalysis: &models.CompetitiveAnalysis{
			TotalCompetitors: 2,
			PricePosition:    "middle",
			Competitors: []models.CompetitorEntry{
				{Name: "Rival A", Price: 79900, MarketPosition: "premium", SimilarityScore: 0.92},
				{Name: "Rival B", Price: 64800, MarketPosition: "budget", SimilarityScore: 0.75},
			},
		},
	}
}

func TestExportCSVRoundTrip(t *testing.T) {
	exporter := NewExportService()
	destination := filepath.Join(t.TempDir(), "competitors.csv")

	result := sampleFormattedResult()
	ok := exporter.ExportToTable(result, destination)
	require.True(t, ok)

	// 書き出したCSVを読み戻して内容を検証
	file, err := os.Open(destination)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3, "ヘッダー + 競合2件")

	assert.Equal(t, exportHeader, rows[0])
	assert.Equal(t, "Rival A", rows[1][1])
	assert.Equal(t, "79900", rows[1][2])
	assert.Equal(t, "premium", rows[1][3])
	assert.Equal(t, "Rival B", rows[2][1])
	assert.Equal(t, "64800", rows[2][2])
}

func TestExportXLSX(t *testing.T) {
	exporter := NewExportService()
	destination := filepath.Join(t.TempDir(), "competitors.xlsx")

	ok := exporter.ExportToTable(sampleFormattedResult(), destination)
	require.True(t, ok)

	// 書き出したブックを読み戻して内容を検証
	f, err := excelize.OpenFile(destination)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, exportHeader, rows[0])
	assert.Equal(t, "Rival A", rows[1][1])
	assert.Equal(t, "Rival B", rows[2][1])
}

func TestExportNoCompetitors(t *testing.T) {
	exporter := NewExportService()
	destination := filepath.Join(t.TempDir(), "empty.csv")

	// 競合データがない → false を返し、ファイルは作られない
	doc := models.FormattedResult{Timestamp: time.Now().Format(time.RFC3339)}
	ok := exporter.ExportToTable(doc, destination)
	assert.False(t, ok)

	_, err := os.Stat(destination)
	assert.True(t, os.IsNotExist(err))
}

func TestExportWriteFailure(t *testing.T) {
	exporter := NewExportService()

	// 存在しないディレクトリへの書き込みはパニックせず false を返す
	assert.NotPanics(t, func() {
		ok := exporter.ExportToTable(sampleFormattedResult(), filepath.Join(t.TempDir(), "missing", "out.csv"))
		assert.False(t, ok)
	})
}
