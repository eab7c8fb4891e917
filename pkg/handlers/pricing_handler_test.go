package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	config "pricing-analysis-api/configs"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// テスト環境の設定
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// setupPricingRouter はテスト用のルーターとハンドラを組み立てます。
func setupPricingRouter(t *testing.T) (*gin.Engine, *config.Config) {
	t.Helper()

	cfg := &config.Config{
		TrendWindowDays: 30,
		ExportDir:       t.TempDir(),
	}
	handler := NewPricingHandler(cfg)

	r := gin.New()
	pricing := r.Group("/api/v1/pricing")
	{
		pricing.POST("/analyze", handler.AnalyzeResults)
		pricing.POST("/aggregate", handler.AggregatePrices)
		pricing.POST("/trend", handler.AnalyzeTrend)
		pricing.POST("/normalize-specs", handler.NormalizeSpecs)
		pricing.POST("/export", handler.ExportResults)
		pricing.POST("/analyze-file", handler.AnalyzeFile)
	}
	return r, cfg
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, _ := http.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAggregateEndpoint(t *testing.T) {
	r, _ := setupPricingRouter(t)

	w := postJSON(t, r, "/api/v1/pricing/aggregate", map[string]interface{}{
		"records": []map[string]interface{}{
			{"price": "100"},
			{"price": "200"},
			{"price": "300"},
		},
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Count    int     `json:"count"`
			AvgPrice float64 `json:"avg_price"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.Data.Count)
	assert.InDelta(t, 200, resp.Data.AvgPrice, 0.001)
}

func TestAggregateEndpointMissingRecords(t *testing.T) {
	r, _ := setupPricingRouter(t)

	// records フィールドがない → 400
	w := postJSON(t, r, "/api/v1/pricing/aggregate", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrendEndpoint(t *testing.T) {
	r, _ := setupPricingRouter(t)

	w := postJSON(t, r, "/api/v1/pricing/trend", map[string]interface{}{
		"records": []map[string]interface{}{
			{"price": 100},
			{"price": 110},
			{"price": 120},
			{"price": 130},
		},
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Trend string `json:"trend"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "increasing", resp.Data.Trend)
}

func TestNormalizeSpecsEndpoint(t *testing.T) {
	r, _ := setupPricingRouter(t)

	w := postJSON(t, r, "/api/v1/pricing/normalize-specs", map[string]interface{}{
		"specs": map[string]interface{}{
			"Storage":     "256GB",
			"Screen Size": "6.5 inch",
		},
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 256.0, resp.Data["storage"])
	assert.Equal(t, 6.5, resp.Data["screen_size"])
}

func TestAnalyzeEndpointAlwaysWellFormed(t *testing.T) {
	r, _ := setupPricingRouter(t)

	// 不完全な入力でも200で整形済みドキュメントを返す
	w := postJSON(t, r, "/api/v1/pricing/analyze", map[string]interface{}{
		"recommended_price": 250,
		"competitors": []map[string]interface{}{
			{"name": "Rival", "price": 240},
		},
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Timestamp           string `json:"timestamp"`
			CompetitiveAnalysis struct {
				TotalCompetitors int `json:"total_competitors"`
			} `json:"competitive_analysis"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Data.Timestamp)
	assert.Equal(t, 1, resp.Data.CompetitiveAnalysis.TotalCompetitors)
}

func TestExportEndpoint(t *testing.T) {
	r, cfg := setupPricingRouter(t)

	w := postJSON(t, r, "/api/v1/pricing/export", map[string]interface{}{
		"results": map[string]interface{}{
			"recommended_price": 250,
			"competitors": []map[string]interface{}{
				{"name": "Rival A", "price": 240},
				{"name": "Rival B", "price": 260},
			},
		},
		"destination": "report.csv",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success     bool   `json:"success"`
		Destination string `json:"destination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	// エクスポート先ディレクトリ配下にファイルが作られている
	_, err := os.Stat(filepath.Join(cfg.ExportDir, "report.csv"))
	assert.NoError(t, err)
}

func TestExportEndpointPathTraversal(t *testing.T) {
	r, cfg := setupPricingRouter(t)

	// 相対パスはファイル名部分だけが使われる
	w := postJSON(t, r, "/api/v1/pricing/export", map[string]interface{}{
		"results": map[string]interface{}{
			"competitors": []map[string]interface{}{
				{"name": "Rival", "price": 100},
			},
		},
		"destination": "../../etc/evil.csv",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Destination string `json:"destination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, filepath.Join(cfg.ExportDir, "evil.csv"), resp.Destination)
}

func TestAnalyzeFileEndpointCSV(t *testing.T) {
	r, _ := setupPricingRouter(t)

	// CSVファイルをmultipartでアップロード
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "observations.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("Name,Price,Date\nNew iPhone 15,\"79,900\",2026-08-01\nGalaxy S24,69900,2026-08-02\n"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, _ := http.NewRequest("POST", "/api/v1/pricing/analyze-file", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			FileName     string `json:"file_name"`
			RowCount     int    `json:"row_count"`
			CleanedCount int    `json:"cleaned_count"`
			Stats        struct {
				Count int `json:"count"`
			} `json:"stats"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "observations.csv", resp.Data.FileName)
	assert.Equal(t, 2, resp.Data.RowCount)
	assert.Equal(t, 2, resp.Data.Stats.Count)
}

func TestAnalyzeFileEndpointMissingFile(t *testing.T) {
	r, _ := setupPricingRouter(t)

	req, _ := http.NewRequest("POST", "/api/v1/pricing/analyze-file", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
