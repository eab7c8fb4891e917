package services

import (
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// maxLogEntries は保持するリクエストログの上限です。超過時は古いものから捨てます。
const maxLogEntries = 10000

// RequestLog は単一のリクエストログを表します。
type RequestLog struct {
	Timestamp    time.Time     `json:"timestamp"`
	Path         string        `json:"path"`
	Method       string        `json:"method"`
	StatusCode   int           `json:"status_code"`
	ResponseTime time.Duration `json:"response_time"`
}

// MonitoringService はAPIのリクエストログ収集と集計を提供します。
type MonitoringService struct {
	mu   sync.RWMutex
	logs []RequestLog
}

// NewMonitoringService は新しいMonitoringServiceを生成します。
func NewMonitoringService() *MonitoringService {
	return &MonitoringService{
		logs: make([]RequestLog, 0),
	}
}

// LogRequest はリクエストを記録します。
func (s *MonitoringService) LogRequest(entry RequestLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > maxLogEntries {
		s.logs = s.logs[len(s.logs)-maxLogEntries:]
	}
}

// LoggingMiddleware はリクエスト情報を記録するGinミドルウェアです。
// 管理・モニタリング系のパスは集計から除外します。
func (s *MonitoringService) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/v1/admin") || strings.HasPrefix(path, "/api/v1/monitoring") {
			return
		}

		s.LogRequest(RequestLog{
			Timestamp:    start,
			Path:         path,
			Method:       c.Request.Method,
			StatusCode:   c.Writer.Status(),
			ResponseTime: time.Since(start),
		})
	}
}

// DashboardData はダッシュボード表示用の集計済みデータです。
type DashboardData struct {
	TotalRequests    int                      `json:"totalRequests"`
	Endpoints        map[string]int           `json:"endpoints"`
	StatusCodes      map[string]int           `json:"statusCodes"`
	AvgResponseTimes []map[string]interface{} `json:"avgResponseTimes"`
	RecentErrors     []RequestLog             `json:"recentErrors"`
}

// GetDashboardData は指定期間（時間）のログを集計して返します。
func (s *MonitoringService) GetDashboardData(periodHours int) DashboardData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	since := time.Now().Add(-time.Duration(periodHours) * time.Hour)

	endpoints := make(map[string]int)
	statusCodes := map[string]int{
		"2xx Success":      0,
		"4xx Client Error": 0,
		"5xx Server Error": 0,
	}
	responseTimeSum := make(map[string]time.Duration)
	responseCount := make(map[string]int)
	recentErrors := make([]RequestLog, 0)
	total := 0

	// ログは時系列順に追加されるため、末尾から期間内のものだけを走査する
	for i := len(s.logs) - 1; i >= 0; i-- {
		entry := s.logs[i]
		if entry.Timestamp.Before(since) {
			break
		}
		total++
		endpoints[entry.Path]++
		responseTimeSum[entry.Path] += entry.ResponseTime
		responseCount[entry.Path]++

		switch {
		case entry.StatusCode >= 500:
			statusCodes["5xx Server Error"]++
			if len(recentErrors) < 10 {
				recentErrors = append(recentErrors, entry)
			}
		case entry.StatusCode >= 400:
			statusCodes["4xx Client Error"]++
		case entry.StatusCode >= 200 && entry.StatusCode < 300:
			statusCodes["2xx Success"]++
		}
	}

	avgResponseTimes := make([]map[string]interface{}, 0, len(responseTimeSum))
	for path, totalTime := range responseTimeSum {
		avg := totalTime.Milliseconds() / int64(responseCount[path])
		avgResponseTimes = append(avgResponseTimes, map[string]interface{}{
			"endpoint":     path,
			"responseTime": avg,
		})
	}

	return DashboardData{
		TotalRequests:    total,
		Endpoints:        endpoints,
		StatusCodes:      statusCodes,
		AvgResponseTimes: avgResponseTimes,
		RecentErrors:     recentErrors,
	}
}
