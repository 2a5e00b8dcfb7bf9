package services

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	maxLogEntries   = 10000
)

// LogEntry は単一のリクエストログを表します。
type LogEntry struct {
	RequestID    string        `json:"request_id"`
	Timestamp    time.Time     `json:"timestamp"`
	Path         string        `json:"path"`
	Method       string        `json:"method"`
	StatusCode   int           `json:"status_code"`
	ResponseTime time.Duration `json:"response_time"`
}

// MonitoringService はAPIのモニタリング機能を提供します。
type MonitoringService struct {
	logs []LogEntry
	mu   sync.RWMutex
	now  func() time.Time
}

// NewMonitoringService は新しいMonitoringServiceを生成します。
func NewMonitoringService() *MonitoringService {
	return &MonitoringService{
		logs: make([]LogEntry, 0),
		now:  time.Now,
	}
}

// LogRequest はリクエストを記録します。古いログは上限を超えた分だけ破棄します。
func (s *MonitoringService) LogRequest(entry LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > maxLogEntries {
		s.logs = append([]LogEntry(nil), s.logs[len(s.logs)-maxLogEntries:]...)
	}
}

// LoggingMiddleware はリクエストIDを付与し、リクエスト情報を記録するGinミドルウェアです。
func (s *MonitoringService) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := s.now()

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		// 次のミドルウェア/ハンドラを実行
		c.Next()

		// モニタリング自身へのアクセスは記録しない
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/v1/monitoring") {
			return
		}

		s.LogRequest(LogEntry{
			RequestID:    requestID,
			Timestamp:    start,
			Path:         path,
			Method:       c.Request.Method,
			StatusCode:   c.Writer.Status(),
			ResponseTime: s.now().Sub(start),
		})
	}
}

// EndpointStats はエンドポイントごとの集計です。
type EndpointStats struct {
	Endpoint      string `json:"endpoint"`
	Requests      int    `json:"requests"`
	AvgResponseMs int64  `json:"avg_response_ms"`
	ServerErrors  int    `json:"server_errors"`
	LastRequestID string `json:"last_request_id"`
}

// DashboardData はダッシュボードに表示するための集計済みデータです。
type DashboardData struct {
	PeriodHours  int             `json:"period_hours"`
	TotalCount   int             `json:"total_requests"`
	StatusCodes  map[string]int  `json:"status_codes"`
	Endpoints    []EndpointStats `json:"endpoints"`
	RecentErrors []LogEntry      `json:"recent_errors"`
}

// GetDashboardData は指定された期間のログを集計してダッシュボード用データを返します。
func (s *MonitoringService) GetDashboardData(periodHours int) DashboardData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	since := s.now().Add(-time.Duration(periodHours) * time.Hour)

	data := DashboardData{
		PeriodHours: periodHours,
		StatusCodes: map[string]int{
			"2xx Success":      0,
			"4xx Client Error": 0,
			"5xx Server Error": 0,
		},
		Endpoints:    make([]EndpointStats, 0),
		RecentErrors: make([]LogEntry, 0),
	}

	byPath := make(map[string]*EndpointStats)
	totalTime := make(map[string]time.Duration)
	for _, entry := range s.logs {
		if entry.Timestamp.Before(since) {
			continue
		}
		data.TotalCount++

		switch {
		case entry.StatusCode >= 200 && entry.StatusCode < 300:
			data.StatusCodes["2xx Success"]++
		case entry.StatusCode >= 400 && entry.StatusCode < 500:
			data.StatusCodes["4xx Client Error"]++
		case entry.StatusCode >= 500:
			data.StatusCodes["5xx Server Error"]++
		}

		stats, ok := byPath[entry.Path]
		if !ok {
			stats = &EndpointStats{Endpoint: entry.Path}
			byPath[entry.Path] = stats
		}
		stats.Requests++
		stats.LastRequestID = entry.RequestID
		totalTime[entry.Path] += entry.ResponseTime
		if entry.StatusCode >= 500 {
			stats.ServerErrors++
		}
	}

	for path, stats := range byPath {
		stats.AvgResponseMs = totalTime[path].Milliseconds() / int64(stats.Requests)
		data.Endpoints = append(data.Endpoints, *stats)
	}
	sort.Slice(data.Endpoints, func(i, j int) bool {
		return data.Endpoints[i].Endpoint < data.Endpoints[j].Endpoint
	})

	// 直近のサーバーエラーを新しい順に最大10件
	for i := len(s.logs) - 1; i >= 0 && len(data.RecentErrors) < 10; i-- {
		if s.logs[i].StatusCode >= 500 && !s.logs[i].Timestamp.Before(since) {
			data.RecentErrors = append(data.RecentErrors, s.logs[i])
		}
	}

	return data
}
