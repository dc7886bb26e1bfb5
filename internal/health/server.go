// Package health tracks watcher liveness and serves it over HTTP.
package health

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"smartcity/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Monitor records the outcome of the most recent aggregate fetch.
type Monitor struct {
	mu              sync.RWMutex
	startTime       time.Time
	lastFetchTime   time.Time
	lastFetchStatus string
	lastFetchError  string
	fetchCount      int64
}

// NewMonitor creates a monitor; status starts as "starting" until the first
// fetch reports in.
func NewMonitor() *Monitor {
	return &Monitor{
		startTime:       time.Now(),
		lastFetchStatus: "starting",
	}
}

// UpdateFetchStatus records the result of a fetch cycle.
func (m *Monitor) UpdateFetchStatus(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFetchTime = time.Now()
	m.fetchCount++
	if err != nil {
		m.lastFetchStatus = "error"
		m.lastFetchError = err.Error()
	} else {
		m.lastFetchStatus = "ok"
		m.lastFetchError = ""
	}
}

// Status is the JSON body served on /health.
type Status struct {
	Status          string `json:"status"`
	Uptime          string `json:"uptime"`
	LastFetchTime   string `json:"lastFetchTime,omitempty"`
	LastFetchStatus string `json:"lastFetchStatus"`
	LastFetchError  string `json:"lastFetchError,omitempty"`
	FetchCount      int64  `json:"fetchCount"`
}

// GetStatus returns a snapshot of the monitor state. The overall status
// degrades to "unhealthy" when the last fetch failed.
func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	overall := "healthy"
	if m.lastFetchStatus == "error" {
		overall = "unhealthy"
	}
	s := Status{
		Status:          overall,
		Uptime:          time.Since(m.startTime).Round(time.Second).String(),
		LastFetchStatus: m.lastFetchStatus,
		LastFetchError:  m.lastFetchError,
		FetchCount:      m.fetchCount,
	}
	if !m.lastFetchTime.IsZero() {
		s.LastFetchTime = m.lastFetchTime.Format(time.RFC3339)
	}
	return s
}

// StartServer serves /health and /metrics on the given port in the
// background. Errors are logged, not returned; a dead health endpoint must
// not take the watcher down with it.
func StartServer(port string, monitor *Monitor) {
	log := logger.Component("health")

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		status := monitor.GetStatus()
		code := http.StatusOK
		if status.Status != "healthy" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	go func() {
		addr := fmt.Sprintf(":%s", port)
		log.WithField("addr", addr).Info("health server listening")
		if err := router.Run(addr); err != nil {
			log.WithError(err).Error("health server stopped")
		}
	}()
}
