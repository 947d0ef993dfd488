package middlewares

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const maxRecordedDurations = 1000

// HTTPSnapshot is a point-in-time copy of the HTTP request metrics.
type HTTPSnapshot struct {
	RequestsTotal      map[string]int64
	AvgDurationSeconds float64
	ActiveRequests     int64
}

type MetricsMiddleware struct {
	mutex            sync.Mutex
	requestsTotal    map[string]int64
	requestDurations []float64
	activeRequests   int64
}

func NewMetricsMiddleware() *MetricsMiddleware {
	return &MetricsMiddleware{
		requestsTotal:    make(map[string]int64),
		requestDurations: make([]float64, 0, maxRecordedDurations),
	}
}

func (m *MetricsMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		m.mutex.Lock()
		m.activeRequests++
		m.mutex.Unlock()

		c.Next()

		duration := time.Since(start).Seconds()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		key := c.Request.Method + " " + route + "_" + strconv.Itoa(c.Writer.Status())

		m.mutex.Lock()
		m.requestsTotal[key]++
		m.requestDurations = append(m.requestDurations, duration)
		if len(m.requestDurations) > maxRecordedDurations {
			m.requestDurations = m.requestDurations[len(m.requestDurations)-maxRecordedDurations:]
		}
		m.activeRequests--
		m.mutex.Unlock()
	}
}

// HTTPSnapshot averages over the most recent requests only.
func (m *MetricsMiddleware) HTTPSnapshot() HTTPSnapshot {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	snap := HTTPSnapshot{
		RequestsTotal:  make(map[string]int64, len(m.requestsTotal)),
		ActiveRequests: m.activeRequests,
	}
	for k, v := range m.requestsTotal {
		snap.RequestsTotal[k] = v
	}
	if len(m.requestDurations) > 0 {
		var sum float64
		for _, d := range m.requestDurations {
			sum += d
		}
		snap.AvgDurationSeconds = sum / float64(len(m.requestDurations))
	}
	return snap
}
