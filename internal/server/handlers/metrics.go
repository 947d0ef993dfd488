package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-mcp/internal/server/middlewares"
)

// HTTPMetricsProvider supplies the request counters kept by the HTTP
// middleware.
type HTTPMetricsProvider interface {
	HTTPSnapshot() middlewares.HTTPSnapshot
}

// MetricsHandler collects tool and provider call counters and serves them,
// together with the HTTP counters, in the Prometheus text format.
type MetricsHandler struct {
	logger *zap.Logger

	mutex                sync.RWMutex
	http                 HTTPMetricsProvider
	toolCalls            map[string]int64
	toolErrors           map[string]int64
	weatherServiceCalls  map[string]int64
	weatherServiceErrors map[string]int64
}

func NewMetricsHandler(logger *zap.Logger) *MetricsHandler {
	return &MetricsHandler{
		logger:               logger,
		toolCalls:            make(map[string]int64),
		toolErrors:           make(map[string]int64),
		weatherServiceCalls:  make(map[string]int64),
		weatherServiceErrors: make(map[string]int64),
	}
}

func (h *MetricsHandler) SetHTTPMetrics(p HTTPMetricsProvider) {
	h.mutex.Lock()
	h.http = p
	h.mutex.Unlock()
}

// RecordWeatherServiceCall records one outbound provider call.
func (h *MetricsHandler) RecordWeatherServiceCall(_ context.Context, service string, success bool) {
	h.mutex.Lock()
	h.weatherServiceCalls[service]++
	if !success {
		h.weatherServiceErrors[service]++
	}
	h.mutex.Unlock()
}

// RecordToolCall records one MCP tool invocation.
func (h *MetricsHandler) RecordToolCall(_ context.Context, tool string, success bool) {
	h.mutex.Lock()
	h.toolCalls[tool]++
	if !success {
		h.toolErrors[tool]++
	}
	h.mutex.Unlock()
}

func (h *MetricsHandler) ServeMetrics(c *gin.Context) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	var b strings.Builder

	if h.http != nil {
		snap := h.http.HTTPSnapshot()

		writeHeader(&b, "http_requests_total", "Total number of HTTP requests", "counter")
		writeLabeled(&b, "http_requests_total", "route_status", snap.RequestsTotal)

		writeHeader(&b, "http_request_duration_seconds_avg", "Average duration of recent HTTP requests", "gauge")
		b.WriteString("http_request_duration_seconds_avg " + strconv.FormatFloat(snap.AvgDurationSeconds, 'f', 6, 64) + "\n")

		writeHeader(&b, "http_active_requests", "Number of active HTTP requests", "gauge")
		b.WriteString("http_active_requests " + strconv.FormatInt(snap.ActiveRequests, 10) + "\n")
	}

	writeHeader(&b, "mcp_tool_calls_total", "Total MCP tool calls", "counter")
	writeLabeled(&b, "mcp_tool_calls_total", "tool", h.toolCalls)

	writeHeader(&b, "mcp_tool_errors_total", "Total failed MCP tool calls", "counter")
	writeLabeled(&b, "mcp_tool_errors_total", "tool", h.toolErrors)

	writeHeader(&b, "weather_service_calls_total", "Total weather provider calls", "counter")
	writeLabeled(&b, "weather_service_calls_total", "service", h.weatherServiceCalls)

	writeHeader(&b, "weather_service_errors_total", "Total failed weather provider calls", "counter")
	writeLabeled(&b, "weather_service_errors_total", "service", h.weatherServiceErrors)

	c.Data(http.StatusOK, "text/plain; version=0.0.4; charset=utf-8", []byte(b.String()))
}

func writeHeader(b *strings.Builder, name, help, kind string) {
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	fmt.Fprintf(b, "# HELP %s %s\n# TYPE %s %s\n", name, help, name, kind)
}

// writeLabeled emits one sample per key in sorted order so the output is
// stable between scrapes.
func writeLabeled(b *strings.Builder, name, label string, values map[string]int64) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(b, "%s{%s=%q} %d\n", name, label, k, values[k])
	}
}
