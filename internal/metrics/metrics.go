package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 习惯增删计数
	HabitMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habits_mutations_total",
			Help: "Total number of habit definitions created or deleted",
		},
		[]string{"action"}, // action: create, delete
	)

	// 打卡计数
	CheckOffsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habits_checkoffs_total",
			Help: "Total number of recorded check-off events",
		},
		[]string{"periodicity"},
	)

	// 统计分析耗时（秒）
	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "habits_analysis_duration_seconds",
			Help:    "Duration of streak and reset analysis in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
		},
		[]string{"statistic", "mode"},
	)

	// HTTP 请求延迟（秒）
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "habits_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)
)

// RecordHabitMutation 记录习惯创建/删除
func RecordHabitMutation(action string) {
	HabitMutations.WithLabelValues(action).Inc()
}

// RecordCheckOff 记录一次打卡
func RecordCheckOff(periodicity string) {
	CheckOffsRecorded.WithLabelValues(periodicity).Inc()
}

// RecordAnalysisDuration 记录统计耗时
func RecordAnalysisDuration(statistic, mode string, duration time.Duration) {
	AnalysisDuration.WithLabelValues(statistic, mode).Observe(duration.Seconds())
}

// RecordHTTPRequest 记录 HTTP 请求耗时
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
