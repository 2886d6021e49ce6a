// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラー層から利用する。
type MetricsCollector interface {
	RecordRegistration()
	RecordLoginSuccess()
	RecordLoginFailure()
	RecordResultSubmitted(score float64)
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	registrations    prometheus.Counter
	loginSuccess     prometheus.Counter
	loginFail        prometheus.Counter
	resultsSubmitted prometheus.Counter
	wilksScore       prometheus.Histogram
	httpStatus       *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wilks_registrations_total",
			Help: "選手登録の合計数",
		}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wilks_login_success_total",
			Help: "ログイン成功の合計数",
		}),
		loginFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wilks_login_fail_total",
			Help: "ログイン失敗の合計数",
		}),
		resultsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wilks_results_submitted_total",
			Help: "提出された結果の合計数",
		}),
		wilksScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wilks_score",
			Help:    "提出時に算出されたWilksスコアの分布",
			Buckets: prometheus.LinearBuckets(100, 50, 12),
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wilks_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.registrations,
		c.loginSuccess,
		c.loginFail,
		c.resultsSubmitted,
		c.wilksScore,
		c.httpStatus,
	)

	return c
}

// RecordRegistration は選手登録を記録する。
func (c *Collector) RecordRegistration() {
	c.registrations.Inc()
}

// RecordLoginSuccess はログイン成功を記録する。
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure はログイン失敗を記録する。
func (c *Collector) RecordLoginFailure() {
	c.loginFail.Inc()
}

// RecordResultSubmitted は結果の提出と算出されたスコアを記録する。
func (c *Collector) RecordResultSubmitted(score float64) {
	c.resultsSubmitted.Inc()
	c.wilksScore.Observe(score)
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
