// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層から利用する。
type MetricsCollector interface {
	RecordMagicLinkIssued()
	RecordMagicLinkConsumed()
	RecordMagicLinkRejected(reason string)
	RecordEmailSent(kind string)
	RecordEmailFailed(kind string)
	RecordHomeCreated()
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	magicLinkIssued   prometheus.Counter
	magicLinkConsumed prometheus.Counter
	magicLinkRejected *prometheus.CounterVec
	emailSent         *prometheus.CounterVec
	emailFailed       *prometheus.CounterVec
	homesCreated      prometheus.Counter
	httpStatus        *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		magicLinkIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "supavacation_magic_link_issued_total",
			Help: "発行されたマジックリンクの合計数",
		}),
		magicLinkConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "supavacation_magic_link_consumed_total",
			Help: "消費されたマジックリンクの合計数",
		}),
		magicLinkRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "supavacation_magic_link_rejected_total",
			Help: "拒否されたマジックリンクの理由別合計数",
		}, []string{"reason"}),
		emailSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "supavacation_email_sent_total",
			Help: "送信されたメールの種類別合計数",
		}, []string{"kind"}),
		emailFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "supavacation_email_failed_total",
			Help: "送信に失敗したメールの種類別合計数",
		}, []string{"kind"}),
		homesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "supavacation_homes_created_total",
			Help: "作成された物件の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "supavacation_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.magicLinkIssued,
		c.magicLinkConsumed,
		c.magicLinkRejected,
		c.emailSent,
		c.emailFailed,
		c.homesCreated,
		c.httpStatus,
	)

	return c
}

// RecordMagicLinkIssued はマジックリンクの発行を記録する。
func (c *Collector) RecordMagicLinkIssued() {
	c.magicLinkIssued.Inc()
}

// RecordMagicLinkConsumed はマジックリンクの消費を記録する。
func (c *Collector) RecordMagicLinkConsumed() {
	c.magicLinkConsumed.Inc()
}

// RecordMagicLinkRejected はマジックリンクの拒否を理由別に記録する。
func (c *Collector) RecordMagicLinkRejected(reason string) {
	c.magicLinkRejected.WithLabelValues(reason).Inc()
}

// RecordEmailSent はメール送信成功を種類別に記録する。
func (c *Collector) RecordEmailSent(kind string) {
	c.emailSent.WithLabelValues(kind).Inc()
}

// RecordEmailFailed はメール送信失敗を種類別に記録する。
func (c *Collector) RecordEmailFailed(kind string) {
	c.emailFailed.WithLabelValues(kind).Inc()
}

// RecordHomeCreated は物件の作成を記録する。
func (c *Collector) RecordHomeCreated() {
	c.homesCreated.Inc()
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
