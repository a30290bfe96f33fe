package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricsNamespace          = "translate_bot"
	metricsSubSystemWebhook   = "webhook"
	metricsSubSystemTranslate = "translation"
	metricsSubSystemCommand   = "command"
)

// Metrics 机器人运行指标
// nil *Metrics 的所有方法均为空操作
type Metrics struct {
	registry *prometheus.Registry

	webhookBatches      *prometheus.CounterVec
	events              *prometheus.CounterVec
	translations        *prometheus.CounterVec
	translationDuration prometheus.Histogram
	commands            *prometheus.CounterVec
	conversations       prometheus.GaugeFunc
}

// New 创建独立的指标注册表；conversations 用于报告已创建配置的会话数量，可为 nil
func New(conversations func() int) *Metrics {
	var m Metrics
	m.registry = prometheus.NewRegistry()

	m.webhookBatches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubSystemWebhook,
		Name:      "batches_total",
		Help:      "The total number of webhook batches by result.",
	}, []string{"result"})
	m.registry.MustRegister(m.webhookBatches)

	m.events = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubSystemWebhook,
		Name:      "events_total",
		Help:      "The total number of handled webhook events by type and status.",
	}, []string{"type", "status"})
	m.registry.MustRegister(m.events)

	m.translations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubSystemTranslate,
		Name:      "requests_total",
		Help:      "The total number of translation requests by language pair and result.",
	}, []string{"langpair", "result"})
	m.registry.MustRegister(m.translations)

	m.translationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubSystemTranslate,
		Name:      "request_duration_seconds",
		Help:      "The time taken by the translation provider.",
		Buckets:   prometheus.DefBuckets,
	})
	m.registry.MustRegister(m.translationDuration)

	m.commands = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubSystemCommand,
		Name:      "executions_total",
		Help:      "The total number of group commands by name.",
	}, []string{"command"})
	m.registry.MustRegister(m.commands)

	if conversations != nil {
		m.conversations = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "conversations",
			Help:      "The number of conversations with materialized settings.",
		}, func() float64 { return float64(conversations()) })
		m.registry.MustRegister(m.conversations)
	}

	return &m
}

// Handler 返回 Prometheus 抓取接口
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry 返回底层注册表（测试用）
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordBatch 记录一次 webhook 批次结果：ok/error/invalid_signature
func (m *Metrics) RecordBatch(result string) {
	if m == nil {
		return
	}
	m.webhookBatches.WithLabelValues(result).Inc()
}

// RecordEvent 记录单个事件处理结果
func (m *Metrics) RecordEvent(eventType, status string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(eventType, status).Inc()
}

// RecordTranslation 记录一次翻译请求
func (m *Metrics) RecordTranslation(from, to string, success bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := "success"
	if !success {
		result = "failure"
	}
	m.translations.WithLabelValues(from+"|"+to, result).Inc()
	m.translationDuration.Observe(elapsed.Seconds())
}

// RecordCommand 记录一次群组指令
func (m *Metrics) RecordCommand(name string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(name).Inc()
}
