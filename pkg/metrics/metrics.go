// Package metrics 定义了服务暴露的 Prometheus 指标。
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ChatTurns 按意图统计成功的聊天轮次
	ChatTurns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "site_assistant_chat_turns_total",
		Help: "Completed chat turns by classified intent",
	}, []string{"intent"})

	// LLMLatency 统计模型调用耗时
	LLMLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "site_assistant_llm_duration_seconds",
		Help:    "Language model completion latency in seconds",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	}, []string{"stage"})

	// ForwardTasks 按类型和结果统计后台转发任务
	ForwardTasks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "site_assistant_forward_tasks_total",
		Help: "Background forwarding tasks by kind and result",
	}, []string{"kind", "result"})

	// PurgedMessages 累计清理的聊天记录行数
	PurgedMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "site_assistant_purged_messages_total",
		Help: "Chat message rows removed by retention cleanup",
	})
)

// 转发任务结果标签
const (
	ResultOK      = "ok"
	ResultRetry   = "retry"
	ResultFailed  = "failed"
	ResultDropped = "dropped"
)

// Handler 返回 /metrics 使用的 HTTP handler。
func Handler() http.Handler {
	return promhttp.Handler()
}
