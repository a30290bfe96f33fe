package linebot

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthStatus /healthz 响应
type HealthStatus struct {
	Status        string    `json:"status"`
	Uptime        string    `json:"uptime"`
	Conversations int       `json:"conversations"`
	WorkerPool    PoolStats `json:"worker_pool"`
	Database      string    `json:"database"`
}

// handleHealth 返回运行时间、工作池和数据库状态
// 数据库不可用时返回 503
func (b *Bot) handleHealth(c *gin.Context) {
	status := b.buildHealthStatus(c.Request.Context())

	code := http.StatusOK
	if status.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}

func (b *Bot) buildHealthStatus(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:        "ok",
		Uptime:        formatDuration(time.Since(b.startTime)),
		Conversations: b.store.Len(),
		WorkerPool:    b.pool.Stats(),
		Database:      "disabled",
	}

	if b.database != nil {
		dbCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		if err := b.database.Ping(dbCtx); err != nil {
			status.Status = "degraded"
			status.Database = fmt.Sprintf("error: %v", err)
		} else {
			status.Database = "ok"
		}
	}

	return status
}

// formatDuration 将持续时间格式化为人类可读的字符串
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	d = d.Round(time.Second)

	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second

	parts := make([]string, 0, 4)
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if seconds > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%ds", seconds))
	}

	return strings.Join(parts, " ")
}
