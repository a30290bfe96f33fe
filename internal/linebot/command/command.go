// Package command 解析群组斜线指令并修改会话配置
package command

import (
	"fmt"
	"strings"

	"translate_bot/internal/linebot/models"
)

// 支持的指令（比较时忽略大小写，必须完全匹配）
const (
	AutoOn    = "/auto on"
	AutoOff   = "/auto off"
	SilentOn  = "/silent on"
	SilentOff = "/silent off"
	Status    = "/status"
	Help      = "/help"
)

// HelpText 群组指令说明
const HelpText = `📱 群組指令：
/auto on - 開啟自動翻譯
/auto off - 關閉自動翻譯
/silent on - 開啟靜音模式
/silent off - 關閉靜音模式
/status - 查看設定
/help - 顯示說明`

// IsCommand 文本是否为斜线指令
func IsCommand(text string) bool {
	return strings.HasPrefix(text, "/")
}

// Handle 执行指令并返回回复文本
// 未知指令返回 ("", false)，不视为错误
func Handle(text string, settings *models.ConversationSettings) (string, bool) {
	switch strings.ToLower(text) {
	case AutoOn:
		settings.SetAutoTranslate(true)
		return "✅ 已開啟自動翻譯", true
	case AutoOff:
		settings.SetAutoTranslate(false)
		return "❌ 已關閉自動翻譯", true
	case SilentOn:
		settings.SetSilentMode(true)
		return "🔇 已開啟靜音模式", true
	case SilentOff:
		settings.SetSilentMode(false)
		return "🔊 已關閉靜音模式", true
	case Status:
		return FormatStatus(settings.Snapshot()), true
	case Help:
		return HelpText, true
	default:
		return "", false
	}
}

// Name 返回规范化后的指令名，未知指令返回 "unknown"（用于指标标签）
func Name(text string) string {
	switch cmd := strings.ToLower(text); cmd {
	case AutoOn, AutoOff, SilentOn, SilentOff, Status, Help:
		return cmd
	default:
		return "unknown"
	}
}

// FormatStatus 渲染当前配置
func FormatStatus(snap models.SettingsSnapshot) string {
	return fmt.Sprintf("📊 目前設定：\n自動翻譯：%s\n靜音模式：%s",
		switchLabel(snap.AutoTranslate), switchLabel(snap.SilentMode))
}

func switchLabel(on bool) string {
	if on {
		return "開啟 ✅"
	}
	return "關閉 ❌"
}
