package linebot

import "fmt"

// 固定回复文本
const (
	// IndexText GET / 返回的运行状态
	IndexText = "🇹🇼🇻🇳 中越翻譯機器人運行中！"

	// TranslateFailedText 翻译失败时发送
	TranslateFailedText = "❌ 翻譯失敗，請稍後再試"
)

// 带翻译前缀的说明文本，%s 为前缀
const (
	welcomeTemplate = `🎉 大家好！我是中越翻譯機器人！

🇹🇼🇻🇳 我可以幫助大家即時翻譯

📱 使用方式：
- 輸入「%s 」來翻譯文字
- 或用 /auto on 開啟自動翻譯

輸入 /help 查看更多指令`

	privateHelpTemplate = `🇹🇼🇻🇳 中越翻譯機器人

📝 使用方式：
- 輸入中文 → 翻譯成越南文
- 輸入越南文 → 翻譯成中文

📱 群組功能：
- 將我加入群組即可使用
- 預設使用 %s 觸發
- 可開啟自動翻譯模式`
)

// WelcomeText Bot 被加入群组时发送的欢迎文本
func WelcomeText(prefix string) string {
	return fmt.Sprintf(welcomeTemplate, prefix)
}

// PrivateHelpText 个人对话中输入 /help 或「說明」时发送的说明
func PrivateHelpText(prefix string) string {
	return fmt.Sprintf(privateHelpTemplate, prefix)
}

// 个人对话中触发说明的关键字
var privateHelpKeywords = []string{"/help", "說明"}
