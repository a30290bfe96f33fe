// Package detector 基于正则的中文/越南文识别
package detector

import (
	"regexp"
	"strings"

	"github.com/abadojack/whatlanggo"
)

// Language 识别结果
type Language int

const (
	Other Language = iota
	Vietnamese
	Chinese
)

func (l Language) String() string {
	switch l {
	case Vietnamese:
		return "vietnamese"
	case Chinese:
		return "chinese"
	default:
		return "other"
	}
}

// AutoSource 无法确定源语言时交给翻译服务自行判断
const AutoSource = "auto"

var (
	vietnamesePattern = regexp.MustCompile(`[àáạảãâầấậẩẫăằắặẳẵèéẹẻẽêềếệểễìíịỉĩòóọỏõôồốộổỗơờớợởỡùúụủũưừứựửữỳýỵỷỹđĐ]`)
	chinesePattern    = regexp.MustCompile(`[\x{4e00}-\x{9fa5}]`)
)

// IsVietnamese 文本中是否含有越南文声调字母
func IsVietnamese(text string) bool {
	return vietnamesePattern.MatchString(text)
}

// IsChinese 文本中是否含有 CJK 统一汉字（U+4E00–U+9FA5）
func IsChinese(text string) bool {
	return chinesePattern.MatchString(text)
}

// Classify 判断文本语言，越南文优先于中文
func Classify(text string) Language {
	if IsVietnamese(text) {
		return Vietnamese
	}
	if IsChinese(text) {
		return Chinese
	}
	return Other
}

// Hint 使用 whatlanggo 猜测源语言，返回 ISO 639-1 代码
// 结果不可靠或没有两位代码时返回 AutoSource
func Hint(text string) string {
	if strings.TrimSpace(text) == "" {
		return AutoSource
	}

	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return AutoSource
	}

	code := info.Lang.Iso6391()
	if code == "" {
		return AutoSource
	}
	return code
}
