package locale

import "strings"

const (
	LanguageChinese = "zh"
	LanguageEnglish = "en"
)

func NormalizeLanguage(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "zh") || trimmed == "cn" {
		return LanguageChinese
	}
	if strings.HasPrefix(trimmed, "en") {
		return LanguageEnglish
	}
	return ""
}

// LanguageFromAcceptLanguage 从 HTTP Accept-Language 头推断语言
func LanguageFromAcceptLanguage(header string) string {
	trimmed := strings.ToLower(strings.TrimSpace(header))
	if trimmed == "" {
		return ""
	}
	zh := strings.Index(trimmed, "zh")
	en := strings.Index(trimmed, "en")
	switch {
	case zh >= 0 && (en < 0 || zh < en):
		return LanguageChinese
	case en >= 0:
		return LanguageEnglish
	}
	return ""
}

// Resolve 依次取第一个可识别的语言，均无法识别时返回 fallback
func Resolve(fallback string, candidates ...string) string {
	for _, candidate := range candidates {
		if lang := NormalizeLanguage(candidate); lang != "" {
			return lang
		}
	}
	if lang := NormalizeLanguage(fallback); lang != "" {
		return lang
	}
	return LanguageEnglish
}
