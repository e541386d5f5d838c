package locale

// Pick returns the text matching the language, defaulting to English.
func Pick(language, english, chinese string) string {
	if NormalizeLanguage(language) == LanguageChinese {
		if chinese != "" {
			return chinese
		}
		return english
	}
	if english != "" {
		return english
	}
	return chinese
}
