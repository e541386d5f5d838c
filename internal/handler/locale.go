package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/habittracker/internal/locale"
)

const localeContextKey = "__request_locale"

// LocaleMiddleware resolves the response language once per request and sets headers for downstream caching.
func (a *API) LocaleMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Language", a.lang(c))
		appendVaryHeader(c, "Accept-Language")
		c.Next()
	}
}

// lang 优先使用 ?lang=，其次 Accept-Language，最后是默认语言
func (a *API) lang(c *gin.Context) string {
	if cached, ok := c.Get(localeContextKey); ok {
		if language, ok := cached.(string); ok {
			return language
		}
	}
	language := locale.Resolve(a.language, c.Query("lang"), locale.LanguageFromAcceptLanguage(c.GetHeader("Accept-Language")))
	c.Set(localeContextKey, language)
	return language
}

func (a *API) text(c *gin.Context, english, chinese string) string {
	return locale.Pick(a.lang(c), english, chinese)
}

func appendVaryHeader(c *gin.Context, headers ...string) {
	seen := make(map[string]struct{})
	order := make([]string, 0, len(headers))
	add := func(token string) {
		trimmed := strings.TrimSpace(token)
		if trimmed == "" {
			return
		}
		if _, ok := seen[strings.ToLower(trimmed)]; ok {
			return
		}
		seen[strings.ToLower(trimmed)] = struct{}{}
		order = append(order, trimmed)
	}

	for _, token := range strings.Split(c.Writer.Header().Get("Vary"), ",") {
		add(token)
	}
	for _, header := range headers {
		add(header)
	}
	if len(order) > 0 {
		c.Header("Vary", strings.Join(order, ", "))
	}
}
