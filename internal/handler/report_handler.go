package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/habittracker/internal/report"
)

const reportPage = `<!DOCTYPE html>
<html lang="%s"><head><meta charset="utf-8"><title>Habits</title></head>
<body>
%s
</body></html>
`

// ShowReport 渲染统计报告，format=markdown 时返回原始 Markdown
func (a *API) ShowReport(c *gin.Context) {
	interval, ok := a.intervalQuery(c)
	if !ok {
		return
	}
	periodicity, err := parsePeriodicityQuery(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, a.text(c, "invalid periodicity", "无效的周期"))
		return
	}

	lang := a.lang(c)
	rep, err := report.Build(c.Request.Context(), a.analyzer, interval, periodicity, lang)
	if err != nil {
		a.handleHabitError(c, err)
		return
	}

	if c.Query("format") == "markdown" {
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(rep.Markdown()))
		return
	}

	body, err := rep.HTML()
	if err != nil {
		a.handleHabitError(c, err)
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, reportPage, lang, body)
}
