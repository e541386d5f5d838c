// Package report 将习惯统计汇总为 Markdown，并可渲染为经过清洗的 HTML。
package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/habittracker/internal/analysis"
	"github.com/habittracker/internal/locale"
	"github.com/habittracker/internal/service"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Table),
		goldmark.WithRendererOptions(html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// Report 是一次统计的快照
type Report struct {
	Language      string
	GeneratedOn   time.Time
	Interval      int
	Periodicity   int
	Summaries     []analysis.Summary
	LongestStreak *analysis.Leaders
	MostResets    *analysis.Leaders
}

// Build 汇总全部（或指定周期的）习惯。没有习惯时返回空报告而不是错误。
func Build(ctx context.Context, analyzer *analysis.Analyzer, interval, periodicity int, language string) (Report, error) {
	rep := Report{
		Language:    locale.Resolve(language),
		GeneratedOn: analyzer.Today(),
		Interval:    interval,
		Periodicity: periodicity,
	}

	summaries, err := analyzer.Overview(ctx, interval, periodicity)
	if err != nil {
		return Report{}, err
	}
	rep.Summaries = summaries
	if len(summaries) == 0 {
		return rep, nil
	}

	longest, err := analyzer.MaxLongestStreak(ctx, interval, periodicity)
	if err != nil && !errors.Is(err, analysis.ErrNoHabits) {
		return Report{}, err
	}
	if err == nil {
		rep.LongestStreak = &longest
	}

	resets, err := analyzer.MaxResets(ctx, interval, periodicity)
	if err != nil && !errors.Is(err, analysis.ErrNoHabits) {
		return Report{}, err
	}
	if err == nil {
		rep.MostResets = &resets
	}

	return rep, nil
}

// Markdown 输出 GFM 表格形式的报告
func (r Report) Markdown() string {
	lang := r.Language
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", locale.Pick(lang, "Habit report", "习惯报告"))
	fmt.Fprintf(&b, "%s: %s  \n", locale.Pick(lang, "Generated on", "生成日期"), service.FormatDate(r.GeneratedOn))
	fmt.Fprintf(&b, "%s: %s\n\n", locale.Pick(lang, "Range", "统计范围"), r.rangeLabel())

	if len(r.Summaries) == 0 {
		b.WriteString(locale.Pick(lang, "No habits defined yet.", "还没有任何习惯。"))
		b.WriteString("\n")
		return b.String()
	}

	headers := []string{
		locale.Pick(lang, "Habit", "习惯"),
		locale.Pick(lang, "Periodicity", "周期"),
		locale.Pick(lang, "Periods", "周期数"),
		locale.Pick(lang, "Completed", "完成"),
		locale.Pick(lang, "Resets", "中断"),
		locale.Pick(lang, "Longest streak", "最长连续"),
		locale.Pick(lang, "Current streak", "当前连续"),
		locale.Pick(lang, "Completion", "完成率"),
	}
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	b.WriteString(strings.Repeat("|---", len(headers)) + "|\n")

	for _, s := range r.Summaries {
		fmt.Fprintf(&b, "| %s | %s | %d | %d | %d | %d | %d | %.0f%% |\n",
			escapeCell(s.Habit),
			PeriodicityName(lang, s.Periodicity),
			s.Periods, s.Satisfied, s.Resets, s.LongestStreak, s.CurrentStreak,
			s.CompletionRate*100,
		)
	}
	b.WriteString("\n")

	if r.LongestStreak != nil {
		fmt.Fprintf(&b, "- **%s**: %s (%d)\n", locale.Pick(lang, "Longest streak", "最长连续"),
			joinNames(r.LongestStreak.Habits), r.LongestStreak.Value)
	}
	if r.MostResets != nil {
		fmt.Fprintf(&b, "- **%s**: %s (%d)\n", locale.Pick(lang, "Most resets", "中断最多"),
			joinNames(r.MostResets.Habits), r.MostResets.Value)
	}
	return b.String()
}

// HTML 渲染 Markdown 并用 UGC 策略清洗
func (r Report) HTML() (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(r.Markdown()), &buf); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return string(sanitizer.SanitizeBytes(buf.Bytes())), nil
}

// PeriodicityName 返回周期的本地化名称
func PeriodicityName(lang string, periodicity int) string {
	switch periodicity {
	case 1:
		return locale.Pick(lang, "daily", "每日")
	case 7:
		return locale.Pick(lang, "weekly", "每周")
	default:
		return fmt.Sprintf(locale.Pick(lang, "every %d days", "每 %d 天"), periodicity)
	}
}

func (r Report) rangeLabel() string {
	label := locale.Pick(r.Language, "full history", "全部历史")
	if r.Interval > 0 {
		label = fmt.Sprintf(locale.Pick(r.Language, "last %d days", "最近 %d 天"), r.Interval)
	}
	if r.Periodicity > 0 {
		label += ", " + PeriodicityName(r.Language, r.Periodicity)
	}
	return label
}

func joinNames(names []string) string {
	escaped := make([]string, 0, len(names))
	for _, name := range names {
		escaped = append(escaped, escapeCell(name))
	}
	return strings.Join(escaped, ", ")
}

func escapeCell(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(value, "|", `\|`)
}
