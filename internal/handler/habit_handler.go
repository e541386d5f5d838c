package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/habittracker/internal/analysis"
	"github.com/habittracker/internal/db"
	"github.com/habittracker/internal/service"
	"go.uber.org/zap"
)

type habitPayload struct {
	Name         string           `json:"name"`
	Periodicity  periodicityValue `json:"periodicity"`
	CreationDate string           `json:"creation_date"`
}

// periodicityValue 同时接受 7 与 "weekly" 两种写法
type periodicityValue string

func (p *periodicityValue) UnmarshalJSON(data []byte) error {
	var days int
	if err := json.Unmarshal(data, &days); err == nil {
		*p = periodicityValue(strconv.Itoa(days))
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = periodicityValue(raw)
	return nil
}

type checkOffPayload struct {
	Date string `json:"date"` // 2006-01-02，可选
}

// ListHabits 返回习惯列表 JSON
func (a *API) ListHabits(c *gin.Context) {
	periodicity, err := parsePeriodicityQuery(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, a.text(c, "invalid periodicity", "无效的周期"))
		return
	}

	habits, err := a.habits.List(c.Request.Context(), service.HabitFilter{Periodicity: periodicity})
	if err != nil {
		a.handleHabitError(c, err)
		return
	}

	items := make([]gin.H, 0, len(habits))
	for _, habit := range habits {
		items = append(items, habitToPayload(habit))
	}

	respondHabitSuccess(c, http.StatusOK, gin.H{"habits": items})
}

// GetHabit 返回单个习惯详情
func (a *API) GetHabit(c *gin.Context) {
	habit, err := a.habits.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		a.handleHabitError(c, err)
		return
	}

	respondHabitSuccess(c, http.StatusOK, gin.H{"habit": habitToPayload(*habit)})
}

// CreateHabit 创建习惯
func (a *API) CreateHabit(c *gin.Context) {
	input, ok := a.parseHabitInput(c)
	if !ok {
		return
	}

	habit, err := a.habits.Create(c.Request.Context(), input)
	if err != nil {
		a.handleHabitError(c, err)
		return
	}

	respondHabitSuccess(c, http.StatusCreated, gin.H{"habit": habitToPayload(*habit)})
}

// DeleteHabit 删除习惯及其打卡记录
func (a *API) DeleteHabit(c *gin.Context) {
	name := c.Param("name")
	if err := a.habits.Delete(c.Request.Context(), name); err != nil {
		a.handleHabitError(c, err)
		return
	}

	respondHabitSuccess(c, http.StatusOK, gin.H{"deleted": true, "name": name})
}

// RecordCheckOff 打卡，未指定日期时记为今天
func (a *API) RecordCheckOff(c *gin.Context) {
	var payload checkOffPayload
	if strings.Contains(c.GetHeader("Content-Type"), "application/json") {
		if !bindJSON(c, &payload, a.text(c, "invalid request body", "请求参数不合法")) {
			return
		}
	} else {
		payload.Date = c.PostForm("date")
	}

	var date time.Time
	if strings.TrimSpace(payload.Date) != "" {
		parsed, err := service.ParseDate(payload.Date)
		if err != nil {
			respondError(c, http.StatusBadRequest, a.text(c, "invalid check-off date, expected YYYY-MM-DD", "无效的打卡日期，格式应为 YYYY-MM-DD"))
			return
		}
		date = parsed
	}

	record, err := a.checkOffs.Record(c.Request.Context(), c.Param("name"), date)
	if err != nil {
		a.handleHabitError(c, err)
		return
	}

	respondHabitSuccess(c, http.StatusCreated, gin.H{"check_off": serializeCheckOff(*record)})
}

// ListCheckOffs 返回习惯的全部打卡记录
func (a *API) ListCheckOffs(c *gin.Context) {
	habit, err := a.habits.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		a.handleHabitError(c, err)
		return
	}

	records, err := a.checkOffs.List(c.Request.Context(), habit.Name)
	if err != nil {
		a.handleHabitError(c, err)
		return
	}

	items := make([]gin.H, 0, len(records))
	for _, record := range records {
		items = append(items, serializeCheckOff(record))
	}

	respondHabitSuccess(c, http.StatusOK, gin.H{"habit": habit.Name, "check_offs": items})
}

// GetHabitPeriods 返回周期完成序列
func (a *API) GetHabitPeriods(c *gin.Context) {
	interval, ok := a.intervalQuery(c)
	if !ok {
		return
	}

	name := c.Param("name")
	periodicity, err := a.habits.Periodicity(c.Request.Context(), name)
	if err != nil {
		a.handleHabitError(c, err)
		return
	}

	records, err := a.analyzer.Series(c.Request.Context(), name, interval)
	if err != nil {
		a.handleHabitError(c, err)
		return
	}

	items := make([]gin.H, 0, len(records))
	for _, record := range records {
		items = append(items, gin.H{
			"start":     record.Start.Format(dateFormat),
			"end":       record.End(periodicity).Format(dateFormat),
			"satisfied": record.Satisfied,
		})
	}

	respondHabitSuccess(c, http.StatusOK, gin.H{
		"habit":       name,
		"periodicity": periodicity,
		"interval":    interval,
		"started":     len(records) > 0,
		"periods":     items,
	})
}

// GetHabitSummary 返回单个习惯的统计汇总
func (a *API) GetHabitSummary(c *gin.Context) {
	interval, ok := a.intervalQuery(c)
	if !ok {
		return
	}

	summary, err := a.analyzer.Summary(c.Request.Context(), c.Param("name"), interval)
	if err != nil {
		a.handleHabitError(c, err)
		return
	}

	respondHabitSuccess(c, http.StatusOK, gin.H{"summary": serializeSummary(summary)})
}

// GetLongestStreak 返回最长连续完成数，habit 为空时跨习惯统计
func (a *API) GetLongestStreak(c *gin.Context) {
	a.respondStatistic(c, analysis.StatLongestStreak)
}

// GetResets 返回中断次数，habit 为空时跨习惯统计
func (a *API) GetResets(c *gin.Context) {
	a.respondStatistic(c, analysis.StatResets)
}

func (a *API) respondStatistic(c *gin.Context, stat analysis.Statistic) {
	interval, ok := a.intervalQuery(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if name := strings.TrimSpace(c.Query("habit")); name != "" {
		var (
			result analysis.Stat
			err    error
		)
		if stat == analysis.StatResets {
			result, err = a.analyzer.HabitResets(ctx, name, interval)
		} else {
			result, err = a.analyzer.HabitLongestStreak(ctx, name, interval)
		}
		if err != nil {
			a.handleHabitError(c, err)
			return
		}
		respondHabitSuccess(c, http.StatusOK, gin.H{"statistic": stat, "habit": result.Habit, "value": result.Value})
		return
	}

	periodicity, err := parsePeriodicityQuery(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, a.text(c, "invalid periodicity", "无效的周期"))
		return
	}

	var leaders analysis.Leaders
	if stat == analysis.StatResets {
		leaders, err = a.analyzer.MaxResets(ctx, interval, periodicity)
	} else {
		leaders, err = a.analyzer.MaxLongestStreak(ctx, interval, periodicity)
	}
	if err != nil {
		a.handleHabitError(c, err)
		return
	}

	respondHabitSuccess(c, http.StatusOK, gin.H{"statistic": stat, "habits": leaders.Habits, "value": leaders.Value})
}

func (a *API) intervalQuery(c *gin.Context) (int, bool) {
	interval, err := parseNonNegativeQuery(c, "interval")
	if err != nil {
		respondError(c, http.StatusBadRequest, a.text(c, "interval must be a non-negative number of days", "统计天数必须为非负整数"))
		return 0, false
	}
	return interval, true
}

func (a *API) parseHabitInput(c *gin.Context) (service.HabitInput, bool) {
	var payload habitPayload

	if strings.Contains(c.GetHeader("Content-Type"), "application/json") {
		if !bindJSON(c, &payload, a.text(c, "invalid request body", "请求参数不合法")) {
			return service.HabitInput{}, false
		}
	} else {
		payload.Name = c.PostForm("name")
		payload.Periodicity = periodicityValue(c.PostForm("periodicity"))
		payload.CreationDate = c.PostForm("creation_date")
	}

	periodicity, err := service.ParsePeriodicity(string(payload.Periodicity))
	if err != nil {
		respondError(c, http.StatusBadRequest, a.text(c, "periodicity must be daily, weekly or a positive number of days", "周期应为 daily、weekly 或正整数天数"))
		return service.HabitInput{}, false
	}

	created, ok := parseOptionalDate(payload.CreationDate)
	if !ok {
		respondError(c, http.StatusBadRequest, a.text(c, "invalid creation date, expected YYYY-MM-DD", "无效的创建日期，格式应为 YYYY-MM-DD"))
		return service.HabitInput{}, false
	}

	return service.HabitInput{
		Name:         payload.Name,
		Periodicity:  periodicity,
		CreationDate: created,
	}, true
}

func parseOptionalDate(value string) (*time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, true
	}

	t, err := service.ParseDate(value)
	if err != nil {
		return nil, false
	}

	return &t, true
}

func habitToPayload(habit db.Habit) gin.H {
	return gin.H{
		"name":          habit.Name,
		"periodicity":   habit.Periodicity,
		"creation_date": habit.CreationDate.Format(dateFormat),
	}
}

func serializeCheckOff(record db.CheckOff) gin.H {
	return gin.H{
		"id":         record.ID,
		"habit_name": record.HabitName,
		"date":       record.CheckOffDate.Format(dateFormat),
	}
}

func serializeSummary(summary analysis.Summary) gin.H {
	payload := gin.H{
		"habit":           summary.Habit,
		"periodicity":     summary.Periodicity,
		"periods":         summary.Periods,
		"satisfied":       summary.Satisfied,
		"resets":          summary.Resets,
		"longest_streak":  summary.LongestStreak,
		"current_streak":  summary.CurrentStreak,
		"completion_rate": summary.CompletionRate,
		"started":         summary.Started,
	}
	if summary.Started {
		payload["origin"] = summary.Origin.Format(dateFormat)
	}
	return payload
}

func respondHabitSuccess(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

func (a *API) handleHabitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrHabitNotFound):
		respondError(c, http.StatusNotFound, a.text(c, "habit not found", "习惯不存在"))
	case errors.Is(err, service.ErrHabitExists):
		respondError(c, http.StatusConflict, a.text(c, "a habit with this name already exists", "同名习惯已存在"))
	case errors.Is(err, service.ErrInvalidConfiguration):
		respondError(c, http.StatusBadRequest, a.text(c, "invalid habit configuration", "习惯配置不合法"))
	case errors.Is(err, analysis.ErrNoHabits):
		respondError(c, http.StatusNotFound, a.text(c, "no habits to analyse", "没有可统计的习惯"))
	default:
		a.logger.Error("Request failed", zap.Error(err), zap.String("path", c.FullPath()))
		respondError(c, http.StatusInternalServerError, a.text(c, "internal error", "服务器内部错误"))
	}
}
