// Package shell 实现交互式菜单：添加、打卡、删除与统计习惯。
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/habittracker/internal/analysis"
	"github.com/habittracker/internal/locale"
	"github.com/habittracker/internal/service"
	"go.uber.org/zap"
)

// 习惯名称会被去除首尾空白且不能为空，以下键不会与任何习惯重名
const (
	keyBack      = ""
	keyAllHabits = " all"
)

const (
	actionAdd      = "add"
	actionCheckOff = "checkoff"
	actionDelete   = "delete"
	actionAnalyse  = "analyse"
	actionExit     = "exit"

	questionLongest   = "longest"
	questionDaily     = "daily"
	questionWeekly    = "weekly"
	questionStruggled = "struggled"

	// 最近一个月的统计窗口
	struggleInterval = 30
)

// Shell 持有一次交互会话需要的服务
type Shell struct {
	habits    *service.HabitService
	checkOffs *service.CheckOffService
	analyzer  *analysis.Analyzer
	prompt    Prompter
	out       io.Writer
	lang      string
	logger    *zap.Logger
}

func New(habits *service.HabitService, checkOffs *service.CheckOffService, analyzer *analysis.Analyzer, prompt Prompter, out io.Writer, language string, logger *zap.Logger) *Shell {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Shell{
		habits:    habits,
		checkOffs: checkOffs,
		analyzer:  analyzer,
		prompt:    prompt,
		out:       out,
		lang:      locale.Resolve(language),
		logger:    logger.Named("shell"),
	}
}

// Run 循环展示主菜单，直到用户选择退出或输入结束
func (s *Shell) Run(ctx context.Context) error {
	s.println(titleStyle.Render(s.t("Welcome to your HabitTracker App!", "欢迎使用习惯追踪！")))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		action, err := s.prompt.Select(s.t("What do you want to do?", "你想做什么？"), []Option{
			{Key: actionAdd, Label: s.t("Add a new habit", "添加新习惯")},
			{Key: actionCheckOff, Label: s.t("Check off a habit", "习惯打卡")},
			{Key: actionDelete, Label: s.t("Delete a habit", "删除习惯")},
			{Key: actionAnalyse, Label: s.t("Analyse my habits", "分析我的习惯")},
			{Key: actionExit, Label: s.t("Exit", "退出")},
		})
		if errors.Is(err, ErrAborted) || action == actionExit {
			s.println(s.t("Goodbye! See you next time", "再见！下次见"))
			return nil
		}
		if err != nil {
			return err
		}

		back, err := s.dispatch(ctx, action)
		if errors.Is(err, ErrAborted) {
			s.println(s.t("Goodbye! See you next time", "再见！下次见"))
			return nil
		}
		if err != nil {
			if !s.reportUserError(err) {
				return err
			}
		}
		if back {
			continue
		}

		again, err := s.prompt.Confirm(s.t("Do you want to perform any other action?", "还要进行其他操作吗？"), true)
		if err != nil && !errors.Is(err, ErrAborted) {
			return err
		}
		if !again || err != nil {
			s.println(s.t("Alright! See you next time.", "好的！下次见。"))
			return nil
		}
	}
}

// dispatch 执行一个菜单动作，back 为 true 时直接回到主菜单
func (s *Shell) dispatch(ctx context.Context, action string) (back bool, err error) {
	switch action {
	case actionAdd:
		return false, s.addHabit(ctx)
	case actionCheckOff:
		return s.checkOff(ctx)
	case actionDelete:
		return s.deleteHabit(ctx)
	case actionAnalyse:
		return s.analyse(ctx)
	default:
		return true, nil
	}
}

func (s *Shell) addHabit(ctx context.Context) error {
	name, err := s.prompt.Input(s.t("What's the name of your new habit?", "新习惯叫什么名字？"), s.requireText)
	if err != nil {
		return err
	}

	periodicity, err := s.prompt.Select(s.t("How often would you like to perform this habit?", "多久执行一次这个习惯？"), []Option{
		{Key: "1", Label: s.t("Every day", "每天")},
		{Key: "7", Label: s.t("Once a week", "每周一次")},
	})
	if err != nil {
		return err
	}

	days, err := service.ParsePeriodicity(periodicity)
	if err != nil {
		return err
	}

	habit, err := s.habits.Create(ctx, service.HabitInput{Name: name, Periodicity: days})
	if err != nil {
		return err
	}

	s.println(successStyle.Render(fmt.Sprintf(s.t(`The habit "%s" has been created`, `习惯「%s」已创建`), habit.Name)))
	return nil
}

func (s *Shell) checkOff(ctx context.Context) (bool, error) {
	name, ok, err := s.chooseHabit(ctx, s.t("Which habit would you like to check off?", "要为哪个习惯打卡？"), false)
	if err != nil || !ok {
		return true, err
	}

	late, err := s.prompt.Confirm(s.t("Do you want to check-off this habit late?", "是否补打卡？"), false)
	if err != nil {
		return false, err
	}

	var date = s.analyzer.Today()
	if late {
		raw, err := s.prompt.Input(s.t("When did you complete this habit? (Please enter a date in the form YYYY-MM-DD)", "你是哪天完成的？（请输入 YYYY-MM-DD 格式的日期）"), s.validateDate)
		if err != nil {
			return false, err
		}
		if date, err = service.ParseDate(raw); err != nil {
			return false, err
		}
	}

	record, err := s.checkOffs.Record(ctx, name, date)
	if err != nil {
		return false, err
	}

	s.println(successStyle.Render(fmt.Sprintf(s.t(`Checked off "%s" for %s`, `已为「%s」打卡：%s`), name, service.FormatDate(record.CheckOffDate))))
	return false, nil
}

func (s *Shell) deleteHabit(ctx context.Context) (bool, error) {
	name, ok, err := s.chooseHabit(ctx, s.t("Which habit would you like to delete?", "要删除哪个习惯？"), false)
	if err != nil || !ok {
		return true, err
	}

	confirmed, err := s.prompt.Confirm(s.t("Are you sure you want to delete this habit?", "确定要删除这个习惯吗？"), false)
	if err != nil {
		return false, err
	}
	if !confirmed {
		s.println(mutedStyle.Render(fmt.Sprintf(s.t(`Ok, "%s" will not be deleted, you will be redirected to the main menu`, `好的，「%s」不会被删除，即将返回主菜单`), name)))
		return true, nil
	}

	if err := s.habits.Delete(ctx, name); err != nil {
		return false, err
	}

	s.println(successStyle.Render(fmt.Sprintf(s.t(`The habit "%s" has been deleted successfully`, `习惯「%s」已删除`), name)))
	return false, nil
}

func (s *Shell) analyse(ctx context.Context) (bool, error) {
	question, err := s.prompt.Select(s.t("What do you want to know?", "你想了解什么？"), []Option{
		{Key: questionLongest, Label: s.t("What's my longest habit streak?", "我最长的连续打卡是多少？")},
		{Key: questionDaily, Label: s.t("What's the list of my current daily habits?", "我当前有哪些每日习惯？")},
		{Key: questionWeekly, Label: s.t("What's the list of my current weekly habits?", "我当前有哪些每周习惯？")},
		{Key: questionStruggled, Label: s.t("With which habit did I struggle most with last month?", "上个月哪个习惯坚持得最差？")},
		{Key: keyBack, Label: s.t("Exit", "退出")},
	})
	if err != nil {
		return false, err
	}

	switch question {
	case questionLongest:
		return s.longestStreak(ctx)
	case questionDaily:
		return false, s.listHabits(ctx, 1, s.t("Your current daily habits are:", "你当前的每日习惯："))
	case questionWeekly:
		return false, s.listHabits(ctx, 7, s.t("Your current weekly habits are:", "你当前的每周习惯："))
	case questionStruggled:
		leaders, err := s.analyzer.MaxResets(ctx, struggleInterval, 0)
		if err != nil {
			return false, err
		}
		s.println(fmt.Sprintf(s.t("During the last month you struggled most with your habit(s) %s, you missed it %d times", "上个月你坚持得最差的习惯是 %s，共中断 %d 次"),
			s.joinNames(leaders.Habits), leaders.Value))
		return false, nil
	default:
		return true, nil
	}
}

func (s *Shell) longestStreak(ctx context.Context) (bool, error) {
	name, ok, err := s.chooseHabit(ctx, s.t("For which habit would you like to know?", "想了解哪个习惯？"), true)
	if err != nil || !ok {
		return true, err
	}

	if name == keyAllHabits {
		leaders, err := s.analyzer.MaxLongestStreak(ctx, 0, 0)
		if err != nil {
			return false, err
		}
		s.println(fmt.Sprintf(s.t("The longest habit streak for your habit(s) %s was: %d", "你的习惯 %s 最长连续打卡：%d"),
			s.joinNames(leaders.Habits), leaders.Value))
		return false, nil
	}

	stat, err := s.analyzer.HabitLongestStreak(ctx, name, 0)
	if err != nil {
		return false, err
	}
	s.println(fmt.Sprintf(s.t(`The longest habit streak for your habit "%s" was: %d`, `习惯「%s」最长连续打卡：%d`), stat.Habit, stat.Value))
	return false, nil
}

func (s *Shell) listHabits(ctx context.Context, periodicity int, heading string) error {
	names, err := s.analyzer.HabitNames(ctx, periodicity)
	if err != nil {
		return err
	}

	s.println(heading)
	if len(names) == 0 {
		s.println(mutedStyle.Render(s.t("  (none)", "  （无）")))
		return nil
	}
	for _, name := range names {
		s.println("  • " + name)
	}
	return nil
}

// chooseHabit 列出现有习惯并附带退出项，ok 为 false 表示用户选择返回
func (s *Shell) chooseHabit(ctx context.Context, title string, withAll bool) (string, bool, error) {
	names, err := s.analyzer.HabitNames(ctx, 0)
	if err != nil {
		return "", false, err
	}
	if len(names) == 0 {
		return "", false, analysis.ErrNoHabits
	}

	options := make([]Option, 0, len(names)+2)
	if withAll {
		options = append(options, Option{Key: keyAllHabits, Label: s.t("For all habits", "所有习惯")})
	}
	for _, name := range names {
		options = append(options, Option{Key: name, Label: name})
	}
	options = append(options, Option{Key: keyBack, Label: s.t("Exit", "退出")})

	choice, err := s.prompt.Select(title, options)
	if err != nil {
		return "", false, err
	}
	return choice, choice != keyBack, nil
}

// reportUserError 把可预期的业务错误展示给用户，返回 false 表示需要向上抛出
func (s *Shell) reportUserError(err error) bool {
	var message string
	switch {
	case errors.Is(err, service.ErrHabitExists):
		message = s.t("A habit with this name already exists", "同名习惯已存在")
	case errors.Is(err, service.ErrHabitNotFound):
		message = s.t("This habit does not exist", "习惯不存在")
	case errors.Is(err, analysis.ErrNoHabits):
		message = s.t("You have no habits yet, add one first", "还没有任何习惯，请先添加")
	case errors.Is(err, service.ErrInvalidConfiguration):
		message = s.t("Invalid habit configuration", "习惯配置不合法")
	default:
		return false
	}

	s.logger.Debug("Action rejected", zap.Error(err))
	s.println(warningStyle.Render(message))
	return true
}

func (s *Shell) requireText(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(s.t("Please enter a name", "请输入名称"))
	}
	return nil
}

func (s *Shell) validateDate(value string) error {
	if _, err := service.ParseDate(value); err != nil {
		return errors.New(s.t("Please enter a valid date", "请输入有效的日期"))
	}
	return nil
}

func (s *Shell) joinNames(names []string) string {
	quoted := make([]string, 0, len(names))
	for _, name := range names {
		quoted = append(quoted, highlightStyle.Render("'"+name+"'"))
	}
	return strings.Join(quoted, s.t(" and ", " 和 "))
}

func (s *Shell) t(english, chinese string) string {
	return locale.Pick(s.lang, english, chinese)
}

func (s *Shell) println(line string) {
	fmt.Fprintln(s.out, line)
}
