package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/habittracker/internal/analysis"
	"github.com/habittracker/internal/report"
	"github.com/habittracker/internal/service"
	"github.com/spf13/cobra"
)

func newAddCommand(app *App) *cobra.Command {
	var (
		periodicity string
		created     string
	)

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Define a new habit",
		Long: `Define a new habit with a periodicity in days.

Examples:
  habits add "read 20 pages" --periodicity daily
  habits add "call parents" --periodicity weekly --created 2022-03-01
  habits add "water plants" --periodicity 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := service.ParsePeriodicity(periodicity)
			if err != nil {
				return err
			}
			createdOn, err := optionalDate(created)
			if err != nil {
				return err
			}

			habit, err := app.habits.Create(cmd.Context(), service.HabitInput{Name: args[0], Periodicity: days, CreationDate: createdOn})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), app.text("Created habit %q (%s) on %s\n", "已创建习惯 %q（%s），创建日期 %s\n"),
				habit.Name, report.PeriodicityName(app.cfg.Shell.Language, habit.Periodicity), service.FormatDate(habit.CreationDate))
			return nil
		},
	}

	cmd.Flags().StringVarP(&periodicity, "periodicity", "p", "daily", "daily, weekly or a number of days")
	cmd.Flags().StringVar(&created, "created", "", "creation date (YYYY-MM-DD), defaults to today")
	return cmd
}

func newCheckOffCommand(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:     "checkoff NAME",
		Aliases: []string{"check"},
		Short:   "Record that a habit was performed",
		Long: `Record a check-off for a habit, today by default or on an earlier date.

Examples:
  habits checkoff "read 20 pages"
  habits checkoff "read 20 pages" --date 2022-06-20`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := optionalDate(date)
			if err != nil {
				return err
			}
			var on time.Time
			if parsed != nil {
				on = *parsed
			}

			record, err := app.checkOffs.Record(cmd.Context(), args[0], on)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), app.text("Checked off %q for %s\n", "已为 %q 打卡：%s\n"),
				record.HabitName, service.FormatDate(record.CheckOffDate))
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "check-off date (YYYY-MM-DD), defaults to today")
	return cmd
}

func newDeleteCommand(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a habit together with its check-offs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			name := args[0]

			if _, err := app.habits.Get(cmd.Context(), name); err != nil {
				return err
			}

			if !yes {
				confirmed, err := app.prompter(cmd.InOrStdin(), out).Confirm(
					fmt.Sprintf(app.text("Delete habit %q and all of its check-offs?", "确定删除习惯 %q 及其全部打卡记录？"), name), false)
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(out, app.text("Nothing deleted", "未删除任何内容"))
					return nil
				}
			}

			if err := app.habits.Delete(cmd.Context(), name); err != nil {
				return err
			}
			fmt.Fprintf(out, app.text("Deleted habit %q\n", "已删除习惯 %q\n"), name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newListCommand(app *App) *cobra.Command {
	var periodicity string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List habits",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			days, err := periodicityFilter(periodicity)
			if err != nil {
				return err
			}

			habits, err := app.habits.List(cmd.Context(), service.HabitFilter{Periodicity: days})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(habits) == 0 {
				fmt.Fprintln(out, app.text("No habits defined yet.", "还没有任何习惯。"))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, app.text("NAME\tPERIODICITY\tCREATED", "名称\t周期\t创建日期"))
			for _, habit := range habits {
				fmt.Fprintf(w, "%s\t%s\t%s\n", habit.Name,
					report.PeriodicityName(app.cfg.Shell.Language, habit.Periodicity), service.FormatDate(habit.CreationDate))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&periodicity, "periodicity", "p", "", "only list habits with this periodicity")
	return cmd
}

func newPeriodsCommand(app *App) *cobra.Command {
	var interval int

	cmd := &cobra.Command{
		Use:   "periods NAME",
		Short: "Show the completion state of every period",
		Long: `Show each period of a habit and whether it was completed.

With --interval N only the last N days are considered; a habit that was
started before the window but not checked off inside it shows every day
of the window as missed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval < 0 {
				return fmt.Errorf("%w: interval must not be negative", service.ErrInvalidConfiguration)
			}

			ctx := cmd.Context()
			periodicity, err := app.habits.Periodicity(ctx, args[0])
			if err != nil {
				return err
			}
			records, err := app.analyzer.Series(ctx, args[0], interval)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, app.text("This habit has not been started yet.", "这个习惯还没有开始。"))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, app.text("START\tEND\tDONE", "开始\t结束\t完成"))
			for _, record := range records {
				mark := "✗"
				if record.Satisfied {
					mark = "✓"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", service.FormatDate(record.Start), service.FormatDate(record.End(periodicity)), mark)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(out, app.text("longest streak: %d, resets: %d\n", "最长连续：%d，中断：%d\n"),
				analysis.LongestStreak(records), analysis.ResetCount(records))
			return nil
		},
	}

	cmd.Flags().IntVarP(&interval, "interval", "i", 0, "only consider the last N days (0 = full history)")
	return cmd
}

func newStatCommand(app *App, stat analysis.Statistic) *cobra.Command {
	var (
		interval    int
		periodicity string
	)

	use, short := "streak [NAME]", "Show the longest streak of one habit or the leaders across habits"
	if stat == analysis.StatResets {
		use, short = "resets [NAME]", "Show how often a habit was broken, or which habits broke most"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval < 0 {
				return fmt.Errorf("%w: interval must not be negative", service.ErrInvalidConfiguration)
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				var (
					result analysis.Stat
					err    error
				)
				if stat == analysis.StatResets {
					result, err = app.analyzer.HabitResets(ctx, args[0], interval)
				} else {
					result, err = app.analyzer.HabitLongestStreak(ctx, args[0], interval)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: %d\n", result.Habit, result.Value)
				return nil
			}

			days, err := periodicityFilter(periodicity)
			if err != nil {
				return err
			}

			var leaders analysis.Leaders
			if stat == analysis.StatResets {
				leaders, err = app.analyzer.MaxResets(ctx, interval, days)
			} else {
				leaders, err = app.analyzer.MaxLongestStreak(ctx, interval, days)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s: %d\n", strings.Join(leaders.Habits, ", "), leaders.Value)
			return nil
		},
	}

	cmd.Flags().IntVarP(&interval, "interval", "i", 0, "only consider the last N days (0 = full history)")
	cmd.Flags().StringVarP(&periodicity, "periodicity", "p", "", "restrict leaders to habits with this periodicity")
	return cmd
}

func newReportCommand(app *App) *cobra.Command {
	var (
		interval    int
		periodicity string
		asHTML      bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a Markdown (or HTML) summary of all habits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if interval < 0 {
				return fmt.Errorf("%w: interval must not be negative", service.ErrInvalidConfiguration)
			}
			days, err := periodicityFilter(periodicity)
			if err != nil {
				return err
			}

			rep, err := report.Build(cmd.Context(), app.analyzer, interval, days, app.cfg.Shell.Language)
			if err != nil {
				return err
			}

			body := rep.Markdown()
			if asHTML {
				if body, err = rep.HTML(); err != nil {
					return err
				}
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), body)
			return err
		},
	}

	cmd.Flags().IntVarP(&interval, "interval", "i", 0, "only consider the last N days (0 = full history)")
	cmd.Flags().StringVarP(&periodicity, "periodicity", "p", "", "only include habits with this periodicity")
	cmd.Flags().BoolVar(&asHTML, "html", false, "render sanitized HTML instead of Markdown")
	return cmd
}

func newSeedCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the five demo habits into an empty database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			created, err := service.Seed(cmd.Context(), app.habits, app.checkOffs, service.DemoHabits())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if created == 0 {
				fmt.Fprintln(out, app.text("Database already contains habits, nothing seeded", "数据库中已有习惯，跳过初始化"))
				return nil
			}
			fmt.Fprintf(out, app.text("Seeded %d demo habits\n", "已写入 %d 个示例习惯\n"), created)
			return nil
		},
	}
}

func optionalDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	date, err := service.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

// periodicityFilter 空字符串表示不过滤
func periodicityFilter(raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	return service.ParsePeriodicity(raw)
}
