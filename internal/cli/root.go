// Package cli 组装 cobra 命令：无子命令时进入交互菜单，其余子命令用于脚本化操作与 HTTP 服务。
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/habittracker/internal/analysis"
	"github.com/habittracker/internal/config"
	"github.com/habittracker/internal/db"
	"github.com/habittracker/internal/locale"
	"github.com/habittracker/internal/logging"
	"github.com/habittracker/internal/service"
	"github.com/habittracker/internal/shell"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var version = "dev"

// App 保存一次命令执行期间共享的配置与服务
type App struct {
	clock service.Clock

	configPath string
	dbPath     string
	language   string

	cfg       config.AppConfig
	logger    *zap.Logger
	closeLog  func()
	gdb       *gorm.DB
	habits    *service.HabitService
	checkOffs *service.CheckOffService
	analyzer  *analysis.Analyzer
}

// NewApp clock 为 nil 时使用系统时间
func NewApp(clock service.Clock) *App {
	if clock == nil {
		clock = service.SystemClock
	}
	return &App{clock: clock}
}

// Execute 是 cmd/habits 的入口，返回进程退出码
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := NewApp(nil)
	defer app.Close()

	if err := NewRootCommand(app).ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

// NewRootCommand 构造 habits 根命令
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "habits",
		Short: "Track periodic habits and analyse streaks",
		Long: `habits keeps a list of daily, weekly or every-N-days habits together with
their check-offs, and reports the longest streak and the number of missed periods.

Run without a sub-command to open the interactive menu.`,
		Version:           version,
		SilenceUsage:      true,
		Args:              cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return app.setup() },
		RunE:              app.runShell,
	}

	root.PersistentFlags().StringVar(&app.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&app.dbPath, "db", "", "SQLite database path (overrides database.path)")
	root.PersistentFlags().StringVar(&app.language, "lang", "", "interface language: en or zh (overrides shell.language)")

	root.AddCommand(
		newAddCommand(app),
		newCheckOffCommand(app),
		newDeleteCommand(app),
		newListCommand(app),
		newPeriodsCommand(app),
		newStatCommand(app, analysis.StatLongestStreak),
		newStatCommand(app, analysis.StatResets),
		newReportCommand(app),
		newSeedCommand(app),
		newServeCommand(app),
	)
	return root
}

func (a *App) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if path := strings.TrimSpace(a.dbPath); path != "" {
		cfg.Database.Path = path
	}
	if a.language != "" {
		lang := locale.NormalizeLanguage(a.language)
		if lang == "" {
			return fmt.Errorf("unsupported language %q, expected en or zh", a.language)
		}
		cfg.Shell.Language = lang
	}
	a.cfg = cfg

	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	a.logger, a.closeLog = logger, closeLog

	gdb, err := db.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	a.gdb = gdb
	a.logger.Debug("Database opened", zap.String("path", cfg.Database.Path))

	a.habits = service.NewHabitService(gdb, logger, a.clock)
	a.checkOffs = service.NewCheckOffService(gdb, logger, a.clock)
	a.analyzer = analysis.NewAnalyzer(a.habits, a.checkOffs, a.clock, logger)
	return nil
}

// Close 关闭数据库并刷新日志，可重复调用
func (a *App) Close() {
	if a.gdb != nil {
		if err := db.Close(a.gdb); err != nil && a.logger != nil {
			a.logger.Warn("Failed to close database", zap.Error(err))
		}
		a.gdb = nil
	}
	if a.closeLog != nil {
		a.closeLog()
		a.closeLog = nil
	}
}

func (a *App) runShell(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	sh := shell.New(a.habits, a.checkOffs, a.analyzer, a.prompter(cmd.InOrStdin(), out), out, a.cfg.Shell.Language, a.logger)

	err := sh.Run(cmd.Context())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *App) prompter(in io.Reader, out io.Writer) shell.Prompter {
	if f, ok := in.(*os.File); ok {
		return shell.NewPrompter(f, out)
	}
	return shell.NewLinePrompter(in, out)
}

func (a *App) text(english, chinese string) string {
	return locale.Pick(a.cfg.Shell.Language, english, chinese)
}
