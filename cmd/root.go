package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/class-attendance/internal/attendance"
	"github.com/Tiliavir/class-attendance/internal/config"
	"github.com/Tiliavir/class-attendance/internal/inbox"
	"github.com/Tiliavir/class-attendance/internal/logging"
	"github.com/Tiliavir/class-attendance/internal/roster"
	"github.com/Tiliavir/class-attendance/internal/schedule"
	"github.com/Tiliavir/class-attendance/internal/timecalc"
)

var (
	configPath   string
	downloadsDir string
	scheduleFile string
	rostersDir   string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "attend",
	Short: "attend – class attendance from Microsoft Teams exports",
	Long: `attend reads the attendance files Microsoft Teams downloads, assigns every
meeting to a class of the weekly schedule and keeps one CSV roster per class.
Settings live in ~/.attend/config.yaml.`,
	SilenceUsage: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Config file (default ~/.attend/config.yaml)")
	pf.StringVar(&downloadsDir, "downloads", "", "Folder with Teams attendance exports")
	pf.StringVar(&scheduleFile, "schedule", "", "Weekly schedule file")
	pf.StringVar(&rostersDir, "rosters", "", "Folder with the class rosters")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(markCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
}

// session is what every command starts from.
type session struct {
	cfg config.Config
	ctx context.Context
	log *slog.Logger
}

// openSession loads the config, applies the command-line overrides and sets
// up logging. Configuration problems end the process with exit code 1.
func openSession(cmd *cobra.Command) session {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := applyFlags(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logging.New(cfg.Logging, os.Stderr)
	log.Debug("configuration loaded",
		slog.String("command", cmd.Name()),
		slog.String("downloads", cfg.Paths.Downloads),
		slog.String("schedule", cfg.Paths.Schedule),
		slog.String("rosters", cfg.Paths.Rosters),
		slog.String("locale", cfg.Locale))

	return session{
		cfg: cfg,
		ctx: logging.ContextWithLogger(cmd.Context(), log),
		log: log,
	}
}

func applyFlags(cfg *config.Config) error {
	overrides := []struct {
		flag string
		dst  *string
	}{
		{downloadsDir, &cfg.Paths.Downloads},
		{scheduleFile, &cfg.Paths.Schedule},
		{rostersDir, &cfg.Paths.Rosters},
	}
	for _, o := range overrides {
		if o.flag == "" {
			continue
		}
		p, err := config.ExpandHome(o.flag)
		if err != nil {
			return err
		}
		*o.dst = p
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg.Validate()
}

func (s session) parser() *attendance.Parser {
	layout, err := s.cfg.Layout()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return attendance.NewParser(layout)
}

func (s session) store() *roster.Store {
	return &roster.Store{
		Dir:        s.cfg.Paths.Rosters,
		NameHeader: s.cfg.NameHeader,
		Sorter:     roster.NewCollator(s.cfg.Locale),
	}
}

// weekdays names schedule days in the configured locale.
func (s session) weekdays() schedule.Option {
	return schedule.WithWeekdays(timecalc.NewWeekdays(s.cfg.Locale))
}

// exports lists the attendance files in the downloads folder.
func (s session) exports() []inbox.File {
	files, err := inbox.Scan(s.cfg.Paths.Downloads, s.cfg.Markers())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return files
}
