package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/Tiliavir/class-attendance/internal/attendance"
	"github.com/Tiliavir/class-attendance/internal/inbox"
)

// EnvPrefix prefixes every environment override, e.g. ATTEND_PATHS_ROSTERS.
const EnvPrefix = "ATTEND"

// Config is the root configuration for attend, stored in ~/.attend/config.yaml.
type Config struct {
	Paths      PathsConfig     `yaml:"paths" split_words:"true"`
	NameHeader string          `yaml:"name_header" split_words:"true" validate:"required"`
	List       ListConfig      `yaml:"list" split_words:"true"`
	Report     ReportConfig    `yaml:"report" split_words:"true"`
	Timestamps TimestampConfig `yaml:"timestamps" split_words:"true"`
	Matching   MatchingConfig  `yaml:"matching" split_words:"true"`
	Inbox      InboxConfig     `yaml:"inbox" split_words:"true"`
	// Locale selects the roster collation and the schedule weekday names. Empty means LC_ALL, LC_COLLATE, then LANG.
	Locale  string        `yaml:"locale" split_words:"true"`
	Logging LoggingConfig `yaml:"logging" split_words:"true"`
}

// PathsConfig holds the working locations. A leading ~ is expanded.
type PathsConfig struct {
	Downloads string `yaml:"downloads" split_words:"true" validate:"required"`
	Schedule  string `yaml:"schedule" split_words:"true" validate:"required"`
	Rosters   string `yaml:"rosters" split_words:"true" validate:"required"`
}

// ListConfig locates the fields of an attendance list export.
type ListConfig struct {
	NameColumn     int    `yaml:"name_column" split_words:"true" validate:"gte=0"`
	TimeMarkColumn int    `yaml:"time_mark_column" split_words:"true" validate:"gte=0"`
	TimeMarkHeader string `yaml:"time_mark_header" split_words:"true" validate:"required"`
}

// ReportConfig locates the fields of an attendance report export.
type ReportConfig struct {
	Columns         int    `yaml:"columns" split_words:"true" validate:"gte=1"`
	NameColumn      int    `yaml:"name_column" split_words:"true" validate:"gte=0,ltfield=Columns"`
	JoinTimeColumn  int    `yaml:"join_time_column" split_words:"true" validate:"gte=0,ltfield=Columns"`
	LeaveTimeColumn int    `yaml:"leave_time_column" split_words:"true" validate:"gte=0,ltfield=Columns"`
	RoleColumn      int    `yaml:"role_column" split_words:"true" validate:"gte=0,ltfield=Columns"`
	JoinTimeHeader  string `yaml:"join_time_header" split_words:"true" validate:"required"`
	LeaveTimeHeader string `yaml:"leave_time_header" split_words:"true" validate:"required"`
	RoleHeader      string `yaml:"role_header" split_words:"true" validate:"required"`
	OrganizerRole   string `yaml:"organizer_role" split_words:"true" validate:"required"`
}

// TimestampConfig controls how export timestamps are read.
type TimestampConfig struct {
	// Layouts are Go reference-time layouts, tried in order.
	Layouts []string `yaml:"layouts" ignored:"true" validate:"min=1,dive,required"`
	// Timezone is an IANA name. Empty means the system zone.
	Timezone string `yaml:"timezone" split_words:"true"`
}

// MatchingConfig tunes schedule slot matching.
type MatchingConfig struct {
	MinToleranceMinutes int    `yaml:"min_tolerance_minutes" split_words:"true" validate:"gte=0"`
	Irregular           bool   `yaml:"irregular" split_words:"true"`
	IrregularRoster     string `yaml:"irregular_roster" split_words:"true" validate:"required,ne=schedule"`
}

// InboxConfig selects which downloaded files are attendance exports.
type InboxConfig struct {
	ListMarker   string `yaml:"list_marker" split_words:"true" validate:"required"`
	ReportMarker string `yaml:"report_marker" split_words:"true" validate:"required"`
	Extension    string `yaml:"extension" split_words:"true" validate:"required"`
}

// LoggingConfig controls the diagnostic log on stderr.
type LoggingConfig struct {
	Level  string `yaml:"level" split_words:"true" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" split_words:"true" validate:"oneof=text json"`
}

// Default returns a Config matching an English Teams installation.
func Default() Config {
	layout := attendance.DefaultLayout()
	markers := inbox.DefaultMarkers()
	return Config{
		Paths: PathsConfig{
			Downloads: "~/Downloads",
			Schedule:  "schedule.csv",
			Rosters:   ".",
		},
		NameHeader: layout.NameHeader,
		List: ListConfig{
			NameColumn:     layout.List.Name,
			TimeMarkColumn: layout.List.TimeMark,
			TimeMarkHeader: layout.List.TimeMarkHeader,
		},
		Report: ReportConfig{
			Columns:         layout.Report.Count,
			NameColumn:      layout.Report.Name,
			JoinTimeColumn:  layout.Report.JoinTime,
			LeaveTimeColumn: layout.Report.LeaveTime,
			RoleColumn:      layout.Report.Role,
			JoinTimeHeader:  layout.Report.JoinHeader,
			LeaveTimeHeader: layout.Report.LeaveHeader,
			RoleHeader:      layout.Report.RoleHeader,
			OrganizerRole:   layout.Report.OrganizerRole,
		},
		Timestamps: TimestampConfig{
			Layouts: append([]string(nil), layout.Timestamps...),
		},
		Matching: MatchingConfig{
			MinToleranceMinutes: 30,
			IrregularRoster:     "attendance",
		},
		Inbox: InboxConfig{
			ListMarker:   markers.List,
			ReportMarker: markers.Report,
			Extension:    markers.Extension,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// configTemplate is the annotated config written on first run.
const configTemplate = `# attend configuration - ~/.attend/config.yaml
#
# All settings are optional; the defaults below match an English Teams
# installation. Any value can be overridden from the environment with the
# ATTEND_ prefix, e.g. ATTEND_PATHS_ROSTERS=/srv/classes.

paths:
  # Folder scanned for Teams attendance exports.
  downloads: ~/Downloads
  # Weekly timetable: one "Weekday,HH:MM,group" row per class.
  # A placeholder is generated from the exports when it does not exist.
  schedule: schedule.csv
  # Folder holding one <group>.csv roster per class.
  rosters: .

# Header of the participant name column, in exports and in rosters.
name_header: Full Name

# Attendance list exports (zero-based column indexes).
list:
  name_column: 0
  time_mark_column: 2
  time_mark_header: Timestamp

# Attendance report exports. Rows with exactly "columns" cells are read.
report:
  columns: 7
  name_column: 0
  join_time_column: 1
  leave_time_column: 2
  role_column: 5
  join_time_header: Join Time
  leave_time_header: Leave Time
  role_header: Role
  organizer_role: Organizer

timestamps:
  # Go reference-time layouts, tried in order.
  layouts:
    - "2.1.2006, 15:04:05"
    - "1/2/2006, 3:04:05 PM"
  # IANA zone of the exported times, e.g. Europe/Warsaw. Empty = system zone.
  timezone: ""

matching:
  # A meeting matches a slot within max(duration, this) minutes.
  min_tolerance_minutes: 30
  # Record every meeting in one roster, without a schedule.
  irregular: false
  irregular_roster: attendance

inbox:
  list_marker: meetingAttendanceList
  report_marker: meetingAttendanceReport
  extension: .csv

# Roster sort order and schedule weekday names, e.g. pl_PL.UTF-8.
# Empty = LC_ALL, LC_COLLATE, then LANG.
locale: ""

logging:
  # debug, info, warn or error
  level: warn
  # text or json
  format: text
`

// DefaultPath returns the path to ~/.attend/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".attend", "config.yaml"), nil
}

// Load reads the config at path (DefaultPath when empty), creating it with
// annotated defaults on first run. Keys missing from the file keep their
// defaults; ATTEND_* environment variables override both.
func Load(path string) (Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return Default(), err
		}
		path = p
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
	case err != nil:
		return Default(), fmt.Errorf("reading config file %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Default(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Default(), fmt.Errorf("reading %s_* environment: %w", EnvPrefix, err)
	}
	if err := cfg.finish(); err != nil {
		return Default(), fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// finish expands paths, resolves the locale and validates the result.
func (c *Config) finish() error {
	var err error
	for _, p := range []*string{&c.Paths.Downloads, &c.Paths.Schedule, &c.Paths.Rosters} {
		if *p, err = ExpandHome(*p); err != nil {
			return err
		}
	}
	if c.Locale == "" {
		c.Locale = DetectLocale(os.Getenv)
	}
	return c.Validate()
}

// Validate checks field constraints and the timezone name.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, formatFieldError(fe))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	param := fe.Param()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "ltfield":
		return fmt.Sprintf("%s must be less than %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", field, param)
	case "ne":
		return fmt.Sprintf("%s must not be %q", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// Location returns the zone export timestamps are interpreted in.
func (c Config) Location() (*time.Location, error) {
	if c.Timestamps.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timestamps.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", c.Timestamps.Timezone, err)
	}
	return loc, nil
}

// Layout builds the export layout described by the config.
func (c Config) Layout() (attendance.Layout, error) {
	loc, err := c.Location()
	if err != nil {
		return attendance.Layout{}, err
	}
	return attendance.Layout{
		NameHeader: c.NameHeader,
		List: attendance.ListColumns{
			Name:           c.List.NameColumn,
			TimeMark:       c.List.TimeMarkColumn,
			TimeMarkHeader: c.List.TimeMarkHeader,
		},
		Report: attendance.ReportColumns{
			Count:         c.Report.Columns,
			Name:          c.Report.NameColumn,
			JoinTime:      c.Report.JoinTimeColumn,
			LeaveTime:     c.Report.LeaveTimeColumn,
			Role:          c.Report.RoleColumn,
			JoinHeader:    c.Report.JoinTimeHeader,
			LeaveHeader:   c.Report.LeaveTimeHeader,
			RoleHeader:    c.Report.RoleHeader,
			OrganizerRole: c.Report.OrganizerRole,
		},
		Timestamps: append([]string(nil), c.Timestamps.Layouts...),
		Location:   loc,
	}, nil
}

// Markers returns the inbox file-name markers.
func (c Config) Markers() inbox.Markers {
	return inbox.Markers{
		List:      c.Inbox.ListMarker,
		Report:    c.Inbox.ReportMarker,
		Extension: c.Inbox.Extension,
	}
}

// MinTolerance is the smallest accepted slot distance.
func (c Config) MinTolerance() time.Duration {
	return time.Duration(c.Matching.MinToleranceMinutes) * time.Minute
}

// DetectLocale returns the first non-empty of LC_ALL, LC_COLLATE and LANG.
func DetectLocale(getenv func(string) string) string {
	for _, key := range []string{"LC_ALL", "LC_COLLATE", "LANG"} {
		if v := getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, `~\`) {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
