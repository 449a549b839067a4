package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/idswatch/pkg/utils/logging"
	"github.com/secmon-lab/idswatch/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

// Logger configures the process wide logger. Access logs and use case
// events of the server share it.
type Logger struct {
	level      string
	format     string
	output     string
	quiet      bool
	stacktrace bool
}

const logCategory = "logging"

func (x *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Aliases:     []string{"l"},
			Category:    logCategory,
			Usage:       "Minimum level to emit: debug, info, warn or error",
			Sources:     cli.EnvVars("IDSWATCH_LOG_LEVEL"),
			Value:       "info",
			Destination: &x.level,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Aliases:     []string{"f"},
			Category:    logCategory,
			Usage:       "console or json. Empty picks console on a color terminal",
			Sources:     cli.EnvVars("IDSWATCH_LOG_FORMAT"),
			Value:       "console",
			Destination: &x.format,
		},
		&cli.StringFlag{
			Name:        "log-output",
			Aliases:     []string{"o"},
			Category:    logCategory,
			Usage:       "stdout, stderr, '-' or a file path to append to",
			Sources:     cli.EnvVars("IDSWATCH_LOG_OUTPUT"),
			Value:       "stdout",
			Destination: &x.output,
		},
		&cli.BoolFlag{
			Name:        "log-quiet",
			Aliases:     []string{"q"},
			Category:    logCategory,
			Usage:       "Discard all log output",
			Sources:     cli.EnvVars("IDSWATCH_LOG_QUIET"),
			Destination: &x.quiet,
		},
		&cli.BoolFlag{
			Name:        "log-stacktrace",
			Aliases:     []string{"s"},
			Category:    logCategory,
			Usage:       "Print error stacktraces in console format",
			Sources:     cli.EnvVars("IDSWATCH_LOG_STACKTRACE"),
			Value:       true,
			Destination: &x.stacktrace,
		},
	}
}

func (x Logger) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("level", x.level),
		slog.String("format", x.format),
		slog.String("output", x.output),
		slog.Bool("quiet", x.quiet),
		slog.Bool("stacktrace", x.stacktrace),
	)
}

// Configure installs the default logger. The returned closer is never nil
// and releases the log file, if one was opened.
func (x *Logger) Configure() (func(), error) {
	noop := func() {}
	if x.quiet {
		logging.Quiet()
		return noop, nil
	}

	level, err := parseLogLevel(x.level)
	if err != nil {
		return noop, err
	}
	format, err := parseLogFormat(x.format)
	if err != nil {
		return noop, err
	}
	w, closer, err := openLogOutput(x.output)
	if err != nil {
		return noop, err
	}

	logging.SetDefault(logging.New(w, level, format, x.stacktrace))
	return closer, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, goerr.Wrap(err, "invalid log level", goerr.V("level", s))
	}
	return level, nil
}

func parseLogFormat(s string) (logging.Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "console":
		return logging.FormatConsole, nil
	case "json":
		return logging.FormatJSON, nil
	case "":
		term := os.Getenv("TERM")
		if strings.Contains(term, "color") || strings.Contains(term, "xterm") {
			return logging.FormatConsole, nil
		}
		return logging.FormatJSON, nil
	}
	return 0, goerr.New("invalid log format", goerr.V("format", s))
}

func openLogOutput(dst string) (io.Writer, func(), error) {
	switch dst {
	case "", "-", "stdout":
		return os.Stdout, func() {}, nil
	case "stderr":
		return os.Stderr, func() {}, nil
	}

	f, err := os.OpenFile(filepath.Clean(dst), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, func() {}, goerr.Wrap(err, "failed to open log file", goerr.V("path", dst))
	}
	return f, func() { safe.Close(context.Background(), f) }, nil
}
