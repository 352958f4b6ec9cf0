package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/specialistvlad/actiongrid/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// listFlag collects every occurrence of a repeatable flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	if v == "" {
		return fmt.Errorf("value must not be empty")
	}
	*l = append(*l, v)
	return nil
}

// keyValueFlag collects repeatable KEY=VALUE pairs. Later pairs win.
type keyValueFlag map[string]string

func (kv keyValueFlag) String() string {
	pairs := make([]string, 0, len(kv))
	for k, v := range kv {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

func (kv keyValueFlag) Set(v string) error {
	key, value, ok := strings.Cut(v, "=")
	if !ok || key == "" {
		return fmt.Errorf("%q must be KEY=VALUE", v)
	}
	kv[key] = value
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("actiongrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
actiongrid - runs build, test and install actions in dependency order,
each in its own sandbox.

Usage:
  actiongrid [options] ACTION...

Arguments:
  ACTION
    An action reference such as "compile" or "compile[os=linux]".

Options:
`)
		flagSet.PrintDefaults()
	}

	var specs listFlag
	env := keyValueFlag{}
	selectors := keyValueFlag{}
	flagSet.Var(&specs, "spec", "Spec file or directory (.hcl, .yaml, .yml). Repeatable.")
	flagSet.Var(env, "env", "KEY=VALUE environment override for every action. Repeatable.")
	flagSet.Var(selectors, "select", "key=value selector for YAML case_ branches. Repeatable.")
	workersFlag := flagSet.Int("workers", 0, "Number of concurrent workers. 0 uses the number of CPUs.")
	timeoutFlag := flagSet.Duration("timeout", 0, "Timeout for the whole run, e.g. 30m. 0 is none.")
	sandboxRootFlag := flagSet.String("sandbox-root", "", "Directory sandboxes are created in. Defaults to a temp dir.")
	keepFlag := flagSet.Bool("keep-sandboxes", false, "Keep sandbox directories after actions finish.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 && len(specs) == 0 {
		slog.Debug("Nothing requested, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if len(specs) == 0 {
		specs = listFlag{"."}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		SpecPaths:       specs,
		Actions:         flagSet.Args(),
		Workers:         *workersFlag,
		RunTimeout:      *timeoutFlag,
		Env:             env,
		SandboxRoot:     *sandboxRootFlag,
		KeepSandboxes:   *keepFlag,
		Selectors:       selectors,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		HealthcheckPort: *healthPortFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
