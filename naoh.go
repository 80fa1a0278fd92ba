//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/timburks/naoh/commander"
	"github.com/timburks/naoh/config"
	"github.com/timburks/naoh/environ"
	"github.com/timburks/naoh/host"
	"github.com/timburks/naoh/screen"
	"github.com/timburks/naoh/types"
)

var (
	configPath string
	backend    string
	script     string
	evalFile   string
	logFile    string
	batch      bool
)

var rootCmd = &cobra.Command{
	Use:   "naoh",
	Short: "naoh - a native console shell",
	Long: `naoh is a small command shell that runs on a bare console.

It runs the startup script, then reads commands with a line editor until
exit is typed. Type help at the prompt for the list of commands.`,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runShell,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", config.DefaultPath(), "configuration file")
	rootCmd.Flags().StringVar(&backend, "backend", "", "screen backend: termbox, tcell or stream")
	rootCmd.Flags().StringVar(&script, "script", "", "startup script")
	rootCmd.Flags().StringVar(&evalFile, "eval", "", "evaluate a lisp file and exit")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "log file")
	rootCmd.Flags().BoolVar(&batch, "batch", false, "exit after the startup script")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exit *commander.ExitError
		if errors.As(err, &exit) {
			os.Exit(exit.Code)
		}
		fmt.Fprintln(os.Stderr, "naoh:", err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("backend") {
		cfg.Backend = strings.ToLower(backend)
	}
	if cmd.Flags().Changed("script") {
		cfg.Script = script
	}
	if cmd.Flags().Changed("log-file") {
		cfg.LogFile = logFile
	}
	return cfg, cfg.Validate()
}

// newLogger writes JSON logs to path. Every entry carries the session id.
func newLogger(path, level string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{path}
	zc.ErrorOutputPaths = []string{path}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.With(zap.String("session", uuid.NewString())), nil
}

// A terminal is what the shell draws on.
type terminal interface {
	types.Display
	types.KeySource
	Size() types.Size
}

// newCommander builds a shell with the builtins on term.
func newCommander(cfg *config.Config, term terminal, logger *zap.Logger) (*commander.Commander, error) {
	r := commander.NewRegistry()
	if err := commander.RegisterBuiltins(r); err != nil {
		return nil, err
	}
	r.Echo = cfg.Echo

	c := commander.New(r, term, term)
	c.Env = environ.FromList(os.Environ())
	for name, value := range cfg.Environment {
		if err := c.Env.Set(name, value); err != nil {
			return nil, err
		}
	}
	if logger != nil {
		c.Logger = logger
	}
	c.LineWidth = cfg.LineWidth
	size := term.Size()
	c.Width, c.Rows = size.Cols, size.Rows
	if cfg.DisplayRows > 0 {
		c.Rows = cfg.DisplayRows
	}
	c.Pager.TabWidth = cfg.TabWidth
	c.PagingPrompt = cfg.PagingPrompt
	c.DefaultScript = cfg.Script
	if cfg.Power == config.PowerSystem {
		c.Power = host.SystemPower{}
	}
	if cfg.MountRoot != "" {
		c.Mounter = &host.LoopMounter{FS: c.FS, Processes: c.Processes, Root: cfg.MountRoot}
	}
	return c, nil
}

func runShell(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if evalFile != "" {
		return runEval(cfg, logger, evalFile, os.Stdout)
	}

	term, err := screen.Open(cfg.Backend)
	if err != nil {
		return err
	}
	defer term.Close()
	logger.Info("shell started", zap.String("backend", cfg.Backend))

	c, err := newCommander(cfg, term, logger)
	if err != nil {
		return err
	}
	c.Context = cmd.Context()
	return session(c, cfg.Prompt, batch)
}

// session runs the startup script and then, unless batch is set, the
// interactive loop. A closed keyboard ends the session normally.
func session(c *commander.Commander, prompt string, batch bool) error {
	if err := c.ProcessScript(""); err != nil {
		switch {
		case errors.Is(err, commander.ErrExit):
			return err
		case errors.Is(err, fs.ErrNotExist), errors.Is(err, commander.ErrNoScript):
			c.Logger.Debug("no startup script", zap.Error(err))
		default:
			c.Logger.Warn("startup script failed", zap.Error(err))
			c.Display.Write(fmt.Sprintf("\n%v\n\n", err))
		}
	}
	if batch {
		return nil
	}
	err := c.Interact(prompt)
	if errors.Is(err, screen.ErrClosed) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// runEval evaluates a lisp file without a screen and prints the result.
func runEval(cfg *config.Config, logger *zap.Logger, filename string, out io.Writer) error {
	source, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	term := screen.NewStreamFromReader(os.Stdin, out)
	c, err := newCommander(cfg, term, logger)
	if err != nil {
		return err
	}
	c.Registry.Scripted = true
	result, err := c.Eval(string(source))
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	fmt.Fprintln(out, result)
	return nil
}
