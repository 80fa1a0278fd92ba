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
package commander

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/steelseries/golisp"
	"go.uber.org/zap"

	"github.com/timburks/naoh/charset"
	"github.com/timburks/naoh/editor"
	"github.com/timburks/naoh/environ"
	"github.com/timburks/naoh/history"
	"github.com/timburks/naoh/host"
	"github.com/timburks/naoh/pager"
	"github.com/timburks/naoh/types"
)

const (
	DefaultPrompt    = "# "
	DefaultLineWidth = 70
)

// ErrExit ends the interactive loop. Handlers return an *ExitError,
// which matches it.
var ErrExit = errors.New("exit")

type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Is(target error) bool {
	return target == ErrExit
}

// The Commander runs command lines typed by the user or read from scripts.
type Commander struct {
	Registry *Registry
	Env      *environ.Env
	Display  types.Display
	Keys     types.KeySource
	Editor   *editor.LineEditor
	Pager    *pager.Pager
	History  *history.History

	FS        host.FileSystem
	Processes host.Processes
	Power     host.Power
	Volumes   host.Volumes
	Mounter   host.Mounter

	Context context.Context
	Logger  *zap.Logger
	Now     func() time.Time

	LineWidth     int // characters accepted on an interactive line
	Width         int // screen columns used for paging
	Rows          int // screen rows used for paging
	PagingPrompt  string
	DefaultScript string // run by call and by ProcessScript("")

	lisp   *golisp.SymbolTableFrame
	output *DisplayWriter
}

// New builds a Commander that works on the real host. Programs started by
// exec write to the display. Power requests are refused until Power is
// replaced.
func New(r *Registry, display types.Display, keys types.KeySource) *Commander {
	out := NewDisplayWriter(display)
	return &Commander{
		Registry:     r,
		Env:          environ.New(),
		Display:      display,
		Keys:         keys,
		Editor:       editor.New(display, keys),
		Pager:        pager.New(display, keys),
		History:      history.New(),
		FS:           host.OSFileSystem{},
		Processes:    &host.OSProcesses{Stdout: out, Stderr: out},
		Power:        host.ManualPower{},
		Volumes:      host.NewMountTable(),
		Mounter:      host.NoMounter{},
		Context:      context.Background(),
		Logger:       zap.NewNop(),
		Now:          time.Now,
		LineWidth:    DefaultLineWidth,
		Width:        80,
		Rows:         25,
		PagingPrompt: pager.DefaultPrompt,
		output:       out,
	}
}

func (c *Commander) printf(format string, args ...any) {
	c.Display.Write(fmt.Sprintf(format, args...))
}

// ProcessLine runs one command line. Unknown commands are reported on the
// display and are not errors. The handler's error is returned after it
// has been shown.
func (c *Commander) ProcessLine(line string) error {
	c.Registry.freeze()

	line = strings.TrimLeft(line, " \t")
	line = strings.TrimRight(line, " \t\r\n")
	quiet := strings.HasPrefix(line, "@")
	if quiet {
		line = strings.TrimLeft(line[1:], " \t")
	}
	if !quiet && line != "" {
		c.echo(line)
	}
	if line == "" || isComment(line) {
		return nil
	}

	expanded, err := c.expand(line)
	if err != nil {
		c.printf("\ncannot expand environment variables\n\n")
		c.Logger.Warn("expansion failed", zap.String("line", line), zap.Error(err))
		return err
	}
	args := tokenize(expanded)
	if len(args) == 0 {
		return nil
	}
	cmd, ok := c.Registry.Lookup(args[0])
	if !ok {
		c.printf("\nUnknown command: %s!\n\n", line)
		c.Logger.Warn("unknown command", zap.String("line", line))
		return nil
	}

	c.Logger.Debug("dispatch", zap.Strings("args", args))
	err = cmd.Handler(c, args, c.Env.Environ())
	if err != nil && !errors.Is(err, ErrExit) {
		c.printf("\n%v\n\n", err)
		c.Logger.Warn("command failed", zap.String("command", cmd.Name), zap.Error(err))
	}
	return err
}

func isComment(line string) bool {
	return line[0] == '#' || line[0] == ';'
}

// echo shows a scripted line when echo is on.
func (c *Commander) echo(line string) {
	if c.Registry.Scripted && c.Registry.Echo {
		c.Display.Write(line + "\n")
	}
}

// expand replaces variable references. DATE and TIME exist only while a
// line is expanded.
func (c *Commander) expand(line string) (string, error) {
	now := c.Now()
	_ = c.Env.Set("DATE", now.Format("2006-01-02"))
	_ = c.Env.Set("TIME", now.Format("15-04"))
	defer func() {
		c.Env.Unset("DATE")
		c.Env.Unset("TIME")
	}()
	return c.Env.Expand(line)
}

func tokenize(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t'
	})
}

// Interact reads lines with the line editor and runs them until a command
// exits or the keyboard fails.
func (c *Commander) Interact(prompt string) error {
	c.Logger.Debug("interactive session started")
	for {
		line, _, err := c.Editor.ReadLine(prompt, c.LineWidth, c.History)
		if err != nil && !errors.Is(err, editor.ErrBufferOverflow) {
			c.Logger.Debug("interactive session ended", zap.Error(err))
			return err
		}
		if err := c.ProcessLine(line); errors.Is(err, ErrExit) {
			c.Logger.Debug("interactive session ended", zap.Error(err))
			return err
		}
	}
}

// page shows lines through the pager. Scripts are never paused.
func (c *Commander) page(lines []string) error {
	return c.Pager.Render(lines, c.Width, c.Rows, c.PagingPrompt, !c.Registry.Scripted)
}

// A DisplayWriter is an io.Writer that prints on a display. A character
// split between two writes is held back until it is complete.
type DisplayWriter struct {
	display types.Display
	pending []byte
}

func NewDisplayWriter(d types.Display) *DisplayWriter {
	return &DisplayWriter{display: d}
}

func (w *DisplayWriter) Write(p []byte) (int, error) {
	buf := append(w.pending, p...)
	n := charset.SafeCutPoint(buf, 0, len(buf))
	if rest := buf[n:]; len(rest) >= utf8.UTFMax || (len(rest) > 0 && !leadByte(rest[0])) {
		// the held bytes can never become a character
		n = len(buf)
	}
	if n > 0 {
		w.display.Write(string(buf[:n]))
	}
	w.pending = append([]byte(nil), buf[n:]...)
	return len(p), nil
}

// Flush prints whatever is held back.
func (w *DisplayWriter) Flush() {
	if len(w.pending) > 0 {
		w.display.Write(string(w.pending))
		w.pending = nil
	}
}

func leadByte(c byte) bool {
	return c >= 0xc2 && c <= 0xf4
}
