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
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/timburks/naoh/charset"
	"github.com/timburks/naoh/environ"
	"github.com/timburks/naoh/host"
	"github.com/timburks/naoh/pager"
	"github.com/timburks/naoh/pattern"
	"github.com/timburks/naoh/types"
)

var builtins = []Command{
	{"shutdown", shutdownCommand, "shutdown\nShut the computer down."},
	{"reboot", rebootCommand, "reboot\nReboot the computer."},
	{"exit", exitCommand, "exit [CODE]\nExit native shell."},
	{"eval", evalCommand, "eval EXPRESSION\nEvaluate a lisp expression."},
	{"pause", pauseCommand, "pause [MESSAGE]\nWait for a key press."},
	{"type", typeCommand, "type FILE\nDisplay the contents of a text file."},
	{"history", historyCommand, "history\nList the commands typed so far."},
	{"set", setCommand, "set [NAME=VALUE | FILTER]\nList or change environment variables."},
	{"mount", mountCommand, "mount [-d=X] FILE\nMount ISO|IMG file."},
	{"del", delCommand, "del FILE\nDelete a file."},
	{"md", mdCommand, "md DIR\nCreate a directory."},
	{"ls", lsCommand, "ls [PATH [MASK]]\nList volumes or files."},
	{"echo", echoCommand, "echo [on | off | STRING ...]\nDisplay message or turn script echo on and off."},
	{"exec", execCommand, "exec FILE [CMDLINE] ...\nExecute a native program."},
	{"call", callCommand, "call [SCRIPT]\nExecute a boot time script."},
	{"help", helpCommand, "help [COMMAND] ...\nPrint help text."},
}

// RegisterBuiltins adds the standard commands to r.
func RegisterBuiltins(r *Registry) error {
	for _, cmd := range builtins {
		if err := r.Register(cmd.Name, cmd.Handler, cmd.Help); err != nil {
			return err
		}
	}
	return nil
}

func helpCommand(c *Commander, args []string, _ []string) error {
	if len(args) < 2 {
		var b strings.Builder
		b.WriteString("Available commands:")
		for _, cmd := range c.Registry.Commands() {
			b.WriteString(" " + cmd.Name)
		}
		return c.page([]string{b.String()})
	}
	for _, name := range args[1:] {
		if cmd, ok := c.Registry.Lookup(name); ok {
			c.printf("%s\n\n", cmd.Help)
		} else {
			c.printf("Unknown command %s\n\n", name)
		}
	}
	return nil
}

func echoCommand(c *Commander, args []string, _ []string) error {
	if len(args) == 2 {
		switch strings.ToLower(args[1]) {
		case "on":
			c.Registry.Echo = true
			return nil
		case "off":
			c.Registry.Echo = false
			return nil
		}
	}
	c.printf("%s\n", strings.Join(args[1:], " "))
	return nil
}

func exitCommand(c *Commander, args []string, _ []string) error {
	code := 0
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			c.printf("\nexit: invalid status %s\n\n", args[1])
			return nil
		}
		code = n
	}
	return &ExitError{Code: code}
}

func rebootCommand(c *Commander, _ []string, _ []string) error {
	c.printf("Reboot ...\n")
	if err := c.Power.Reboot(); err != nil {
		c.Logger.Warn("reboot failed", zap.Error(err))
		c.printf("\nReboot your computer manually.\n")
	}
	return nil
}

func shutdownCommand(c *Commander, _ []string, _ []string) error {
	c.printf("Shutdown ...\n")
	if err := c.Power.Shutdown(); err != nil {
		c.Logger.Warn("shutdown failed", zap.Error(err))
		c.printf("\nShutdown your computer manually.\n")
	}
	return nil
}

func lsCommand(c *Commander, args []string, _ []string) error {
	if len(args) < 2 {
		volumes, err := c.Volumes.List()
		if err != nil {
			return fmt.Errorf("cannot list volumes: %w", err)
		}
		for _, v := range volumes {
			c.printf("%s LABEL=[%s] FS=%s SIZE=%s\n", v.Path, v.Label, v.FSType, host.HumanSize(v.TotalBytes))
		}
		return nil
	}

	entries, err := c.FS.ReadDir(args[1])
	if err != nil {
		return fmt.Errorf("cannot list %s: %w", args[1], err)
	}
	var masks *pattern.List
	if len(args) > 2 {
		masks = pattern.Compile(strings.Join(args[2:], ";"), ";", pattern.ICase)
		defer masks.Release()
	}
	var b strings.Builder
	for _, entry := range entries {
		if masks != nil && !masks.Match(entry.Name()) {
			continue
		}
		if entry.IsDir() {
			fmt.Fprintf(&b, " [%s]", entry.Name())
		} else {
			fmt.Fprintf(&b, " %s", entry.Name())
		}
	}
	b.WriteString("\n")
	c.Display.Write(b.String())
	return nil
}

func callCommand(c *Commander, args []string, _ []string) error {
	var script string
	if len(args) > 1 {
		script = args[1]
	}
	return c.ProcessScript(script)
}

func execCommand(c *Commander, args []string, _ []string) error {
	if len(args) < 2 {
		return nil
	}
	c.printf("cmdline: %s\n", strings.Join(args[1:], " "))
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	status, err := c.Processes.Execute(ctx, args[1], args[2:])
	if c.output != nil {
		c.output.Flush()
	}
	if err != nil {
		return fmt.Errorf("cannot execute %s: %w", args[1], err)
	}
	c.Logger.Debug("program finished", zap.String("file", args[1]), zap.Int("status", status))
	return c.Env.Set("ERRORLEVEL", strconv.Itoa(status))
}

func mdCommand(c *Commander, args []string, _ []string) error {
	if len(args) < 2 {
		return nil
	}
	if err := c.FS.Mkdir(args[1]); err != nil {
		return fmt.Errorf("cannot create directory %s: %w", args[1], err)
	}
	return nil
}

func delCommand(c *Commander, args []string, _ []string) error {
	if len(args) < 2 {
		return nil
	}
	if err := c.FS.Remove(args[1]); err != nil {
		return fmt.Errorf("cannot delete %s: %w", args[1], err)
	}
	return nil
}

func mountCommand(c *Commander, args []string, _ []string) error {
	if len(args) < 2 {
		return nil
	}
	var letter rune
	var image string
	for _, arg := range args[1:] {
		if value, ok := strings.CutPrefix(arg, "-d="); ok {
			r, _ := utf8.DecodeRuneInString(value)
			if r == utf8.RuneError {
				r = 0
			}
			letter = unicode.ToUpper(r)
		} else {
			image = arg
		}
	}
	if image == "" {
		c.printf("\nmount: no image file given\n\n")
		return nil
	}
	used, err := c.Mounter.Mount(image, letter)
	if err != nil {
		return fmt.Errorf("cannot mount %s: %w", image, err)
	}
	c.printf("%s mounted as %c:\n", image, used)
	return nil
}

// setCommand lists variables, assigns one or lists those whose names
// match a filter. A filter with wildcards is a mask, otherwise any name
// containing it matches.
func setCommand(c *Commander, args []string, _ []string) error {
	if len(args) < 2 {
		return c.page(c.Env.Environ())
	}
	rest := strings.Join(args[1:], " ")
	if strings.Contains(rest, "=") {
		name, value, ok := environ.ParseAssignment(rest)
		if !ok {
			c.printf("\nset: invalid assignment %s\n\n", rest)
			return nil
		}
		if err := c.Env.Set(name, value); err != nil {
			c.printf("\nset: %v\n\n", err)
		}
		return nil
	}

	filter := pattern.Compile(rest, " ", pattern.ICase)
	defer filter.Release()
	wildcards := strings.ContainsAny(rest, "*?")
	var lines []string
	for _, variable := range c.Env.Environ() {
		name, _, _ := strings.Cut(variable, "=")
		if (wildcards && filter.Match(name)) || (!wildcards && filter.Contains(name)) {
			lines = append(lines, variable)
		}
	}
	if len(lines) == 0 {
		c.printf("No variables match %s\n", rest)
		return nil
	}
	return c.page(lines)
}

func historyCommand(c *Commander, _ []string, _ []string) error {
	return c.page(c.History.Entries())
}

func typeCommand(c *Commander, args []string, _ []string) error {
	if len(args) < 2 {
		return nil
	}
	data, err := c.FS.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", args[1], err)
	}
	text, _ := charset.StripBOM(data)
	lines := strings.Split(strings.TrimRight(text, "\r\n"), "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	return c.page(lines)
}

func pauseCommand(c *Commander, args []string, _ []string) error {
	message := pager.DefaultPrompt
	if len(args) > 1 {
		message = strings.Join(args[1:], " ")
	}
	c.Display.Write(message)
	_, err := c.Keys.ReadKey(types.Infinite)
	c.Display.Write("\n")
	if err != nil {
		return fmt.Errorf("pause: %w", err)
	}
	return nil
}

func evalCommand(c *Commander, args []string, _ []string) error {
	if len(args) < 2 {
		return nil
	}
	result, err := c.Eval(strings.Join(args[1:], " "))
	if err != nil {
		return fmt.Errorf("eval: %w", err)
	}
	c.printf("%s\n", result)
	return nil
}
