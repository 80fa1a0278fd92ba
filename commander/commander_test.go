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
	"io"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timburks/naoh/host"
	"github.com/timburks/naoh/screen/screentest"
	"github.com/timburks/naoh/types"
)

// memFS is a host.FileSystem in memory.
type memFS struct {
	fstest.MapFS
}

func (m memFS) WriteFile(name string, data []byte) error {
	m.MapFS[name] = &fstest.MapFile{Data: data}
	return nil
}

func (m memFS) Remove(name string) error {
	if _, ok := m.MapFS[name]; !ok {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrNotExist}
	}
	delete(m.MapFS, name)
	return nil
}

func (m memFS) Mkdir(name string) error {
	if _, ok := m.MapFS[name]; ok {
		return &fs.PathError{Op: "mkdir", Path: name, Err: fs.ErrExist}
	}
	m.MapFS[name] = &fstest.MapFile{Mode: fs.ModeDir | 0o755}
	return nil
}

type execCall struct {
	file string
	args []string
}

type fakeProcesses struct {
	calls  []execCall
	status int
	err    error
	stdout io.Writer
	output string
}

func (p *fakeProcesses) Execute(_ context.Context, file string, args []string) (int, error) {
	p.calls = append(p.calls, execCall{file: file, args: args})
	if p.stdout != nil {
		_, _ = io.WriteString(p.stdout, p.output)
	}
	return p.status, p.err
}

type fakeVolumes []host.Volume

func (v fakeVolumes) List() ([]host.Volume, error) {
	return v, nil
}

type fakeMounter struct {
	image  string
	letter rune
}

func (m *fakeMounter) Mount(image string, letter rune) (rune, error) {
	m.image, m.letter = image, letter
	if letter == 0 {
		letter = 'D'
	}
	return letter, nil
}

type fakePower struct {
	reboots int
}

func (p *fakePower) Reboot() error   { p.reboots++; return nil }
func (p *fakePower) Shutdown() error { return nil }

var testTime = time.Date(2024, time.March, 9, 7, 5, 0, 0, time.UTC)

func newTestCommander(t *testing.T, r *Registry) (*Commander, *screentest.Recorder, *screentest.KeyQueue) {
	t.Helper()
	if r == nil {
		r = NewRegistry()
		require.NoError(t, RegisterBuiltins(r))
	}
	display := &screentest.Recorder{}
	keys := screentest.NewKeyQueue()
	c := New(r, display, keys)
	c.FS = memFS{fstest.MapFS{}}
	c.Processes = &fakeProcesses{}
	c.Volumes = fakeVolumes{}
	c.Mounter = &fakeMounter{}
	c.Now = func() time.Time { return testTime }
	return c, display, keys
}

// recorder registers a command that keeps its argument vectors.
func recorder(t *testing.T, r *Registry, name string) *[][]string {
	t.Helper()
	var calls [][]string
	require.NoError(t, r.Register(name, func(_ *Commander, args []string, _ []string) error {
		calls = append(calls, args)
		return nil
	}, name))
	return &calls
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		line     string
		expected []string
	}{
		{"  echo hi  there  ", []string{"echo", "hi", "there"}},
		{"echo\thi\t \tthere", []string{"echo", "hi", "there"}},
		{"ECHO x", []string{"ECHO", "x"}},
		{"echo hi\r\n", []string{"echo", "hi"}},
		{"echo", []string{"echo"}},
	}
	for _, tt := range tests {
		r := NewRegistry()
		calls := recorder(t, r, "echo")
		c, _, _ := newTestCommander(t, r)
		require.NoError(t, c.ProcessLine(tt.line))
		require.Len(t, *calls, 1, "line %q", tt.line)
		assert.Equal(t, tt.expected, (*calls)[0], "line %q", tt.line)
	}
}

func TestNoOpLines(t *testing.T) {
	for _, line := range []string{"", "   ", "\t", "# comment", "  #x", "; note", "@", "@ # quiet"} {
		r := NewRegistry()
		calls := recorder(t, r, "echo")
		c, display, _ := newTestCommander(t, r)
		assert.NoError(t, c.ProcessLine(line))
		assert.Empty(t, *calls, "line %q", line)
		assert.Empty(t, display.String(), "line %q", line)
	}
}

func TestUnknownCommand(t *testing.T) {
	c, display, _ := newTestCommander(t, nil)
	require.NoError(t, c.ProcessLine("  frob  x  "))
	assert.Equal(t, "\nUnknown command: frob  x!\n\n", display.String())
}

func TestExpansion(t *testing.T) {
	c, display, _ := newTestCommander(t, nil)
	require.NoError(t, c.Env.Set("Greeting", "hello"))
	require.NoError(t, c.ProcessLine("echo %greeting% %DATE% %TIME% %MISSING%"))
	assert.Equal(t, "hello 2024-03-09 07-05 %MISSING%\n", display.String())

	_, ok := c.Env.Get("DATE")
	assert.False(t, ok, "DATE outlived the line")
	_, ok = c.Env.Get("TIME")
	assert.False(t, ok, "TIME outlived the line")
}

func TestSnapshotPassedToHandler(t *testing.T) {
	r := NewRegistry()
	var env []string
	require.NoError(t, r.Register("probe", func(_ *Commander, _ []string, e []string) error {
		env = e
		return nil
	}, ""))
	c, _, _ := newTestCommander(t, r)
	require.NoError(t, c.Env.Set("A", "1"))
	require.NoError(t, c.ProcessLine("probe"))
	assert.Equal(t, []string{"A=1"}, env)
}

func TestExpansionFailure(t *testing.T) {
	r := NewRegistry()
	calls := recorder(t, r, "echo")
	c, display, _ := newTestCommander(t, r)
	require.NoError(t, c.Env.Set("BIG", strings.Repeat("x", 20000)))
	err := c.ProcessLine("echo %BIG%%BIG%")
	assert.Error(t, err)
	assert.Empty(t, *calls)
	assert.Contains(t, display.String(), "cannot expand environment variables")
}

func TestHandlerError(t *testing.T) {
	c, display, _ := newTestCommander(t, nil)
	err := c.ProcessLine("del nothing.txt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, display.String(), "cannot delete nothing.txt")
}

func TestEchoInScripts(t *testing.T) {
	c, display, _ := newTestCommander(t, nil)
	c.FS.(memFS).MapFS["s.cmd"] = &fstest.MapFile{
		Data: []byte("\xef\xbb\xbfecho one\r\n\r\n# note\r\n@echo two\n"),
	}
	require.NoError(t, c.ProcessScript("s.cmd"))
	assert.Equal(t, "echo one\none\n# note\ntwo\n", display.String())
	assert.False(t, c.Registry.Scripted)

	// interactive lines are never echoed
	display.Reset()
	require.NoError(t, c.ProcessLine("echo three"))
	assert.Equal(t, "three\n", display.String())
}

func TestEchoOff(t *testing.T) {
	c, display, _ := newTestCommander(t, nil)
	c.FS.(memFS).MapFS["s.cmd"] = &fstest.MapFile{Data: []byte("@echo off\necho one\n")}
	require.NoError(t, c.ProcessScript("s.cmd"))
	assert.Equal(t, "one\n", display.String())
	assert.False(t, c.Registry.Echo)
}

func TestScriptAbort(t *testing.T) {
	c, display, keys := newTestCommander(t, nil)
	c.Registry.Echo = false
	c.FS.(memFS).MapFS["s.cmd"] = &fstest.MapFile{Data: []byte("echo one\necho two\necho three\n")}

	keys.Push(screentest.Escape)
	require.NoError(t, c.ProcessScript("s.cmd"))
	assert.Equal(t, "one\n", display.String())

	// other keys are swallowed without stopping the script
	display.Reset()
	keys.Push(types.NewRuneEvent('x', types.ModNone))
	require.NoError(t, c.ProcessScript("s.cmd"))
	assert.Equal(t, "one\ntwo\nthree\n", display.String())
	assert.Zero(t, keys.Len())
}

func TestScriptUTF16(t *testing.T) {
	c, display, _ := newTestCommander(t, nil)
	c.Registry.Echo = false
	c.FS.(memFS).MapFS["s.cmd"] = &fstest.MapFile{
		Data: []byte{0xff, 0xfe, 'e', 0, 'c', 0, 'h', 0, 'o', 0, ' ', 0, 'h', 0, 'i', 0, '\n', 0},
	}
	require.NoError(t, c.ProcessScript("s.cmd"))
	assert.Equal(t, "hi\n", display.String())
}

func TestScriptExit(t *testing.T) {
	c, display, _ := newTestCommander(t, nil)
	c.Registry.Echo = false
	c.FS.(memFS).MapFS["s.cmd"] = &fstest.MapFile{Data: []byte("echo a\nexit 3\necho b\n")}
	err := c.ProcessScript("s.cmd")
	require.ErrorIs(t, err, ErrExit)
	var exit *ExitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 3, exit.Code)
	assert.Equal(t, "a\n", display.String())
}

func TestScriptMissing(t *testing.T) {
	c, _, _ := newTestCommander(t, nil)
	err := c.ProcessScript("nope.cmd")
	require.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "nope.cmd")

	assert.ErrorIs(t, c.ProcessScript(""), ErrNoScript)

	c.DefaultScript = "auto.cmd"
	c.FS.(memFS).MapFS["auto.cmd"] = &fstest.MapFile{Data: []byte("@echo default\n")}
	require.NoError(t, c.ProcessScript(""))
}

func TestCallNested(t *testing.T) {
	c, display, _ := newTestCommander(t, nil)
	c.Registry.Echo = false
	c.FS.(memFS).MapFS["outer.cmd"] = &fstest.MapFile{Data: []byte("echo outer\ncall inner.cmd\necho back\n")}
	c.FS.(memFS).MapFS["inner.cmd"] = &fstest.MapFile{Data: []byte("echo inner\n")}
	require.NoError(t, c.ProcessLine("call outer.cmd"))
	assert.Equal(t, "outer\ninner\nback\n", display.String())
	assert.False(t, c.Registry.Scripted)
}

func TestInteract(t *testing.T) {
	c, display, keys := newTestCommander(t, nil)
	keys.Type("echo hi\r")
	keys.Type("\r")
	keys.Type("exit 2\r")
	err := c.Interact(DefaultPrompt)
	var exit *ExitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 2, exit.Code)
	assert.Contains(t, display.String(), "# echo hi\r\nhi\n# \r\n# exit 2\r\n")
	assert.Equal(t, []string{"echo hi", "exit 2"}, c.History.Entries())
}

func TestInteractKeyboardFailure(t *testing.T) {
	c, _, keys := newTestCommander(t, nil)
	keys.Type("echo hi\r")
	err := c.Interact(DefaultPrompt)
	assert.ErrorIs(t, err, screentest.ErrNoMoreKeys)
	assert.NotErrorIs(t, err, ErrExit)
}

func TestInteractOverflow(t *testing.T) {
	c, display, keys := newTestCommander(t, nil)
	c.LineWidth = 8
	keys.Type("frobnic")
	keys.Type("exit\r")
	err := c.Interact(DefaultPrompt)
	// the full line still runs and the next keys start a new one
	assert.ErrorIs(t, err, ErrExit)
	assert.Contains(t, display.String(), "\nbuffer overflow!\n\nUnknown command: frobnic!\n\n")
}

func TestDisplayWriter(t *testing.T) {
	display := &screentest.Recorder{}
	w := NewDisplayWriter(display)
	n, err := w.Write([]byte("a\xc3"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	_, _ = w.Write([]byte("\xa9b"))
	assert.Equal(t, []string{"a", "éb"}, display.Writes())

	display.Reset()
	_, _ = w.Write([]byte{0x80, 0x80, 0x80, 0x80})
	assert.Equal(t, []string{"\x80\x80\x80\x80"}, display.Writes())

	// bytes that cannot start a character are not held back
	display.Reset()
	_, _ = w.Write([]byte("ok\xff"))
	_, _ = w.Write([]byte("x\x80"))
	assert.Equal(t, []string{"ok\xff", "x\x80"}, display.Writes())

	display.Reset()
	_, _ = w.Write([]byte("end\xe2\x82"))
	assert.Equal(t, "end", display.String())
	w.Flush()
	assert.Equal(t, "end\xe2\x82", display.String())
	w.Flush()
	assert.Len(t, display.Writes(), 2)
}
