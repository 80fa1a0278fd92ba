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
package screen

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/timburks/naoh/types"
)

// gridBackend is an in-memory Backend.
type gridBackend struct {
	mu      sync.Mutex
	size    types.Size
	cells   map[types.Point]rune
	cursor  types.Point
	flushes int
	keys    chan types.Event
	closed  bool
}

func newGridBackend(rows, cols int) *gridBackend {
	return &gridBackend{
		size:  types.Size{Rows: rows, Cols: cols},
		cells: make(map[types.Point]rune),
		keys:  make(chan types.Event, 16),
	}
}

func (g *gridBackend) Size() types.Size {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.size
}

func (g *gridBackend) SetCell(col, row int, ch rune) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cells[types.Point{Row: row, Col: col}] = ch
}

func (g *gridBackend) SetCursor(col, row int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cursor = types.Point{Row: row, Col: col}
}

func (g *gridBackend) Flush() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.flushes++
	return nil
}

func (g *gridBackend) PollKey() (types.Event, error) {
	ev, ok := <-g.keys
	if !ok {
		return types.Event{}, ErrClosed
	}
	return ev, nil
}

func (g *gridBackend) Close() error {
	close(g.keys)
	return nil
}

func (g *gridBackend) row(r int) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var b strings.Builder
	for c := 0; c < g.size.Cols; c++ {
		ch, ok := g.cells[types.Point{Row: r, Col: c}]
		if !ok {
			ch = ' '
		}
		b.WriteRune(ch)
	}
	return strings.TrimRight(b.String(), " ")
}

func TestConsoleWrite(t *testing.T) {
	g := newGridBackend(4, 10)
	c := NewConsole(g)
	c.Write("# dir\r\n")
	c.Write("abc\rX")
	c.Write("\tT")
	expected := []string{"# dir", "Xbc     T", "", ""}
	if diff := cmp.Diff(expected, c.Text()); diff != "" {
		t.Errorf("unexpected screen (-want +got):\n%s", diff)
	}
	if got := g.row(1); got != "Xbc     T" {
		t.Errorf("backend row 1 holds %q", got)
	}
	if g.cursor != (types.Point{Row: 1, Col: 9}) {
		t.Errorf("cursor at %+v", g.cursor)
	}
	if g.flushes != 3 {
		t.Errorf("flushed %d times, want once per write", g.flushes)
	}
}

func TestConsoleWrapAndScroll(t *testing.T) {
	g := newGridBackend(3, 4)
	c := NewConsole(g)
	c.Write("abcdefgh\nij\nkl")
	expected := []string{"efgh", "ij", "kl"}
	if diff := cmp.Diff(expected, c.Text()); diff != "" {
		t.Errorf("unexpected screen (-want +got):\n%s", diff)
	}
	for row, line := range expected {
		if got := g.row(row); got != line {
			t.Errorf("backend row %d holds %q, want %q", row, got, line)
		}
	}
}

func TestConsoleBackspaceAndControl(t *testing.T) {
	c := NewConsole(newGridBackend(2, 10))
	c.Write("ab\bX\x07\x1bc")
	if got := c.Text()[0]; got != "aXc" {
		t.Errorf("got %q", got)
	}
}

func TestConsoleWide(t *testing.T) {
	c := NewConsole(newGridBackend(2, 5))
	c.Write("日本語")
	expected := []string{"日本", "語"}
	if diff := cmp.Diff(expected, c.Text()); diff != "" {
		t.Errorf("unexpected screen (-want +got):\n%s", diff)
	}
}

func TestConsoleResize(t *testing.T) {
	g := newGridBackend(3, 10)
	c := NewConsole(g)
	c.Write("one\ntwo\nthree")
	g.mu.Lock()
	g.size = types.Size{Rows: 2, Cols: 4}
	g.mu.Unlock()
	c.Write("!")
	if c.Size() != (types.Size{Rows: 2, Cols: 4}) {
		t.Errorf("size not updated: %+v", c.Size())
	}
	if got := c.Cursor(); got.Row > 1 || got.Col > 4 {
		t.Errorf("cursor %+v is off the screen", got)
	}
}

func TestConsoleReadKey(t *testing.T) {
	g := newGridBackend(2, 10)
	c := NewConsole(g)

	if _, err := c.ReadKey(20 * time.Millisecond); !errors.Is(err, types.ErrTimeout) {
		t.Errorf("expected a timeout, got %v", err)
	}
	g.keys <- types.NewRuneEvent('a', 0)
	ev, err := c.ReadKey(types.Infinite)
	if err != nil || ev.Ch != 'a' {
		t.Errorf("got (%v, %v)", ev, err)
	}
	g.keys <- types.NewKeyEvent(types.KeyEsc, 0)
	ev, err = c.ReadKey(time.Second)
	if err != nil || !ev.IsEscape() {
		t.Errorf("got (%v, %v)", ev, err)
	}

	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ReadKey(types.Infinite); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if _, err := c.ReadKey(types.Infinite); !errors.Is(err, ErrClosed) {
		t.Errorf("reads after close keep failing, got %v", err)
	}
}

func TestPollDoesNotWait(t *testing.T) {
	calls := make(chan struct{})
	p := newKeyPump(func() (types.Event, error) {
		<-calls
		return types.NewRuneEvent('x', 0), nil
	})
	start := time.Now()
	if _, err := p.read(types.NoWait); !errors.Is(err, types.ErrTimeout) {
		t.Errorf("expected a timeout, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Errorf("a poll blocked")
	}
	close(calls)
}
