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
	"sync"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/timburks/naoh/types"
)

const tabStop = 8

// A Backend is a grid of character cells with a keyboard.
type Backend interface {
	Size() types.Size
	SetCell(col, row int, ch rune)
	SetCursor(col, row int)
	Flush() error
	// PollKey blocks until a key is pressed.
	PollKey() (types.Event, error)
	Close() error
}

// A Console writes text to a Backend like a teletype.
type Console struct {
	backend Backend
	pump    *keyPump

	mu     sync.Mutex
	size   types.Size
	cells  [][]rune
	cursor types.Point
}

func NewConsole(b Backend) *Console {
	c := &Console{backend: b, pump: newKeyPump(b.PollKey)}
	c.resize(b.Size())
	return c
}

// Size returns the size of the screen.
func (c *Console) Size() types.Size {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Cursor returns the position where the next character goes.
func (c *Console) Cursor() types.Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

// Write prints text at the cursor. \r returns to the first column, \n
// starts a new line, \b steps back and tabs move to the next stop.
func (c *Console) Write(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if size := c.backend.Size(); size != c.size {
		c.resize(size)
		c.repaint()
	}
	if c.size.Rows == 0 || c.size.Cols == 0 {
		return
	}
	for _, ch := range text {
		c.put(ch)
	}
	c.backend.SetCursor(c.cursor.Col, c.cursor.Row)
	_ = c.backend.Flush()
}

func (c *Console) ReadKey(timeout time.Duration) (types.Event, error) {
	return c.pump.read(timeout)
}

func (c *Console) Close() error {
	return c.backend.Close()
}

func (c *Console) put(ch rune) {
	switch {
	case ch == '\r':
		c.cursor.Col = 0
	case ch == '\n':
		c.cursor.Col = 0
		c.lineFeed()
	case ch == '\b':
		if c.cursor.Col > 0 {
			c.cursor.Col--
		}
	case ch == '\t':
		c.cursor.Col = min((c.cursor.Col/tabStop+1)*tabStop, c.size.Cols)
	case ch < 0x20 || ch == 0x7f:
	default:
		width := runewidth.RuneWidth(ch)
		if width == 0 {
			return
		}
		if c.cursor.Col+width > c.size.Cols {
			c.cursor.Col = 0
			c.lineFeed()
		}
		c.setCell(c.cursor.Col, c.cursor.Row, ch)
		if width == 2 && c.cursor.Col+1 < c.size.Cols {
			// the right half of a wide character
			c.cells[c.cursor.Row][c.cursor.Col+1] = 0
		}
		c.cursor.Col += width
	}
}

func (c *Console) setCell(col, row int, ch rune) {
	c.cells[row][col] = ch
	c.backend.SetCell(col, row, ch)
}

func (c *Console) lineFeed() {
	c.cursor.Row++
	if c.cursor.Row < c.size.Rows {
		return
	}
	c.cursor.Row = c.size.Rows - 1
	top := c.cells[0]
	copy(c.cells, c.cells[1:])
	for i := range top {
		top[i] = ' '
	}
	c.cells[c.size.Rows-1] = top
	c.repaint()
}

func (c *Console) repaint() {
	for row, line := range c.cells {
		for col, ch := range line {
			if ch != 0 {
				c.backend.SetCell(col, row, ch)
			}
		}
	}
}

// resize keeps the text that still fits and moves the cursor inside.
func (c *Console) resize(size types.Size) {
	cells := make([][]rune, size.Rows)
	for row := range cells {
		cells[row] = make([]rune, size.Cols)
		for col := range cells[row] {
			cells[row][col] = ' '
		}
		if row < len(c.cells) {
			copy(cells[row], c.cells[row])
		}
	}
	c.cells = cells
	c.size = size
	if c.cursor.Row >= size.Rows {
		c.cursor.Row = max(size.Rows-1, 0)
	}
	if c.cursor.Col >= size.Cols {
		c.cursor.Col = max(size.Cols-1, 0)
	}
}

// Text returns the visible lines, trailing spaces removed.
func (c *Console) Text() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines := make([]string, len(c.cells))
	for row, line := range c.cells {
		text := make([]rune, 0, len(line))
		for _, ch := range line {
			if ch != 0 {
				text = append(text, ch)
			}
		}
		end := len(text)
		for end > 0 && text[end-1] == ' ' {
			end--
		}
		lines[row] = string(text[:end])
	}
	return lines
}
