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

// Package pager displays text a page at a time on a fixed size screen.
// Long lines are wrapped between words where possible, tabs are expanded
// and the user is asked to hit a key after every page. Escape or
// Pause/Break ends the listing early.
package pager

import (
	"errors"
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/timburks/naoh/types"
)

const (
	DefaultTabWidth = 2
	DefaultPrompt   = "Hit any key to continue..."

	// rows kept free for the prompt and the blank lines around it
	promptReserve = 4
)

// ErrInvalidGeometry is returned when paging is requested for a screen
// with no columns or no rows.
var ErrInvalidGeometry = errors.New("invalid page geometry")

var errAbort = errors.New("listing aborted")

type Pager struct {
	Display  types.Display
	Keys     types.KeySource
	TabWidth int
}

func New(display types.Display, keys types.KeySource) *Pager {
	return &Pager{Display: display, Keys: keys, TabWidth: DefaultTabWidth}
}

// Render prints lines. Without paginate every line is written as is.
// Otherwise lines are laid out width columns wide, and after maxRows-4
// rows prompt is shown and a key is awaited. A user abort is not an
// error; a failing key source is.
func (p *Pager) Render(lines []string, width, maxRows int, prompt string, paginate bool) error {
	if !paginate {
		for _, line := range lines {
			p.Display.Write(line + "\n")
		}
		return nil
	}
	if width <= 0 || maxRows <= 0 {
		return fmt.Errorf("%w: %d columns, %d rows", ErrInvalidGeometry, width, maxRows)
	}
	if prompt == "" {
		prompt = DefaultPrompt
	}
	tabWidth := p.TabWidth
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}

	pg := &page{
		pager:    p,
		prompt:   prompt,
		maxRows:  maxRows - promptReserve,
		width:    width,
		tabWidth: tabWidth,
	}
	for i, line := range lines {
		err := pg.layout(line, i == len(lines)-1)
		if errors.Is(err, errAbort) {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// page holds the state of one Render call.
type page struct {
	pager    *Pager
	prompt   string
	maxRows  int
	rows     int
	width    int
	tabWidth int
}

// printLine writes one row and, when the page is full and more text
// follows, waits for a key.
func (pg *page) printLine(text string, last bool) error {
	d := pg.pager.Display
	d.Write(text + "\n")
	pg.rows++
	if pg.rows != pg.maxRows || last {
		return nil
	}
	pg.rows = 0
	d.Write("\n" + pg.prompt + "\n")
	ev, err := pg.pager.Keys.ReadKey(types.Infinite)
	if err != nil {
		return fmt.Errorf("read key: %w", err)
	}
	d.Write("\n")
	if ev.IsEscape() || ev.IsBreak() {
		return errAbort
	}
	return nil
}

// layout splits one string into rows. last is set for the final string,
// whose final row never triggers a page break.
func (pg *page) layout(s string, last bool) error {
	text := []rune(s)
	var line row
	flush := func() error {
		err := pg.printLine(line.String(), false)
		line.reset()
		return err
	}

	for j := 0; j < len(text); j++ {
		c := text[j]
		if c == '\n' || c == '\r' {
			if err := flush(); err != nil {
				return err
			}
			j++
			if j == len(text) {
				break
			}
			next := text[j]
			if next == '\n' || next == '\r' {
				// \r\n and \n\r end one line, a repeat starts another
				if next == c {
					j--
				}
				continue
			}
			c = next
		}

		if c == '\t' {
			for k := 0; k < pg.tabWidth; k++ {
				line.add(' ')
				if line.cols >= pg.width {
					if j == len(text)-1 {
						return pg.printLine(line.String(), last)
					}
					// the rest of the tab is dropped
					if err := flush(); err != nil {
						return err
					}
					break
				}
			}
			continue
		}

		line.add(c)
		if line.cols < pg.width {
			continue
		}
		if j == len(text)-1 {
			return pg.printLine(line.String(), last)
		}
		if k := line.lastSpace(); k >= 0 {
			rest := append([]rune(nil), line.text[k+1:]...)
			line.truncate(k)
			if err := flush(); err != nil {
				return err
			}
			line.set(rest)
		} else if err := flush(); err != nil {
			return err
		}
	}
	return pg.printLine(line.String(), last)
}

// row is the line being assembled, with its width in screen columns.
type row struct {
	text []rune
	cols int
}

func (r *row) add(c rune) {
	r.text = append(r.text, c)
	r.cols += runewidth.RuneWidth(c)
}

func (r *row) set(text []rune) {
	r.reset()
	for _, c := range text {
		r.add(c)
	}
}

func (r *row) truncate(n int) {
	r.text = r.text[:n]
	r.cols = runewidth.StringWidth(string(r.text))
}

func (r *row) reset() {
	r.text = r.text[:0]
	r.cols = 0
}

func (r *row) lastSpace() int {
	for k := len(r.text) - 1; k >= 0; k-- {
		if r.text[k] == ' ' {
			return k
		}
	}
	return -1
}

func (r *row) String() string {
	return string(r.text)
}
