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
	"github.com/nsf/termbox-go"

	"github.com/timburks/naoh/types"
)

// Termbox is a Backend on termbox-go. Termbox cannot see the Pause key,
// so Ctrl-C stands in for Break.
type Termbox struct{}

func NewTermbox() (*Termbox, error) {
	if err := termbox.Init(); err != nil {
		return nil, err
	}
	termbox.SetInputMode(termbox.InputEsc | termbox.InputAlt)
	return &Termbox{}, nil
}

func (t *Termbox) Size() types.Size {
	cols, rows := termbox.Size()
	return types.Size{Rows: rows, Cols: cols}
}

func (t *Termbox) SetCell(col, row int, ch rune) {
	termbox.SetCell(col, row, ch, termbox.ColorDefault, termbox.ColorDefault)
}

func (t *Termbox) SetCursor(col, row int) {
	termbox.SetCursor(col, row)
}

func (t *Termbox) Flush() error {
	return termbox.Flush()
}

func (t *Termbox) PollKey() (types.Event, error) {
	for {
		event := termbox.PollEvent()
		switch event.Type {
		case termbox.EventKey:
			if ev, ok := termboxEvent(event); ok {
				return ev, nil
			}
		case termbox.EventResize:
			termbox.Flush()
		case termbox.EventInterrupt:
			return types.Event{}, ErrClosed
		case termbox.EventError:
			return types.Event{}, event.Err
		}
	}
}

func (t *Termbox) Close() error {
	termbox.Interrupt()
	termbox.Close()
	return nil
}

func termboxEvent(event termbox.Event) (types.Event, bool) {
	var mod types.Modifier
	if event.Mod&termbox.ModAlt != 0 {
		mod |= types.ModAlt
	}
	if event.Ch != 0 {
		return types.NewRuneEvent(event.Ch, mod), true
	}
	k := termboxKey(event.Key)
	if k == types.KeyUnsupported {
		return types.Event{}, false
	}
	return types.NewKeyEvent(k, mod), true
}

func termboxKey(k termbox.Key) types.Key {
	switch k {
	case termbox.KeyArrowDown:
		return types.KeyArrowDown
	case termbox.KeyArrowLeft:
		return types.KeyArrowLeft
	case termbox.KeyArrowRight:
		return types.KeyArrowRight
	case termbox.KeyArrowUp:
		return types.KeyArrowUp
	case termbox.KeyBackspace, termbox.KeyBackspace2:
		return types.KeyBackspace
	case termbox.KeyCtrlC:
		return types.KeyPause
	case termbox.KeyDelete:
		return types.KeyDelete
	case termbox.KeyEnd:
		return types.KeyEnd
	case termbox.KeyEnter:
		return types.KeyEnter
	case termbox.KeyEsc:
		return types.KeyEsc
	case termbox.KeyHome:
		return types.KeyHome
	case termbox.KeyPgdn:
		return types.KeyPgdn
	case termbox.KeyPgup:
		return types.KeyPgup
	case termbox.KeySpace:
		return types.KeySpace
	case termbox.KeyTab:
		return types.KeyTab
	default:
		return types.KeyUnsupported
	}
}
