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
	"github.com/gdamore/tcell/v2"

	"github.com/timburks/naoh/types"
)

// Tcell is a Backend on tcell, which reports the Pause key.
type Tcell struct {
	screen tcell.Screen
}

func NewTcell() (*Tcell, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	return &Tcell{screen: s}, nil
}

func (t *Tcell) Size() types.Size {
	cols, rows := t.screen.Size()
	return types.Size{Rows: rows, Cols: cols}
}

func (t *Tcell) SetCell(col, row int, ch rune) {
	t.screen.SetContent(col, row, ch, nil, tcell.StyleDefault)
}

func (t *Tcell) SetCursor(col, row int) {
	t.screen.ShowCursor(col, row)
}

func (t *Tcell) Flush() error {
	t.screen.Show()
	return nil
}

func (t *Tcell) PollKey() (types.Event, error) {
	for {
		switch event := t.screen.PollEvent().(type) {
		case nil:
			return types.Event{}, ErrClosed
		case *tcell.EventKey:
			if ev, ok := tcellEvent(event); ok {
				return ev, nil
			}
		case *tcell.EventResize:
			t.screen.Sync()
		case *tcell.EventError:
			return types.Event{}, event
		}
	}
}

func (t *Tcell) Close() error {
	t.screen.Fini()
	return nil
}

func tcellEvent(event *tcell.EventKey) (types.Event, bool) {
	var mod types.Modifier
	m := event.Modifiers()
	if m&tcell.ModShift != 0 {
		mod |= types.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mod |= types.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		mod |= types.ModAlt
	}

	if event.Key() == tcell.KeyRune {
		if mod&types.ModCtrl != 0 && (event.Rune() == 'c' || event.Rune() == 'C') {
			return types.NewKeyEvent(types.KeyPause, mod&^types.ModCtrl), true
		}
		return types.NewRuneEvent(event.Rune(), mod), true
	}
	if event.Key() == tcell.KeyCtrlC {
		return types.NewKeyEvent(types.KeyPause, mod&^types.ModCtrl), true
	}
	k := tcellKey(event.Key())
	if k == types.KeyUnsupported {
		return types.Event{}, false
	}
	return types.NewKeyEvent(k, mod), true
}

func tcellKey(k tcell.Key) types.Key {
	switch k {
	case tcell.KeyEscape:
		return types.KeyEsc
	case tcell.KeyEnter:
		return types.KeyEnter
	case tcell.KeyTab:
		return types.KeyTab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return types.KeyBackspace
	case tcell.KeyDelete:
		return types.KeyDelete
	case tcell.KeyHome:
		return types.KeyHome
	case tcell.KeyEnd:
		return types.KeyEnd
	case tcell.KeyPgUp:
		return types.KeyPgup
	case tcell.KeyPgDn:
		return types.KeyPgdn
	case tcell.KeyUp:
		return types.KeyArrowUp
	case tcell.KeyDown:
		return types.KeyArrowDown
	case tcell.KeyLeft:
		return types.KeyArrowLeft
	case tcell.KeyRight:
		return types.KeyArrowRight
	case tcell.KeyPause:
		return types.KeyPause
	default:
		return types.KeyUnsupported
	}
}
