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
package types

import "fmt"

type Key int

// Keys
const (
	KeyUnsupported Key = iota
	KeyRune
	KeyEsc
	KeyEnter
	KeyBackspace
	KeyTab
	KeySpace
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeyHome
	KeyEnd
	KeyPgup
	KeyPgdn
	KeyDelete
	KeyPause
	KeyCtrl
)

// ScanCode is the keyboard scan code of a key, as reported by the
// native keyboard driver.
type ScanCode uint16

const (
	ScanNone      ScanCode = 0x00
	ScanEscape    ScanCode = 0x01
	ScanBackspace ScanCode = 0x0e
	ScanTab       ScanCode = 0x0f
	ScanEnter     ScanCode = 0x1c
	ScanControl   ScanCode = 0x1d // also reported for Pause/Break
	ScanSpace     ScanCode = 0x39
	ScanHome      ScanCode = 0x47
	ScanUp        ScanCode = 0x48
	ScanPgup      ScanCode = 0x49
	ScanLeft      ScanCode = 0x4b
	ScanRight     ScanCode = 0x4d
	ScanEnd       ScanCode = 0x4f
	ScanDown      ScanCode = 0x50
	ScanPgdn      ScanCode = 0x51
	ScanDelete    ScanCode = 0x53
)

type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
)

// Event is one key press.
type Event struct {
	Key  Key
	Ch   rune     // character code, zero for keys that produce none
	Scan ScanCode // scan code
	Mod  Modifier // modifier keys held down
}

var scanCodes = map[Key]ScanCode{
	KeyEsc:        ScanEscape,
	KeyEnter:      ScanEnter,
	KeyBackspace:  ScanBackspace,
	KeyTab:        ScanTab,
	KeySpace:      ScanSpace,
	KeyArrowUp:    ScanUp,
	KeyArrowDown:  ScanDown,
	KeyArrowLeft:  ScanLeft,
	KeyArrowRight: ScanRight,
	KeyHome:       ScanHome,
	KeyEnd:        ScanEnd,
	KeyPgup:       ScanPgup,
	KeyPgdn:       ScanPgdn,
	KeyDelete:     ScanDelete,
	KeyPause:      ScanControl,
	KeyCtrl:       ScanControl,
}

var keyChars = map[Key]rune{
	KeyEsc:       0x1b,
	KeyEnter:     '\r',
	KeyBackspace: 0x08,
	KeyTab:       '\t',
	KeySpace:     ' ',
}

// NewKeyEvent builds an event for a special key, filling in the character
// code and scan code the native driver would report for it.
func NewKeyEvent(key Key, mod Modifier) Event {
	ev := Event{Key: key, Ch: keyChars[key], Scan: scanCodes[key], Mod: mod}
	if key == KeyCtrl {
		ev.Mod |= ModCtrl
	}
	return ev
}

// NewRuneEvent builds an event for a printable character.
func NewRuneEvent(ch rune, mod Modifier) Event {
	if ch == ' ' {
		return NewKeyEvent(KeySpace, mod)
	}
	return Event{Key: KeyRune, Ch: ch, Mod: mod}
}

// IsEscape reports whether the event is the escape key.
func (e Event) IsEscape() bool {
	return e.Scan == ScanEscape
}

// IsBreak reports whether the event is the Pause/Break key. It shares its
// scan code with the control key, so a held control modifier rules it out.
func (e Event) IsBreak() bool {
	return e.Scan == ScanControl && e.Mod&ModCtrl == 0
}

func (e Event) String() string {
	return fmt.Sprintf("key=%d ch=%#x scan=%#x mod=%#x", e.Key, e.Ch, e.Scan, e.Mod)
}
