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
package editor

import (
	"errors"
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/timburks/naoh/history"
	"github.com/timburks/naoh/types"
)

var (
	// ErrBufferOverflow is returned with the line when the user typed
	// more characters than the buffer holds.
	ErrBufferOverflow = errors.New("buffer overflow")
	// ErrInvalidCapacity is returned for a buffer that cannot hold even
	// the terminator.
	ErrInvalidCapacity = errors.New("invalid buffer length")
)

// A LineEditor turns key events into lines of text.
type LineEditor struct {
	Display types.Display
	Keys    types.KeySource
}

func New(display types.Display, keys types.KeySource) *LineEditor {
	return &LineEditor{Display: display, Keys: keys}
}

// ReadLine prints prompt and collects characters until Enter is pressed
// or capacity-1 characters have been typed. Non-empty lines are recorded
// in h, which may be nil. n is the number of characters read including
// the terminator, or -1 when the key source failed.
func (e *LineEditor) ReadLine(prompt string, capacity int, h *history.History) (line string, n int, err error) {
	if capacity <= 0 {
		e.Display.Write(fmt.Sprintf("\nreadline: invalid buffer length %d!\n", capacity))
		return "", -1, fmt.Errorf("%w %d", ErrInvalidCapacity, capacity)
	}

	e.Display.Write(prompt)
	h.ClearLatch()

	// A recalled line may fill the buffer; that only waits for the next
	// key. Overflow happens when a typed character fills it.
	b := NewBuffer(capacity)
	overflow := b.Full()
	for !overflow {
		ev, err := e.Keys.ReadKey(types.Infinite)
		if err != nil {
			return b.String(), -1, fmt.Errorf("read key: %w", err)
		}

		if op := e.editOperation(ev, h); op != nil || isEditKey(ev) {
			width := runewidth.StringWidth(prompt + b.String())
			if op != nil {
				op.Perform(b)
			}
			if ev.Ch == 0x08 || ev.IsEscape() {
				h.ClearLatch()
			}
			e.redraw(prompt+b.String(), width)
			continue
		}
		if ev.Ch == 0 {
			continue
		}

		if ev.Ch == '\r' {
			e.Display.Write("\r")
			e.Display.Write("\n")
			return e.accept(b, h), b.Length() + 1, nil
		}
		if b.Full() {
			break
		}
		e.Display.Write(string(ev.Ch))
		(&Insert{Text: string(ev.Ch)}).Perform(b)
		h.ClearLatch()
		overflow = b.Full()
	}

	e.Display.Write("\nbuffer overflow!\n")
	return e.accept(b, h), b.Length() + 1, ErrBufferOverflow
}

func isEditKey(ev types.Event) bool {
	return ev.Ch == 0x08 || ev.IsEscape() || ev.Scan == types.ScanUp || ev.Scan == types.ScanDown
}

// editOperation maps an editing key to the operation it performs, or nil
// when the key does not change the line.
func (e *LineEditor) editOperation(ev types.Event, h *history.History) Operation {
	switch {
	case ev.IsEscape():
		return &Truncate{}
	case ev.Ch == 0x08:
		return &DeleteCharacter{Multiplier: 1}
	case ev.Scan == types.ScanUp:
		if line, ok := h.Navigate(history.Back); ok {
			return &Recall{Text: line}
		}
	case ev.Scan == types.ScanDown:
		if line, ok := h.Navigate(history.Forward); ok {
			return &Recall{Text: line}
		}
	}
	return nil
}

// redraw overwrites the previous line, padding to its width to erase
// leftovers, then prints it again to leave the cursor after the text.
func (e *LineEditor) redraw(text string, previousWidth int) {
	e.Display.Write("\r" + runewidth.FillRight(text, previousWidth))
	e.Display.Write("\r" + text)
}

func (e *LineEditor) accept(b *Buffer, h *history.History) string {
	line := b.String()
	if line != "" {
		h.Record(line)
	}
	return line
}
