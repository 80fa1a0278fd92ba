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
	"bufio"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/timburks/naoh/types"
)

const (
	defaultRows = 25
	defaultCols = 80
)

// A Stream is a display and key source on a byte stream, a terminal in
// raw mode or a pipe. Terminal escape sequences for the cursor and
// editing keys are decoded; Ctrl-C is Break.
type Stream struct {
	reader *bufio.Reader
	out    io.Writer
	pump   *keyPump

	lastCR bool // read side only

	mu       sync.Mutex
	inFd     int
	outFd    int
	oldState *term.State
}

// NewStream puts in into raw mode when it is a terminal.
func NewStream(in, out *os.File) (*Stream, error) {
	s := NewStreamFromReader(in, out)
	s.inFd, s.outFd = int(in.Fd()), int(out.Fd())
	if term.IsTerminal(s.inFd) {
		state, err := term.MakeRaw(s.inFd)
		if err != nil {
			return nil, err
		}
		s.oldState = state
	}
	return s, nil
}

// NewStreamFromReader builds a Stream that never touches terminal modes.
func NewStreamFromReader(in io.Reader, out io.Writer) *Stream {
	s := &Stream{reader: bufio.NewReader(in), out: out, inFd: -1, outFd: -1}
	s.pump = newKeyPump(s.pollKey)
	return s
}

func (s *Stream) Write(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.oldState != nil {
		// raw mode does no output processing
		text = strings.ReplaceAll(text, "\n", "\r\n")
	}
	_, _ = io.WriteString(s.out, text)
}

func (s *Stream) ReadKey(timeout time.Duration) (types.Event, error) {
	return s.pump.read(timeout)
}

// Size reports the terminal size, or 25 by 80 for other streams.
func (s *Stream) Size() types.Size {
	if s.outFd >= 0 {
		if cols, rows, err := term.GetSize(s.outFd); err == nil {
			return types.Size{Rows: rows, Cols: cols}
		}
	}
	return types.Size{Rows: defaultRows, Cols: defaultCols}
}

// Close restores the terminal mode.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.oldState == nil {
		return nil
	}
	err := term.Restore(s.inFd, s.oldState)
	s.oldState = nil
	return err
}

func (s *Stream) pollKey() (types.Event, error) {
	for {
		r, _, err := s.reader.ReadRune()
		if err != nil {
			return types.Event{}, err
		}
		afterCR := s.lastCR
		s.lastCR = r == '\r'
		switch r {
		case 0x1b:
			return s.escapeSequence(), nil
		case '\r':
			return types.NewKeyEvent(types.KeyEnter, 0), nil
		case '\n':
			if afterCR {
				continue
			}
			return types.NewKeyEvent(types.KeyEnter, 0), nil
		case 0x08, 0x7f:
			return types.NewKeyEvent(types.KeyBackspace, 0), nil
		case '\t':
			return types.NewKeyEvent(types.KeyTab, 0), nil
		case 0x03:
			return types.NewKeyEvent(types.KeyPause, 0), nil
		case 0x04:
			return types.Event{}, io.EOF
		}
		if r < 0x20 {
			continue
		}
		return types.NewRuneEvent(r, 0), nil
	}
}

var csiKeys = map[string]types.Key{
	"A":  types.KeyArrowUp,
	"B":  types.KeyArrowDown,
	"C":  types.KeyArrowRight,
	"D":  types.KeyArrowLeft,
	"H":  types.KeyHome,
	"F":  types.KeyEnd,
	"1~": types.KeyHome,
	"7~": types.KeyHome,
	"4~": types.KeyEnd,
	"8~": types.KeyEnd,
	"3~": types.KeyDelete,
	"5~": types.KeyPgup,
	"6~": types.KeyPgdn,
}

// escapeSequence decodes what follows an escape byte. A lone escape, one
// with nothing else already buffered, is the Escape key.
func (s *Stream) escapeSequence() types.Event {
	if s.reader.Buffered() == 0 {
		return types.NewKeyEvent(types.KeyEsc, 0)
	}
	b, err := s.reader.ReadByte()
	if err != nil {
		return types.NewKeyEvent(types.KeyEsc, 0)
	}
	if b != '[' && b != 'O' {
		_ = s.reader.UnreadByte()
		return types.NewKeyEvent(types.KeyEsc, 0)
	}
	var seq []byte
	for s.reader.Buffered() > 0 {
		c, err := s.reader.ReadByte()
		if err != nil {
			break
		}
		seq = append(seq, c)
		if c >= 0x40 && c <= 0x7e {
			break
		}
	}
	if k, ok := csiKeys[string(seq)]; ok {
		return types.NewKeyEvent(k, 0)
	}
	return types.Event{Key: types.KeyUnsupported}
}
