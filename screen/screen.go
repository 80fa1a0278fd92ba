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
	"fmt"
	"os"
	"strings"

	"github.com/timburks/naoh/types"
)

// Backend names accepted by Open.
const (
	BackendTermbox = "termbox"
	BackendTcell   = "tcell"
	BackendStream  = "stream"
)

// A Terminal is everything the shell needs from the screen.
type Terminal interface {
	types.Display
	types.KeySource
	Size() types.Size
	Close() error
}

// Open starts the named backend on the process terminal.
func Open(backend string) (Terminal, error) {
	switch strings.ToLower(backend) {
	case "", BackendTermbox:
		b, err := NewTermbox()
		if err != nil {
			return nil, fmt.Errorf("termbox: %w", err)
		}
		return NewConsole(b), nil
	case BackendTcell:
		b, err := NewTcell()
		if err != nil {
			return nil, fmt.Errorf("tcell: %w", err)
		}
		return NewConsole(b), nil
	case BackendStream:
		return NewStream(os.Stdin, os.Stdout)
	}
	return nil, fmt.Errorf("unknown screen backend %q", backend)
}
