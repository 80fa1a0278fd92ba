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
package host

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"unicode"
)

var ErrNoFreeLetter = errors.New("no free drive letter")

// LoopMounter attaches disk images read-only through mount(8), one
// directory per drive letter under Root.
type LoopMounter struct {
	FS        FileSystem
	Processes Processes
	Root      string
}

func (m *LoopMounter) Mount(image string, letter rune) (rune, error) {
	if letter == 0 {
		l, err := m.freeLetter()
		if err != nil {
			return 0, err
		}
		letter = l
	}
	letter = unicode.ToUpper(letter)
	if letter < 'A' || letter > 'Z' {
		return 0, fmt.Errorf("invalid drive letter %q", letter)
	}
	target := filepath.Join(m.Root, string(letter))
	if _, err := m.FS.ReadDir(target); err != nil {
		if err := m.FS.Mkdir(target); err != nil {
			return 0, fmt.Errorf("create mount point: %w", err)
		}
	}
	status, err := m.Processes.Execute(context.Background(), "mount",
		[]string{"-o", "loop,ro", image, target})
	if err != nil {
		return 0, fmt.Errorf("mount %s: %w", image, err)
	}
	if status != 0 {
		return 0, fmt.Errorf("mount %s: exit status %d", image, status)
	}
	return letter, nil
}

// freeLetter returns the first letter from D whose directory is missing
// or empty.
func (m *LoopMounter) freeLetter() (rune, error) {
	for l := 'D'; l <= 'Z'; l++ {
		entries, err := m.FS.ReadDir(filepath.Join(m.Root, string(l)))
		if err != nil || len(entries) == 0 {
			return l, nil
		}
	}
	return 0, ErrNoFreeLetter
}
