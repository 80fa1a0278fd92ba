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

// An Operation is one edit of the line buffer, created by the editor in
// response to a key.
type Operation interface {
	Perform(b *Buffer)
}

// Insert appends text at the end of the line, as much of it as fits.
type Insert struct {
	Text string
}

func (op *Insert) Perform(b *Buffer) {
	for _, c := range op.Text {
		if !b.AppendChar(c) {
			return
		}
	}
}

// DeleteCharacter removes characters from the end of the line.
type DeleteCharacter struct {
	Multiplier int
}

func (op *DeleteCharacter) Perform(b *Buffer) {
	n := op.Multiplier
	if n == 0 {
		n = 1
	}
	for i := 0; i < n && b.Length() > 0; i++ {
		b.BackspaceChar()
	}
}

// Truncate clears the whole line.
type Truncate struct{}

func (op *Truncate) Perform(b *Buffer) {
	b.Clear()
}

// Recall replaces the line with an entry from the history.
type Recall struct {
	Text string
}

func (op *Recall) Perform(b *Buffer) {
	b.SetText(op.Text)
}
