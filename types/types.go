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

import (
	"errors"
	"time"
)

// Key read timeouts
const (
	Infinite time.Duration = -1
	NoWait   time.Duration = 0
)

// ErrTimeout is returned by a KeySource when no key arrived in time.
var ErrTimeout = errors.New("key read timed out")

// A Display writes text to the screen with no interpretation beyond
// carriage control.
type Display interface {
	Write(text string)
}

// A KeySource delivers fully translated key events.
// A negative timeout waits forever, a zero timeout polls.
type KeySource interface {
	ReadKey(timeout time.Duration) (Event, error)
}

// Point and Size describe positions on the character grid.
type Point struct {
	Row int
	Col int
}

type Size struct {
	Rows int
	Cols int
}
