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

// Package screentest provides an in-memory display and a scripted key
// source for tests of code that talks to the screen.
package screentest

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/timburks/naoh/types"
)

// ErrNoMoreKeys is returned by a KeyQueue that ran out of keys while the
// caller was willing to wait forever.
var ErrNoMoreKeys = errors.New("no more keys")

// Recorder is a types.Display that keeps everything written to it.
type Recorder struct {
	mu     sync.Mutex
	writes []string
}

func (r *Recorder) Write(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = append(r.writes, text)
}

// String returns all text written so far.
func (r *Recorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return strings.Join(r.writes, "")
}

// Writes returns the individual Write calls.
func (r *Recorder) Writes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.writes...)
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = nil
}

// KeyQueue is a types.KeySource that replays a fixed list of events.
// When the queue is empty a poll times out and a blocking read fails
// with ErrNoMoreKeys.
type KeyQueue struct {
	mu     sync.Mutex
	events []types.Event
	Reads  int // number of ReadKey calls
}

func NewKeyQueue(events ...types.Event) *KeyQueue {
	return &KeyQueue{events: events}
}

// Push appends events to the queue.
func (q *KeyQueue) Push(events ...types.Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, events...)
}

// Type queues one rune event per character of text; '\r' becomes Enter.
func (q *KeyQueue) Type(text string) {
	for _, ch := range text {
		if ch == '\r' {
			q.Push(types.NewKeyEvent(types.KeyEnter, types.ModNone))
			continue
		}
		q.Push(types.NewRuneEvent(ch, types.ModNone))
	}
}

// Len returns the number of events not yet read.
func (q *KeyQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

func (q *KeyQueue) ReadKey(timeout time.Duration) (types.Event, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.Reads++
	if len(q.events) == 0 {
		if timeout < 0 {
			return types.Event{}, ErrNoMoreKeys
		}
		return types.Event{}, types.ErrTimeout
	}
	ev := q.events[0]
	q.events = q.events[1:]
	return ev, nil
}

// Key shortcuts for building queues.
var (
	Enter     = types.NewKeyEvent(types.KeyEnter, types.ModNone)
	Escape    = types.NewKeyEvent(types.KeyEsc, types.ModNone)
	Backspace = types.NewKeyEvent(types.KeyBackspace, types.ModNone)
	Up        = types.NewKeyEvent(types.KeyArrowUp, types.ModNone)
	Down      = types.NewKeyEvent(types.KeyArrowDown, types.ModNone)
	Left      = types.NewKeyEvent(types.KeyArrowLeft, types.ModNone)
	Pause     = types.NewKeyEvent(types.KeyPause, types.ModNone)
	Ctrl      = types.NewKeyEvent(types.KeyCtrl, types.ModNone)
)
