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
	"errors"
	"sync"
	"time"

	"github.com/timburks/naoh/types"
)

// ErrClosed is returned by key reads after the screen was closed.
var ErrClosed = errors.New("screen closed")

type keyResult struct {
	ev  types.Event
	err error
}

// keyPump reads keys from a blocking poll function on its own goroutine
// so that reads can time out. The goroutine stops after the first error.
type keyPump struct {
	poll func() (types.Event, error)
	once sync.Once
	keys chan keyResult
}

func newKeyPump(poll func() (types.Event, error)) *keyPump {
	return &keyPump{poll: poll, keys: make(chan keyResult)}
}

func (p *keyPump) run() {
	defer close(p.keys)
	for {
		ev, err := p.poll()
		p.keys <- keyResult{ev: ev, err: err}
		if err != nil {
			return
		}
	}
}

// read waits up to timeout for a key. A negative timeout waits forever
// and a zero timeout only takes a key that is already waiting.
func (p *keyPump) read(timeout time.Duration) (types.Event, error) {
	p.once.Do(func() { go p.run() })

	if timeout == 0 {
		select {
		case r, ok := <-p.keys:
			return result(r, ok)
		default:
			return types.Event{}, types.ErrTimeout
		}
	}

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}
	select {
	case r, ok := <-p.keys:
		return result(r, ok)
	case <-expired:
		return types.Event{}, types.ErrTimeout
	}
}

func result(r keyResult, ok bool) (types.Event, error) {
	if !ok {
		return types.Event{}, ErrClosed
	}
	return r.ev, r.err
}
