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
package history

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type step struct {
	dir      Direction
	expected string
	ok       bool
}

func walk(t *testing.T, h *History, steps []step) {
	t.Helper()
	for i, s := range steps {
		line, ok := h.Navigate(s.dir)
		if line != s.expected || ok != s.ok {
			t.Errorf("step %d: got (%q, %v), want (%q, %v)", i, line, ok, s.expected, s.ok)
		}
	}
}

func TestLatch(t *testing.T) {
	h := New()
	h.Record("a")
	h.Record("b")
	walk(t, h, []step{
		{Back, "b", true},
		{Back, "a", true},
		{Forward, "b", true},
		{Forward, "b", false},
	})
}

func TestWalkBothEnds(t *testing.T) {
	h := New()
	for _, line := range []string{"dir", "", "echo hi", "exit"} {
		h.Record(line)
	}
	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}
	walk(t, h, []step{
		{Back, "exit", true},
		{Back, "echo hi", true},
		{Back, "dir", true},
		{Back, "dir", true},
		{Forward, "echo hi", true},
		{Forward, "exit", true},
		// reaching the newest entry sets the latch, so back moves
		{Back, "echo hi", true},
	})
}

func TestClearLatch(t *testing.T) {
	h := New()
	h.Record("a")
	h.Record("b")
	walk(t, h, []step{{Back, "b", true}})
	h.ClearLatch()
	// the cursor still rests on the newest entry
	walk(t, h, []step{{Back, "b", true}, {Back, "a", true}})
}

func TestRecordResetsCursor(t *testing.T) {
	h := New()
	h.Record("a")
	h.Record("b")
	walk(t, h, []step{{Back, "b", true}, {Back, "a", true}})
	h.Record("c")
	if line, ok := h.Current(); line != "c" || !ok {
		t.Errorf("Current() = (%q, %v), want (\"c\", true)", line, ok)
	}
	walk(t, h, []step{{Back, "c", true}, {Back, "b", true}})
}

func TestEmpty(t *testing.T) {
	h := New()
	walk(t, h, []step{{Back, "", false}, {Forward, "", false}})
	if _, ok := h.Current(); ok {
		t.Errorf("empty history has no current entry")
	}
	var none *History
	none.Record("x")
	walk(t, none, []step{{Back, "", false}})
}

func TestDestroy(t *testing.T) {
	h := New()
	h.Record("a")
	h.Record("b")
	if diff := cmp.Diff([]string{"a", "b"}, h.Entries()); diff != "" {
		t.Errorf("unexpected entries (-want +got):\n%s", diff)
	}
	h.Destroy()
	if h.Len() != 0 || len(h.Entries()) != 0 {
		t.Errorf("destroy left %d entries", h.Len())
	}
	h.Record("c")
	walk(t, h, []step{{Back, "c", true}})
}
