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
package pager

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/timburks/naoh/screen/screentest"
	"github.com/timburks/naoh/types"
)

func rows(output string) []string {
	return strings.Split(strings.TrimSuffix(output, "\n"), "\n")
}

func TestLayout(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		width    int
		expected []string
	}{
		{
			name:     "word wrap",
			input:    []string{"hello world foo"},
			width:    10,
			expected: []string{"hello", "world foo"},
		},
		{
			name:     "hard break",
			input:    []string{"abcdefghijkl"},
			width:    5,
			expected: []string{"abcde", "fghij", "kl"},
		},
		{
			name:     "exact fit",
			input:    []string{"abcde"},
			width:    5,
			expected: []string{"abcde"},
		},
		{
			name:     "tab expansion",
			input:    []string{"a\tb"},
			width:    10,
			expected: []string{"a  b"},
		},
		{
			name:     "tab across the boundary",
			input:    []string{"abcd\tef"},
			width:    5,
			expected: []string{"abcd ", "ef"},
		},
		{
			name:     "line endings",
			input:    []string{"a\r\nb\n\rc\rd"},
			width:    10,
			expected: []string{"a", "b", "c", "d"},
		},
		{
			name:     "repeated line endings",
			input:    []string{"a\n\nb\r\n\r\nc"},
			width:    10,
			expected: []string{"a", "", "b", "", "c"},
		},
		{
			name:     "trailing newline",
			input:    []string{"x\n"},
			width:    10,
			expected: []string{"x", ""},
		},
		{
			name:     "empty string",
			input:    []string{"", "y"},
			width:    10,
			expected: []string{"", "y"},
		},
		{
			name:     "wide characters",
			input:    []string{"日本語日本語"},
			width:    4,
			expected: []string{"日本", "語日", "本語"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			display := &screentest.Recorder{}
			p := New(display, screentest.NewKeyQueue())
			if err := p.Render(tt.input, tt.width, 100, "", true); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.expected, rows(display.String())); diff != "" {
				t.Errorf("unexpected rows (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVerbatim(t *testing.T) {
	display := &screentest.Recorder{}
	p := New(display, nil)
	if err := p.Render([]string{"a\tb", "c"}, 0, 0, "", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := display.String(); got != "a\tb\nc\n" {
		t.Errorf("display shows %q", got)
	}
}

func TestPageBreak(t *testing.T) {
	display := &screentest.Recorder{}
	keys := screentest.NewKeyQueue(types.NewRuneEvent('x', 0))
	p := New(display, keys)
	// six rows leave two for text
	if err := p.Render([]string{"1", "2", "3"}, 10, 6, "", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := "1\n2\n\nHit any key to continue...\n\n3\n"
	if got := display.String(); got != expected {
		t.Errorf("display shows %q, want %q", got, expected)
	}
	if keys.Len() != 0 {
		t.Errorf("the key was not consumed")
	}
}

func TestNoBreakAfterLastLine(t *testing.T) {
	display := &screentest.Recorder{}
	keys := screentest.NewKeyQueue()
	p := New(display, keys)
	if err := p.Render([]string{"1", "2"}, 10, 6, "more", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if keys.Reads != 0 {
		t.Errorf("a full final page should not wait for a key")
	}
}

func TestAbort(t *testing.T) {
	tests := []struct {
		name    string
		key     types.Event
		aborted bool
	}{
		{"escape", screentest.Escape, true},
		{"pause", screentest.Pause, true},
		{"control", screentest.Ctrl, false},
		{"space", types.NewRuneEvent(' ', 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			display := &screentest.Recorder{}
			keys := screentest.NewKeyQueue(tt.key, tt.key)
			p := New(display, keys)
			err := p.Render([]string{"1", "2", "3"}, 10, 6, "next", true)
			if err != nil {
				t.Fatalf("an abort is not an error: %v", err)
			}
			shown := strings.Contains(display.String(), "3\n")
			if shown == tt.aborted {
				t.Errorf("third line shown: %v, aborted: %v", shown, tt.aborted)
			}
		})
	}
}

func TestReadFailure(t *testing.T) {
	display := &screentest.Recorder{}
	p := New(display, screentest.NewKeyQueue())
	err := p.Render([]string{"1", "2", "3"}, 10, 6, "", true)
	if !errors.Is(err, screentest.ErrNoMoreKeys) {
		t.Errorf("expected the key source error, got %v", err)
	}
}

func TestInvalidGeometry(t *testing.T) {
	p := New(&screentest.Recorder{}, screentest.NewKeyQueue())
	for _, g := range [][2]int{{0, 24}, {70, 0}, {-1, 24}} {
		if err := p.Render([]string{"x"}, g[0], g[1], "", true); !errors.Is(err, ErrInvalidGeometry) {
			t.Errorf("%v: expected ErrInvalidGeometry, got %v", g, err)
		}
	}
}

func TestTabWidth(t *testing.T) {
	display := &screentest.Recorder{}
	p := &Pager{Display: display, Keys: screentest.NewKeyQueue(), TabWidth: 4}
	if err := p.Render([]string{"\tx"}, 20, 24, "", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := display.String(); got != "    x\n" {
		t.Errorf("display shows %q", got)
	}
}
