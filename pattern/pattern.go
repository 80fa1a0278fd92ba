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

// Package pattern is a lightweight alternative to regular expressions.
// Masks support two wildcards: ? matches any single character and *
// matches any run of characters, including an empty one.
package pattern

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

type Flags int

const (
	// ICase makes comparisons case insensitive.
	ICase Flags = 1 << iota
)

// A List holds patterns compiled from a single delimited string.
type List struct {
	Flags    Flags
	backing  string
	patterns []string
}

// Compile splits patterns at every rune found in delimiters. Empty
// fields are dropped, so an empty input yields an empty list.
func Compile(patterns, delimiters string, flags Flags) *List {
	l := &List{Flags: flags}
	if patterns == "" {
		return l
	}
	// private copy, the list never aliases caller memory
	l.backing = strings.Clone(patterns)
	l.patterns = strings.FieldsFunc(l.backing, func(r rune) bool {
		return strings.ContainsRune(delimiters, r)
	})
	return l
}

// Len returns the number of compiled patterns.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.patterns)
}

// Patterns returns a copy of the compiled patterns.
func (l *List) Patterns() []string {
	if l == nil {
		return nil
	}
	return append([]string(nil), l.patterns...)
}

// Match reports whether at least one pattern matches the whole text.
func (l *List) Match(text string) bool {
	if l == nil {
		return false
	}
	for _, p := range l.patterns {
		if Match(text, p, l.Flags) {
			return true
		}
	}
	return false
}

// Contains reports whether at least one pattern occurs in text as a
// plain substring. Wildcards have no special meaning here.
func (l *List) Contains(text string) bool {
	if l == nil {
		return false
	}
	var folder cases.Caser
	if l.Flags&ICase != 0 {
		folder = cases.Fold()
		text = folder.String(text)
	}
	for _, p := range l.patterns {
		if l.Flags&ICase != 0 {
			p = folder.String(p)
		}
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// Release drops the compiled patterns. Releasing twice is harmless.
func (l *List) Release() {
	if l == nil {
		return
	}
	l.Flags = 0
	l.backing = ""
	l.patterns = nil
}

// Match compares text with a single mask.
func Match(text, mask string, flags Flags) bool {
	if mask == "*" {
		return true
	}
	fold := flags&ICase != 0
	return match([]rune(text), []rune(mask), fold)
}

func match(s, m []rune, fold bool) bool {
	for len(s) > 0 && len(m) > 0 {
		cs, cm := s[0], m[0]
		if !equal(cs, cm, fold) && cm != '?' {
			if cm != '*' {
				return false
			}
			for len(m) > 0 && m[0] == '*' {
				m = m[1:]
			}
			if len(m) == 0 {
				return true
			}
			cm = m[0]
			for ; len(s) > 0; s = s[1:] {
				// skip the part of the text that cannot match
				if cm != '?' && !equal(s[0], cm, fold) {
					continue
				}
				if match(s, m, fold) {
					return true
				}
			}
			return false
		}
		s, m = s[1:], m[1:]
	}
	for len(m) > 0 && m[0] == '*' {
		m = m[1:]
	}
	return len(s) == 0 && len(m) == 0
}

func equal(a, b rune, fold bool) bool {
	if a == b {
		return true
	}
	if !fold {
		return false
	}
	return unicode.ToLower(a) == unicode.ToLower(b) || foldEqual(a, b)
}

func foldEqual(a, b rune) bool {
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}
