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

// Package environ is the variable store of the shell. Variable names are
// case insensitive and are referenced in command lines as %NAME%.
package environ

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// MaxExpandedLength is the longest line, in characters, that expansion
// may produce.
const MaxExpandedLength = 32767

var (
	ErrInvalidName = errors.New("invalid variable name")
	ErrTooLong     = errors.New("expanded line too long")
)

type variable struct {
	name  string // as first set
	value string
}

// Env maps variable names to values.
type Env struct {
	vars map[string]variable
}

func New() *Env {
	return &Env{vars: make(map[string]variable)}
}

// FromList builds an Env from NAME=VALUE strings such as os.Environ
// returns. Malformed entries are skipped.
func FromList(list []string) *Env {
	e := New()
	for _, item := range list {
		if name, value, ok := ParseAssignment(item); ok {
			_ = e.Set(name, value)
		}
	}
	return e
}

func key(name string) string {
	return strings.ToUpper(name)
}

// Get returns the value of a variable.
func (e *Env) Get(name string) (string, bool) {
	v, ok := e.vars[key(name)]
	return v.value, ok
}

// Set defines a variable. An empty value removes it.
func (e *Env) Set(name, value string) error {
	if name == "" || strings.ContainsAny(name, "=%") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if value == "" {
		e.Unset(name)
		return nil
	}
	k := key(name)
	if v, ok := e.vars[k]; ok {
		name = v.name
	}
	e.vars[k] = variable{name: name, value: value}
	return nil
}

func (e *Env) Unset(name string) {
	delete(e.vars, key(name))
}

func (e *Env) Len() int {
	return len(e.vars)
}

// Environ returns NAME=VALUE strings sorted by name.
func (e *Env) Environ() []string {
	keys := make([]string, 0, len(e.vars))
	for k := range e.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	list := make([]string, 0, len(keys))
	for _, k := range keys {
		v := e.vars[k]
		list = append(list, v.name+"="+v.value)
	}
	return list
}

// Expand replaces every %NAME% in s with the value of NAME. References
// to unknown variables are left as they are.
func (e *Env) Expand(s string) (string, error) {
	var b strings.Builder
	for {
		start := strings.IndexByte(s, '%')
		if start < 0 {
			b.WriteString(s)
			break
		}
		end := strings.IndexByte(s[start+1:], '%')
		if end < 0 {
			b.WriteString(s)
			break
		}
		end += start + 1
		name := s[start+1 : end]
		if value, ok := e.Get(name); ok && name != "" {
			b.WriteString(s[:start])
			b.WriteString(value)
			s = s[end+1:]
			continue
		}
		// keep the first percent sign, the second may open a reference
		b.WriteString(s[:end])
		s = s[end:]
	}
	out := b.String()
	if n := utf8.RuneCountInString(out); n > MaxExpandedLength {
		return "", fmt.Errorf("%w: %d characters", ErrTooLong, n)
	}
	return out, nil
}

// ParseAssignment splits NAME=VALUE. The name must not be empty.
func ParseAssignment(s string) (name, value string, ok bool) {
	name, value, ok = strings.Cut(s, "=")
	if !ok || name == "" {
		return "", "", false
	}
	return name, value, true
}
