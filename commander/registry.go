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
package commander

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateCommand = errors.New("command already registered")
	ErrRegistryFrozen   = errors.New("commands cannot be registered after the first dispatch")
)

// A Handler runs one command. args[0] is the command name as typed and
// env is a snapshot of the variables in NAME=VALUE form.
type Handler func(c *Commander, args []string, env []string) error

type Command struct {
	Name    string
	Handler Handler
	Help    string
}

// A Registry is the command table and the two shell flags. Commands are
// kept newest first.
type Registry struct {
	commands []*Command
	frozen   bool

	Echo     bool // scripted lines are shown before they run
	Scripted bool // a script is running
}

func NewRegistry() *Registry {
	return &Registry{Echo: true}
}

// Register adds a command. Names are compared without regard to case.
func (r *Registry) Register(name string, handler Handler, help string) error {
	if r.frozen {
		return fmt.Errorf("%w: %s", ErrRegistryFrozen, name)
	}
	if name == "" || strings.ContainsAny(name, " \t") || handler == nil {
		return fmt.Errorf("invalid command %q", name)
	}
	if _, ok := r.Lookup(name); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, name)
	}
	cmd := &Command{Name: name, Handler: handler, Help: help}
	r.commands = append([]*Command{cmd}, r.commands...)
	return nil
}

func (r *Registry) Lookup(name string) (*Command, bool) {
	for _, cmd := range r.commands {
		if strings.EqualFold(cmd.Name, name) {
			return cmd, true
		}
	}
	return nil, false
}

// Commands returns the registered commands, newest first.
func (r *Registry) Commands() []*Command {
	return append([]*Command(nil), r.commands...)
}

func (r *Registry) Frozen() bool {
	return r.frozen
}

func (r *Registry) freeze() {
	r.frozen = true
}
