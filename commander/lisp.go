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
	"sync"
	"unsafe"

	"github.com/steelseries/golisp"
)

const shellObjectType = "naoh-shell"

var lispOnce sync.Once

// The primitives are global in golisp. Each Commander evaluates in its
// own frame, which binds *shell* to the Commander the primitives act on.
func registerPrimitives() {
	golisp.MakePrimitiveFunction("getenv", "1", getenvImpl)
	golisp.MakePrimitiveFunction("setenv", "2", setenvImpl)
	golisp.MakePrimitiveFunction("run", "1", runImpl)
}

func (c *Commander) lispFrame() *golisp.SymbolTableFrame {
	lispOnce.Do(registerPrimitives)
	if c.lisp == nil {
		c.lisp = golisp.NewSymbolTableFrameBelow(golisp.Global, "naoh")
		c.lisp.BindLocallyTo(golisp.Intern("*shell*"), golisp.ObjectWithTypeAndValue(shellObjectType, unsafe.Pointer(c)))
	}
	return c.lisp
}

// Eval evaluates one lisp expression and returns its printed value.
// Strings are returned without quotes.
func (c *Commander) Eval(source string) (string, error) {
	value, err := golisp.ParseAndEvalInEnvironment(source, c.lispFrame())
	if err != nil {
		return "", err
	}
	if golisp.StringP(value) {
		return golisp.StringValue(value), nil
	}
	return golisp.String(value), nil
}

func shellFrom(env *golisp.SymbolTableFrame) (*Commander, error) {
	d := env.ValueOf(golisp.Intern("*shell*"))
	if !golisp.ObjectP(d) || golisp.ObjectType(d) != shellObjectType {
		return nil, errors.New("not running inside a shell")
	}
	return (*Commander)(golisp.ObjectValue(d)), nil
}

func getenvImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	c, err := shellFrom(env)
	if err != nil {
		return nil, err
	}
	name := golisp.Car(args)
	if !golisp.StringP(name) {
		return nil, errors.New("getenv requires a string argument")
	}
	value, ok := c.Env.Get(golisp.StringValue(name))
	if !ok {
		return golisp.EmptyCons(), nil
	}
	return golisp.StringWithValue(value), nil
}

func setenvImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	c, err := shellFrom(env)
	if err != nil {
		return nil, err
	}
	name, value := golisp.Car(args), golisp.Cadr(args)
	if !golisp.StringP(name) || !golisp.StringP(value) {
		return nil, errors.New("setenv requires string arguments")
	}
	if err := c.Env.Set(golisp.StringValue(name), golisp.StringValue(value)); err != nil {
		return nil, err
	}
	return value, nil
}

// runImpl runs a command line and returns true when it succeeded.
func runImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	c, err := shellFrom(env)
	if err != nil {
		return nil, err
	}
	line := golisp.Car(args)
	if !golisp.StringP(line) {
		return nil, errors.New("run requires a string argument")
	}
	if err := c.ProcessLine(golisp.StringValue(line)); err != nil {
		if errors.Is(err, ErrExit) {
			return nil, err
		}
		return golisp.BooleanWithValue(false), nil
	}
	return golisp.BooleanWithValue(true), nil
}
