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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEval(t *testing.T) {
	c, _, _ := newTestCommander(t, nil)
	result, err := c.Eval("(+ 1 2)")
	require.NoError(t, err)
	assert.Equal(t, "3", result)

	_, err = c.Eval("(getenv 1)")
	assert.Error(t, err)
}

func TestLispEnvironment(t *testing.T) {
	c, _, _ := newTestCommander(t, nil)
	other, _, _ := newTestCommander(t, nil)

	_, err := c.Eval(`(setenv "COLOR" "blue")`)
	require.NoError(t, err)
	value, ok := c.Env.Get("color")
	require.True(t, ok)
	assert.Equal(t, "blue", value)
	_, ok = other.Env.Get("color")
	assert.False(t, ok, "each shell evaluates in its own frame")

	result, err := c.Eval(`(getenv "COLOR")`)
	require.NoError(t, err)
	assert.Equal(t, "blue", result)

	_, err = c.Eval(`(setenv "COLOR" 1)`)
	assert.Error(t, err)
}

func TestLispRun(t *testing.T) {
	c, display, _ := newTestCommander(t, nil)
	_, err := c.Eval(`(run "echo from lisp")`)
	require.NoError(t, err)
	assert.Equal(t, "from lisp\n", display.String())
}

func TestEvalCommand(t *testing.T) {
	c, display, _ := newTestCommander(t, nil)
	assert.Equal(t, "5\n", run(t, c, display, "eval (+ 2 3)"))
	assert.Equal(t, "", run(t, c, display, "eval"))

	err := c.ProcessLine("eval (getenv 1)")
	require.Error(t, err)
	assert.Contains(t, display.String(), "eval:")
}
