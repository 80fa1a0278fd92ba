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

	"go.uber.org/zap"

	"github.com/timburks/naoh/charset"
	"github.com/timburks/naoh/types"
)

var ErrNoScript = errors.New("no script given and no default script configured")

// ProcessScript runs every line of a script file. An empty filename runs
// the default script. Pressing Escape stops the script after the current
// line. A command that exits stops the script and the error is returned.
func (c *Commander) ProcessScript(filename string) error {
	if filename == "" {
		filename = c.DefaultScript
	}
	if filename == "" {
		return ErrNoScript
	}
	data, err := c.FS.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("cannot read script %s: %w", filename, err)
	}
	text, enc := charset.StripBOM(data)

	scripted := c.Registry.Scripted
	c.Registry.Scripted = true
	defer func() { c.Registry.Scripted = scripted }()

	logger := c.Logger.With(zap.String("script", filename))
	logger.Debug("script started", zap.Stringer("encoding", enc))
	lines := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\r' || r == '\n'
	})
	for i, line := range lines {
		if err := c.ProcessLine(line); errors.Is(err, ErrExit) {
			logger.Debug("script exited", zap.Int("line", i+1))
			return err
		}
		if ev, err := c.Keys.ReadKey(types.NoWait); err == nil && ev.IsEscape() {
			logger.Info("script aborted", zap.Int("line", i+1))
			return nil
		}
	}
	logger.Debug("script finished", zap.Int("lines", len(lines)))
	return nil
}
