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
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Power settings
const (
	PowerManual = "manual" // ask the user to reboot by hand
	PowerSystem = "system" // reboot through the kernel
)

var (
	Backends = []string{"termbox", "tcell", "stream"}
	Powers   = []string{PowerManual, PowerSystem}
)

type Config struct {
	Prompt       string            `yaml:"prompt"`
	LineWidth    int               `yaml:"line_width"`   // longest interactive line
	DisplayRows  int               `yaml:"display_rows"` // 0 uses the screen height
	TabWidth     int               `yaml:"tab_width"`
	Echo         bool              `yaml:"echo"`
	Backend      string            `yaml:"backend"`
	Script       string            `yaml:"script"` // run at startup and by a bare call
	LogFile      string            `yaml:"log_file"`
	LogLevel     string            `yaml:"log_level"`
	PagingPrompt string            `yaml:"paging_prompt"`
	Power        string            `yaml:"power"`
	MountRoot    string            `yaml:"mount_root,omitempty"` // empty disables mount
	Environment  map[string]string `yaml:"environment,omitempty"`
}

func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Prompt:       "# ",
		LineWidth:    70,
		TabWidth:     2,
		Echo:         true,
		Backend:      "termbox",
		Script:       filepath.Join(home, ".naoh", "naoh.cmd"),
		LogFile:      filepath.Join(home, ".naohlog"),
		LogLevel:     "info",
		PagingPrompt: "Hit any key to continue...",
		Power:        PowerManual,
	}
}

// DefaultPath is ~/.naoh.yaml.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".naoh.yaml")
}

// Load reads the file at path over the defaults. A missing file is not
// an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Backend = strings.ToLower(cfg.Backend)
	cfg.Power = strings.ToLower(cfg.Power)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.LineWidth < 2 {
		return fmt.Errorf("line_width must be at least 2, got %d", c.LineWidth)
	}
	if c.DisplayRows < 0 {
		return fmt.Errorf("display_rows must not be negative, got %d", c.DisplayRows)
	}
	if c.TabWidth < 1 {
		return fmt.Errorf("tab_width must be positive, got %d", c.TabWidth)
	}
	if !slices.Contains(Backends, c.Backend) {
		return fmt.Errorf("invalid backend: %s (valid: %v)", c.Backend, Backends)
	}
	if !slices.Contains(Powers, c.Power) {
		return fmt.Errorf("invalid power: %s (valid: %v)", c.Power, Powers)
	}
	return nil
}
