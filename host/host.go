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
package host

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"os/exec"
)

// ErrUnsupported is returned by operations the host cannot perform.
var ErrUnsupported = errors.New("not supported on this host")

type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte) error
	Remove(name string) error
	Mkdir(name string) error
	ReadDir(name string) ([]fs.DirEntry, error)
}

// OSFileSystem uses the real file system.
type OSFileSystem struct{}

func (OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (OSFileSystem) WriteFile(name string, data []byte) error {
	return os.WriteFile(name, data, 0o644)
}

func (OSFileSystem) Remove(name string) error {
	return os.Remove(name)
}

func (OSFileSystem) Mkdir(name string) error {
	return os.Mkdir(name, 0o755)
}

func (OSFileSystem) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

type Processes interface {
	// Execute runs a program and waits for it. The exit status is
	// returned along with any error starting it.
	Execute(ctx context.Context, file string, args []string) (int, error)
}

// OSProcesses runs programs with os/exec.
type OSProcesses struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (p *OSProcesses) Execute(ctx context.Context, file string, args []string) (int, error) {
	cmd := exec.CommandContext(ctx, file, args...)
	cmd.Stdout = p.Stdout
	cmd.Stderr = p.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, err
	}
	return 0, nil
}

type Power interface {
	Reboot() error
	Shutdown() error
}

// ManualPower refuses to change the power state; the user is asked to do
// it by hand.
type ManualPower struct{}

func (ManualPower) Reboot() error   { return ErrUnsupported }
func (ManualPower) Shutdown() error { return ErrUnsupported }

type Volumes interface {
	List() ([]Volume, error)
}

type Mounter interface {
	// Mount attaches a disk image. A zero letter picks a free one.
	// The letter actually used is returned.
	Mount(image string, letter rune) (rune, error)
}

// NoMounter cannot mount anything.
type NoMounter struct{}

func (NoMounter) Mount(string, rune) (rune, error) { return 0, ErrUnsupported }
