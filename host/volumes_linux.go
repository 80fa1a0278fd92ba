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

//go:build linux

package host

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// MountTable lists the volumes in a mounts file, /proc/mounts by default.
// File systems without blocks, such as proc or sysfs, are left out.
type MountTable struct {
	FS   FileSystem
	Path string
}

func NewMountTable() *MountTable {
	return &MountTable{FS: OSFileSystem{}, Path: "/proc/mounts"}
}

func (m *MountTable) List() ([]Volume, error) {
	data, err := m.FS.ReadFile(m.Path)
	if err != nil {
		return nil, fmt.Errorf("read mount table: %w", err)
	}
	var volumes []Volume
	for _, v := range parseMounts(string(data)) {
		var st unix.Statfs_t
		if err := unix.Statfs(v.Path, &st); err != nil || st.Blocks == 0 {
			continue
		}
		v.TotalBytes = st.Blocks * uint64(st.Bsize)
		v.FreeBytes = st.Bavail * uint64(st.Bsize)
		volumes = append(volumes, v)
	}
	return volumes, nil
}
