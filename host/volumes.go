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

import "fmt"

// Volume describes one mounted file system.
type Volume struct {
	Path       string
	Label      string
	FSType     string
	TotalBytes uint64
	FreeBytes  uint64
}

var sizeSuffixes = []string{"B", "KB", "MB", "GB", "TB", "PB"}

// HumanSize formats a byte count with a binary suffix and two decimals,
// for example 1.50KB. Counts below 1024 have no fraction.
func HumanSize(size uint64) string {
	value, frac := size, uint64(0)
	units := 0
	for value >= 1024 && units < len(sizeSuffixes)-1 {
		frac = value % 1024
		value /= 1024
		units++
	}
	if units == 0 {
		return fmt.Sprintf("%d%s", size, sizeSuffixes[0])
	}
	return fmt.Sprintf("%d.%02d%s", value, frac*100/1024, sizeSuffixes[units])
}
