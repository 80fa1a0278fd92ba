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

import "strings"

// parseMounts reads the fstab format used by /proc/mounts. Octal escapes
// in paths are decoded. Duplicate mount points keep the last entry.
func parseMounts(text string) []Volume {
	var volumes []Volume
	seen := make(map[string]int)
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		v := Volume{
			Label:  unescapeMount(fields[0]),
			Path:   unescapeMount(fields[1]),
			FSType: fields[2],
		}
		if i, ok := seen[v.Path]; ok {
			volumes[i] = v
			continue
		}
		seen[v.Path] = len(volumes)
		volumes = append(volumes, v)
	}
	return volumes
}

func unescapeMount(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) && isOctal(s[i+1]) && isOctal(s[i+2]) && isOctal(s[i+3]) {
			b.WriteByte((s[i+1]-'0')<<6 | (s[i+2]-'0')<<3 | (s[i+3] - '0'))
			i += 3
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isOctal(c byte) bool {
	return c >= '0' && c <= '7'
}
