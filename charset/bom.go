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
package charset

type Encoding int

const (
	UTF8 Encoding = iota
	UTF16LE
	UTF16BE
)

func (e Encoding) String() string {
	switch e {
	case UTF16LE:
		return "UTF-16LE"
	case UTF16BE:
		return "UTF-16BE"
	default:
		return "UTF-8"
	}
}

// DetectBOM reports the encoding announced by a byte order mark at the
// start of data and the length of the mark. Data without a mark is UTF-8.
func DetectBOM(data []byte) (Encoding, int) {
	switch {
	case len(data) >= 3 && data[0] == 0xef && data[1] == 0xbb && data[2] == 0xbf:
		return UTF8, 3
	case len(data) >= 2 && data[0] == 0xff && data[1] == 0xfe:
		return UTF16LE, 2
	case len(data) >= 2 && data[0] == 0xfe && data[1] == 0xff:
		return UTF16BE, 2
	}
	return UTF8, 0
}

// StripBOM removes a byte order mark and returns the text as UTF-8.
// UTF-16 text is transcoded; an odd trailing byte is dropped.
func StripBOM(data []byte) (string, Encoding) {
	enc, n := DetectBOM(data)
	data = data[n:]
	if enc == UTF8 {
		return string(data), enc
	}
	units := make([]uint16, len(data)/2)
	for i := range units {
		lo, hi := data[2*i], data[2*i+1]
		if enc == UTF16BE {
			lo, hi = hi, lo
		}
		units[i] = uint16(lo) | uint16(hi)<<8
	}
	return string(EncodeUTF16(units)), enc
}
