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

const (
	leading1 = 0x80
	leading2 = 0xc0
	leading3 = 0xe0
	leading4 = 0xf0
	leading5 = 0xf8

	trailing3 = 0x07
	trailing4 = 0x0f
	trailing5 = 0x1f
	trailing6 = 0x3f
)

const (
	// Placeholder replaces every character that cannot be converted.
	Placeholder = '?'

	ucs2Limit = 0x10000
	maxRune   = 0x10ffff

	surrogateHighMin = 0xd800
	surrogateHighMax = 0xdbff
	surrogateLowMin  = 0xdc00
	surrogateLowMax  = 0xdfff
)

// A Decoder accumulates one UTF-8 encoded character at a time.
type Decoder struct {
	code  uint32 // partially accumulated code point
	count int    // trailing bytes still expected
}

// Pending reports whether the decoder is in the middle of a character.
func (d *Decoder) Pending() bool {
	return d.count != 0
}

// Rune returns the last completed code point.
func (d *Decoder) Rune() rune {
	return rune(d.code)
}

// Reset drops a partially decoded character.
func (d *Decoder) Reset() {
	d.code = 0
	d.count = 0
}

// Feed processes one byte and returns false if the byte cannot continue
// or start a character. Overlong forms are rejected as invalid.
func (d *Decoder) Feed(c byte) bool {
	if d.count > 0 {
		if c&leading2 != leading1 {
			d.Reset()
			return false
		}
		d.code <<= 6
		d.code |= uint32(c & trailing6)
		d.count--
		if (d.count == 1 && d.code <= 0x1f) || (d.count == 2 && d.code <= 0xf) {
			d.Reset()
			return false
		}
		if d.count == 0 && d.code > maxRune {
			d.code = Placeholder
		}
		return true
	}

	switch {
	case c&leading1 == 0:
		d.code = uint32(c)
		return true
	case c&leading3 == leading2:
		d.count = 1
		d.code = uint32(c & trailing5)
		if d.code <= 1 {
			d.Reset()
			return false
		}
		return true
	case c&leading4 == leading3:
		d.count = 2
		d.code = uint32(c & trailing4)
		return true
	case c&leading5 == leading4:
		d.count = 3
		d.code = uint32(c & trailing3)
		return true
	}
	return false
}

func highSurrogate(code uint32) uint16 {
	return uint16(surrogateHighMin | (((code - ucs2Limit) >> 10) & 0x3ff))
}

func lowSurrogate(code uint32) uint16 {
	return uint16(surrogateLowMin | ((code - ucs2Limit) & 0x3ff))
}

// DecodeUTF8 converts UTF-8 text to UTF-16 code units. At most maxDst units
// are produced; a negative maxDst means no limit. Decoding stops at a zero
// code point, which is consumed but not stored. The second result is the
// number of source bytes consumed. A character that needs a surrogate pair
// is left unconsumed when only one unit of room remains.
func DecodeUTF8(src []byte, maxDst int) ([]uint16, int) {
	if maxDst < 0 || maxDst > len(src) {
		// a byte never yields more than one unit
		maxDst = len(src)
	}
	dst := make([]uint16, 0, maxDst)

	var d Decoder
	i, start := 0, 0
	for i < len(src) && len(dst) < maxDst {
		wasPending := d.Pending()
		if !wasPending {
			start = i
		}
		c := src[i]
		i++
		if !d.Feed(c) {
			d.code = Placeholder
			// the byte may start a valid character, don't eat it
			if wasPending {
				i--
			}
		}
		if d.Pending() {
			continue
		}
		code := d.Rune()
		if code == 0 {
			break
		}
		if code >= ucs2Limit {
			if maxDst-len(dst) < 2 {
				i = start
				break
			}
			dst = append(dst, highSurrogate(uint32(code)), lowSurrogate(uint32(code)))
		} else {
			dst = append(dst, uint16(code))
		}
	}
	return dst, i
}

// EncodeUTF16 converts UTF-16 code units to UTF-8. Unpaired surrogates are
// replaced by the placeholder.
func EncodeUTF16(src []uint16) []byte {
	dst := make([]byte, 0, len(src)*3)
	var high uint32
	for i := 0; i < len(src); i++ {
		code := uint32(src[i])
		if high != 0 {
			if code >= surrogateLowMin && code <= surrogateLowMax {
				code = ((high - surrogateHighMin) << 10) + (code - surrogateLowMin) + ucs2Limit
				dst = appendCode(dst, code)
			} else {
				dst = append(dst, Placeholder)
				// the unit may be valid, don't eat it
				i--
			}
			high = 0
			continue
		}
		switch {
		case code >= surrogateHighMin && code <= surrogateHighMax:
			high = code
		case code >= surrogateLowMin && code <= surrogateLowMax:
			dst = append(dst, Placeholder)
		default:
			dst = appendCode(dst, code)
		}
	}
	if high != 0 {
		dst = append(dst, Placeholder)
	}
	return dst
}

func appendCode(dst []byte, code uint32) []byte {
	switch {
	case code <= 0x7f:
		return append(dst, byte(code))
	case code <= 0x7ff:
		return append(dst,
			byte((code>>6)|0xc0),
			byte((code&0x3f)|0x80))
	case code <= 0xffff:
		return append(dst,
			byte((code>>12)|0xe0),
			byte(((code>>6)&0x3f)|0x80),
			byte((code&0x3f)|0x80))
	default:
		return append(dst,
			byte((code>>18)|0xf0),
			byte(((code>>12)&0x3f)|0x80),
			byte(((code>>6)&0x3f)|0x80),
			byte((code&0x3f)|0x80))
	}
}

// SafeCutPoint returns how many bytes of text[begin:end] can be kept
// without splitting a multi-byte character. It returns 0 if there is no
// such place after begin.
func SafeCutPoint(text []byte, begin, end int) int {
	if begin < 0 {
		begin = 0
	}
	if end > len(text) {
		end = len(text)
	}
	p := end - 1
	for ; p >= begin; p-- {
		if text[p]&leading2 != leading1 {
			break
		}
	}
	if p < begin {
		return 0
	}
	c := text[p]
	switch {
	case c&leading1 == 0:
		return p + 1 - begin
	case c&leading3 == leading2 && p+2 <= end:
		return p + 2 - begin
	case c&leading4 == leading3 && p+3 <= end:
		return p + 3 - begin
	case c&leading5 == leading4 && p+4 <= end:
		return p + 4 - begin
	}
	// invalid or incomplete, cut before it
	return p - begin
}

// DecodeString converts a Go string to UTF-16 code units.
func DecodeString(s string) []uint16 {
	units, _ := DecodeUTF8([]byte(s), -1)
	return units
}

// EncodeString converts UTF-16 code units to a Go string.
func EncodeString(units []uint16) string {
	return string(EncodeUTF16(units))
}
