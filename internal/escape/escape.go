// Package escape handles quoting and unquoting of TOON strings.
package escape

import (
	"errors"
	"unicode/utf8"

	"go4.org/mem"
)

var controlEsc = [...]byte{
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
}

var hexDigit = []byte("0123456789abcdef")

// Quote encodes src as the body of a TOON double-quoted string: control
// bytes below 0x20 are escaped with the named form when one exists
// (\n \r \t) and with \u00XX otherwise, and " and \ are backslash-escaped.
// Unlike JSON, TOON does not escape '/' or non-ASCII separator runes.
func Quote(src mem.RO) []byte {
	buf := make([]byte, 0, src.Len())
	for src.Len() != 0 {
		r, n := mem.DecodeRune(src)
		if r < utf8.RuneSelf {
			switch {
			case r == '\\' || r == '"':
				buf = append(buf, '\\', byte(r))
			case r < ' ':
				if b := controlEsc[r]; b != 0 {
					buf = append(buf, '\\', b)
				} else {
					buf = append(buf, '\\', 'u', '0', '0', hexDigit[r>>4], hexDigit[r&15])
				}
			default:
				buf = append(buf, byte(r))
			}
			src = src.SliceFrom(n)
			continue
		}
		var rbuf [4]byte
		m := utf8.EncodeRune(rbuf[:], r)
		buf = append(buf, rbuf[:m]...)
		src = src.SliceFrom(n)
	}
	return buf
}

// Unquote decodes the body of a TOON double-quoted string (the enclosing
// quotes already stripped). Escapes recognised: \" \\ \n \r \t \uXXXX.
// \uXXXX covers the BMP only; surrogate pairs are not combined.
func Unquote(src mem.RO) ([]byte, error) {
	dec := make([]byte, 0, src.Len())
	i := mem.IndexByte(src, '\\')
	if i < 0 {
		return mem.Append(dec, src), nil
	}
	for src.Len() != 0 {
		i := mem.IndexByte(src, '\\')
		if i < 0 {
			return mem.Append(dec, src), nil
		}
		dec = mem.Append(dec, src.SliceTo(i))
		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return nil, errors.New("escape: incomplete escape sequence")
		}
		c := src.At(0)
		switch c {
		case '"', '\\':
			dec = append(dec, c)
			src = src.SliceFrom(1)
		case 'n':
			dec = append(dec, '\n')
			src = src.SliceFrom(1)
		case 'r':
			dec = append(dec, '\r')
			src = src.SliceFrom(1)
		case 't':
			dec = append(dec, '\t')
			src = src.SliceFrom(1)
		case 'u':
			if src.Len() < 5 {
				return nil, errors.New("escape: truncated \\u escape")
			}
			r, err := decodeHex4(src.SliceFrom(1).SliceTo(4))
			if err != nil {
				return nil, err
			}
			var rbuf [4]byte
			n := utf8.EncodeRune(rbuf[:], r)
			dec = append(dec, rbuf[:n]...)
			src = src.SliceFrom(5)
		default:
			return nil, errors.New("escape: unknown escape sequence")
		}
	}
	return dec, nil
}

func decodeHex4(src mem.RO) (rune, error) {
	var v rune
	for i := 0; i < 4; i++ {
		c := src.At(i)
		var d rune
		switch {
		case c >= '0' && c <= '9':
			d = rune(c - '0')
		case c >= 'a' && c <= 'f':
			d = rune(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = rune(c-'A') + 10
		default:
			return 0, errors.New("escape: invalid hex digit in \\u escape")
		}
		v = v<<4 | d
	}
	return v, nil
}
