package tag

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// DomainAttachment prefixes content hashes of attachment trees.
// Version suffix enables future algorithm migration.
const DomainAttachment = "itemdata/attachment/v1"

// MarshalCanonical renders t as canonical JSON (RFC 8785 shape):
//   - compound keys sorted by UTF-16 code units
//   - strings NFC normalized, no HTML escaping
//   - doubles always carry a fraction or exponent so they stay
//     distinguishable from ints; NaN and infinities are rejected
//   - UUIDs render as their hyphenated string form
//
// The output is for display and fixtures; it does not round-trip kinds.
func MarshalCanonical(t Tag) ([]byte, error) {
	var buf bytes.Buffer
	if err := marshalCanonical(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func marshalCanonical(buf *bytes.Buffer, t Tag) error {
	switch v := t.(type) {
	case nil:
		return fmt.Errorf("absent tag has no canonical form")
	case Int:
		buf.WriteString(strconv.FormatInt(int64(v), 10))
	case Double:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("double %v has no canonical form", f)
		}
		s := strconv.FormatFloat(f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		buf.WriteString(s)
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(v)))
	case String:
		writeCanonicalString(buf, string(v))
	case UUID:
		writeCanonicalString(buf, v.Value().String())
	case List:
		buf.WriteByte('[')
		for i, elem := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := marshalCanonical(buf, elem); err != nil {
				return fmt.Errorf("list[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case Compound:
		keys := v.SortedKeys()
		slices.SortFunc(keys, compareKeysUTF16)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCanonicalString(buf, k)
			buf.WriteByte(':')
			if err := marshalCanonical(buf, v[k]); err != nil {
				return fmt.Errorf("key %q: %w", k, err)
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unsupported tag type %T", t)
	}
	return nil
}

// writeCanonicalString escapes only quote, backslash and control
// characters (U+0000-U+001F). U+2028/U+2029 are written literally.
func writeCanonicalString(buf *bytes.Buffer, s string) {
	s = norm.NFC.String(s)
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}

// compareKeysUTF16 orders strings by UTF-16 code units.
// Go's native string comparison uses UTF-8 bytes, which differs for
// characters outside the BMP.
func compareKeysUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	return slices.Compare(a16, b16)
}

// Hash returns the hex SHA-256 of t's binary form with domain separation.
// Format: SHA256(domain + 0x00 + binary)
// Equal trees hash equally because the binary form sorts compound keys.
func Hash(t Tag) (string, error) {
	data, err := Marshal("", t)
	if err != nil {
		return "", fmt.Errorf("hash: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(DomainAttachment))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}
