package tag

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ErrSyntax is returned by Parse for text that is not a valid tag.
var ErrSyntax = errors.New("tag: invalid text form")

// Format renders t in the stringified text form:
//
//	{count:3,flag:1b,id:"minecraft:stone",pos:{x:1,y:64,z:-2},speed:0.5d}
//
// Compound keys are sorted. A nil tag renders as the empty string.
func Format(t Tag) string {
	var sb strings.Builder
	format(&sb, t)
	return sb.String()
}

func format(sb *strings.Builder, t Tag) {
	switch v := t.(type) {
	case nil:
	case Int:
		sb.WriteString(strconv.FormatInt(int64(v), 10))
	case Double:
		sb.WriteString(formatDouble(float64(v)))
		sb.WriteByte('d')
	case Bool:
		if v {
			sb.WriteString("1b")
		} else {
			sb.WriteString("0b")
		}
	case String:
		sb.WriteString(quote(string(v)))
	case UUID:
		sb.WriteString("[I;")
		for i, part := range uuidInts(uuid.UUID(v)) {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.FormatInt(int64(part), 10))
		}
		sb.WriteByte(']')
	case List:
		sb.WriteByte('[')
		for i, elem := range v {
			if i > 0 {
				sb.WriteByte(',')
			}
			format(sb, elem)
		}
		sb.WriteByte(']')
	case Compound:
		sb.WriteByte('{')
		for i, k := range v.SortedKeys() {
			if i > 0 {
				sb.WriteByte(',')
			}
			if isBareWord(k) {
				sb.WriteString(k)
			} else {
				sb.WriteString(quote(k))
			}
			sb.WriteByte(':')
			format(sb, v[k])
		}
		sb.WriteByte('}')
	}
}

// formatDouble spells non-finite values as NaN, Infinity and -Infinity.
func formatDouble(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	sb.WriteByte('"')
	return sb.String()
}

func isBareChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '_' || c == '-' || c == '.' || c == '+'
}

func isBareWord(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isBareChar(s[i]) {
			return false
		}
	}
	return true
}

func uuidInts(id uuid.UUID) [4]int32 {
	var out [4]int32
	for i := range out {
		b := id[i*4 : i*4+4]
		out[i] = int32(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]))
	}
	return out
}

func uuidFromInts(parts [4]int32) uuid.UUID {
	var id uuid.UUID
	for i, p := range parts {
		u := uint32(p)
		id[i*4] = byte(u >> 24)
		id[i*4+1] = byte(u >> 16)
		id[i*4+2] = byte(u >> 8)
		id[i*4+3] = byte(u)
	}
	return id
}

// Parse reads a tag from its text form. Unquoted words are typed by suffix:
// "1b" is a boolean, "1.5d" (or any decimal) a double, a plain integer an
// int, "true"/"false" booleans, and anything else a string. NaNd, Infinityd
// and -Infinityd are the non-finite doubles. Lists must not mix element kinds.
func Parse(s string) (Tag, error) {
	p := &parser{src: s}
	p.skipSpace()
	t, err := p.value(0)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected trailing input %q", p.src[p.pos:])
	}
	return t, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: offset %d: %s", ErrSyntax, p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) expect(c byte) error {
	p.skipSpace()
	if p.peek() != c {
		return p.errorf("expected %q", c)
	}
	p.pos++
	return nil
}

func (p *parser) value(depth int) (Tag, error) {
	if depth > MaxDepth {
		return nil, ErrDepth
	}
	p.skipSpace()
	switch c := p.peek(); {
	case c == 0:
		return nil, p.errorf("unexpected end of input")
	case c == '{':
		return p.compound(depth)
	case c == '[':
		return p.list(depth)
	case c == '"' || c == '\'':
		s, err := p.quoted()
		if err != nil {
			return nil, err
		}
		return String(s), nil
	default:
		word := p.word()
		if word == "" {
			return nil, p.errorf("unexpected character %q", c)
		}
		return typeWord(word), nil
	}
}

func (p *parser) word() string {
	start := p.pos
	for p.pos < len(p.src) && isBareChar(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) quoted() (string, error) {
	q := p.src[p.pos]
	p.pos++
	var sb strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '\\':
			if p.pos+1 >= len(p.src) {
				return "", p.errorf("unterminated escape")
			}
			sb.WriteByte(p.src[p.pos+1])
			p.pos += 2
		case c == q:
			p.pos++
			return sb.String(), nil
		default:
			sb.WriteByte(c)
			p.pos++
		}
	}
	return "", p.errorf("unterminated string")
}

func (p *parser) key() (string, error) {
	p.skipSpace()
	if c := p.peek(); c == '"' || c == '\'' {
		return p.quoted()
	}
	k := p.word()
	if k == "" {
		return "", p.errorf("expected key")
	}
	return k, nil
}

func (p *parser) compound(depth int) (Tag, error) {
	p.pos++ // '{'
	c := Compound{}
	p.skipSpace()
	if p.peek() == '}' {
		p.pos++
		return c, nil
	}
	for {
		k, err := p.key()
		if err != nil {
			return nil, err
		}
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		v, err := p.value(depth + 1)
		if err != nil {
			return nil, err
		}
		c[k] = v
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return c, nil
		default:
			return nil, p.errorf("expected ',' or '}'")
		}
	}
}

func (p *parser) list(depth int) (Tag, error) {
	p.pos++ // '['
	if strings.HasPrefix(p.src[p.pos:], "I;") {
		p.pos += 2
		return p.uuidArray()
	}
	l := List{}
	p.skipSpace()
	if p.peek() == ']' {
		p.pos++
		return l, nil
	}
	for {
		v, err := p.value(depth + 1)
		if err != nil {
			return nil, err
		}
		if len(l) > 0 && KindOf(v) != KindOf(l[0]) {
			return nil, p.errorf("list mixes %s and %s elements", KindOf(l[0]), KindOf(v))
		}
		l = append(l, v)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return l, nil
		default:
			return nil, p.errorf("expected ',' or ']'")
		}
	}
}

func (p *parser) uuidArray() (Tag, error) {
	var parts [4]int32
	for i := range parts {
		if i > 0 {
			if err := p.expect(','); err != nil {
				return nil, err
			}
		}
		p.skipSpace()
		word := p.word()
		n, err := strconv.ParseInt(word, 10, 32)
		if err != nil {
			return nil, p.errorf("invalid uuid element %q", word)
		}
		parts[i] = int32(n)
	}
	if err := p.expect(']'); err != nil {
		return nil, err
	}
	return UUID(uuidFromInts(parts)), nil
}

func typeWord(word string) Tag {
	switch word {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	case "NaNd", "NaND":
		return Double(math.NaN())
	case "Infinityd", "InfinityD", "+Infinityd", "+InfinityD":
		return Double(math.Inf(1))
	case "-Infinityd", "-InfinityD":
		return Double(math.Inf(-1))
	}
	if !strings.ContainsAny(word, "0123456789") {
		return String(word)
	}
	last := word[len(word)-1]
	body := word[:len(word)-1]
	switch last {
	case 'b', 'B':
		if n, err := strconv.ParseInt(body, 10, 64); err == nil {
			return Bool(n != 0)
		}
	case 'd', 'D':
		if f, err := strconv.ParseFloat(body, 64); err == nil {
			return Double(f)
		}
	}
	if n, err := strconv.ParseInt(word, 10, 32); err == nil {
		return Int(n)
	}
	if f, err := strconv.ParseFloat(word, 64); err == nil {
		return Double(f)
	}
	return String(word)
}
