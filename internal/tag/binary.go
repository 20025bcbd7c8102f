package tag

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
)

// MaxDepth bounds nesting of lists and compounds in the binary form.
const MaxDepth = 512

var (
	// ErrMalformed is returned when a binary stream does not describe a valid tag.
	ErrMalformed = errors.New("tag: malformed binary data")

	// ErrDepth is returned when nesting exceeds MaxDepth.
	ErrDepth = errors.New("tag: nesting too deep")
)

// Write encodes t as a named root tag.
// Compound entries are written in sorted key order so equal trees produce
// identical bytes.
func Write(w io.Writer, name string, t Tag) error {
	if t == nil {
		return fmt.Errorf("write %q: %w: root tag is absent", name, ErrMalformed)
	}
	bw := bufio.NewWriter(w)
	e := encoder{w: bw}
	e.byte(byte(t.Kind()))
	e.string(name)
	e.payload(t, 0)
	if e.err != nil {
		return fmt.Errorf("write %q: %w", name, e.err)
	}
	return bw.Flush()
}

// Read decodes a named root tag written by Write.
func Read(r io.Reader) (string, Tag, error) {
	d := decoder{r: bufio.NewReader(r)}
	kind := Kind(d.byte())
	if d.err != nil {
		return "", nil, fmt.Errorf("read root: %w", d.err)
	}
	if kind == KindEnd {
		return "", nil, fmt.Errorf("read root: %w: empty root", ErrMalformed)
	}
	name := d.string()
	t := d.payload(kind, 0)
	if d.err != nil {
		return "", nil, fmt.Errorf("read root %q: %w", name, d.err)
	}
	return name, t, nil
}

// Marshal returns the binary form of t under the given root name.
func Marshal(name string, t Tag) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, name, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes the binary form produced by Marshal.
func Unmarshal(data []byte) (string, Tag, error) {
	return Read(bytes.NewReader(data))
}

// WriteCompressed writes the binary form of t wrapped in a gzip stream.
func WriteCompressed(w io.Writer, name string, t Tag) error {
	zw := gzip.NewWriter(w)
	if err := Write(zw, name, t); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("write %q: gzip: %w", name, err)
	}
	return nil
}

// ReadCompressed decodes a gzip-wrapped binary tag stream.
func ReadCompressed(r io.Reader) (string, Tag, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return "", nil, fmt.Errorf("read compressed: %w", err)
	}
	defer zr.Close()
	return Read(zr)
}

type encoder struct {
	w   *bufio.Writer
	buf [8]byte
	err error
}

func (e *encoder) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *encoder) write(p []byte) {
	if e.err != nil {
		return
	}
	if _, err := e.w.Write(p); err != nil {
		e.err = err
	}
}

func (e *encoder) byte(b byte) {
	e.buf[0] = b
	e.write(e.buf[:1])
}

func (e *encoder) int32(v int32) {
	binary.BigEndian.PutUint32(e.buf[:4], uint32(v))
	e.write(e.buf[:4])
}

func (e *encoder) string(s string) {
	if len(s) > math.MaxUint16 {
		e.fail(fmt.Errorf("%w: string of %d bytes exceeds %d", ErrMalformed, len(s), math.MaxUint16))
		return
	}
	binary.BigEndian.PutUint16(e.buf[:2], uint16(len(s)))
	e.write(e.buf[:2])
	e.write([]byte(s))
}

func (e *encoder) payload(t Tag, depth int) {
	if depth > MaxDepth {
		e.fail(ErrDepth)
		return
	}
	switch v := t.(type) {
	case Bool:
		if v {
			e.byte(1)
		} else {
			e.byte(0)
		}
	case Int:
		e.int32(int32(v))
	case Double:
		binary.BigEndian.PutUint64(e.buf[:8], math.Float64bits(float64(v)))
		e.write(e.buf[:8])
	case String:
		e.string(string(v))
	case UUID:
		e.int32(4)
		for i := 0; i < 16; i += 4 {
			e.write(v[i : i+4])
		}
	case List:
		elemKind := v.ElementKind()
		if !v.Homogeneous(elemKind) {
			e.fail(fmt.Errorf("%w: list mixes element kinds", ErrMalformed))
			return
		}
		e.byte(byte(elemKind))
		e.int32(int32(len(v)))
		for _, elem := range v {
			e.payload(elem, depth+1)
		}
	case Compound:
		keys := make([]string, 0, len(v))
		for k, child := range v {
			if child != nil {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			child := v[k]
			e.byte(byte(child.Kind()))
			e.string(k)
			e.payload(child, depth+1)
		}
		e.byte(byte(KindEnd))
	default:
		e.fail(fmt.Errorf("%w: unsupported tag type %T", ErrMalformed, t))
	}
}

type decoder struct {
	r   *bufio.Reader
	buf [8]byte
	err error
}

func (d *decoder) read(n int) []byte {
	if d.err != nil {
		return d.buf[:n]
	}
	if _, err := io.ReadFull(d.r, d.buf[:n]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			err = fmt.Errorf("%w: unexpected end of data", ErrMalformed)
		}
		d.err = err
	}
	return d.buf[:n]
}

func (d *decoder) byte() byte {
	return d.read(1)[0]
}

func (d *decoder) int32() int32 {
	return int32(binary.BigEndian.Uint32(d.read(4)))
}

func (d *decoder) string() string {
	n := int(binary.BigEndian.Uint16(d.read(2)))
	if d.err != nil {
		return ""
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(d.r, data); err != nil {
		d.err = fmt.Errorf("%w: truncated string", ErrMalformed)
		return ""
	}
	return string(data)
}

func (d *decoder) payload(kind Kind, depth int) Tag {
	if d.err != nil {
		return nil
	}
	if depth > MaxDepth {
		d.err = ErrDepth
		return nil
	}
	switch kind {
	case KindBool:
		return Bool(d.byte() != 0)
	case KindInt:
		return Int(d.int32())
	case KindDouble:
		return Double(math.Float64frombits(binary.BigEndian.Uint64(d.read(8))))
	case KindString:
		return String(d.string())
	case KindUUID:
		if n := d.int32(); d.err == nil && n != 4 {
			d.err = fmt.Errorf("%w: uuid array of length %d", ErrMalformed, n)
			return nil
		}
		var id uuid.UUID
		for i := 0; i < 16; i += 4 {
			copy(id[i:i+4], d.read(4))
		}
		return UUID(id)
	case KindList:
		elemKind := Kind(d.byte())
		n := int(d.int32())
		if d.err != nil {
			return nil
		}
		if n < 0 {
			d.err = fmt.Errorf("%w: negative list length %d", ErrMalformed, n)
			return nil
		}
		if elemKind == KindEnd && n > 0 {
			d.err = fmt.Errorf("%w: list of %d untyped elements", ErrMalformed, n)
			return nil
		}
		list := make(List, 0, min(n, 1024))
		for i := 0; i < n && d.err == nil; i++ {
			list = append(list, d.payload(elemKind, depth+1))
		}
		return list
	case KindCompound:
		c := Compound{}
		for d.err == nil {
			child := Kind(d.byte())
			if d.err != nil || child == KindEnd {
				break
			}
			name := d.string()
			c[name] = d.payload(child, depth+1)
		}
		return c
	default:
		d.err = fmt.Errorf("%w: unknown kind id %d", ErrMalformed, byte(kind))
		return nil
	}
}
