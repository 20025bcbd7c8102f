package attach

import (
	"errors"
	"fmt"

	"github.com/roach88/itemdata/internal/resource"
	"github.com/roach88/itemdata/internal/tag"
)

// BlockPos is an integer position, stored as {x,y,z} ints.
type BlockPos struct {
	X, Y, Z int32
}

func (p BlockPos) String() string {
	return fmt.Sprintf("%d,%d,%d", p.X, p.Y, p.Z)
}

// GlobalPos is a dimension-qualified position, stored as
// {dimension: "namespace:path", x, y, z}.
type GlobalPos struct {
	Dimension resource.Location
	Pos       BlockPos
}

func (g GlobalPos) String() string {
	return fmt.Sprintf("%s@%s", g.Dimension, g.Pos)
}

// Vec3 is a floating point vector, stored as {x,y,z} doubles.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) String() string {
	return fmt.Sprintf("%g,%g,%g", v.X, v.Y, v.Z)
}

// Field names of the composite layouts.
const (
	fieldX          = "x"
	fieldY          = "y"
	fieldZ          = "z"
	fieldDimension  = "dimension"
	fieldID         = "id"
	fieldCount      = "count"
	fieldComponents = "components"
)

func blockPosTag(p BlockPos) tag.Compound {
	return tag.Compound{
		fieldX: tag.Int(p.X),
		fieldY: tag.Int(p.Y),
		fieldZ: tag.Int(p.Z),
	}
}

// blockPosFrom reads x/y/z leniently: missing fields are zero.
func blockPosFrom(c tag.Compound) BlockPos {
	return BlockPos{X: c.GetInt(fieldX), Y: c.GetInt(fieldY), Z: c.GetInt(fieldZ)}
}

func globalPosTag(g GlobalPos) tag.Compound {
	c := blockPosTag(g.Pos)
	c.Put(fieldDimension, tag.String(g.Dimension.String()))
	return c
}

// errNoDimension marks a global position compound without a dimension
// string; it is treated as plain absence, not as corruption.
var errNoDimension = errors.New(`missing "dimension" field`)

func globalPosFrom(c tag.Compound) (GlobalPos, error) {
	if !c.Contains(fieldDimension, tag.KindString) {
		return GlobalPos{}, errNoDimension
	}
	raw := c.GetString(fieldDimension)
	dim, err := resource.Parse(raw)
	if err != nil {
		return GlobalPos{}, err
	}
	return GlobalPos{Dimension: dim, Pos: blockPosFrom(c)}, nil
}

func vec3Tag(v Vec3) tag.Compound {
	return tag.Compound{
		fieldX: tag.Double(v.X),
		fieldY: tag.Double(v.Y),
		fieldZ: tag.Double(v.Z),
	}
}

func vec3From(c tag.Compound) Vec3 {
	return Vec3{X: c.GetDouble(fieldX), Y: c.GetDouble(fieldY), Z: c.GetDouble(fieldZ)}
}

// SetBlockPos stores p at key.
func (s *Store) SetBlockPos(h Holder, key string, p BlockPos) {
	s.put(h, key, blockPosTag(p))
}

// GetBlockPos returns the position at key, or fallback.
func (s *Store) GetBlockPos(h Holder, key string, fallback BlockPos) BlockPos {
	if t, ok := s.lookup(h, key, tag.KindCompound); ok {
		return blockPosFrom(t.(tag.Compound))
	}
	return fallback
}

// SetGlobalPos stores g at key.
func (s *Store) SetGlobalPos(h Holder, key string, g GlobalPos) {
	s.put(h, key, globalPosTag(g))
}

// GetGlobalPos returns the global position at key. The second result is
// false when the entry is absent, not a compound, has no dimension, or has
// a dimension id that does not parse (the last case is logged).
func (s *Store) GetGlobalPos(h Holder, key string) (GlobalPos, bool) {
	t, ok := s.lookup(h, key, tag.KindCompound)
	if !ok {
		return GlobalPos{}, false
	}
	c := t.(tag.Compound)
	g, err := globalPosFrom(c)
	if errors.Is(err, errNoDimension) {
		return GlobalPos{}, false
	}
	if err != nil {
		s.logger.Warn("invalid dimension id stored",
			"key", key,
			"dimension", c.GetString(fieldDimension),
			"error", err)
		return GlobalPos{}, false
	}
	return g, true
}

// SetVec3 stores v at key.
func (s *Store) SetVec3(h Holder, key string, v Vec3) {
	s.put(h, key, vec3Tag(v))
}

// GetVec3 returns the vector at key; false when absent or not a compound.
func (s *Store) GetVec3(h Holder, key string) (Vec3, bool) {
	if t, ok := s.lookup(h, key, tag.KindCompound); ok {
		return vec3From(t.(tag.Compound)), true
	}
	return Vec3{}, false
}
