package tag

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagSealed(t *testing.T) {
	var _ Tag = Int(1)
	var _ Tag = Double(1.5)
	var _ Tag = Bool(true)
	var _ Tag = String("s")
	var _ Tag = UUID(sampleOwner)
	var _ Tag = List{Int(1)}
	var _ Tag = Compound{"k": Int(1)}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		tag  Tag
		want Kind
	}{
		{nil, KindEnd},
		{Int(0), KindInt},
		{Double(0), KindDouble},
		{Bool(false), KindBool},
		{String(""), KindString},
		{UUID(sampleOwner), KindUUID},
		{List{}, KindList},
		{Compound{}, KindCompound},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.tag))
		})
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Double")
	require.NoError(t, err)
	assert.Equal(t, KindDouble, k)

	_, err = ParseKind("end")
	assert.Error(t, err, "end is not a storable kind")

	_, err = ParseKind("float")
	assert.Error(t, err)

	assert.Equal(t, []string{"bool", "int", "double", "string", "list", "compound", "uuid"}, KindNames())
	assert.Equal(t, "kind(99)", Kind(99).String())
}

func TestCompoundContainsExactKind(t *testing.T) {
	c := Compound{"n": Int(5)}

	assert.True(t, c.Contains("n", KindInt))
	assert.False(t, c.Contains("n", KindDouble), "no numeric coercion")
	assert.False(t, c.Contains("missing", KindInt))
	assert.True(t, c.Has("n"))
	assert.False(t, c.Has("missing"))
}

func TestCompoundPutNilRemoves(t *testing.T) {
	c := Compound{"n": Int(5)}
	c.Put("n", nil)
	assert.False(t, c.Has("n"))
	assert.Empty(t, c)
}

func TestCompoundTypedGettersDefaultToZero(t *testing.T) {
	c := Compound{"i": Int(7), "d": Double(2.5), "s": String("x"), "wrong": Bool(true)}

	assert.Equal(t, int32(7), c.GetInt("i"))
	assert.Equal(t, 2.5, c.GetDouble("d"))
	assert.Equal(t, "x", c.GetString("s"))
	assert.Equal(t, int32(0), c.GetInt("wrong"))
	assert.Equal(t, 0.0, c.GetDouble("missing"))
	assert.Equal(t, "", c.GetString("i"))

	_, ok := c.GetCompound("i")
	assert.False(t, ok)
}

func TestCompoundSortedKeys(t *testing.T) {
	c := Compound{"zebra": Int(1), "apple": Int(2), "Banana": Int(3)}
	assert.Equal(t, []string{"Banana", "apple", "zebra"}, c.SortedKeys())
	assert.Empty(t, Compound{}.SortedKeys())
}

func TestCopyIsDeep(t *testing.T) {
	original := sampleTree()
	cp := original.Copy()
	require.True(t, Equal(original, cp))

	nested, ok := cp.GetCompound("lavapos")
	require.True(t, ok)
	nested.Put("x", Int(999))
	cp["stupefy_targets"].(List)[0] = String("mutated")

	pos, _ := original.GetCompound("lavapos")
	assert.Equal(t, int32(1), pos.GetInt("x"), "nested compound must not alias")
	assert.Equal(t, String("a"), original["stupefy_targets"].(List)[0], "list must not alias")
}

func TestListCopyOfNilIsEmpty(t *testing.T) {
	var l List
	cp := l.Copy()
	assert.NotNil(t, cp)
	assert.Empty(t, cp)
}

func TestListElementKind(t *testing.T) {
	assert.Equal(t, KindEnd, List{}.ElementKind())
	assert.Equal(t, KindString, List{String("a")}.ElementKind())
	assert.True(t, List{}.Homogeneous(KindInt))
	assert.True(t, List{Int(1), Int(2)}.Homogeneous(KindInt))
	assert.False(t, List{Int(1), String("2")}.Homogeneous(KindInt))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(nil, Int(0)))
	assert.False(t, Equal(Int(1), Double(1)), "kinds differ")
	assert.True(t, Equal(Double(math.NaN()), Double(math.NaN())))
	assert.False(t, Equal(List{Int(1)}, List{Int(1), Int(2)}))
	assert.False(t, Equal(Compound{"a": Int(1)}, Compound{"b": Int(1)}))
	assert.True(t, Equal(sampleTree(), sampleTree()))
	assert.True(t, Equal(UUID(sampleOwner), UUID(sampleOwner)))
}
