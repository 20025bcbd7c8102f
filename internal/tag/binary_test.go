package tag

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryRoundTrip(t *testing.T) {
	tree := sampleTree()

	data, err := Marshal("justdirethings", tree)
	require.NoError(t, err)

	name, got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, "justdirethings", name)
	if diff := cmp.Diff(Tag(tree), got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestBinaryDeterministic(t *testing.T) {
	a, err := Marshal("", sampleTree())
	require.NoError(t, err)
	b, err := Marshal("", sampleTree())
	require.NoError(t, err)
	assert.Equal(t, a, b, "sorted keys make output independent of map order")
}

func TestBinaryScalarLayout(t *testing.T) {
	data, err := Marshal("n", Int(258))
	require.NoError(t, err)
	// kind, name length (2 bytes), name, big-endian int32
	assert.Equal(t, []byte{3, 0, 1, 'n', 0, 0, 1, 2}, data)

	data, err = Marshal("", Bool(true))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0, 0, 1}, data)
}

func TestBinaryEmptyList(t *testing.T) {
	data, err := Marshal("", Compound{"l": List{}})
	require.NoError(t, err)

	_, got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.True(t, Equal(Compound{"l": List{}}, got))
}

func TestBinaryRejectsHeterogeneousList(t *testing.T) {
	_, err := Marshal("", List{Int(1), String("x")})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestBinaryRejectsAbsentRoot(t *testing.T) {
	_, err := Marshal("", nil)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestBinaryTruncated(t *testing.T) {
	data, err := Marshal("root", sampleTree())
	require.NoError(t, err)

	for _, n := range []int{0, 1, 5, len(data) / 2, len(data) - 1} {
		_, _, err := Unmarshal(data[:n])
		assert.Error(t, err, "prefix of %d bytes", n)
		assert.True(t, errors.Is(err, ErrMalformed), "prefix of %d bytes: %v", n, err)
	}
}

func TestBinaryUnknownKind(t *testing.T) {
	_, _, err := Unmarshal([]byte{42, 0, 0})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestBinaryBadUUIDLength(t *testing.T) {
	_, _, err := Unmarshal([]byte{byte(KindUUID), 0, 0, 0, 0, 0, 2, 0, 0, 0, 1, 0, 0, 0, 2})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestBinaryNegativeListLength(t *testing.T) {
	_, _, err := Unmarshal([]byte{byte(KindList), 0, 0, byte(KindInt), 0xff, 0xff, 0xff, 0xff})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestBinaryDepthLimit(t *testing.T) {
	var deep Tag = Int(1)
	for i := 0; i < MaxDepth+2; i++ {
		deep = List{deep}
	}
	_, err := Marshal("", deep)
	assert.ErrorIs(t, err, ErrDepth)
}

func TestCompressedRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCompressed(&buf, "justdirethings", sampleTree()))
	assert.Equal(t, []byte{0x1f, 0x8b}, buf.Bytes()[:2], "gzip magic")

	name, got, err := ReadCompressed(&buf)
	require.NoError(t, err)
	assert.Equal(t, "justdirethings", name)
	assert.True(t, Equal(sampleTree(), got))
}

func TestReadCompressedRejectsPlainStream(t *testing.T) {
	data, err := Marshal("", Int(1))
	require.NoError(t, err)
	_, _, err = ReadCompressed(bytes.NewReader(data))
	assert.Error(t, err)
}
