package types

import (
	"testing"

	"github.com/mna/lilypad/lang/hashing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTake(t *testing.T) {
	args := []Value{Int(1), String("a")}
	v := Take(&args[1])
	assert.Equal(t, String("a"), v)
	assert.Equal(t, Nil, args[1])
	assert.Equal(t, Int(1), args[0])

	// taking again yields the placeholder
	assert.Equal(t, Nil, Take(&args[1]))

	var empty Value
	assert.Equal(t, Nil, Take(&empty))
}

func TestClone(t *testing.T) {
	a := NewArray([]Value{Int(1)})
	c := Clone(a).(*Array)
	require.NoError(t, c.Append(Int(2)))
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 2, c.Len())

	assert.Equal(t, Int(3), Clone(Int(3)))
}

func TestCast(t *testing.T) {
	i, ok := Cast[Int](Int(3))
	require.True(t, ok)
	assert.Equal(t, Int(3), i)

	_, ok = Cast[String](Int(3))
	assert.False(t, ok)

	v, ok := Cast[Value](Int(3))
	require.True(t, ok)
	assert.Equal(t, Int(3), v)

	ix, ok := Cast[Indexable](Bytes("ab"))
	require.True(t, ok)
	assert.Equal(t, 2, ix.Len())

	_, ok = Cast[*Array](Int(1))
	assert.False(t, ok)
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "int", TypeName[Int]())
	assert.Equal(t, "string", TypeName[String]())
	assert.Equal(t, "array", TypeName[*Array]())
	assert.Equal(t, "map", TypeName[*Map]())
	assert.Equal(t, "types.Value", TypeName[Value]())
	assert.Equal(t, "types.Indexable", TypeName[Indexable]())
}

func TestTypeIDsDistinct(t *testing.T) {
	ids := []hashing.TypeID{
		Nil.TypeID(), True.TypeID(), Int(0).TypeID(), Float(0).TypeID(),
		String("").TypeID(), Bytes("").TypeID(), NewArray(nil).TypeID(), NewMap(0).TypeID(),
	}
	seen := make(map[hashing.TypeID]bool)
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate type id %x", id)
		seen[id] = true
	}
	assert.Equal(t, Int(1).TypeID(), Int(2).TypeID())
}

func TestStrings(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Nil, "nil"},
		{True, "true"},
		{Int(-3), "-3"},
		{Float(1.5), "1.5"},
		{String("a\"b"), `"a\"b"`},
		{Bytes("x"), `b"x"`},
		{NewArray([]Value{Int(1), String("a")}), `[1, "a"]`},
		{NewArray(nil), `[]`},
	}
	for _, c := range cases {
		t.Run(c.want, func(t *testing.T) {
			assert.Equal(t, c.want, c.v.String())
		})
	}
}

func TestArray(t *testing.T) {
	a := NewArray([]Value{Int(1), Int(2)})

	it := a.Iterate()
	var x Value
	require.True(t, it.Next(&x))
	assert.Equal(t, Int(1), x)
	assert.Error(t, a.Append(Int(3)))
	assert.Error(t, a.SetIndex(0, Int(3)))
	it.Done()

	require.NoError(t, a.Append(Int(3)))
	require.NoError(t, a.SetIndex(0, Int(0)))
	assert.Equal(t, "[0, 2, 3]", a.String())
}

func TestMap(t *testing.T) {
	m := NewMap(0)
	require.NoError(t, m.SetKey(String("a"), Int(1)))
	require.NoError(t, m.SetKey(Int(2), String("b")))
	require.NoError(t, m.SetKey(String("a"), Int(3)))
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, []Value{String("a"), Int(2)}, m.Keys())
	assert.Equal(t, `{"a": 3, 2: "b"}`, m.String())

	v, ok, err := m.Get(String("a"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Int(3), v)

	_, ok, err = m.Get(String("z"))
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Error(t, m.SetKey(NewArray(nil), Int(1)))
	_, _, err = m.Get(NewMap(0))
	assert.Error(t, err)

	c := m.Clone().(*Map)
	require.NoError(t, c.SetKey(String("c"), Nil))
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 3, c.Len())
}
