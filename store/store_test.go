package store

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis"
	"github.com/gomodule/redigo/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGet(t *testing.T) {
	_, conn := NewMiniredis(t)

	bs := []byte{0x12, 0x34, 0x00, 0xFF}
	require.NoError(t, Put(conn, "abc", bs))

	loaded, err := Get(conn, "abc")
	require.NoError(t, err)
	assert.Equal(t, bs, loaded)
}

func TestPut_RejectsEmpty(t *testing.T) {
	_, conn := NewMiniredis(t)
	assert.Error(t, Put(conn, "abc", nil))
}

func TestPut_AppliesTTL(t *testing.T) {
	server, conn := NewMiniredis(t)

	require.NoError(t, Put(conn, "abc", []byte{0x01}))
	assert.NotZero(t, server.TTL(Key("abc")))
}

func TestGet_Missing(t *testing.T) {
	_, conn := NewMiniredis(t)

	_, err := Get(conn, "missing")
	assert.Equal(t, ErrNotFound, err)
}

func TestRemove(t *testing.T) {
	_, conn := NewMiniredis(t)

	require.NoError(t, Put(conn, "abc", []byte{0x01}))
	require.NoError(t, Remove(conn, "abc"))

	_, err := Get(conn, "abc")
	assert.Equal(t, ErrNotFound, err)

	ids, err := IDs(conn)
	require.NoError(t, err)
	assert.Empty(t, ids)

	// Removing again is fine.
	assert.NoError(t, Remove(conn, "abc"))
}

func TestIDs(t *testing.T) {
	tests := []struct {
		name     string
		ids      []string
		expected []string
	}{
		{
			name:     "empty archive",
			expected: []string{},
		},
		{
			name:     "single puzzle",
			ids:      []string{"b"},
			expected: []string{"b"},
		},
		{
			name:     "sorted output",
			ids:      []string{"c", "a", "b"},
			expected: []string{"a", "b", "c"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, conn := NewMiniredis(t)

			for _, id := range test.ids {
				require.NoError(t, Put(conn, id, []byte{0x01}))
			}

			ids, err := IDs(conn)
			require.NoError(t, err)
			assert.Equal(t, test.expected, ids)
		})
	}
}

func TestIDs_SweepsExpiredPuzzles(t *testing.T) {
	server, conn := NewMiniredis(t)

	require.NoError(t, Put(conn, "old", []byte{0x01}))
	require.NoError(t, Put(conn, "new", []byte{0x02}))

	// Fast forward past both TTLs, then store "new" again so that only "old"
	// stays expired.
	server.FastForward(PuzzleTTL + time.Minute)
	require.NoError(t, Put(conn, "new", []byte{0x02}))

	ids, err := IDs(conn)
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, ids)
}

func NewMiniredis(t *testing.T) (*miniredis.Miniredis, redis.Conn) {
	server, err := miniredis.Run()
	require.NoError(t, err)

	connection, err := redis.Dial("tcp", server.Addr())
	require.NoError(t, err)

	t.Cleanup(func() {
		connection.Close()
		server.Close()
	})

	return server, connection
}
