/*
github.com/CS-Swansea/mel-go - Deep object-graph transport over process, group, and file channels.
Copyright (C) 2026 The project authors

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.

*/
package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CS-Swansea/mel-go/transport/deep"
	"github.com/CS-Swansea/mel-go/transport/types"
)

func init() {
	// the corruption helpers rewrite bytes in place, O_APPEND would
	// redirect those writes to the end of the file
	openType = os.O_RDWR | os.O_CREATE
}

const testKeySize = 8

func key(s string) []byte {
	k := make([]byte, testKeySize)
	copy(k, s)
	return k
}

// chain is a shared-pointer graph for round trips through the store.
type chain struct {
	Head *link
	Tail *link
}

type link struct {
	Val  int64
	Next *link
}

func (l *link) DeepCopy(m *deep.Message) error {
	if err := deep.Var(m, &l.Val); err != nil {
		return err
	}
	return deep.SharedPtr(m, &l.Next)
}

func (c *chain) DeepCopy(m *deep.Message) error {
	if err := deep.SharedPtr(m, &c.Head); err != nil {
		return err
	}
	return deep.SharedPtr(m, &c.Tail)
}

func makeChain() *chain {
	tail := &link{Val: 2}
	return &chain{Head: &link{Val: 1, Next: tail}, Tail: tail}
}

func TestWriteRead(t *testing.T) {
	name := filepath.Join(t.TempDir(), "store.bin")
	s, err := Open(name, testKeySize, 0)
	assert.Nil(t, err)

	assert.Nil(t, s.Write(key("a"), []byte("value-a")))
	assert.Nil(t, s.Write(key("b"), []byte("value-b")))

	v, err := s.Read(key("a"))
	assert.Nil(t, err)
	assert.Equal(t, "value-a", string(v))

	// unknown keys read as nil without error
	v, err = s.Read(key("nope"))
	assert.Nil(t, err)
	assert.Nil(t, v)

	assert.True(t, s.Contains(key("b")))
	assert.False(t, s.Contains(key("nope")))

	assert.Equal(t, types.ErrInvalidKeySize, s.Write([]byte("short"), nil))
	assert.Nil(t, s.Close())
}

func TestOverwrite(t *testing.T) {
	name := filepath.Join(t.TempDir(), "store.bin")
	s, err := Open(name, testKeySize, 0)
	assert.Nil(t, err)

	assert.Nil(t, s.Write(key("a"), []byte("old")))
	assert.Nil(t, s.Write(key("a"), []byte("new")))

	v, err := s.Read(key("a"))
	assert.Nil(t, err)
	assert.Equal(t, "new", string(v))

	count := 0
	s.Range(func(k, v []byte) bool {
		count++
		assert.Equal(t, "new", string(v))
		return true
	})
	assert.Equal(t, 1, count)
	assert.Nil(t, s.Close())
}

func TestRangeOrder(t *testing.T) {
	name := filepath.Join(t.TempDir(), "store.bin")
	s, err := Open(name, testKeySize, 0)
	assert.Nil(t, err)

	keys := []string{"k3", "k1", "k2"}
	for _, k := range keys {
		assert.Nil(t, s.Write(key(k), []byte(k)))
	}

	var got []string
	s.Range(func(k, v []byte) bool {
		got = append(got, string(v))
		return true
	})
	// keys come back in write order, not sorted
	assert.Equal(t, keys, got)
	assert.Nil(t, s.Close())
}

func TestReopen(t *testing.T) {
	name := filepath.Join(t.TempDir(), "store.bin")
	s, err := Open(name, testKeySize, 0)
	assert.Nil(t, err)
	assert.Nil(t, s.Write(key("a"), []byte("persisted")))
	assert.Nil(t, s.Write(key("b"), []byte("also")))
	assert.Nil(t, s.Close())

	s, err = Open(name, testKeySize, 0)
	assert.Nil(t, err)
	assert.True(t, s.Contains(key("a")))
	v, err := s.Read(key("b"))
	assert.Nil(t, err)
	assert.Equal(t, "also", string(v))

	// writes after recovery append cleanly
	assert.Nil(t, s.Write(key("c"), []byte("more")))
	v, err = s.Read(key("c"))
	assert.Nil(t, err)
	assert.Equal(t, "more", string(v))
	assert.Nil(t, s.Close())
}

func TestCorruption(t *testing.T) {
	name := filepath.Join(t.TempDir(), "store.bin")
	s, err := Open(name, testKeySize, 0)
	assert.Nil(t, err)
	assert.Nil(t, s.Write(key("a"), []byte("fragile")))

	assert.Nil(t, s.corruptValue(key("a"), 'X'))
	_, err = s.Read(key("a"))
	assert.Equal(t, types.ErrCorruptRecord, err)
	assert.Nil(t, s.Close())

	// the recovery scan drops the corrupted record
	s, err = Open(name, testKeySize, 0)
	assert.Nil(t, err)
	assert.False(t, s.Contains(key("a")))

	// and the store stays writable past it
	assert.Nil(t, s.Write(key("a"), []byte("replaced")))
	v, err := s.Read(key("a"))
	assert.Nil(t, err)
	assert.Equal(t, "replaced", string(v))
	assert.Nil(t, s.Close())
}

func TestBufferedWrites(t *testing.T) {
	name := filepath.Join(t.TempDir(), "store.bin")
	s, err := Open(name, testKeySize, 1024)
	assert.Nil(t, err)

	assert.Nil(t, s.Write(key("a"), []byte("buffered")))

	// reading flushes the write buffer first
	v, err := s.Read(key("a"))
	assert.Nil(t, err)
	assert.Equal(t, "buffered", string(v))
	assert.Nil(t, s.Close())
}

func TestClear(t *testing.T) {
	name := filepath.Join(t.TempDir(), "store.bin")
	s, err := Open(name, testKeySize, 0)
	assert.Nil(t, err)
	assert.Nil(t, s.Write(key("a"), []byte("gone")))

	assert.Nil(t, s.Clear())
	assert.False(t, s.Contains(key("a")))

	assert.Nil(t, s.Write(key("b"), []byte("fresh")))
	v, err := s.Read(key("b"))
	assert.Nil(t, err)
	assert.Equal(t, "fresh", string(v))
	assert.Nil(t, s.Close())
}

func TestPutGetGraph(t *testing.T) {
	name := filepath.Join(t.TempDir(), "store.bin")
	s, err := Open(name, testKeySize, 0)
	assert.Nil(t, err)

	assert.Nil(t, Put(s, key("g"), makeChain()))

	dst := &chain{}
	assert.Nil(t, Get(s, key("g"), dst))
	assert.Equal(t, int64(1), dst.Head.Val)
	assert.Equal(t, int64(2), dst.Tail.Val)
	// shared substructure survives the disk round trip
	assert.Same(t, dst.Tail, dst.Head.Next)

	err = Get(s, key("missing"), dst)
	assert.Equal(t, types.ErrKeyNotFound, err)
	assert.Nil(t, s.Close())
}
