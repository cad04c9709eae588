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
package buffer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CS-Swansea/mel-go/transport/types"
)

func TestUint32(t *testing.T) {
	b := New()
	var v1 uint32 = math.MaxUint32
	var v2 uint32

	b.AddUint32(v1)
	b.AddUint32(v2)
	b.AddUint32(v1)

	c1, _, err := b.ReadUint32()
	assert.Nil(t, err)
	assert.Equal(t, v1, c1)

	c2, _, err := b.ReadUint32()
	assert.Nil(t, err)
	assert.Equal(t, v2, c2)

	_, _, err = b.ReadUint64()
	assert.Equal(t, types.ErrNotEnoughBytes, err)
}

func TestUint64(t *testing.T) {
	b := New()
	var v1 uint64 = math.MaxUint64
	var v2 uint64

	b.AddUint64(v1)
	b.AddUint64(v2)

	c1, _, err := b.ReadUint64()
	assert.Nil(t, err)
	assert.Equal(t, v1, c1)

	c2, _, err := b.ReadUint64()
	assert.Nil(t, err)
	assert.Equal(t, v2, c2)

	_, _, err = b.ReadUint64()
	assert.Equal(t, types.ErrNotEnoughBytes, err)
}

func TestWriteRead(t *testing.T) {
	b := New()

	someString := "10jklscka;jskdfj;eiafnankjbavljjadfio;eajfia;lcmnda;3903r3u"

	n, err := b.Write([]byte(someString))
	assert.Nil(t, err)
	assert.Equal(t, len(someString), n)

	into := make([]byte, 10)
	n, err = b.Read(into)
	assert.Nil(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, someString[:10], string(into))

	rest, err := b.ReadBytes(len(someString) - 10)
	assert.Nil(t, err)
	assert.Equal(t, someString[10:], string(rest))

	// a failed read consumes nothing
	_, err = b.Read(make([]byte, 1))
	assert.Equal(t, types.ErrNotEnoughBytes, err)
	assert.Equal(t, 0, b.Remaining())

	b.ResetOffset()
	assert.Equal(t, len(someString), b.Remaining())
	again, err := b.ReadBytes(len(someString))
	assert.Nil(t, err)
	assert.Equal(t, someString, string(again))
}

func TestToBuffer(t *testing.T) {
	src := []byte{1, 2, 3, 4}
	b := ToBuffer(src)
	assert.Equal(t, 4, b.Len())
	assert.Equal(t, 4, b.Remaining())

	v, err := b.ReadByte()
	assert.Nil(t, err)
	assert.Equal(t, byte(1), v)

	assert.Nil(t, b.WriteByte(5))
	assert.Equal(t, 5, b.Len())
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, b.Bytes())
}
