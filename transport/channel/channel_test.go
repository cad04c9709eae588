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

package channel

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CS-Swansea/mel-go/transport/types"
)

func TestFileAt(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "at.bin"))
	assert.Nil(t, err)
	defer f.Close()

	w := NewFileAt(f, 8)
	assert.Nil(t, w.Send([]byte{1, 2}))
	assert.Nil(t, w.Send([]byte{3}))
	// the cursor advances with every operation
	assert.Equal(t, int64(11), w.Offset())

	r := NewFileAt(f, 8)
	got := make([]byte, 3)
	assert.Nil(t, r.Recv(got))
	assert.Equal(t, []byte{1, 2, 3}, got)
	assert.Equal(t, int64(11), r.Offset())

	rem, err := r.Remaining()
	assert.Nil(t, err)
	assert.Equal(t, int64(0), rem)

	// reading past the end reports the shortfall
	err = r.Recv(make([]byte, 2))
	assert.Equal(t, types.ErrNotEnoughBytes, err)
	assert.Equal(t, int64(11), r.Offset())
}

func TestStreamDirections(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriteStream(&buf)
	assert.Nil(t, w.Send([]byte("abc")))
	assert.Panics(t, func() { _ = w.Recv(make([]byte, 1)) })

	r := NewReadStream(&buf)
	got := make([]byte, 3)
	assert.Nil(t, r.Recv(got))
	assert.Equal(t, "abc", string(got))
	assert.Panics(t, func() { _ = r.Send(nil) })

	err := r.Recv(make([]byte, 1))
	assert.Equal(t, types.ErrNotEnoughBytes, err)
}
