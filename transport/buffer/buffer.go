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
	"github.com/CS-Swansea/mel-go/config"
	"github.com/CS-Swansea/mel-go/transport/types"
)

// Buffer is a linear byte buffer with independent read and write cursors.
// It stages a complete payload in buffered mode so a single channel
// operation can move it.
// Read operations read based on the index of the previous read, where each
// operation increments the index.
// Write operations write to the end of the buffer.
type Buffer struct {
	buff        []byte // The actual bytes
	readOffset  int    // The index where the next read operation will be performed
	writeOffset int    // The index where the next write operation will be performed
}

// ToBuffer creates a Buffer from the bytes, the read offset is set to the
// beginning and the write offset is set to the end.
func ToBuffer(buff []byte) *Buffer {
	return &Buffer{
		buff:        buff,
		writeOffset: len(buff),
	}
}

// New creates a new empty buffer.
func New() *Buffer {
	return &Buffer{
		buff: make([]byte, 0, config.InitialBufferSize),
	}
}

// NewSize creates a new buffer using the following: "make([]byte, i, n)".
func NewSize(i int, n int) *Buffer {
	return &Buffer{
		buff:        make([]byte, i, n),
		writeOffset: i,
	}
}

// Write appends p to the end of the buffer and returns len(p).
func (b *Buffer) Write(p []byte) (n int, err error) {
	b.buff = append(b.buff, p...)
	b.writeOffset += len(p)
	if b.writeOffset != len(b.buff) {
		panic("offset")
	}
	return len(p), nil
}

// WriteByte appends p to the end of the buffer.
func (b *Buffer) WriteByte(p byte) error {
	b.buff = append(b.buff, p)
	b.writeOffset++
	if b.writeOffset != len(b.buff) {
		panic("offset")
	}
	return nil
}

// Read copies the next len(p) bytes into p and advances the read offset.
// If fewer bytes remain nothing is consumed and ErrNotEnoughBytes is returned.
func (b *Buffer) Read(p []byte) (n int, err error) {
	offset := b.readOffset
	b.readOffset += len(p)
	if len(b.buff) < b.readOffset {
		b.readOffset = offset
		return 0, types.ErrNotEnoughBytes
	}
	copy(p, b.buff[offset:b.readOffset])
	return len(p), nil
}

// ReadByte reads a byte from the buffer and increments the read offset.
func (b *Buffer) ReadByte() (byte, error) {
	offset := b.readOffset
	b.readOffset++
	if len(b.buff) < b.readOffset {
		b.readOffset = offset
		return 0, types.ErrNotEnoughBytes
	}
	return b.buff[offset], nil
}

// ReadBytes reads n bytes from the buffer and updates the read offset.
// The returned slice aliases the buffer.
func (b *Buffer) ReadBytes(n int) ([]byte, error) {
	offset := b.readOffset
	b.readOffset += n
	if len(b.buff) < b.readOffset {
		b.readOffset = offset
		return nil, types.ErrNotEnoughBytes
	}
	return b.buff[offset:b.readOffset], nil
}

// AddUint32 encodes v and appends it to the end of the buffer.
// It returns 4 and the offset of where v was written in the buffer.
func (b *Buffer) AddUint32(v uint32) (int, int) {
	off := b.writeOffset
	var enc [4]byte
	config.Encoding.PutUint32(enc[:], v)
	if _, err := b.Write(enc[:]); err != nil {
		panic(err)
	}
	return 4, off
}

// ReadUint32 reads a uint32 from the buffer.
// It returns the value read, the number of bytes read, and any errors.
// It also increments the read offset.
func (b *Buffer) ReadUint32() (uint32, int, error) {
	offset := b.readOffset
	b.readOffset += 4
	if len(b.buff) < b.readOffset {
		b.readOffset = offset
		return 0, 0, types.ErrNotEnoughBytes
	}
	v := config.Encoding.Uint32(b.buff[offset:b.readOffset])
	return v, 4, nil
}

// AddUint64 encodes v and appends it to the end of the buffer.
// It returns 8 and the index where v was written.
func (b *Buffer) AddUint64(v uint64) (int, int) {
	off := b.writeOffset
	var enc [8]byte
	config.Encoding.PutUint64(enc[:], v)
	if _, err := b.Write(enc[:]); err != nil {
		panic(err)
	}
	return 8, off
}

// ReadUint64 reads a uint64 from the buffer.
// It returns the value read, the number of bytes read, and any errors.
// It also increments the read offset.
func (b *Buffer) ReadUint64() (uint64, int, error) {
	offset := b.readOffset
	b.readOffset += 8
	if len(b.buff) < b.readOffset {
		b.readOffset = offset
		return 0, 0, types.ErrNotEnoughBytes
	}
	v := config.Encoding.Uint64(b.buff[offset:b.readOffset])
	return v, 8, nil
}

// Bytes returns all bytes written to the buffer.
func (b *Buffer) Bytes() []byte {
	return b.buff
}

// Len returns the number of bytes written to the buffer.
func (b *Buffer) Len() int {
	return len(b.buff)
}

// Remaining returns the number of bytes from the current read offset to the
// end of the buffer.
func (b *Buffer) Remaining() int {
	return len(b.buff) - b.readOffset
}

// ResetOffset sets the read offset to 0, so the following read will read from
// the beginning of the buffer.
func (b *Buffer) ResetOffset() {
	b.readOffset = 0
}
