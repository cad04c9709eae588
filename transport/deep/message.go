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

package deep

import (
	"github.com/rs/xid"

	"github.com/CS-Swansea/mel-go/config"
	"github.com/CS-Swansea/mel-go/transport/buffer"
	"github.com/CS-Swansea/mel-go/transport/channel"
	"github.com/CS-Swansea/mel-go/transport/types"
)

// Transportable is implemented by deep types. DeepCopy describes, in a fixed
// order, which fields are plain values, pointers, deep sub-objects, or
// containers thereof, by calling the pack operations on the message. The
// same description drives sending, receiving, sizing and buffering; both
// sides of a transport must execute it identically.
type Transportable interface {
	DeepCopy(m *Message) error
}

// Message is the transport context for one logical call. It owns the
// direction, the channel, the buffered-mode state and the pointer identity
// cache, all fixed for its lifetime. A Message is created at the start of
// one public transport call and is not reused.
type Message struct {
	id       xid.ID          // for diagnostics
	dir      types.Direction // source or sink, immutable
	ch       channel.Channel // nil in counting and memory-buffer modes
	buf      *buffer.Buffer  // non-nil in buffered mode
	counting bool            // size probe: advance count instead of moving bytes
	count    int
	cache    *idCache
}

func newStream(dir types.Direction, ch channel.Channel) *Message {
	return &Message{id: xid.New(), dir: dir, ch: ch, cache: newIDCache()}
}

func newBuffered(dir types.Direction, buf *buffer.Buffer) *Message {
	return &Message{id: xid.New(), dir: dir, buf: buf, cache: newIDCache()}
}

func newCounting() *Message {
	return &Message{id: xid.New(), dir: types.Source, counting: true, cache: newIDCache()}
}

// Dir returns the transport direction of the message.
func (m *Message) Dir() types.Direction {
	return m.dir
}

// transfer moves one contiguous byte range through the active mode: a byte
// count in counting mode, the staging buffer in buffered mode, one channel
// operation otherwise. Every pack operation bottoms out here, which is what
// keeps the three modes byte-identical.
func (m *Message) transfer(p []byte) error {
	switch {
	case m.counting:
		m.count += len(p)
		return nil
	case m.buf != nil:
		if m.dir == types.Source {
			_, err := m.buf.Write(p)
			return err
		}
		_, err := m.buf.Read(p)
		return err
	default:
		if m.dir == types.Source {
			return m.ch.Send(p)
		}
		return m.ch.Recv(p)
	}
}

// u8 transports one token byte in either direction.
func (m *Message) u8(v *byte) error {
	b := [1]byte{*v}
	if err := m.transfer(b[:]); err != nil {
		return err
	}
	*v = b[0]
	return nil
}

// u32 transports one uint32 token using the configured encoding.
func (m *Message) u32(v *uint32) error {
	var b [4]byte
	config.Encoding.PutUint32(b[:], *v)
	if err := m.transfer(b[:]); err != nil {
		return err
	}
	*v = config.Encoding.Uint32(b[:])
	return nil
}
