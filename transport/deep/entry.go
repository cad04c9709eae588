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
	"io"
	"os"

	"github.com/CS-Swansea/mel-go/config"
	"github.com/CS-Swansea/mel-go/transport/buffer"
	"github.com/CS-Swansea/mel-go/transport/channel"
	"github.com/CS-Swansea/mel-go/transport/comm"
	"github.com/CS-Swansea/mel-go/transport/logging"
	"github.com/CS-Swansea/mel-go/transport/types"
)

// packFunc is one complete pack sequence. The same sequence is run for
// sizing, packing and unpacking; only the message mode changes.
type packFunc func(m *Message) error

func value[T any](v *T) packFunc {
	return func(m *Message) error { return Var(m, v) }
}

func slicer[T any](s *[]T) packFunc {
	return func(m *Message) error { return Slice(m, s) }
}

func measure(fn packFunc) (int, error) {
	m := newCounting()
	if err := fn(m); err != nil {
		return 0, err
	}
	return m.count, nil
}

// sourceBuffered packs the whole payload into one staging buffer and moves
// it through the channel as a single byte range. A non-positive size runs
// the counting pass first. When sendSize is set the size travels ahead of
// the payload as a uint64 scalar, for channels whose sink cannot derive it.
func sourceBuffered(ch channel.Channel, fn packFunc, size int, sendSize bool) error {
	var err error
	if size <= 0 {
		if size, err = measure(fn); err != nil {
			return err
		}
	}
	if size > config.MaxMsgSize {
		logging.Errorf("buffered payload of %v bytes exceeds max %v", size, config.MaxMsgSize)
		return types.ErrMsgTooLarge
	}
	buf := buffer.NewSize(0, size)
	m := newBuffered(types.Source, buf)
	if err = fn(m); err != nil {
		return err
	}
	if buf.Len() != size {
		logging.Errorf("msg %v: packed %v bytes, measured %v", m.id, buf.Len(), size)
		return types.ErrBufferSize
	}
	if sendSize {
		var sz [8]byte
		config.Encoding.PutUint64(sz[:], uint64(size))
		if err = ch.Send(sz[:]); err != nil {
			return err
		}
	}
	return ch.Send(buf.Bytes())
}

// sinkBuffered receives the whole payload as a single byte range and runs
// the unpack sequence against it. A non-positive size is discovered from the
// explicit size scalar (recvSize), a length probe, or the channel's
// remaining byte count, in that order of preference.
func sinkBuffered(ch channel.Channel, fn packFunc, size int, recvSize bool) error {
	if size <= 0 {
		switch {
		case recvSize:
			var sz [8]byte
			if err := ch.Recv(sz[:]); err != nil {
				return err
			}
			size = int(config.Encoding.Uint64(sz[:]))
		default:
			if pr, ok := ch.(channel.LengthProber); ok {
				n, err := pr.ProbeLen()
				if err != nil {
					return err
				}
				size = n
			} else if sr, ok := ch.(channel.Sizer); ok {
				n, err := sr.Remaining()
				if err != nil {
					return err
				}
				size = int(n)
			} else {
				logging.Error("buffered receive with no way to derive the payload size")
				return types.ErrNoSize
			}
		}
	}
	if size < 0 || size > config.MaxMsgSize {
		logging.Errorf("buffered payload of %v bytes exceeds max %v", size, config.MaxMsgSize)
		return types.ErrMsgTooLarge
	}
	b := make([]byte, size)
	if err := ch.Recv(b); err != nil {
		return err
	}
	m := newBuffered(types.Sink, buffer.ToBuffer(b))
	if err := fn(m); err != nil {
		return err
	}
	if m.buf.Remaining() != 0 {
		logging.Errorf("msg %v: %v bytes left after unpack", m.id, m.buf.Remaining())
		return types.ErrBufferSize
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////
// Custom channels
///////////////////////////////////////////////////////////////////////////

// Transport moves v through ch in streaming mode: every pack operation
// issues its own channel operation immediately.
func Transport[T any](v *T, ch channel.Channel, dir types.Direction) error {
	return Var(newStream(dir, ch), v)
}

// TransportBuffered moves v through ch as one pre-sized byte range. A
// non-positive size is measured on the source and probed or derived on the
// sink.
func TransportBuffered[T any](v *T, ch channel.Channel, dir types.Direction, size int) error {
	if dir == types.Source {
		return sourceBuffered(ch, value(v), size, false)
	}
	return sinkBuffered(ch, value(v), size, false)
}

///////////////////////////////////////////////////////////////////////////
// Point-to-point
///////////////////////////////////////////////////////////////////////////

// Send transports v to rank to in streaming mode.
func Send[T any](v *T, p *comm.Proc, to, tag int) error {
	return Var(newStream(types.Source, channel.NewP2P(p, to, tag)), v)
}

// Recv receives v from rank from in streaming mode.
func Recv[T any](v *T, p *comm.Proc, from, tag int) error {
	return Var(newStream(types.Sink, channel.NewP2P(p, from, tag)), v)
}

// SendSlice transports len(s) elements to rank to in streaming mode.
func SendSlice[T any](s []T, p *comm.Proc, to, tag int) error {
	return Slice(newStream(types.Source, channel.NewP2P(p, to, tag)), &s)
}

// RecvSlice receives elements from rank from. A nil *s is allocated to the
// incoming length; a non-nil *s must match it exactly.
func RecvSlice[T any](s *[]T, p *comm.Proc, from, tag int) error {
	return Slice(newStream(types.Sink, channel.NewP2P(p, from, tag)), s)
}

// SendBuffered transports v to rank to as one buffered payload. A
// non-positive size runs the counting pass first.
func SendBuffered[T any](v *T, p *comm.Proc, to, tag int, size int) error {
	return sourceBuffered(channel.NewP2P(p, to, tag), value(v), size, false)
}

// RecvBuffered receives v from rank from as one buffered payload. A
// non-positive size is probed from the incoming message length.
func RecvBuffered[T any](v *T, p *comm.Proc, from, tag int, size int) error {
	return sinkBuffered(channel.NewP2P(p, from, tag), value(v), size, false)
}

// SendSliceBuffered transports len(s) elements as one buffered payload.
func SendSliceBuffered[T any](s []T, p *comm.Proc, to, tag int, size int) error {
	return sourceBuffered(channel.NewP2P(p, to, tag), slicer(&s), size, false)
}

// RecvSliceBuffered receives elements as one buffered payload.
func RecvSliceBuffered[T any](s *[]T, p *comm.Proc, from, tag int, size int) error {
	return sinkBuffered(channel.NewP2P(p, from, tag), slicer(s), size, false)
}

///////////////////////////////////////////////////////////////////////////
// Collective broadcast
///////////////////////////////////////////////////////////////////////////

// Bcast transports v from root to every rank in streaming mode. Every rank
// in the group must call it with the same root and a structurally identical
// pack sequence.
func Bcast[T any](v *T, p *comm.Proc, root int) error {
	dir := types.Sink
	if p.Rank() == root {
		dir = types.Source
	}
	return Var(newStream(dir, channel.NewBcast(p, root)), v)
}

// BcastSlice transports a slice from root to every rank in streaming mode.
func BcastSlice[T any](s *[]T, p *comm.Proc, root int) error {
	dir := types.Sink
	if p.Rank() == root {
		dir = types.Source
	}
	return Slice(newStream(dir, channel.NewBcast(p, root)), s)
}

// BcastBuffered transports v from root as one buffered payload. When size
// is non-positive the root measures it and broadcasts it ahead of the
// payload, since a collective sink cannot probe.
func BcastBuffered[T any](v *T, p *comm.Proc, root int, size int) error {
	ch := channel.NewBcast(p, root)
	if p.Rank() == root {
		return sourceBuffered(ch, value(v), size, size <= 0)
	}
	return sinkBuffered(ch, value(v), size, size <= 0)
}

// BcastSliceBuffered transports a slice from root as one buffered payload.
func BcastSliceBuffered[T any](s *[]T, p *comm.Proc, root int, size int) error {
	ch := channel.NewBcast(p, root)
	if p.Rank() == root {
		return sourceBuffered(ch, slicer(s), size, size <= 0)
	}
	return sinkBuffered(ch, slicer(s), size, size <= 0)
}

///////////////////////////////////////////////////////////////////////////
// Sequential stream
///////////////////////////////////////////////////////////////////////////

// FileWrite transports v into w in streaming mode.
func FileWrite[T any](v *T, w io.Writer) error {
	return Var(newStream(types.Source, channel.NewWriteStream(w)), v)
}

// FileRead receives v from r in streaming mode.
func FileRead[T any](v *T, r io.Reader) error {
	return Var(newStream(types.Sink, channel.NewReadStream(r)), v)
}

// FileWriteSlice transports len(s) elements into w in streaming mode.
func FileWriteSlice[T any](s []T, w io.Writer) error {
	return Slice(newStream(types.Source, channel.NewWriteStream(w)), &s)
}

// FileReadSlice receives elements from r in streaming mode.
func FileReadSlice[T any](s *[]T, r io.Reader) error {
	return Slice(newStream(types.Sink, channel.NewReadStream(r)), s)
}

// FileWriteBuffered transports v into f at its current seek position as one
// buffered payload.
func FileWriteBuffered[T any](v *T, f *os.File, size int) error {
	return sourceBuffered(channel.NewFileStream(f), value(v), size, false)
}

// FileReadBuffered receives v from f at its current seek position as one
// buffered payload. A non-positive size is derived from the remaining file
// length, which then must hold exactly one payload.
func FileReadBuffered[T any](v *T, f *os.File, size int) error {
	return sinkBuffered(channel.NewFileStream(f), value(v), size, false)
}

// FileWriteSliceBuffered transports len(s) elements into f as one buffered
// payload.
func FileWriteSliceBuffered[T any](s []T, f *os.File, size int) error {
	return sourceBuffered(channel.NewFileStream(f), slicer(&s), size, false)
}

// FileReadSliceBuffered receives elements from f as one buffered payload.
func FileReadSliceBuffered[T any](s *[]T, f *os.File, size int) error {
	return sinkBuffered(channel.NewFileStream(f), slicer(s), size, false)
}

///////////////////////////////////////////////////////////////////////////
// Positioned file
///////////////////////////////////////////////////////////////////////////

// FileWriteAt transports v into f starting at offset off.
func FileWriteAt[T any](v *T, f *os.File, off int64) error {
	return Var(newStream(types.Source, channel.NewFileAt(f, off)), v)
}

// FileReadAt receives v from f starting at offset off.
func FileReadAt[T any](v *T, f *os.File, off int64) error {
	return Var(newStream(types.Sink, channel.NewFileAt(f, off)), v)
}

// FileWriteSliceAt transports len(s) elements into f starting at offset off.
func FileWriteSliceAt[T any](s []T, f *os.File, off int64) error {
	return Slice(newStream(types.Source, channel.NewFileAt(f, off)), &s)
}

// FileReadSliceAt receives elements from f starting at offset off.
func FileReadSliceAt[T any](s *[]T, f *os.File, off int64) error {
	return Slice(newStream(types.Sink, channel.NewFileAt(f, off)), s)
}

// FileWriteAtBuffered transports v into f at offset off as one buffered
// payload.
func FileWriteAtBuffered[T any](v *T, f *os.File, off int64, size int) error {
	return sourceBuffered(channel.NewFileAt(f, off), value(v), size, false)
}

// FileReadAtBuffered receives v from f at offset off as one buffered
// payload. A non-positive size is derived from the file length past off.
func FileReadAtBuffered[T any](v *T, f *os.File, off int64, size int) error {
	return sinkBuffered(channel.NewFileAt(f, off), value(v), size, false)
}

// FileWriteSliceAtBuffered transports len(s) elements into f at offset off
// as one buffered payload.
func FileWriteSliceAtBuffered[T any](s []T, f *os.File, off int64, size int) error {
	return sourceBuffered(channel.NewFileAt(f, off), slicer(&s), size, false)
}

// FileReadSliceAtBuffered receives elements from f at offset off as one
// buffered payload.
func FileReadSliceAtBuffered[T any](s *[]T, f *os.File, off int64, size int) error {
	return sinkBuffered(channel.NewFileAt(f, off), slicer(s), size, false)
}

///////////////////////////////////////////////////////////////////////////
// Memory
///////////////////////////////////////////////////////////////////////////

// Measure returns the number of bytes v occupies on the wire. It is the
// buffered-mode size probe run by itself.
func Measure[T any](v *T) (int, error) {
	return measure(value(v))
}

// Marshal packs v into a fresh byte slice, exactly the bytes a buffered
// transport would move.
func Marshal[T any](v *T) ([]byte, error) {
	size, err := Measure(v)
	if err != nil {
		return nil, err
	}
	buf := buffer.NewSize(0, size)
	m := newBuffered(types.Source, buf)
	if err = Var(m, v); err != nil {
		return nil, err
	}
	if buf.Len() != size {
		logging.Errorf("msg %v: packed %v bytes, measured %v", m.id, buf.Len(), size)
		return nil, types.ErrBufferSize
	}
	return buf.Bytes(), nil
}

// Unmarshal unpacks v from b, which must hold exactly one payload.
func Unmarshal[T any](b []byte, v *T) error {
	m := newBuffered(types.Sink, buffer.ToBuffer(b))
	if err := Var(m, v); err != nil {
		return err
	}
	if m.buf.Remaining() != 0 {
		logging.Errorf("msg %v: %v bytes left after unpack", m.id, m.buf.Remaining())
		return types.ErrBufferSize
	}
	return nil
}
