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
	"io"
	"os"

	"github.com/CS-Swansea/mel-go/transport/logging"
	"github.com/CS-Swansea/mel-go/transport/types"
)

// Stream is the sequential stream backend over any reader or writer, so it
// also carries transports over sockets and pipes. A stream built for one
// direction reports misuse of the other.
type Stream struct {
	r io.Reader
	w io.Writer
}

// NewReadStream creates a stream channel that consumes from r.
func NewReadStream(r io.Reader) *Stream {
	return &Stream{r: r}
}

// NewWriteStream creates a stream channel that produces into w.
func NewWriteStream(w io.Writer) *Stream {
	return &Stream{w: w}
}

func (c *Stream) Send(p []byte) error {
	if c.w == nil {
		panic("send on a read stream")
	}
	n, err := c.w.Write(p)
	if err != nil {
		logging.Errorf("stream: write of %v bytes failed: %v", len(p), err)
		return err
	}
	if n != len(p) {
		logging.Errorf("stream: short write, wrote %v of %v bytes", n, len(p))
		return types.ErrShortWrite
	}
	return nil
}

func (c *Stream) Recv(p []byte) error {
	if c.r == nil {
		panic("recv on a write stream")
	}
	if _, err := io.ReadFull(c.r, p); err != nil {
		logging.Errorf("stream: read of %v bytes failed: %v", len(p), err)
		return types.ErrNotEnoughBytes
	}
	return nil
}

// FileStream is a sequential stream over an open file. Unlike a plain
// Stream it can size buffered-mode reads from the file length.
type FileStream struct {
	Stream
	f *os.File
}

// NewFileStream creates a sequential file channel over f at its current
// seek position.
func NewFileStream(f *os.File) *FileStream {
	return &FileStream{
		Stream: Stream{r: f, w: f},
		f:      f,
	}
}

// Remaining returns the number of bytes between the current seek position
// and the end of the file.
func (c *FileStream) Remaining() (int64, error) {
	pos, err := c.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	st, err := c.f.Stat()
	if err != nil {
		return 0, err
	}
	return st.Size() - pos, nil
}
