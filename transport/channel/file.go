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
	"os"

	"github.com/CS-Swansea/mel-go/transport/logging"
	"github.com/CS-Swansea/mel-go/transport/types"
)

// FileAt is the positioned file backend: byte ranges are written to or read
// from an explicit offset cursor that advances with every operation.
type FileAt struct {
	f   *os.File
	off int64
}

// NewFileAt creates a positioned file channel over f starting at off.
func NewFileAt(f *os.File, off int64) *FileAt {
	return &FileAt{f: f, off: off}
}

func (c *FileAt) Send(p []byte) error {
	off := c.off
	n, err := c.f.WriteAt(p, off)
	c.off += int64(n)
	if err != nil {
		logging.Errorf("file %v: write of %v bytes at %v failed: %v", c.f.Name(), len(p), off, err)
		return err
	}
	if n != len(p) {
		logging.Errorf("file %v: short write, wrote %v of %v bytes", c.f.Name(), n, len(p))
		return types.ErrShortWrite
	}
	return nil
}

func (c *FileAt) Recv(p []byte) error {
	off := c.off
	n, err := c.f.ReadAt(p, off)
	c.off += int64(n)
	if n == len(p) {
		// ReadAt may return io.EOF alongside a full read at end of file.
		return nil
	}
	logging.Errorf("file %v: read of %v bytes at %v got %v: %v", c.f.Name(), len(p), off, n, err)
	return types.ErrNotEnoughBytes
}

// Remaining returns the number of bytes between the cursor and the end of
// the file.
func (c *FileAt) Remaining() (int64, error) {
	st, err := c.f.Stat()
	if err != nil {
		return 0, err
	}
	return st.Size() - c.off, nil
}

// Offset returns the current cursor position.
func (c *FileAt) Offset() int64 {
	return c.off
}
