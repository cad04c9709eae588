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

package types

import (
	"fmt"
)

// buffer
var ErrNotEnoughBytes = fmt.Errorf("not enough bytes to read")

// comm
var ErrInvalidRank = fmt.Errorf("rank not in group")
var ErrMsgTooLarge = fmt.Errorf("message exceeds max size")

// channel
var ErrNoSize = fmt.Errorf("channel cannot derive a transfer size")
var ErrShortWrite = fmt.Errorf("short write on channel")

// deep
var ErrLengthMismatch = fmt.Errorf("transported length disagrees with the requested length")
var ErrNotPlain = fmt.Errorf("type contains pointers but does not implement Transportable")
var ErrBadMarker = fmt.Errorf("invalid pointer marker on the wire")
var ErrBadRefIndex = fmt.Errorf("shared pointer reference index out of range")
var ErrRefTypeMismatch = fmt.Errorf("shared pointer reference resolves to a different type")
var ErrBufferSize = fmt.Errorf("packed payload size disagrees with the measured size")
var ErrUnsupportedPack = fmt.Errorf("unsupported type passed to Pack")

// store
var ErrInvalidKeySize = fmt.Errorf("invalid key size")
var ErrKeyNotFound = fmt.Errorf("key not found")
var ErrCorruptRecord = fmt.Errorf("record hash check failed")
