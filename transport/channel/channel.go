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

/*
The four transport channel backends behind one interface: point-to-point,
collective broadcast, positioned file, and sequential stream. The engine
only ever asks a channel to move a contiguous byte range; which side of the
channel is active follows from the message direction.
*/
package channel

// Channel moves contiguous byte ranges between the engine and one transport
// backend. Send is used when the message is the source, Recv when it is the
// sink. Both block until the operation completes.
type Channel interface {
	Send(p []byte) error
	Recv(p []byte) error
}

// LengthProber is implemented by channels that can discover the byte length
// of the next incoming transport without consuming it (point-to-point only).
type LengthProber interface {
	ProbeLen() (int, error)
}

// Sizer is implemented by channels that can derive the remaining number of
// transportable bytes, used to size buffered-mode receive buffers when the
// length was not otherwise communicated (file backends).
type Sizer interface {
	Remaining() (int64, error)
}
