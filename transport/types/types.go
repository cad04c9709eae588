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
Shared basic types used across the transport packages.
*/
package types

// Direction says whether a message is producing bytes into its channel
// or consuming bytes from it. It is fixed for the lifetime of a message.
type Direction int

const (
	Source Direction = iota // the local side produces the bytes
	Sink                    // the local side consumes the bytes
)

func (d Direction) String() string {
	switch d {
	case Source:
		return "source"
	case Sink:
		return "sink"
	default:
		return "unknown"
	}
}
