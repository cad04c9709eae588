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
Package deep moves arbitrary in-memory object graphs through the transport
channels without per-type marshalling code. A type is annotated once with a
DeepCopy method describing its pointer and container fields; the engine
handles channel selection, sink-side allocation, buffer packing and
deduplication of shared pointers, so scalars, flat arrays, strings, linked
and contiguous containers and recursive pointer graphs (shared substructure
and cycles included) all travel through the same calls.

Transports run in streaming mode, one channel operation per pack call, or in
buffered mode, where a counting pass sizes the payload and a single channel
operation moves it. Both modes execute the identical pack sequence and
produce identical bytes. The recursive traversal order is the protocol:
there is no framing on the wire beyond pointer markers and lengths, so every
participant in a transport must drive a structurally identical description.
*/
package deep
