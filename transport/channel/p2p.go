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
	"github.com/CS-Swansea/mel-go/transport/comm"
)

// P2P is the point-to-point backend: every byte range is one tagged message
// to or from a fixed peer rank.
type P2P struct {
	proc *comm.Proc
	peer int
	tag  int
}

// NewP2P creates a point-to-point channel between proc and peer using tag.
func NewP2P(proc *comm.Proc, peer, tag int) *P2P {
	return &P2P{proc: proc, peer: peer, tag: tag}
}

func (c *P2P) Send(p []byte) error {
	return c.proc.Send(c.peer, c.tag, p)
}

func (c *P2P) Recv(p []byte) error {
	return c.proc.Recv(c.peer, c.tag, p)
}

// ProbeLen returns the byte length of the next incoming message from the peer.
func (c *P2P) ProbeLen() (int, error) {
	return c.proc.Probe(c.peer, c.tag)
}
