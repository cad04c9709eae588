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

// Bcast is the collective broadcast backend. The root produces every byte
// range once and the group delivers it to all other ranks; every participant
// must issue the matching operations in the same order.
type Bcast struct {
	proc *comm.Proc
	root int
}

// NewBcast creates a broadcast channel rooted at root for proc.
func NewBcast(proc *comm.Proc, root int) *Bcast {
	return &Bcast{proc: proc, root: root}
}

// Send is only ever driven on the root rank.
func (c *Bcast) Send(p []byte) error {
	return c.proc.BcastSend(p)
}

func (c *Bcast) Recv(p []byte) error {
	return c.proc.BcastRecv(c.root, p)
}
