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
In-process process group. Each participant holds a rank in a Group and moves
discrete byte messages through tagged mailboxes. Point-to-point traffic is
matched on (from, to, tag); collective broadcast traffic uses a reserved tag.
Receives are synchronous and block until the matching message arrives.
*/
package comm

import (
	"sync"

	"github.com/CS-Swansea/mel-go/config"
	"github.com/CS-Swansea/mel-go/transport/logging"
	"github.com/CS-Swansea/mel-go/transport/types"
)

type key struct {
	from, to, tag int
}

// mailbox carries the messages for one (from, to, tag) triple.
// The stash holds messages pulled off the channel by Probe but not yet
// consumed by Recv. Only the receiving rank touches the stash.
type mailbox struct {
	ch    chan []byte
	stash [][]byte
}

// Group is a fixed set of ranked participants sharing one mailbox space.
type Group struct {
	mu    sync.Mutex
	n     int
	boxes map[key]*mailbox
}

// NewGroup creates a group of n ranks numbered 0..n-1.
func NewGroup(n int) *Group {
	if n <= 0 {
		panic("group size must be positive")
	}
	return &Group{
		n:     n,
		boxes: make(map[key]*mailbox),
	}
}

// Size returns the number of ranks in the group.
func (g *Group) Size() int {
	return g.n
}

// Proc returns the handle for rank in the group.
func (g *Group) Proc(rank int) *Proc {
	if rank < 0 || rank >= g.n {
		panic("rank not in group")
	}
	return &Proc{g: g, rank: rank}
}

func (g *Group) box(k key) *mailbox {
	g.mu.Lock()
	defer g.mu.Unlock()

	mb, ok := g.boxes[k]
	if !ok {
		mb = &mailbox{ch: make(chan []byte, config.MailboxBuffSize)}
		g.boxes[k] = mb
	}
	return mb
}

// Proc is one rank's handle on the group. A Proc is driven by a single
// call stack at a time; the group itself may be shared across ranks.
type Proc struct {
	g    *Group
	rank int
}

// Rank returns the rank of this participant.
func (p *Proc) Rank() int {
	return p.rank
}

// Size returns the number of ranks in the group.
func (p *Proc) Size() int {
	return p.g.n
}

// Send delivers one discrete message of exactly len(b) bytes to rank to.
// It blocks while the destination mailbox is full.
func (p *Proc) Send(to, tag int, b []byte) error {
	if to < 0 || to >= p.g.n {
		logging.Errorf("rank %v: send to invalid rank %v", p.rank, to)
		return types.ErrInvalidRank
	}
	if len(b) > config.MaxMsgSize {
		logging.Errorf("rank %v: send of %v bytes exceeds max %v", p.rank, len(b), config.MaxMsgSize)
		return types.ErrMsgTooLarge
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	p.g.box(key{from: p.rank, to: to, tag: tag}).ch <- cp
	return nil
}

// next takes the next message from rank from, preferring probed messages.
func (p *Proc) next(from, tag int) []byte {
	mb := p.g.box(key{from: from, to: p.rank, tag: tag})
	if len(mb.stash) > 0 {
		msg := mb.stash[0]
		mb.stash = mb.stash[1:]
		return msg
	}
	return <-mb.ch
}

// Recv receives the next message from rank from into b. The incoming message
// must hold exactly len(b) bytes; a disagreement is a reported error, the
// message is dropped and nothing is copied.
func (p *Proc) Recv(from, tag int, b []byte) error {
	if from < 0 || from >= p.g.n {
		logging.Errorf("rank %v: recv from invalid rank %v", p.rank, from)
		return types.ErrInvalidRank
	}
	msg := p.next(from, tag)
	if len(msg) != len(b) {
		logging.Errorf("rank %v: recv from %v tag %v: got %v bytes, want %v",
			p.rank, from, tag, len(msg), len(b))
		return types.ErrLengthMismatch
	}
	copy(b, msg)
	return nil
}

// Probe returns the byte length of the next message from rank from without
// consuming it. It blocks until a message arrives.
func (p *Proc) Probe(from, tag int) (int, error) {
	if from < 0 || from >= p.g.n {
		logging.Errorf("rank %v: probe from invalid rank %v", p.rank, from)
		return 0, types.ErrInvalidRank
	}
	mb := p.g.box(key{from: from, to: p.rank, tag: tag})
	if len(mb.stash) == 0 {
		mb.stash = append(mb.stash, <-mb.ch)
	}
	return len(mb.stash[0]), nil
}

// BcastSend delivers b to every other rank in rank order. It is called by
// the broadcast root; every other rank must call BcastRecv the same number
// of times in the same order.
func (p *Proc) BcastSend(b []byte) error {
	for r := 0; r < p.g.n; r++ {
		if r == p.rank {
			continue
		}
		if err := p.Send(r, config.BcastTag, b); err != nil {
			return err
		}
	}
	return nil
}

// BcastRecv receives the next broadcast message from root into b.
func (p *Proc) BcastRecv(root int, b []byte) error {
	return p.Recv(root, config.BcastTag, b)
}
