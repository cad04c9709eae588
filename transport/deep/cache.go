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
	"github.com/CS-Swansea/mel-go/transport/types"
)

// idCache tracks shared pointers for the lifetime of one Message. On the
// source it maps pointer identity to the index assigned at first visit; on
// the sink it is the arena of reconstructed nodes in first-visit order.
// First visits are recorded before descending into the node's own deep
// fields, which is what makes back-edge cycles terminate.
type idCache struct {
	seen  map[any]uint32 // source side, keyed on the boxed pointer
	arena []any          // sink side
}

func newIDCache() *idCache {
	return &idCache{seen: make(map[any]uint32)}
}

// lookup reports the index assigned to p at its first visit, if any.
func (c *idCache) lookup(p any) (uint32, bool) {
	idx, ok := c.seen[p]
	return idx, ok
}

// insert assigns p the next first-visit index on the source side.
func (c *idCache) insert(p any) uint32 {
	idx := uint32(len(c.seen))
	c.seen[p] = idx
	return idx
}

// add records a freshly allocated node on the sink side. Indices assigned
// here mirror insert on the source as long as both sides run the same
// traversal.
func (c *idCache) add(p any) uint32 {
	c.arena = append(c.arena, p)
	return uint32(len(c.arena) - 1)
}

// resolve returns the node recorded for a back-reference index.
func (c *idCache) resolve(idx uint32) (any, error) {
	if int(idx) >= len(c.arena) {
		return nil, types.ErrBadRefIndex
	}
	return c.arena[idx], nil
}
