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
	"container/list"

	"github.com/CS-Swansea/mel-go/transport/logging"
	"github.com/CS-Swansea/mel-go/transport/types"
)

// Pointer markers written ahead of every transported pointer. A back
// reference is followed by the uint32 first-visit index of its target.
const (
	markNil byte = iota
	markNew
	markRef
)

// Var transports one value. A plain value travels verbatim as one byte
// span; a Transportable value describes itself through DeepCopy.
func Var[T any](m *Message, v *T) error {
	if t, ok := any(v).(Transportable); ok {
		return t.DeepCopy(m)
	}
	if !plainType[T]() {
		logging.Errorf("msg %v: %T is not plain and does not implement Transportable", m.id, v)
		return types.ErrNotPlain
	}
	return m.transfer(rawBytes(v))
}

// Ptr transports the pointer at p. Nil travels as a single marker byte with
// no allocation. On the sink a fresh element is allocated before it is
// populated; a deep element is recursed after its allocation.
func Ptr[T any](m *Message, p **T) error {
	mark := markNil
	if m.dir == types.Source && *p != nil {
		mark = markNew
	}
	if err := m.u8(&mark); err != nil {
		return err
	}
	switch mark {
	case markNil:
		if m.dir == types.Sink {
			*p = nil
		}
		return nil
	case markNew:
		if m.dir == types.Sink {
			*p = new(T)
		}
		return Var(m, *p)
	default:
		logging.Errorf("msg %v: invalid pointer marker %v", m.id, mark)
		return types.ErrBadMarker
	}
}

// SharedPtr is Ptr with deduplication of shared targets. The first visit of
// a pointer transports its element and records it in the identity cache
// before descending into the element's own deep fields; later visits of the
// same pointer travel as a back reference to the recorded index and move no
// element data at all. Trees never hit the cache, DAGs reconstruct with true
// aliasing, and cycles terminate because the cache entry precedes the
// descent.
func SharedPtr[T any](m *Message, p **T) error {
	mark := markNil
	var ref uint32
	if m.dir == types.Source && *p != nil {
		if idx, ok := m.cache.lookup(any(*p)); ok {
			mark, ref = markRef, idx
		} else {
			mark = markNew
		}
	}
	if err := m.u8(&mark); err != nil {
		return err
	}
	switch mark {
	case markNil:
		if m.dir == types.Sink {
			*p = nil
		}
		return nil
	case markRef:
		if err := m.u32(&ref); err != nil {
			return err
		}
		if m.dir == types.Sink {
			node, err := m.cache.resolve(ref)
			if err != nil {
				logging.Errorf("msg %v: shared pointer index %v out of range", m.id, ref)
				return err
			}
			tp, ok := node.(*T)
			if !ok {
				logging.Errorf("msg %v: shared pointer %v resolves to %T, want %T", m.id, ref, node, tp)
				return types.ErrRefTypeMismatch
			}
			*p = tp
		}
		return nil
	case markNew:
		if m.dir == types.Sink {
			*p = new(T)
			m.cache.add(any(*p))
		} else {
			m.cache.insert(any(*p))
		}
		return Var(m, *p)
	default:
		logging.Errorf("msg %v: invalid pointer marker %v", m.id, mark)
		return types.ErrBadMarker
	}
}

// Slice transports a length followed by the elements: plain elements move
// as one bulk span, deep elements one at a time in index order. On the sink
// a nil destination is allocated to the incoming length; a non-nil
// destination must already have exactly that length.
func Slice[T any](m *Message, s *[]T) error {
	n := uint32(len(*s))
	if err := m.u32(&n); err != nil {
		return err
	}
	if m.dir == types.Sink {
		switch {
		case *s == nil && n == 0:
			return nil
		case *s == nil:
			*s = make([]T, n)
		case len(*s) != int(n):
			logging.Errorf("msg %v: incoming length %v disagrees with destination length %v",
				m.id, n, len(*s))
			return types.ErrLengthMismatch
		}
	}
	return elems(m, *s)
}

// SharedSlice is Slice with deduplication keyed on the slice's backing
// array, the contiguous-range form of SharedPtr. A back reference carries
// its own length and re-slices the cached array, so prefixes sharing one
// backing array reconstruct with true aliasing; a reference longer than the
// first-transported range cannot be rebuilt and is a reported error.
func SharedSlice[T any](m *Message, s *[]T) error {
	mark := markNil
	var ref uint32
	if m.dir == types.Source && *s != nil {
		mark = markNew
		if len(*s) > 0 {
			if idx, ok := m.cache.lookup(any(&(*s)[0])); ok {
				mark, ref = markRef, idx
			}
		}
	}
	if err := m.u8(&mark); err != nil {
		return err
	}
	switch mark {
	case markNil:
		if m.dir == types.Sink {
			*s = nil
		}
		return nil
	case markRef:
		if err := m.u32(&ref); err != nil {
			return err
		}
		// shared ranges may be different-length prefixes of one backing
		// array, so the reference states its own length
		n := uint32(len(*s))
		if err := m.u32(&n); err != nil {
			return err
		}
		if m.dir == types.Sink {
			node, err := m.cache.resolve(ref)
			if err != nil {
				logging.Errorf("msg %v: shared slice index %v out of range", m.id, ref)
				return err
			}
			sl, ok := node.([]T)
			if !ok {
				logging.Errorf("msg %v: shared slice %v resolves to %T, want %T", m.id, ref, node, sl)
				return types.ErrRefTypeMismatch
			}
			if int(n) > len(sl) {
				logging.Errorf("msg %v: shared slice reference of length %v exceeds the %v elements transported",
					m.id, n, len(sl))
				return types.ErrLengthMismatch
			}
			*s = sl[:n]
		}
		return nil
	case markNew:
		n := uint32(len(*s))
		if err := m.u32(&n); err != nil {
			return err
		}
		if m.dir == types.Sink {
			*s = make([]T, n)
			if n > 0 {
				m.cache.add(any(*s))
			}
		} else if n > 0 {
			m.cache.insert(any(&(*s)[0]))
		}
		return elems(m, *s)
	default:
		logging.Errorf("msg %v: invalid pointer marker %v", m.id, mark)
		return types.ErrBadMarker
	}
}

// elems moves the elements of s, already sized on both sides.
func elems[T any](m *Message, s []T) error {
	if len(s) == 0 {
		return nil
	}
	if isDeep[T]() {
		for i := range s {
			if err := any(&s[i]).(Transportable).DeepCopy(m); err != nil {
				return err
			}
		}
		return nil
	}
	if !plainType[T]() {
		logging.Errorf("msg %v: slice element %T is not plain and does not implement Transportable",
			m.id, new(T))
		return types.ErrNotPlain
	}
	return m.transfer(sliceBytes(s))
}

// String transports a length followed by the character range.
func String(m *Message, s *string) error {
	n := uint32(len(*s))
	if err := m.u32(&n); err != nil {
		return err
	}
	if m.dir == types.Source {
		return m.transfer(stringBytes(*s))
	}
	b := make([]byte, n)
	if err := m.transfer(b); err != nil {
		return err
	}
	*s = string(b)
	return nil
}

// List transports a length followed by one element at a time, since a
// linked container is not contiguous in memory. Elements must be stored as
// T values. On the sink the received elements are appended to l, which
// should start empty.
func List[T any](m *Message, l *list.List) error {
	n := uint32(l.Len())
	if err := m.u32(&n); err != nil {
		return err
	}
	if m.dir == types.Source {
		for e := l.Front(); e != nil; e = e.Next() {
			v := e.Value.(T)
			if err := Var(m, &v); err != nil {
				return err
			}
		}
		return nil
	}
	for i := 0; i < int(n); i++ {
		var v T
		if err := Var(m, &v); err != nil {
			return err
		}
		l.PushBack(v)
	}
	return nil
}

// Pack dispatches each value to the matching transport operation based on
// its concrete type, the shorthand form of the operations above.
func (m *Message) Pack(vals ...any) error {
	for _, v := range vals {
		var err error
		switch t := v.(type) {
		case Transportable:
			err = t.DeepCopy(m)
		case *bool:
			err = Var(m, t)
		case *int8:
			err = Var(m, t)
		case *int16:
			err = Var(m, t)
		case *int32:
			err = Var(m, t)
		case *int64:
			err = Var(m, t)
		case *int:
			err = Var(m, t)
		case *uint8:
			err = Var(m, t)
		case *uint16:
			err = Var(m, t)
		case *uint32:
			err = Var(m, t)
		case *uint64:
			err = Var(m, t)
		case *uint:
			err = Var(m, t)
		case *float32:
			err = Var(m, t)
		case *float64:
			err = Var(m, t)
		case *string:
			err = String(m, t)
		case *[]byte:
			err = Slice(m, t)
		case *[]int32:
			err = Slice(m, t)
		case *[]int64:
			err = Slice(m, t)
		case *[]float64:
			err = Slice(m, t)
		default:
			logging.Errorf("msg %v: Pack cannot dispatch %T", m.id, v)
			err = types.ErrUnsupportedPack
		}
		if err != nil {
			return err
		}
	}
	return nil
}
