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
	"reflect"
	"sync"
	"unsafe"
)

// plainTypes caches the plain/deep classification per reflect.Type. The
// classification is a property of the type, so computing it once is enough.
var plainTypes sync.Map // reflect.Type -> bool

// plainType reports whether T can travel as one opaque byte span: its
// representation must contain no Go pointers of any kind.
func plainType[T any]() bool {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if v, ok := plainTypes.Load(t); ok {
		return v.(bool)
	}
	v := isPlainKind(t)
	plainTypes.Store(t, v)
	return v
}

func isPlainKind(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return isPlainKind(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if !isPlainKind(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// isDeep reports whether *T implements Transportable.
func isDeep[T any]() bool {
	_, ok := any((*T)(nil)).(Transportable)
	return ok
}

// rawBytes views one plain value as its native byte layout, padding
// included. Only valid for types that passed plainType.
func rawBytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(unsafe.Sizeof(*v)))
}

// sliceBytes views a slice of plain elements as one contiguous byte span.
func sliceBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*int(unsafe.Sizeof(s[0])))
}

// stringBytes views a string's characters without copying.
func stringBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
