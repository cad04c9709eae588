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
Append-only key/value disk storage for engine-marshalled object graphs.
Writing a key twice appends the new value to the end of the file; the old
value still exists but becomes unaccessible. The keys and the location of
each value on disk are kept in memory and rebuilt by a recovery scan when an
existing file is opened. Values are stored with a BLAKE2b hash that is
verified on every read.
*/
package store

import (
	"bufio"
	"bytes"
	"io"
	"math"
	"os"

	"golang.org/x/crypto/blake2b"

	"github.com/CS-Swansea/mel-go/config"
	"github.com/CS-Swansea/mel-go/transport/buffer"
	"github.com/CS-Swansea/mel-go/transport/deep"
	"github.com/CS-Swansea/mel-go/transport/logging"
	"github.com/CS-Swansea/mel-go/transport/types"
)

var openType = os.O_APPEND | os.O_RDWR | os.O_CREATE

// Store is a simple key/value disk storage for packed object graphs.
// Writes can be buffered in memory if a bufferSize > 0 is used as input to
// Open.
type Store struct {
	name        string               // the file name
	keySize     int                  // size of every key in bytes
	keyMap      map[string][2]int64  // map from key to location on disk and size of value stored
	orderedKeys []string             // list of keys in the order they were written
	file        *os.File             // the actual file
	pos         int64                // the current position in the file
	bufferSize  int                  // the size of the in memory buffer for writing
	writer      *bufio.Writer        // if bufferSize > 0 then this is used to buffer writes
}

// Open opens the store at name with fixed keySize keys and a write buffer of
// bufferSize bytes (use 0 for unbuffered). If the file exists, it checks the
// stored values are valid and loads the meta-data into memory.
func Open(name string, keySize, bufferSize int) (*Store, error) {
	s := &Store{
		name:       name,
		keySize:    keySize,
		keyMap:     make(map[string][2]int64),
		pos:        -1,
		bufferSize: bufferSize,
	}
	if err := s.readFile(openType); err != nil {
		return nil, err
	}
	return s, nil
}

// Contains returns true if the key is contained in the map.
// It returns false if a 0 length value has been stored for the key.
func (s *Store) Contains(key []byte) bool {
	if val, ok := s.keyMap[string(key)]; ok {
		return val[1] > 0
	}
	return false
}

// Range goes through the keys in the order they were written, calling f on
// them. It stops if f returns false.
func (s *Store) Range(f func(key, value []byte) bool) {
	for _, k := range s.orderedKeys {
		v, err := s.Read([]byte(k))
		if err != nil {
			panic(err)
		}
		if len(v) == 0 {
			continue
		}
		if !f([]byte(k), v) {
			return
		}
	}
}

// Read returns the value stored for key, or nil if the key was not found.
func (s *Store) Read(key []byte) ([]byte, error) {
	val, ok := s.keyMap[string(key)]
	if !ok {
		return nil, nil
	}
	if s.writer != nil && s.writer.Buffered() > 0 {
		if err := s.writer.Flush(); err != nil {
			logging.Error(err)
		}
	}
	s.pos = -1

	pos, err := s.file.Seek(val[0], io.SeekStart)
	if pos != val[0] || err != nil {
		logging.Errorf("store %v: could not seek to %v: %v", s.name, val[0], err)
		return nil, types.ErrNotEnoughBytes
	}
	// Get the hash
	nextHash := make([]byte, config.StoreHashSize)
	if _, err = io.ReadFull(s.file, nextHash); err != nil {
		logging.Errorf("store %v: error reading value hash: %v", s.name, err)
		return nil, types.ErrNotEnoughBytes
	}

	// Read the value
	ret := make([]byte, val[1])
	if _, err = io.ReadFull(s.file, ret); err != nil {
		logging.Errorf("store %v: error reading value: %v", s.name, err)
		return nil, types.ErrNotEnoughBytes
	}

	// Check the hash
	check := blake2b.Sum256(ret)
	if !bytes.Equal(nextHash, check[:]) {
		logging.Errorf("store %v: invalid hash for key", s.name)
		return nil, types.ErrCorruptRecord
	}

	return ret, nil
}

// Close flushes to the disk, syncs the file, and closes it.
func (s *Store) Close() error {
	var err error
	if s.file != nil {
		if s.writer != nil && s.writer.Buffered() > 0 {
			err = s.writer.Flush()
			if err != nil {
				logging.Error(err)
			}
		}
		err = s.file.Sync()
		if err != nil {
			logging.Error(err)
		}
		err = s.file.Close()
	}
	s.file = nil
	s.keyMap = nil
	return err
}

// Clear deletes all keys and values stored.
func (s *Store) Clear() error {
	if s.file != nil {
		if err := s.file.Close(); err != nil {
			logging.Error(err)
		}
	}
	s.writer = nil
	if err := os.Remove(s.name); err != nil {
		return err
	}
	s.keyMap = make(map[string][2]int64)
	s.orderedKeys = nil
	return s.readFile(openType)
}

func (s *Store) internalWrite(val []byte) (int, error) {
	if s.writer != nil {
		return s.writer.Write(val)
	}
	return s.file.Write(val)
}

// Write stores a key and associated value to disk.
// If the key exists, the value is overwritten.
func (s *Store) Write(key, val []byte) error {
	if len(key) != s.keySize {
		return types.ErrInvalidKeySize
	}
	if s.pos == -1 {
		pos, err := s.file.Seek(0, io.SeekEnd)
		if err != nil {
			if err2 := s.file.Close(); err2 != nil {
				logging.Error(err2)
			}
			return err
		}
		s.pos = pos
	}

	// Record head is the key followed by the value size
	head := buffer.NewSize(0, s.keySize+8)
	if _, err := head.Write(key); err != nil {
		return err
	}
	head.AddUint64(uint64(len(val)))

	hash := blake2b.Sum256(val)

	n, err := s.internalWrite(head.Bytes())
	if err != nil {
		logging.Error("unable to write record head", err)
		if err2 := s.file.Close(); err2 != nil {
			logging.Error(err2)
		}
		return err
	}
	s.pos += int64(n)
	valuePosition := s.pos

	n, err = s.internalWrite(hash[:])
	if err != nil {
		logging.Error("unable to write value hash", err)
		if err2 := s.file.Close(); err2 != nil {
			logging.Error(err2)
		}
		return err
	}
	s.pos += int64(n)

	n, err = s.internalWrite(val)
	if err != nil {
		logging.Error("unable to write value", err)
		if err2 := s.file.Close(); err2 != nil {
			logging.Error(err2)
		}
		return err
	}

	if _, ok := s.keyMap[string(key)]; !ok {
		s.orderedKeys = append(s.orderedKeys, string(key))
	}

	s.keyMap[string(key)] = [2]int64{valuePosition, int64(len(val))}
	s.pos += int64(n)

	return nil
}

// corruptIndex corrupts the data stored at index in the file by writing val
// there. It is just for testing.
func (s *Store) corruptIndex(index int64, val byte) error {
	s.pos = -1
	pos, err := s.file.Seek(index, io.SeekStart)
	if err != nil || pos != index {
		return err
	}
	_, err = s.internalWrite([]byte{val})
	return err
}

// corruptValue corrupts the value stored for key by writing corrupt at the
// first byte of the value.
func (s *Store) corruptValue(key []byte, corrupt byte) error {
	if val, ok := s.keyMap[string(key)]; ok {
		return s.corruptIndex(val[0]+config.StoreHashSize, corrupt)
	}
	return types.ErrKeyNotFound
}

// readFile opens the file, checks the format, and loads all the meta-data
// into memory. Records that fail their hash check are skipped.
func (s *Store) readFile(openType int) error {
	file, err := os.OpenFile(s.name, openType, 0666)
	if err != nil {
		logging.Error("error opening store: ", err)
		return err
	}
	s.file = file
	pos, err := file.Seek(0, io.SeekStart)
	if err != nil {
		if err2 := file.Close(); err2 != nil {
			logging.Error(err2)
		}
		return err
	}

	if s.bufferSize > 0 {
		s.writer = bufio.NewWriterSize(file, s.bufferSize)
	}

	for {
		nextPos := pos

		// Get the key
		keyBytes := make([]byte, s.keySize)
		n, err := file.Read(keyBytes)
		if err != nil || n != s.keySize {
			if n != 0 {
				logging.Error("error reading key, got length: ", n)
			}
			break
		}
		nextPos += int64(n)

		// Get the size
		sizeBytes := make([]byte, 8)
		n, err = file.Read(sizeBytes)
		if err != nil || n != 8 {
			logging.Error("error reading value size, got length: ", n)
			break
		}
		nextPos += int64(n)
		size := int64(config.Encoding.Uint64(sizeBytes))
		if size > math.MaxInt32 || size < 0 {
			logging.Error("invalid record size", size)
			break
		}

		// The record is addressed by the start of its hash
		valuePosition := nextPos

		// Get the hash
		nextHash := make([]byte, config.StoreHashSize)
		n, err = file.Read(nextHash)
		if err != nil || n != config.StoreHashSize {
			logging.Error("error reading value hash, got length: ", n)
			break
		}
		nextPos += int64(n)

		value := make([]byte, size)
		n, err = file.Read(value)
		if err != nil || int64(n) != size {
			logging.Error("error reading value, got length: ", n)
			break
		}
		nextPos += int64(n)

		check := blake2b.Sum256(value)
		if !bytes.Equal(nextHash, check[:]) {
			logging.Error("invalid hash for key: ", keyBytes)
		} else {
			if _, ok := s.keyMap[string(keyBytes)]; !ok {
				s.orderedKeys = append(s.orderedKeys, string(keyBytes))
			}
			s.keyMap[string(keyBytes)] = [2]int64{valuePosition, size}
		}
		pos = nextPos
	}

	s.pos = pos
	return nil
}

// Put packs v with the transport engine and stores it under key.
func Put[T any](s *Store, key []byte, v *T) error {
	b, err := deep.Marshal(v)
	if err != nil {
		return err
	}
	return s.Write(key, b)
}

// Get loads the value stored under key and unpacks it into v.
func Get[T any](s *Store, key []byte, v *T) error {
	b, err := s.Read(key)
	if err != nil {
		return err
	}
	if b == nil {
		return types.ErrKeyNotFound
	}
	return deep.Unmarshal(b, v)
}
