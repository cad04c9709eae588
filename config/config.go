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
General configuration settings.
*/
package config

import (
	"encoding/binary"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

func init() {
	_ = godotenv.Load()
	if lvl := os.Getenv("MELGO_LOG"); lvl != "" {
		if parsed, err := zapcore.ParseLevel(lvl); err == nil {
			LoggingLevel = parsed
		}
	}
}

const (
	// For pack buffers
	InitialBufferSize = 64 // starting capacity of growable pack buffers

	// For the in-process group
	MailboxBuffSize = 50        // queued messages per (from, to, tag) mailbox
	MaxMsgSize      = 100000000 // bytes, any larger transport is rejected
	BcastTag        = -1        // tag reserved for collective broadcast traffic

	// For the store
	StoreHashSize = 32 // bytes of the per-record integrity hash
)

// LoggingLevel is the minimum level emitted by the logging package.
// It can be overridden with the MELGO_LOG environment variable.
var LoggingLevel = zapcore.ErrorLevel

var Encoding = binary.LittleEndian // encoding for engine-written tokens (lengths, markers, sizes)
