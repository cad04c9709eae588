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
Basic logging functionality.
*/
package logging

import (
	"go.uber.org/zap"

	"github.com/CS-Swansea/mel-go/config"
)

var sugar *zap.SugaredLogger

// setup the logger at the configured level
func init() {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(config.LoggingLevel)
	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
	sugar = logger.Sugar()
}

// Printf logs args according to format.
func Printf(format string, args ...interface{}) {
	sugar.Infof(format, args...)
}

// Print logs args.
func Print(args ...interface{}) {
	sugar.Info(args...)
}

// Errorf logs an error args using format.
func Errorf(format string, args ...interface{}) {
	sugar.Errorf(format, args...)
}

// Error logs an error args.
func Error(args ...interface{}) {
	sugar.Error(args...)
}

// Warningf logs a warning args using format.
func Warningf(format string, args ...interface{}) {
	sugar.Warnf(format, args...)
}

// Warning logs a warning args.
func Warning(args ...interface{}) {
	sugar.Warn(args...)
}

// Infof logs an info message args using format.
func Infof(format string, args ...interface{}) {
	sugar.Infof(format, args...)
}

// Info logs an info message args.
func Info(args ...interface{}) {
	sugar.Info(args...)
}
