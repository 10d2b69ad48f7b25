//----------------------------------------------------------------------
// This file is part of Anchor.
// Copyright (C) 2024-2026 Bernd Fix  >Y<
//
// Anchor is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// Anchor is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Logging levels
const (
	// CRITICAL errors
	CRITICAL = iota
	// SEVERE errors
	SEVERE
	// ERROR message
	ERROR
	// WARN for warning messages
	WARN
	// INFO is for informational messages
	INFO
	// DBG for debug messages
	DBG
)

type logger struct {
	sync.Mutex
	out    io.Writer // current log sink (defaults to stdout)
	level  int       // current log level
	format Formatter // message formatter
}

var (
	logInst *logger // singleton logger instance
)

func init() {
	logInst = &logger{
		out:    os.Stdout,
		level:  DBG,
		format: SimpleFormat,
	}
}

// deliver a message to the current sink if the level is relevant.
func (l *logger) deliver(level int, text string) {
	l.Lock()
	defer l.Unlock()
	if level > l.level {
		return
	}
	msg := &logMsg{
		ts:    time.Now(),
		level: level,
		text:  text,
	}
	_, _ = io.WriteString(l.out, l.format(msg))
}

//=====================================================================
// Public logging functions.
//=====================================================================

// Println punches logging data for given level.
func Println(level int, line string) {
	logInst.deliver(level, line)
}

// Printf punches formatted logging data for given level
func Printf(level int, format string, v ...interface{}) {
	logInst.deliver(level, fmt.Sprintf(format, v...))
}

//=====================================================================
// Log sink functions
//=====================================================================

// LogToFile starts logging messages to file.
func LogToFile(filename string) bool {
	f, err := os.Create(filename)
	if err != nil {
		Println(ERROR, "[log] can't enable file-based logging!")
		return false
	}
	LogToWriter(f)
	Println(INFO, "[log] file-based logging to '"+filename+"'")
	return true
}

// LogToWriter redirects logging to a generic sink.
func LogToWriter(out io.Writer) {
	logInst.Lock()
	defer logInst.Unlock()
	logInst.out = out
}

//=====================================================================
// Human-readable log tags
//=====================================================================

// GetLogLevel returns a numeric log level.
func GetLogLevel() int {
	return logInst.level
}

// GetLogLevelName returns the current loglevel in human-readable form.
func GetLogLevelName() string {
	switch logInst.level {
	case CRITICAL:
		return "CRITICAL"
	case SEVERE:
		return "SEVERE"
	case ERROR:
		return "ERROR"
	case WARN:
		return "WARN"
	case INFO:
		return "INFO"
	case DBG:
		return "DBG"
	}
	return "UNKNOWN_LOGLEVEL"
}

// SetLogLevel sets the logging level from numeric value
func SetLogLevel(lvl int) {
	if lvl < CRITICAL || lvl > DBG {
		Printf(WARN, "[logger] Unknown loglevel '%d' requested -- ignored.\n", lvl)
		return
	}
	logInst.level = lvl
}

// SetLogLevelFromName sets the logging level from symbolic name.
func SetLogLevelFromName(name string) {
	switch name {
	case "CRITICAL":
		logInst.level = CRITICAL
	case "SEVERE":
		logInst.level = SEVERE
	case "ERROR":
		logInst.level = ERROR
	case "WARN":
		logInst.level = WARN
	case "INFO":
		logInst.level = INFO
	case "DBG":
		logInst.level = DBG
	default:
		Println(WARN, "[logger] Unknown loglevel '"+name+"' requested.")
	}
}

// getTag returns the loglevel tag as prefix for message
func getTag(level int) string {
	switch level {
	case CRITICAL:
		return "{C}"
	case SEVERE:
		return "{S}"
	case ERROR:
		return "{E}"
	case WARN:
		return "{W}"
	case INFO:
		return "{I}"
	case DBG:
		return "{D}"
	}
	return "{?}"
}
