package experiment

import "log"

// Logger is a leveled log.Printf wrapper keyed off spec.md §6's
// verbose: 0..4 configuration option. No logging framework appears
// anywhere in the teacher or the rest of the pack, so this is the
// smallest ambient logger consistent with that: a level check guarding a
// stdlib log.Printf call.
type Logger struct {
	level int
}

// NewLogger returns a Logger that prints messages logged at atLevel <=
// level.
func NewLogger(level int) *Logger {
	return &Logger{level: level}
}

// Logf prints format/args if atLevel is at or below the logger's
// configured verbosity.
func (l *Logger) Logf(atLevel int, format string, args ...interface{}) {
	if l == nil || atLevel > l.level {
		return
	}
	log.Printf(format, args...)
}
