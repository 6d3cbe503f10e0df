// Package activity keeps the ordered, append-only record of what happened
// in a lab, as human-readable lines.
package activity

import "fmt"

// Log is an append-only sequence of lines. The zero value is ready to use.
type Log struct {
	entries []string
}

// NewLog creates an empty log
func NewLog() *Log {
	return &Log{entries: make([]string, 0)}
}

// Append records a line
func (l *Log) Append(line string) {
	l.entries = append(l.entries, line)
}

// Appendf records a formatted line
func (l *Log) Appendf(format string, args ...interface{}) {
	l.Append(fmt.Sprintf(format, args...))
}

// Entries returns a copy of every line, oldest first
func (l *Log) Entries() []string {
	return append([]string(nil), l.entries...)
}

// Tail returns a copy of the last n lines, oldest first. n <= 0 returns
// every line.
func (l *Log) Tail(n int) []string {
	if n <= 0 || n >= len(l.entries) {
		return l.Entries()
	}
	return append([]string(nil), l.entries[len(l.entries)-n:]...)
}

// Len returns the number of lines
func (l *Log) Len() int {
	return len(l.entries)
}
