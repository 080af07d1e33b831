package microlog

import (
	"os"

	"golang.org/x/term"
)

// AutoColor enables the COLOR flag only when the console sink writes to
// an interactive terminal, so piped or captured output stays free of
// escape sequences. Non-file console destinations never qualify.
func (l *Logger) AutoColor() *Logger {
	if l == nil {
		return l
	}
	l.guard.Lock()
	defer l.guard.Unlock()
	if f, ok := l.console.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		l.flags[FLAG_COLOR] = true
	}
	return l
}
