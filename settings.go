package microlog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

/*
The settings parser: a line-oriented grammar that mutates a logger
incrementally. One directive per line, applied in file order; later
directives override earlier ones for the same setting.

	# comment
	level: warn
	flags: level date time
	file: /var/log/app.log
	inet: 127.0.0.1 6000 tcp
	unix: /tmp/app.sock

Parsing aborts at the first malformed directive. Directives already
applied stay applied — there is no rollback; a failed load can leave the
logger partially reconfigured. This mirrors the incremental-mutation
contract and is a documented limitation.
*/

// settingsLevels maps settings-file level names to levels. Names are the
// rendered names lowercased and matched case-sensitively.
var settingsLevels = map[string]LogLevel{
	"trace":    LVL_TRACE,
	"debug":    LVL_DEBUG,
	"info":     LVL_INFO,
	"warn":     LVL_WARN,
	"error":    LVL_ERROR,
	"fatal":    LVL_FATAL,
	"disabled": LVL_DISABLED,
}

// settingsFlags maps settings-file flag keywords to flags.
var settingsFlags = map[string]LogFlag{
	"level": FLAG_LEVEL,
	"date":  FLAG_DATE,
	"time":  FLAG_TIME,
	"pid":   FLAG_PID,
	"tid":   FLAG_TID,
	"json":  FLAG_JSON,
	"color": FLAG_COLOR,
	"file":  FLAG_FILE,
	"line":  FLAG_LINE,
}

// LoadSettings applies directives from r to the logger, stopping at the
// first malformed directive or failed mutation. Returned errors carry the
// line number and wrap the error kind of the failing directive.
func (l *Logger) LoadSettings(r io.Reader) error {
	if l == nil {
		return ErrLoggerNil
	}
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		if err := l.applyDirective(scanner.Text()); err != nil {
			return fmt.Errorf("settings line %d: %w", lineno, err)
		}
	}
	return scanner.Err()
}

// LoadSettingsFile is LoadSettings over the file at path.
func (l *Logger) LoadSettingsFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOpenFile, err)
	}
	defer f.Close()
	return l.LoadSettings(f)
}

// applyDirective classifies one settings line by its directive prefix and
// invokes the matching logger mutator. Blank lines and full-line comments
// are ignored.
func (l *Logger) applyDirective(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	if rest, ok := strings.CutPrefix(line, "level:"); ok {
		return l.applyLevel(rest)
	}
	if rest, ok := strings.CutPrefix(line, "flags:"); ok {
		return l.applyFlags(rest)
	}
	if rest, ok := strings.CutPrefix(line, "file:"); ok {
		return l.applyFile(rest)
	}
	if rest, ok := strings.CutPrefix(line, "inet:"); ok {
		return l.applyInet(rest)
	}
	if rest, ok := strings.CutPrefix(line, "unix:"); ok {
		return l.applyUnix(rest)
	}
	return fmt.Errorf("%w: %q", ErrUnknownDirective, line)
}

func (l *Logger) applyLevel(rest string) error {
	name := strings.TrimSpace(rest)
	level, ok := settingsLevels[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLevel, name)
	}
	l.SetLevel(level)
	return nil
}

// applyFlags matches whitespace-separated flag keywords. An unknown token
// aborts the directive: no flag from that line is applied.
func (l *Logger) applyFlags(rest string) error {
	tokens := strings.Fields(rest)
	flags := make([]LogFlag, 0, len(tokens))
	for _, token := range tokens {
		flag, ok := settingsFlags[token]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownFlag, token)
		}
		flags = append(flags, flag)
	}
	l.SetFlags(flags...)
	return nil
}

// applyFile takes the remainder up to the first whitespace as the path.
func (l *Logger) applyFile(rest string) error {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return fmt.Errorf("%w: missing path", ErrInvalidFileLine)
	}
	return l.SetFile(fields[0])
}

// applyInet expects address, decimal port and protocol tokens. The
// connect is part of the directive: a failure aborts the load.
func (l *Logger) applyInet(rest string) error {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return ErrInetAddrEmpty
	}
	addr := fields[0]
	portToken := ""
	if len(fields) > 1 {
		portToken = fields[1]
	}
	port, err := strconv.Atoi(portToken)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("%w: %q", ErrInvalidPort, portToken)
	}
	protoToken := ""
	if len(fields) > 2 {
		protoToken = fields[2]
	}
	var proto SockProto
	switch protoToken {
	case "tcp":
		proto = PROTO_TCP
	case "udp":
		proto = PROTO_UDP
	default:
		return fmt.Errorf("%w: %q", ErrInvalidProto, protoToken)
	}
	return l.SetInetSocket(addr, port, proto)
}

func (l *Logger) applyUnix(rest string) error {
	path := strings.TrimSpace(rest)
	if path == "" {
		return ErrSockPathEmpty
	}
	return l.SetUnixSocket(path)
}
