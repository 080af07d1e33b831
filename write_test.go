package microlog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Gate_BelowThreshold(t *testing.T) {
	out := &FakeWriter{}
	l := InitWithOutput(out).SetLevel(LVL_WARN)
	out.Reset()
	assert.NoError(t, l.Infof("dropped"))
	assert.NoError(t, l.Debugf("dropped"))
	assert.Empty(t, out.String())
	assert.NoError(t, l.Warnf("kept"))
	assert.Equal(t, "kept\n", out.String())
}

func Test_Gate_Disabled(t *testing.T) {
	out := &FakeWriter{}
	l := InitWithOutput(out).SetLevel(LVL_DISABLED)
	out.Reset()
	assert.NoError(t, l.Fatalf("dropped"))
	assert.Empty(t, out.String())
}

func Test_Gate_NonRecordLevels(t *testing.T) {
	out := &FakeWriter{}
	l := InitWithOutput(out)
	out.Reset()
	// DISABLED and out-of-range values are never rendered as record levels.
	assert.NoError(t, l.Writef(LVL_DISABLED, "dropped"))
	assert.NoError(t, l.Writef(_LVL_MAX_for_checks_only, "dropped"))
	assert.Empty(t, out.String())
}

func Test_Write_BareMessage(t *testing.T) {
	out := &FakeWriter{}
	l := InitWithOutput(out)
	out.Reset()
	assert.NoError(t, l.Infof("hello %s", "world"))
	assert.Equal(t, "hello world\n", out.String())
}

func Test_Write_PlainEnvelope(t *testing.T) {
	out := &FakeWriter{}
	l := InitWithOutput(out, FLAG_DATE, FLAG_TIME, FLAG_LEVEL)
	out.Reset()
	assert.NoError(t, l.Infof("hello %s", "world"))
	assert.Regexp(t,
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} INFO  \| hello world\n$`),
		out.String())
}

func Test_Write_LevelOnly(t *testing.T) {
	out := &FakeWriter{}
	l := InitWithOutput(out, FLAG_LEVEL)
	out.Reset()
	assert.NoError(t, l.Infof("hello"))
	assert.Equal(t, "INFO  | hello\n", out.String())
	out.Reset()
	assert.NoError(t, l.Errorf("boom"))
	assert.Equal(t, "ERROR | boom\n", out.String())
}

func Test_Write_PlainColor(t *testing.T) {
	out := &FakeWriter{}
	l := InitWithOutput(out, FLAG_LEVEL, FLAG_COLOR)
	out.Reset()
	assert.NoError(t, l.Infof("hello"))
	assert.Equal(t, "\x1b[36mINFO\x1b[0m \x1b[1m| \x1b[0mhello\n", out.String())
}

func Test_Write_JSONGrammar(t *testing.T) {
	out := &FakeWriter{}
	// COLOR enabled on purpose: JSON must force it off.
	l := InitWithOutput(out, FLAG_DATE, FLAG_TIME, FLAG_LEVEL, FLAG_JSON, FLAG_COLOR)
	out.Reset()
	assert.NoError(t, l.Infof("hello"))
	assert.Regexp(t,
		regexp.MustCompile(`^\{ "date": "\d{4}-\d{2}-\d{2}", "time": "\d{2}:\d{2}:\d{2}", "log_level": "INFO ", "log": "hello" \}\n$`),
		out.String())
	assert.NotContains(t, out.String(), "\x1b", "json output must stay uncolored")
}

func Test_Write_JSONNoFields(t *testing.T) {
	out := &FakeWriter{}
	l := InitWithOutput(out, FLAG_JSON)
	out.Reset()
	assert.NoError(t, l.Infof("hello"))
	assert.Equal(t, `{ "log": "hello" }`+"\n", out.String())
}

func Test_Write_FieldOrderIgnoresEnableOrder(t *testing.T) {
	out := &FakeWriter{}
	l := InitWithOutput(out)
	l.SetFlags(FLAG_TIME, FLAG_DATE) // reversed on purpose
	out.Reset()
	assert.NoError(t, l.Infof("m"))
	assert.Regexp(t,
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} \| m\n$`),
		out.String())
}

func Test_Write_CallSiteFields(t *testing.T) {
	out := &FakeWriter{}
	l := InitWithOutput(out, FLAG_FILE, FLAG_LINE)
	out.Reset()
	assert.NoError(t, l.Infof("here"))
	line := out.String()
	assert.Contains(t, line, "write_test.go")
	assert.Regexp(t, regexp.MustCompile(`write_test\.go \d+ \| here\n$`), line)
}

func Test_Write_ErrorPropagation(t *testing.T) {
	l := InitWithOutput(&FakeWriter{}, FLAG_LEVEL)
	l.SetConsole(&FailWriter{})
	assert.ErrorIs(t, l.Infof("x"), ErrWriteConsole)

	// Failure mid-envelope: the first fragment passes, the second fails.
	l.SetConsole(&FailWriter{pass: 1})
	assert.ErrorIs(t, l.Infof("x"), ErrWriteConsole)
}

func Test_Write_NilLogger(t *testing.T) {
	var l *Logger
	assert.ErrorIs(t, l.Infof("x"), ErrLoggerNil)
	assert.ErrorIs(t, l.Output(LVL_INFO, "f.go", 1, "x"), ErrLoggerNil)
}

func Test_Writer_Adapter(t *testing.T) {
	out := &FakeWriter{}
	l := InitWithOutput(out)
	out.Reset()
	n, err := fmt.Fprintf(l.Writer(LVL_WARN), "disk low: %d%%\n", 93)
	assert.NoError(t, err)
	assert.Equal(t, len("disk low: 93%\n"), n)
	assert.Equal(t, "disk low: 93%\n", out.String())
}

func Test_Writer_AdapterGated(t *testing.T) {
	out := &FakeWriter{}
	l := InitWithOutput(out).SetLevel(LVL_ERROR)
	out.Reset()
	_, err := l.Writer(LVL_DEBUG).Write([]byte("dropped"))
	assert.NoError(t, err)
	assert.Empty(t, out.String())
}

func Test_DefaultLogger_Lifecycle(t *testing.T) {
	assert.ErrorIs(t, Infof("no default yet"), ErrLoggerNil)

	out := &FakeWriter{}
	InitDefault()
	Default().SetConsole(out)
	assert.NoError(t, Infof("via default"))
	assert.Equal(t, "via default\n", out.String())

	out.Reset()
	assert.NoError(t, CloseDefault())
	assert.Nil(t, Default())
	assert.ErrorIs(t, Warnf("closed"), ErrLoggerNil)
}

// Many goroutines hammer one logger/sink and every line must come out
// complete, in per-goroutine order, with no byte-level interleaving.
func Test_Concurrent_NonInterleavedLines(t *testing.T) {
	const (
		_GOROUTINES_ = 50
		_RECORDS_    = 200
	)
	out := &FakeWriter{}
	l := InitWithOutput(out)
	out.Reset()

	var wg sync.WaitGroup
	hold := make(chan struct{})
	for g := 0; g < _GOROUTINES_; g++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			<-hold
			for i := 0; i < _RECORDS_; i++ {
				l.Infof("g%d-%d", id, i)
			}
		}(g)
	}
	close(hold)
	wg.Wait()

	text := out.String()
	assert.True(t, strings.HasSuffix(text, "\n"), "output must end with a newline")
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	assert.Equal(t, _GOROUTINES_*_RECORDS_, len(lines), "wrong total line count")

	pattern := regexp.MustCompile(`^g(\d+)-(\d+)$`)
	next := make([]int, _GOROUTINES_)
	for pos, line := range lines {
		m := pattern.FindStringSubmatch(line)
		if !assert.NotNil(t, m, "line %d is malformed: %q", pos, line) {
			break
		}
		id, _ := strconv.Atoi(m[1])
		seq, _ := strconv.Atoi(m[2])
		if !assert.Equal(t, next[id], seq, "line %d: goroutine %d out of order", pos, id) {
			break
		}
		next[id]++
	}
	for id, n := range next {
		assert.Equal(t, _RECORDS_, n, "goroutine %d lost records", id)
	}
}
