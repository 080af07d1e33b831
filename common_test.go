package microlog

import "errors"

// FakeWriter accumulates everything written to it. Safe for the logger
// tests because all pipeline writes happen under the logger guard.
type FakeWriter struct {
	buffer []byte
}

func (w *FakeWriter) Write(p []byte) (n int, err error) {
	w.buffer = append(w.buffer, p...)
	return len(p), nil
}

func (w *FakeWriter) String() string {
	return string(w.buffer)
}

func (w *FakeWriter) Reset() {
	w.buffer = w.buffer[:0]
}

// FailWriter fails every write after passing through the first `pass`
// payloads, to exercise mid-pipeline failures.
type FailWriter struct {
	pass   int
	writes int
}

var errBrokenWriter = errors.New("broken writer")

func (w *FailWriter) Write(p []byte) (n int, err error) {
	w.writes++
	if w.writes > w.pass {
		return 0, errBrokenWriter
	}
	return len(p), nil
}
