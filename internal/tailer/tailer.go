// Package tailer implements the File Tailer collaborator: it polls a
// growing log file and republishes newly appended lines as OutputLine
// records, terminating cleanly once the owning process has exited and
// the file has been fully drained.
//
// Adapted from the teacher's handleStdout/handleStderr pipe-scanning
// loops in internal/infrastructure/processmgr/process.go, which consumed
// a live pipe; here the source is a polled file instead of a pipe, since
// the wrapper-script strategy never hands this process a live stdout
// handle for file-mode children.
package tailer

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/itexoft/procvd/internal/procmodel"
	"github.com/itexoft/procvd/internal/sink"
)

// DefaultPollInterval is the poll interval used when callers pass 0.
const DefaultPollInterval = 100 * time.Millisecond

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Tailer polls one log file and emits OutputLine records to a sink until
// told the owning process is done and the file has been drained.
type Tailer struct {
	Path         string
	Key          procmodel.ProcessKey
	DisplayPath  string
	Sink         sink.Sink
	StartOffset  int64
	PollInterval time.Duration
	Log          *zap.Logger
}

// Run blocks until the file is fully drained after done fires, or ctx is
// cancelled, whichever comes first. It never returns an error past its
// owner: I/O failures are logged and reported as a Failed event, and Run
// returns.
func (t *Tailer) Run(ctx context.Context, done <-chan struct{}) {
	poll := t.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}

	f, err := os.OpenFile(t.Path, os.O_RDONLY, 0)
	if err != nil {
		t.emitFailed(err)
		return
	}
	defer f.Close()

	if _, err := f.Seek(t.StartOffset, io.SeekStart); err != nil {
		t.emitFailed(err)
		return
	}

	reader := bufio.NewReaderSize(f, 64*1024)
	var pending bytes.Buffer
	firstRead := true
	ownerDone := false

	for {
		for {
			line, err := reader.ReadString('\n')
			if firstRead {
				line = string(bytes.TrimPrefix([]byte(line), utf8BOM))
				firstRead = false
			}
			if len(line) > 0 {
				if err == nil {
					pending.WriteString(line)
					t.emitLine(trimNewline(pending.String()))
					pending.Reset()
				} else {
					pending.WriteString(line)
				}
			}
			if err != nil {
				if err != io.EOF {
					t.emitFailed(err)
					return
				}
				break
			}
		}

		if ownerDone {
			if pending.Len() > 0 {
				t.emitLine(trimNewline(pending.String()))
				pending.Reset()
			}
			return
		}

		select {
		case <-done:
			ownerDone = true
			continue
		case <-ctx.Done():
			return
		case <-time.After(poll):
			continue
		}
	}
}

func trimNewline(s string) string {
	s = stripSuffix(s, "\n")
	s = stripSuffix(s, "\r")
	return s
}

func stripSuffix(s, suffix string) string {
	if len(s) > 0 && s[len(s)-1:] == suffix {
		return s[:len(s)-1]
	}
	return s
}

func (t *Tailer) emitLine(line string) {
	t.Sink.Write(procmodel.OutputLine{
		Key:         t.Key,
		DisplayPath: t.DisplayPath,
		Stream:      procmodel.StreamStdout,
		Line:        line,
		Timestamp:   time.Now(),
	})
}

func (t *Tailer) emitFailed(err error) {
	if t.Log != nil {
		t.Log.Warn("tailer I/O error", zap.String("path", t.Path), zap.Error(err))
	}
	t.Sink.WriteEvent(procmodel.OutputEvent{
		Key:         t.Key,
		DisplayPath: t.DisplayPath,
		Kind:        procmodel.EventFailed,
		Timestamp:   time.Now(),
		Message:     "tailer I/O error: " + err.Error(),
	})
}
