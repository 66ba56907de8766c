package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/felixgeelhaar/macsetup/internal/ports"
)

// TranscriptPath is the well-known location of the cumulative run
// transcript in the user's home directory.
const TranscriptPath = "~/.macsetup.log"

// Transcript is an append-only log file that duplicates everything the
// run prints to the terminal.
type Transcript struct {
	file *os.File
}

// OpenTranscript opens (or creates) the transcript file in append mode
// and writes a session header identifying the run. ~ is expanded.
func OpenTranscript(path, runID string) (*Transcript, error) {
	path = ports.ExpandPath(path)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open transcript %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(f, "\n===== macsetup run %s at %s =====\n",
		runID, time.Now().Format(time.RFC3339))

	return &Transcript{file: f}, nil
}

// Writer returns a writer that duplicates output to the transcript and
// the given terminal writer.
func (t *Transcript) Writer(terminal io.Writer) io.Writer {
	if t == nil || t.file == nil {
		return terminal
	}
	return io.MultiWriter(terminal, t.file)
}

// Close flushes and closes the transcript file.
func (t *Transcript) Close() error {
	if t == nil || t.file == nil {
		return nil
	}
	return t.file.Close()
}
