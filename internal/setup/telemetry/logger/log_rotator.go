package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LogRotator wraps a log file and caps it to the most recent lines.
// The file is rewritten with only the retained tail once twice the cap has been written.
type LogRotator struct {
	writer   io.Writer
	filePath string
	maxLines int
	tail     []string
	next     int
	written  int
	mutex    sync.Mutex
}

// NewLogRotator creates a rotator writing to writer, which must be the file at filePath.
// A maxLines of zero or less disables rotation.
func NewLogRotator(writer io.Writer, maxLines int, filePath string) *LogRotator {
	rotator := &LogRotator{
		writer:   writer,
		filePath: filePath,
		maxLines: maxLines,
	}
	if maxLines > 0 {
		rotator.tail = make([]string, 0, maxLines)
	}
	return rotator
}

// Write implements io.Writer.
func (w *LogRotator) Write(p []byte) (int, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	n, err := w.writer.Write(p)
	if err != nil || w.maxLines <= 0 {
		return n, err
	}

	for line := range strings.SplitSeq(strings.TrimRight(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}

		w.remember(line)
		if w.written >= w.maxLines*2 {
			if err := w.rotate(); err != nil {
				return n, fmt.Errorf("failed to rotate log file: %w", err)
			}
			w.written = len(w.tail)
		}
	}

	return n, nil
}

// Lines returns the retained tail in write order.
func (w *LogRotator) Lines() []string {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.ordered()
}

func (w *LogRotator) remember(line string) {
	if len(w.tail) < w.maxLines {
		w.tail = append(w.tail, line)
	} else {
		w.tail[w.next] = line
		w.next = (w.next + 1) % w.maxLines
	}
	w.written++
}

func (w *LogRotator) ordered() []string {
	lines := make([]string, 0, len(w.tail))
	lines = append(lines, w.tail[w.next:]...)
	return append(lines, w.tail[:w.next]...)
}

// rotate replaces the file with the retained tail and reopens it for appending.
func (w *LogRotator) rotate() error {
	lines := w.ordered()
	if len(lines) == 0 {
		return nil
	}

	temp, err := os.CreateTemp(filepath.Dir(w.filePath), "temp-log-")
	if err != nil {
		return err
	}
	tempPath := temp.Name()

	_, err = temp.WriteString(strings.Join(lines, "\n") + "\n")
	if err == nil {
		err = temp.Sync()
	}
	temp.Close()
	if err != nil {
		os.Remove(tempPath)
		return err
	}

	if closer, ok := w.writer.(io.Closer); ok {
		closer.Close()
	}

	// Windows refuses to rename over an existing file
	os.Remove(w.filePath)

	if err := os.Rename(tempPath, w.filePath); err != nil {
		return err
	}

	file, err := os.OpenFile(w.filePath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	w.writer = file

	return nil
}
