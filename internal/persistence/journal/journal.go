// Package journal records the command/event log as zstd-compressed JSONL:
// a header line identifying the run seeds, then one entry per step with the
// digests needed to audit a replay.
package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"guildsim.ai/internal/protocol"
)

const FormatVersion = 1

// Header is the first line of every journal.
type Header struct {
	Version int   `json:"version"`
	Seed    int64 `json:"seed"`
	SeqSeed int64 `json:"seq_seed"`
}

// Entry is one applied command with its emitted events and digests over the
// resulting state and the event list.
type Entry struct {
	Day          int              `json:"day"`
	Revision     uint64           `json:"revision"`
	Command      protocol.Command `json:"command"`
	Events       []protocol.Event `json:"events"`
	EventsDigest string           `json:"events_digest"`
	StateDigest  string           `json:"state_digest"`
}

// Writer appends entries to a single journal file. Safe for concurrent use.
type Writer struct {
	mu   sync.Mutex
	f    *os.File
	zw   *zstd.Encoder
	bw   *bufio.Writer
	path string
}

// Create opens a fresh journal at path and writes the header line.
func Create(path string, h Header) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		f.Close()
		return nil, err
	}
	w := &Writer{f: f, zw: zw, bw: bufio.NewWriterSize(zw, 256*1024), path: path}

	h.Version = FormatVersion
	if err := w.writeLine(h); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

// Append writes one entry as a JSONL line.
func (w *Writer) Append(e Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writeLine(e)
}

func (w *Writer) writeLine(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.bw.Write(b); err != nil {
		return err
	}
	return w.bw.WriteByte('\n')
}

// Close flushes and closes the journal.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var first error
	if err := w.bw.Flush(); err != nil {
		first = err
	}
	if err := w.zw.Close(); err != nil && first == nil {
		first = err
	}
	if err := w.f.Close(); err != nil && first == nil {
		first = err
	}
	return first
}

// Read opens the journal at path, decodes the header, and streams each entry
// to fn in order. fn returning an error stops the scan.
func Read(path string, fn func(Entry) error) (Header, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, err
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return h, err
	}
	defer zr.Close()

	sc := bufio.NewScanner(zr)
	sc.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return h, err
		}
		return h, errors.New("journal is empty")
	}
	if err := json.Unmarshal(sc.Bytes(), &h); err != nil {
		return h, fmt.Errorf("decode journal header: %w", err)
	}
	if h.Version != FormatVersion {
		return h, fmt.Errorf("unsupported journal version %d (want %d)", h.Version, FormatVersion)
	}

	line := 1
	for sc.Scan() {
		line++
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return h, fmt.Errorf("decode journal line %d: %w", line, err)
		}
		if err := fn(e); err != nil {
			return h, err
		}
	}
	if err := sc.Err(); err != nil && err != io.EOF {
		return h, err
	}
	return h, nil
}

// ReadAll loads the whole journal into memory.
func ReadAll(path string) (Header, []Entry, error) {
	var out []Entry
	h, err := Read(path, func(e Entry) error {
		out = append(out, e)
		return nil
	})
	return h, out, err
}
