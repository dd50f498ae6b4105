// Package journal appends executor activity to zstd-compressed JSON lines
// files and replays them.
package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zstd"

	"github.com/SeamusWaldron/rubik"
)

// Entry kinds.
const (
	KindMove     = "move"
	KindScramble = "scramble"
	KindReset    = "reset"
	KindState    = "state"
)

// ErrMixedSessions is returned by Replay when entries from more than one
// session are passed together.
var ErrMixedSessions = errors.New("journal: entries span several sessions")

// Entry is one journal line. Session tells apart the cubes sharing a file.
type Entry struct {
	Time     time.Time `json:"t"`
	Session  string    `json:"session,omitempty"`
	Kind     string    `json:"kind"`
	Move     string    `json:"move,omitempty"`
	Moves    []string  `json:"moves,omitempty"`
	Facelets string    `json:"facelets,omitempty"`
	Solved   bool      `json:"solved"`
}

// Writer appends entries to one file per day under baseDir.
type Writer struct {
	baseDir string
	prefix  string
	now     func() time.Time

	mu     sync.Mutex
	curDay string
	f      *os.File
	enc    *zstd.Encoder
	w      *bufio.Writer
}

// NewWriter creates a writer. Files are opened lazily on the first write.
func NewWriter(baseDir, prefix string) *Writer {
	return &Writer{
		baseDir: baseDir,
		prefix:  prefix,
		now:     time.Now,
	}
}

// Close flushes and closes the current file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

// Write appends one entry.
func (w *Writer) Write(e Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if e.Time.IsZero() {
		e.Time = w.now().UTC()
	}
	day := e.Time.UTC().Format("2006-01-02")
	if day != w.curDay {
		if err := w.rotateLocked(day); err != nil {
			return err
		}
	}

	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	if err := w.w.Flush(); err != nil {
		return err
	}
	// Push the block to the file so a live or crashed journal stays readable.
	return w.enc.Flush()
}

// Path returns the file the writer uses for day (formatted 2006-01-02).
func (w *Writer) Path(day string) string {
	return filepath.Join(w.baseDir, fmt.Sprintf("%s-%s.jsonl.zst", w.prefix, day))
}

func (w *Writer) rotateLocked(day string) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.baseDir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(w.Path(day), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 64*1024)
	w.curDay = day
	return nil
}

func (w *Writer) closeLocked() error {
	var err1 error
	if w.w != nil {
		_ = w.w.Flush()
	}
	if w.enc != nil {
		err1 = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	w.w = nil
	w.curDay = ""
	return err1
}

// Attach records every committed change of ex, stamped with session.
func Attach(ex *rubik.Executor, w *Writer, session string, logger *log.Logger) {
	report := func(err error) {
		if err != nil && logger != nil {
			logger.Warn("journal write failed", "session", session, "err", err)
		}
	}
	write := func(e Entry) {
		e.Session = session
		report(w.Write(e))
	}
	ex.OnMove(func(ev rubik.MoveEvent) {
		write(Entry{Kind: KindMove, Move: ev.Move.Notation(), Solved: ev.Solved})
	})
	ex.OnStateChange(func(ev rubik.StateEvent) {
		switch ev.Cause {
		case rubik.CauseScramble:
			moves := make([]string, len(ev.Moves))
			for i, m := range ev.Moves {
				moves[i] = m.Notation()
			}
			write(Entry{Kind: KindScramble, Moves: moves, Solved: ev.Solved})
		case rubik.CauseReset:
			write(Entry{Kind: KindReset, Solved: true})
		case rubik.CauseSetState:
			write(Entry{Kind: KindState, Facelets: ev.State.Facelets(), Solved: ev.Solved})
		}
	})
}

// Read decodes every entry of a journal file. A truncated final frame,
// left by a writer that did not close, ends the read without error.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var entries []Entry
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return entries, fmt.Errorf("journal: line %d: %w", len(entries)+1, err)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return entries, err
	}
	return entries, nil
}

// Sessions returns the session ids in entries in order of first
// appearance.
func Sessions(entries []Entry) []string {
	var out []string
	seen := make(map[string]bool)
	for _, e := range entries {
		if !seen[e.Session] {
			seen[e.Session] = true
			out = append(out, e.Session)
		}
	}
	return out
}

// Filter returns the entries of one session.
func Filter(entries []Entry, session string) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Session == session {
			out = append(out, e)
		}
	}
	return out
}

// MatchSession resolves a session id or a unique prefix of one.
func MatchSession(entries []Entry, prefix string) (string, error) {
	var match string
	for _, s := range Sessions(entries) {
		if !strings.HasPrefix(s, prefix) {
			continue
		}
		if s == prefix {
			return s, nil
		}
		if match != "" {
			return "", fmt.Errorf("journal: session prefix %q is ambiguous", prefix)
		}
		match = s
	}
	if match == "" {
		return "", fmt.Errorf("journal: no session %q", prefix)
	}
	return match, nil
}

// Replay applies entries of a single session to ex in order, settling any
// animation hold after each step. Entries from several sessions fail with
// ErrMixedSessions; use Filter first.
func Replay(entries []Entry, ex *rubik.Executor) error {
	if len(Sessions(entries)) > 1 {
		return ErrMixedSessions
	}
	for i, e := range entries {
		var err error
		switch e.Kind {
		case KindMove:
			_, err = ex.ApplyMove(e.Move)
		case KindScramble:
			var moves []rubik.Move
			for _, tok := range e.Moves {
				m, perr := rubik.ParseMove(tok)
				if perr != nil {
					err = perr
					break
				}
				moves = append(moves, m)
			}
			if err == nil {
				err = ex.ScrambleWith(moves)
			}
		case KindReset:
			err = ex.Reset()
		case KindState:
			var s rubik.StickerState
			s, err = rubik.ParseFacelets(e.Facelets)
			if err == nil {
				err = ex.SetState(s)
			}
		default:
			err = fmt.Errorf("unknown kind %q", e.Kind)
		}
		if err != nil {
			return fmt.Errorf("journal: entry %d: %w", i+1, err)
		}
		ex.Settle()
	}
	return nil
}
