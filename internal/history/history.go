package history

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

const (
	CommandFileName   = "history.txt"
	QuestionFileName  = "question_history.txt"
	RawOutputFileName = "llama_output.txt"

	timeFormat = "2006-01-02 15:04:05"
)

// Store manages the flat append-only log files. Records have no identity
// beyond file order; each line carries a local timestamp prefix.
type Store struct {
	dir string
	now func() time.Time
}

// New creates a store rooted at dir. The directory is created lazily on
// first append.
func New(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *Store) append(name, text string) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	f, err := os.OpenFile(s.path(name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s - %s\n", s.now().Format(timeFormat), text); err != nil {
		return fmt.Errorf("failed to append to %s: %w", name, err)
	}
	return nil
}

// AppendCommand records an extracted command.
func (s *Store) AppendCommand(command string) error {
	return s.append(CommandFileName, command)
}

// AppendQuestion records an extracted answer.
func (s *Store) AppendQuestion(answer string) error {
	return s.append(QuestionFileName, answer)
}

func (s *Store) print(name string, w io.Writer) error {
	f, err := os.Open(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil // no history yet
		}
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fmt.Fprintln(w, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	return nil
}

// PrintCommands writes the command history to w, lines unmodified.
func (s *Store) PrintCommands(w io.Writer) error {
	return s.print(CommandFileName, w)
}

// PrintQuestions writes the question history to w, lines unmodified.
func (s *Store) PrintQuestions(w io.Writer) error {
	return s.print(QuestionFileName, w)
}

func (s *Store) clear(name string) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	// Truncate rather than remove: the file stays present, zero-length.
	f, err := os.OpenFile(s.path(name), os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to clear %s: %w", name, err)
	}
	return f.Close()
}

// ClearCommands empties the command history file, keeping it in place.
func (s *Store) ClearCommands() error {
	return s.clear(CommandFileName)
}

// ClearQuestions empties the question history file, keeping it in place.
func (s *Store) ClearQuestions() error {
	return s.clear(QuestionFileName)
}

// ClearRawOutput empties the raw model output file. Called before each
// invocation so the log holds exactly one run.
func (s *Store) ClearRawOutput() error {
	return s.clear(RawOutputFileName)
}

// RawWriter returns a writer that appends timestamped lines of raw model
// output. Partial writes are buffered until a full line arrives.
func (s *Store) RawWriter() io.Writer {
	return &rawWriter{store: s}
}

type rawWriter struct {
	store *Store
	buf   []byte
}

func (w *rawWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := -1
		for j, b := range w.buf {
			if b == '\n' {
				i = j
				break
			}
		}
		if i < 0 {
			break
		}
		line := string(w.buf[:i])
		w.buf = w.buf[i+1:]
		if err := w.store.append(RawOutputFileName, line); err != nil {
			return len(p), err
		}
	}
	return len(p), nil
}
