package history

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s := New(t.TempDir())
	s.now = func() time.Time {
		return time.Date(2024, 3, 1, 10, 30, 0, 0, time.Local)
	}
	return s
}

func TestAppendCommandFormat(t *testing.T) {
	s := testStore(t)
	if err := s.AppendCommand("ls -la"); err != nil {
		t.Fatalf("AppendCommand() error = %v", err)
	}

	data, err := os.ReadFile(s.path(CommandFileName))
	if err != nil {
		t.Fatalf("read history: %v", err)
	}
	if want := "2024-03-01 10:30:00 - ls -la\n"; string(data) != want {
		t.Errorf("history = %q, want %q", data, want)
	}
}

func TestPrintEmitsLinesUnmodified(t *testing.T) {
	s := testStore(t)
	line := "2024-03-01 10:30:00 - df -h"
	if err := os.WriteFile(s.path(CommandFileName), []byte(line+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := s.PrintCommands(&out); err != nil {
		t.Fatalf("PrintCommands() error = %v", err)
	}
	if out.String() != line+"\n" {
		t.Errorf("PrintCommands() = %q, want %q", out.String(), line+"\n")
	}
}

func TestPrintMissingFileIsNotAnError(t *testing.T) {
	s := testStore(t)
	var out bytes.Buffer
	if err := s.PrintQuestions(&out); err != nil {
		t.Errorf("PrintQuestions() error = %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("PrintQuestions() wrote %q", out.String())
	}
}

func TestClearTruncatesButKeepsFile(t *testing.T) {
	s := testStore(t)
	if err := s.AppendQuestion("the answer"); err != nil {
		t.Fatal(err)
	}

	if err := s.ClearQuestions(); err != nil {
		t.Fatalf("ClearQuestions() error = %v", err)
	}

	info, err := os.Stat(s.path(QuestionFileName))
	if err != nil {
		t.Fatalf("file must still exist after clear: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("file size = %d, want 0", info.Size())
	}
}

func TestRawWriterBuffersPartialLines(t *testing.T) {
	s := testStore(t)
	w := s.RawWriter()

	for _, chunk := range []string{"hel", "lo world\npart", "ial"} {
		if _, err := w.Write([]byte(chunk)); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}

	data, err := os.ReadFile(s.path(RawOutputFileName))
	if err != nil {
		t.Fatalf("read raw output: %v", err)
	}
	if want := "2024-03-01 10:30:00 - hello world\n"; string(data) != want {
		t.Errorf("raw output = %q, want %q", data, want)
	}
}

func TestStoreCreatesDirectoryLazily(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s := New(dir)
	if err := s.AppendCommand("echo hi"); err != nil {
		t.Fatalf("AppendCommand() error = %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("data dir not created: %v", err)
	}
}
