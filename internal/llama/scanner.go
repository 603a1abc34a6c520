package llama

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// maxScanLines is how many output lines the scanner reads before giving up.
const maxScanLines = 5

var (
	// ErrNoDelimiter means the scan exhausted its line budget without a match.
	ErrNoDelimiter = errors.New("no delimiter found in model output")

	// ErrEmptyExtraction means a delimiter line matched but the markers
	// yielded nothing. Never treated as a valid result.
	ErrEmptyExtraction = errors.New("nothing extracted from matched line")
)

// Terminator requests early termination of the producing child process.
type Terminator interface {
	Terminate()
}

// Scanner consumes the child's stdout line by line and decides when enough
// output has arrived to extract a result.
//
// The mode's prompt template contains the delimiter once as priming text,
// which llama.cpp echoes back. With no TextEnd configured (question-like
// modes) the true end of generated text is therefore the second delimiter
// occurrence. With TextEnd configured (command-like modes) the first
// occurrence already closes the generated span, between TextEnd and the
// delimiter.
type Scanner struct {
	Delimiter string
	TextEnd   string

	// Raw, if set, receives every line read, before any extraction.
	Raw io.Writer

	Log zerolog.Logger
}

// Scan blocks reading one line at a time from r until a result is extracted
// or the attempt bound is exceeded, then requests termination of proc. The
// child keeps no state here beyond the line and delimiter counters.
func (s *Scanner) Scan(r io.Reader, proc Terminator) (string, error) {
	br := bufio.NewReader(r)
	linesRead := 0
	delimSeen := 0

	for {
		line, err := br.ReadString('\n')
		if line != "" {
			linesRead++
			if s.Raw != nil {
				_, _ = io.WriteString(s.Raw, line)
			}
			s.Log.Debug().Int("line", linesRead).Str("text", strings.TrimRight(line, "\n")).Msg("scan")

			if strings.Contains(line, s.Delimiter) {
				delimSeen++
				if result, done := s.tryExtract(line, delimSeen); done {
					proc.Terminate()
					if result == "" {
						return "", ErrEmptyExtraction
					}
					return result, nil
				}
			} else if linesRead > maxScanLines {
				proc.Terminate()
				return "", ErrNoDelimiter
			}
		}

		if err != nil {
			proc.Terminate()
			if errors.Is(err, io.EOF) {
				return "", ErrNoDelimiter
			}
			return "", err
		}
	}
}

// tryExtract applies the mode's extraction policy to a line containing the
// delimiter. done is true once the policy considers generation complete,
// even if the extracted text turns out empty.
func (s *Scanner) tryExtract(line string, delimSeen int) (result string, done bool) {
	if s.TextEnd == "" {
		if delimSeen < 2 {
			return "", false
		}
		return strings.TrimSpace(strings.ReplaceAll(line, s.Delimiter, "")), true
	}

	if delimSeen > 1 {
		return "", false
	}
	result = ExtractBetween(line, s.TextEnd, s.Delimiter)
	if result == "" && s.Delimiter == "`" {
		// Legacy path: the whole command sits between the first and
		// last backtick when the prompt echo was suppressed.
		result = BetweenBackticks(line)
	}
	return result, true
}
