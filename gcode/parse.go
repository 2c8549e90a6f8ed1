package gcode

import "bufio"
import "io"
import "strings"

// Parses a single line. Everything from the first ';' is a comment and is
// discarded, as is surrounding whitespace.
func ParseLine(number int, raw string) Line {
	text := raw
	if idx := strings.IndexByte(text, ';'); idx != -1 {
		text = text[:idx]
	}
	text = strings.TrimSpace(text)

	fields := strings.Fields(text)
	line := Line{Number: number, Text: text}
	if len(fields) == 0 {
		line.Category = Blank
		return line
	}

	line.Command = normalize(fields[0])
	line.Args = fields[1:]
	line.Category = Classify(line.Command)
	return line
}

// Scanner yields parsed lines from a reader, numbering them from 1.
type Scanner struct {
	scanner *bufio.Scanner
	line    Line
	number  int
}

func NewScanner(r io.Reader) *Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Scanner{scanner: s}
}

func (s *Scanner) Scan() bool {
	if !s.scanner.Scan() {
		return false
	}
	s.number++
	s.line = ParseLine(s.number, s.scanner.Text())
	return true
}

func (s *Scanner) Line() Line {
	return s.line
}

func (s *Scanner) Err() error {
	return s.scanner.Err()
}

// Parses a whole program.
func Parse(input string) ([]Line, error) {
	var lines []Line
	s := NewScanner(strings.NewReader(input))
	for s.Scan() {
		lines = append(lines, s.Line())
	}
	return lines, s.Err()
}
