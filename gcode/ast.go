package gcode

import "strconv"
import "strings"

// A single line of a program, stripped of its comment.
type Line struct {
	Number   int
	Text     string
	Command  string
	Args     []string
	Category Category
}

// Returns the argument with the given address, without its address letter.
// ok is false when the address is not present on the line.
func (l *Line) Word(address byte) (value string, ok bool) {
	for _, arg := range l.Args {
		if len(arg) > 0 && upper(arg[0]) == address {
			return arg[1:], true
		}
	}
	return "", false
}

// Returns the numeric value of the given address.
// A missing address is not an error: ok is false and f is 0.
func (l *Line) GetWord(address byte) (f float64, ok bool, err error) {
	v, ok := l.Word(address)
	if !ok {
		return 0, false, nil
	}
	f, err = strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, true, &WordError{Address: address, Value: v, Err: err}
	}
	return f, true, nil
}

func (l *Line) Blank() bool {
	return l.Category == Blank
}

func (l *Line) String() string {
	return l.Text
}

type WordError struct {
	Address byte
	Value   string
	Err     error
}

func (e *WordError) Error() string {
	return "invalid " + string(e.Address) + " word " + strconv.Quote(e.Value) + ": " + e.Err.Error()
}

func (e *WordError) Unwrap() error {
	return e.Err
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 32
	}
	return c
}

func normalize(command string) string {
	return strings.ToUpper(command)
}
