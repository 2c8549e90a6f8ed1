package vm

import "github.com/kennylevinsen/gcodetsp/gcode"

import "fmt"

// ParseError aborts processing: a numeric argument could not be read.
type ParseError struct {
	Line    int
	Command string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Command, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (vm *Machine) parseError(line gcode.Line, err error) error {
	return &ParseError{Line: line.Number, Command: line.Command, Err: err}
}

// A Warning is a condition the parser recovered from.
type Warning interface {
	Line() int
	String() string
}

// A mode was set again after it had already been established.
// The new value wins.
type ModeConflictWarning struct {
	LineNumber int
	Command    string
	Mode       string
}

func (w *ModeConflictWarning) Line() int {
	return w.LineNumber
}

func (w *ModeConflictWarning) String() string {
	return fmt.Sprintf("%s command at line %d after %s mode was already set", w.Command, w.LineNumber, w.Mode)
}

// The command is not understood and was dropped.
type UnknownCommandWarning struct {
	LineNumber int
	Command    string
}

func (w *UnknownCommandWarning) Line() int {
	return w.LineNumber
}

func (w *UnknownCommandWarning) String() string {
	return fmt.Sprintf("unknown command %s at line %d", w.Command, w.LineNumber)
}

func (vm *Machine) warn(w Warning) {
	vm.program.Warnings = append(vm.program.Warnings, w)
	vm.Log.Warn(w.String(), "line", w.Line())
}
