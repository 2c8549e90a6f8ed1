// Package streaming sends a program to a Marlin-style printer over a serial
// port.
package streaming

import "github.com/tarm/serial"

import "bufio"
import "errors"
import "fmt"
import "io"
import "log/slog"
import "strings"

type Result struct {
	level   string
	message string
}

func serialReader(reader *bufio.Reader) Result {
	c, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || c == "") {
		return Result{"serial-error", fmt.Sprintf("%s", err)}
	}
	b := strings.TrimRight(c, "\r\n")
	switch {
	case strings.HasPrefix(b, "ok"):
		return Result{"ok", ""}
	case strings.HasPrefix(strings.ToLower(b), "error:"):
		return Result{"error", strings.TrimSpace(b[6:])}
	case strings.HasPrefix(b, "!!"):
		return Result{"error", strings.TrimSpace(b[2:])}
	case strings.HasPrefix(b, "Resend:"):
		return Result{"resend", strings.TrimSpace(b[7:])}
	case b == "start":
		return Result{"reset", ""}
	case strings.HasPrefix(b, "echo:busy"):
		return Result{"busy", b}
	default:
		return Result{"info", b}
	}
}

type Streamer struct {
	Log *slog.Logger

	conn   io.ReadWriteCloser
	reader *bufio.Reader
	writer *bufio.Writer
}

func NewStreamer(conn io.ReadWriteCloser) *Streamer {
	return &Streamer{
		Log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		conn:   conn,
		reader: bufio.NewReader(conn),
		writer: bufio.NewWriter(conn),
	}
}

// Opens the serial port and waits for the printer to answer.
func Connect(name string, baud int) (*Streamer, error) {
	c := &serial.Config{Name: name, Baud: baud}
	port, err := serial.OpenPort(c)
	if err != nil {
		return nil, err
	}

	s := NewStreamer(port)
	if err := s.Handshake(); err != nil {
		port.Close()
		return nil, err
	}
	return s, nil
}

// Asks for the firmware info and reads until it is acknowledged. A printer
// that resets on connect prints its boot banner first.
func (s *Streamer) Handshake() error {
	if err := s.write("M115\n"); err != nil {
		return err
	}
	for {
		res := serialReader(s.reader)
		switch res.level {
		case "ok":
			return nil
		case "serial-error":
			return errors.New("Unable to detect initialized printer: " + res.message)
		case "error":
			return errors.New("Received error from printer: " + res.message)
		case "info":
			if strings.HasPrefix(res.message, "FIRMWARE_NAME:") {
				s.Log.Info("printer connected", "firmware", res.message)
			}
		}
	}
}

func (s *Streamer) write(x string) error {
	if _, err := s.writer.WriteString(x); err != nil {
		return errors.New("Error while sending data: " + fmt.Sprintf("%s", err))
	}
	if err := s.writer.Flush(); err != nil {
		return errors.New("Error while flushing writer: " + fmt.Sprintf("%s", err))
	}
	return nil
}

// Halts the printer immediately and closes the port.
func (s *Streamer) Stop() {
	_, _ = s.conn.Write([]byte("M112\n"))
	s.conn.Close()
}

// Sends lines one at a time, waiting for each to be acknowledged. The number
// of lines done so far is written to progress, which is closed on return.
// Comments and blank lines are counted but never sent.
func (s *Streamer) Send(lines []string, progress chan int) (err error) {
	defer func() {
		close(progress)
		if r := recover(); r != nil {
			err = errors.New(fmt.Sprintf("%s", r))
		}
	}()

	for idx, line := range lines {
		if i := strings.IndexByte(line, ';'); i != -1 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			progress <- idx + 1
			continue
		}

		if err := s.write(line + "\n"); err != nil {
			return err
		}

	wait:
		for {
			res := serialReader(s.reader)
			switch res.level {
			case "ok":
				break wait
			case "busy":
				s.Log.Debug("printer busy", "line", idx+1)
			case "info":
				s.Log.Info("received info from printer", "message", res.message)
			case "error":
				panic(fmt.Sprintf("Received error from printer at line %d: %s", idx+1, res.message))
			case "resend":
				panic(fmt.Sprintf("Printer requested resend of line %s", res.message))
			case "reset":
				panic("Printer reset while streaming")
			case "serial-error":
				panic("Serial connection lost: " + res.message)
			}
		}
		progress <- idx + 1
	}

	return nil
}

func (s *Streamer) Close() error {
	return s.conn.Close()
}
