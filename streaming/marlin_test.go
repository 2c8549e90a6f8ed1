package streaming

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Answers from a fixed script and records everything sent to it.
type fakePort struct {
	responses *strings.Reader
	written   bytes.Buffer
	closed    bool
}

func newFakePort(responses string) *fakePort {
	return &fakePort{responses: strings.NewReader(responses)}
}

func (p *fakePort) Read(b []byte) (int, error) {
	return p.responses.Read(b)
}

func (p *fakePort) Write(b []byte) (int, error) {
	return p.written.Write(b)
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func send(s *Streamer, lines []string) ([]int, error) {
	progress := make(chan int, len(lines)+1)
	err := s.Send(lines, progress)
	var seen []int
	for n := range progress {
		seen = append(seen, n)
	}
	return seen, err
}

func TestHandshake(t *testing.T) {
	port := newFakePort("start\necho: External Reset\r\nFIRMWARE_NAME:Marlin 2.1.2\r\nok\r\n")
	s := NewStreamer(port)

	require.NoError(t, s.Handshake())
	assert.Equal(t, "M115\n", port.written.String())
}

func TestHandshakeNoAnswer(t *testing.T) {
	s := NewStreamer(newFakePort(""))
	assert.ErrorContains(t, s.Handshake(), "Unable to detect initialized printer")
}

func TestSend(t *testing.T) {
	port := newFakePort("ok\necho:busy: processing\nok\nok T:200.0 /200.0\r\n")
	s := NewStreamer(port)

	seen, err := send(s, []string{";Generated with gcodetsp", "G28", "", "G1 X1 Y2 ; move", "M104 S200"})

	require.NoError(t, err)
	assert.Equal(t, "G28\nG1 X1 Y2\nM104 S200\n", port.written.String())
	assert.Equal(t, []int{1, 2, 3, 4, 5}, seen)
}

func TestSendErrors(t *testing.T) {
	cases := map[string]struct {
		responses string
		message   string
	}{
		"printer error": {"ok\nError:Printer halted. kill() called!\n", "Printer halted"},
		"halted":        {"!! thermal runaway\n", "thermal runaway"},
		"resend":        {"Resend: 2\n", "resend of line 2"},
		"reset":         {"ok\nstart\n", "Printer reset"},
		"no answer":     {"ok\n", "Serial connection lost"},
	}
	for name, c := range cases {
		s := NewStreamer(newFakePort(c.responses))
		_, err := send(s, []string{"G28", "G1 X1", "G1 X2"})
		assert.ErrorContains(t, err, c.message, name)
	}
}

func TestStop(t *testing.T) {
	port := newFakePort("")
	s := NewStreamer(port)

	s.Stop()
	assert.Equal(t, "M112\n", port.written.String())
	assert.True(t, port.closed)
}
