package pkg

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestCombinedWriter_Write(t *testing.T) {
	stdout := bytes.NewBufferString("level=info msg=started\n")
	logFile := &bytes.Buffer{}

	cw := NewCombinedWriter(stdout, logFile)
	require.Len(t, cw.Writers, 2)

	lines := []string{
		"level=debug msg=\"dashboard refresh\" kept=9\n",
		"level=warning msg=\"row dropped\" reason=blank_exercise\n",
	}
	for _, line := range lines {
		n, err := cw.Write([]byte(line))
		require.NoError(t, err)
		assert.Equal(t, 2*len(line), n)
	}

	assert.Equal(t, "level=info msg=started\n"+lines[0]+lines[1], stdout.String())
	assert.Equal(t, lines[0]+lines[1], logFile.String())
}

func TestCombinedWriter_Write_WithErrors(t *testing.T) {
	diskFull := failingWriter{err: errors.New("disk full")}
	closed := failingWriter{err: errors.New("file already closed")}
	stdout := &bytes.Buffer{}

	cw := NewCombinedWriter(diskFull, stdout, closed)

	msg := "level=error msg=\"fetch failed\"\n"
	n, err := cw.Write([]byte(msg))
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.ErrorContains(t, err, "disk full")
	assert.ErrorContains(t, err, "file already closed")

	// only the healthy writer got the bytes
	assert.Equal(t, len(msg), n)
	assert.Equal(t, msg, stdout.String())
}

func TestNewCombinedWriter_CopiesWriters(t *testing.T) {
	writers := []io.Writer{&bytes.Buffer{}}
	cw := NewCombinedWriter(writers...)
	writers[0] = failingWriter{err: errors.New("swapped")}

	_, err := cw.Write([]byte("x"))
	assert.NoError(t, err)
}

type failingWriter struct {
	err error
}

func (w failingWriter) Write([]byte) (int, error) {
	return 0, w.err
}
