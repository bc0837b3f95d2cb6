package credential

import (
	"bufio"
	"bytes"
	"io"

	"github.com/hashicorp/go-hclog"

	"github.com/benaskins/vncpasswd/internal/errs"
	"github.com/benaskins/vncpasswd/internal/secret"
)

// maxLine is the scan buffer size. Longer lines are cut, not rejected.
const maxLine = 256

// LineReader reads one password per line from a stream. The scan buffer is
// a secret.Buffer, so whatever was read ahead is wiped on Close.
type LineReader struct {
	scanner *bufio.Scanner
	buf     *secret.Buffer
	logger  hclog.Logger

	// discarding is set while skipping the rest of an overlong line.
	discarding bool
}

func NewLineReader(r io.Reader, logger hclog.Logger) (*LineReader, error) {
	buf, err := secret.New(maxLine)
	if err != nil {
		return nil, errs.IO(err, "Can't allocate password buffer")
	}
	l := &LineReader{buf: buf, logger: logger.Named("credential")}
	l.scanner = bufio.NewScanner(r)
	// max == cap keeps the scanner from growing into a heap buffer.
	l.scanner.Buffer(buf.Bytes(), maxLine)
	l.scanner.Split(l.splitLines)
	return l, nil
}

// splitLines splits on '\n' only. A line that fills the buffer is returned
// as it stands and the remainder, up to the next '\n', is dropped; the
// caller truncates to MaxLength anyway.
func (l *LineReader) splitLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	i := bytes.IndexByte(data, '\n')
	if l.discarding {
		if i >= 0 {
			l.discarding = false
			return i + 1, nil, nil
		}
		return len(data), nil, nil
	}
	switch {
	case i >= 0:
		return i + 1, data[:i], nil
	case len(data) >= maxLine:
		l.discarding = true
		return len(data), data, nil
	case atEOF && len(data) > 0:
		return len(data), data, nil
	}
	return 0, nil, nil
}

// Next reads the next line as a password. Only the '\n' terminator is
// stripped, so a CRLF line keeps its '\r'. The result is truncated to
// MaxLength, however long the line. An empty line is a valid (empty)
// password. ok is false when the stream ends with nothing read.
func (l *LineReader) Next() (cred *Credential, ok bool, err error) {
	if !l.scanner.Scan() {
		if err := l.scanner.Err(); err != nil {
			return nil, false, errs.IO(err, "Could not read password")
		}
		return nil, false, nil
	}

	cred, truncated, err := New(l.scanner.Bytes())
	if err != nil {
		return nil, false, errs.IO(err, "Can't store password")
	}
	if truncated {
		warnTruncated(l.logger)
	}
	return cred, true, nil
}

// ReadPair reads the full-control password from the first line and, if
// there is a non-empty one, the view-only password from the second.
func (l *LineReader) ReadPair() (*Pair, error) {
	primary, ok, err := l.Next()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.Validationf("Could not read password")
	}
	pair := &Pair{Primary: primary}

	secondary, ok, err := l.Next()
	if err != nil {
		pair.Close()
		return nil, err
	}
	if ok && secondary.Len() > 0 {
		pair.Secondary = secondary
	} else {
		secondary.Close()
	}
	return pair, nil
}

// Close wipes the scan buffer.
func (l *LineReader) Close() error {
	return l.buf.Close()
}
