package driver

import (
	"encoding/binary"
	"io"
	"sync"

	"github.com/microsoft/playwright-go-sub009/pkg/errors"
)

// maxFrameSize bounds incoming frames. The driver never sends messages
// anywhere near this large; a bigger length prefix means the stream is
// corrupt.
const maxFrameSize = 256 << 20

// Transport frames messages on the driver's stdio protocol: each message
// is a 4-byte little-endian length prefix followed by that many bytes of
// JSON. Send is safe for concurrent use; Read must be called from a single
// goroutine.
type Transport struct {
	r io.Reader
	w io.Writer

	mu sync.Mutex // serializes writes
}

// NewTransport creates a Transport over the given reader and writer,
// typically the driver process's stdout and stdin.
func NewTransport(r io.Reader, w io.Writer) *Transport {
	return &Transport{r: r, w: w}
}

// Send writes one framed message.
func (t *Transport) Send(msg []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var prefix [4]byte
	binary.LittleEndian.PutUint32(prefix[:], uint32(len(msg)))
	if _, err := t.w.Write(prefix[:]); err != nil {
		return errors.Wrap(errors.ErrCodeProtocol, err, "write frame header")
	}
	if _, err := t.w.Write(msg); err != nil {
		return errors.Wrap(errors.ErrCodeProtocol, err, "write frame body")
	}
	return nil
}

// Read blocks until one complete frame arrives and returns its payload.
// io.EOF is returned unwrapped when the stream ends cleanly between
// frames, so callers can distinguish shutdown from corruption.
func (t *Transport) Read() ([]byte, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(t.r, prefix[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, errors.Wrap(errors.ErrCodeProtocol, err, "read frame header")
	}
	size := binary.LittleEndian.Uint32(prefix[:])
	if size > maxFrameSize {
		return nil, errors.New(errors.ErrCodeProtocol, "frame size %d exceeds limit", size)
	}
	msg := make([]byte, size)
	if _, err := io.ReadFull(t.r, msg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeProtocol, err, "read frame body")
	}
	return msg, nil
}
