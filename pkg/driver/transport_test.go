package driver

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/microsoft/playwright-go-sub009/pkg/errors"
)

func TestTransport_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	sender := NewTransport(nil, &buf)
	receiver := NewTransport(&buf, nil)

	messages := []string{
		`{"id":1,"method":"ping"}`,
		`{"id":2,"guid":"page@1","method":"click"}`,
		"",
	}
	for _, msg := range messages {
		if err := sender.Send([]byte(msg)); err != nil {
			t.Fatalf("Send(%q) error: %v", msg, err)
		}
	}
	for _, want := range messages {
		got, err := receiver.Read()
		if err != nil {
			t.Fatalf("Read() error: %v", err)
		}
		if string(got) != want {
			t.Errorf("Read() = %q, want %q", got, want)
		}
	}
	if _, err := receiver.Read(); err != io.EOF {
		t.Errorf("Read() past end = %v, want io.EOF", err)
	}
}

func TestTransport_Framing(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTransport(nil, &buf).Send([]byte("abc")); err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	raw := buf.Bytes()
	if len(raw) != 7 {
		t.Fatalf("frame is %d bytes, want 7", len(raw))
	}
	if size := binary.LittleEndian.Uint32(raw[:4]); size != 3 {
		t.Errorf("length prefix = %d, want 3", size)
	}
	if string(raw[4:]) != "abc" {
		t.Errorf("payload = %q, want abc", raw[4:])
	}
}

func TestTransport_OversizedFrame(t *testing.T) {
	var buf bytes.Buffer
	var prefix [4]byte
	binary.LittleEndian.PutUint32(prefix[:], maxFrameSize+1)
	buf.Write(prefix[:])

	_, err := NewTransport(&buf, nil).Read()
	if errors.GetCode(err) != errors.ErrCodeProtocol {
		t.Errorf("Read() error = %v, want ErrCodeProtocol", err)
	}
}

func TestTransport_TruncatedFrame(t *testing.T) {
	var buf bytes.Buffer
	var prefix [4]byte
	binary.LittleEndian.PutUint32(prefix[:], 100)
	buf.Write(prefix[:])
	buf.WriteString("only ten b")

	_, err := NewTransport(&buf, nil).Read()
	if errors.GetCode(err) != errors.ErrCodeProtocol {
		t.Errorf("Read() error = %v, want ErrCodeProtocol", err)
	}
}
