// Package bridge implements the native-messaging host side of the
// extension transport: JSON messages framed with a 4-byte little-endian
// length prefix on stdin/stdout, as the browser's native messaging
// protocol requires.
package bridge

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// maxFrame bounds a single inbound message. Large tab sets fit comfortably;
// anything bigger means a corrupt or hostile length prefix.
const maxFrame = 16 << 20

// ReadFrame reads one length-prefixed message payload.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err // io.EOF when the browser closed the pipe
	}
	size := binary.LittleEndian.Uint32(header[:])
	if size == 0 {
		return nil, fmt.Errorf("bridge: zero-length frame")
	}
	if size > maxFrame {
		return nil, fmt.Errorf("bridge: frame of %d bytes exceeds limit", size)
	}
	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("bridge: short frame: %w", err)
	}
	return payload, nil
}

// WriteFrame marshals v and writes it as one length-prefixed message.
func WriteFrame(w io.Writer, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("bridge: marshal frame: %w", err)
	}
	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}
