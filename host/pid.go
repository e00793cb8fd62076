package host

import (
	"crypto/rand"
	"io"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// PID identifies one guest instance for the life of the host. It
// carries 96 bits of entropy and renders as base58 in logs.
type PID [12]byte

func NewPID() PID {
	pid, err := ReadPID(rand.Reader)
	if err != nil {
		panic(err)
	}

	return pid
}

func ReadPID(r io.Reader) (pid PID, err error) {
	_, err = io.ReadFull(r, pid[:])
	return
}

func ParsePID(s string) (PID, error) {
	var pid PID
	b, err := base58.Decode(s)
	if err != nil {
		return pid, err
	}
	if len(b) != len(pid) {
		return pid, errors.Errorf("expected %d bytes, got %d", len(pid), len(b))
	}

	copy(pid[:], b)
	return pid, nil
}

func (pid PID) String() string {
	return base58.Encode(pid[:])
}
