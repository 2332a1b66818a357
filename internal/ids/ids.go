// Package ids generates sortable identifiers for rooms and players: a
// UUIDv7 written as 26 characters of Crockford base32.
package ids

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/coder/quartz"
)

// Length is the number of characters in an id
const Length = 26

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// ErrInvalidID is returned by Parse and Time for malformed ids
var ErrInvalidID = errors.New("invalid id")

// Generator creates ids from a clock and an entropy source
type Generator struct {
	clock   quartz.Clock
	entropy io.Reader
}

// NewGenerator creates a generator. A nil clock uses the wall clock and a nil
// entropy source uses crypto/rand.
func NewGenerator(clock quartz.Clock, entropy io.Reader) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if entropy == nil {
		entropy = rand.Reader
	}
	return &Generator{clock: clock, entropy: entropy}
}

var defaultGenerator = NewGenerator(nil, nil)

// New returns an id from the default generator
func New() string {
	id, err := defaultGenerator.New()
	if err != nil {
		panic("ids: " + err.Error())
	}
	return id
}

// New creates an id stamped with the generator's clock
func (g *Generator) New() (string, error) {
	var u [16]byte
	ms := uint64(g.clock.Now().UnixMilli())
	u[0] = byte(ms >> 40)
	u[1] = byte(ms >> 32)
	u[2] = byte(ms >> 24)
	u[3] = byte(ms >> 16)
	u[4] = byte(ms >> 8)
	u[5] = byte(ms)
	if _, err := io.ReadFull(g.entropy, u[6:]); err != nil {
		return "", fmt.Errorf("read entropy: %w", err)
	}
	u[6] = u[6]&0x0f | 0x70 // version 7
	u[8] = u[8]&0x3f | 0x80 // RFC 4122 variant
	return encode(u), nil
}

// Parse decodes an id back into its 16 bytes
func Parse(id string) ([16]byte, error) {
	var u [16]byte
	if len(id) != Length {
		return u, fmt.Errorf("%w: %d characters, want %d", ErrInvalidID, len(id), Length)
	}
	var hi, lo uint64
	for i := 0; i < Length; i++ {
		v := strings.IndexByte(alphabet, id[i])
		if v < 0 {
			return u, fmt.Errorf("%w: character %q at %d", ErrInvalidID, id[i], i)
		}
		// 26 characters carry 130 bits; the top two must be zero.
		if i == 0 && v > 7 {
			return u, fmt.Errorf("%w: leading character %q out of range", ErrInvalidID, id[0])
		}
		hi = hi<<5 | lo>>59
		lo = lo<<5 | uint64(v)
	}
	binary.BigEndian.PutUint64(u[:8], hi)
	binary.BigEndian.PutUint64(u[8:], lo)
	return u, nil
}

// Time returns the creation time encoded in an id
func Time(id string) (time.Time, error) {
	u, err := Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	var ms int64
	for _, b := range u[:6] {
		ms = ms<<8 | int64(b)
	}
	return time.UnixMilli(ms), nil
}

func encode(u [16]byte) string {
	hi := binary.BigEndian.Uint64(u[:8])
	lo := binary.BigEndian.Uint64(u[8:])
	var out [Length]byte
	for i := Length - 1; i >= 0; i-- {
		out[i] = alphabet[lo&0x1f]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}
