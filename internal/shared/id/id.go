// Package id generates identifiers for bridge sessions and harness connections.
//
// IDs are prefixed ULIDs (sess_*, conn_*, frame_*) so they sort by creation
// time and read clearly in logs.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// SessionID identifies one presented flow, from open to close.
type SessionID string

// ConnID identifies a harness websocket connection.
type ConnID string

// FrameID correlates an evaluate frame with its result frame.
type FrameID string

const (
	SessionPrefix = "sess"
	ConnPrefix    = "conn"
	FramePrefix   = "frame"
)

// Generator produces ULIDs from a shared entropy source.
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the process-wide generator.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator backed by crypto/rand.
func NewGenerator() *Generator {
	return &Generator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID.
func (g *Generator) Generate() ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// WithPrefix creates a "prefix_ULID" string.
func (g *Generator) WithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

func NewSessionID() SessionID { return SessionID(Default().WithPrefix(SessionPrefix)) }
func NewConnID() ConnID       { return ConnID(Default().WithPrefix(ConnPrefix)) }
func NewFrameID() FrameID     { return FrameID(Default().WithPrefix(FramePrefix)) }

func (id SessionID) String() string { return string(id) }
func (id ConnID) String() string    { return string(id) }
func (id FrameID) String() string   { return string(id) }

// Valid reports whether s is a prefixed ULID with the given prefix.
func Valid(s, prefix string) bool {
	rest, ok := strings.CutPrefix(s, prefix+"_")
	if !ok {
		return false
	}
	_, err := ulid.Parse(rest)
	return err == nil
}

// CreatedAt extracts the creation time of a prefixed ULID.
func CreatedAt(s string) (time.Time, error) {
	i := strings.LastIndexByte(s, '_')
	parsed, err := ulid.Parse(s[i+1:])
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
