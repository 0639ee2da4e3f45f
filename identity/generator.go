package identity

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Generator mints new identity keys for application-assigned identities.
// Every generated key passes [Validate].
type Generator interface {
	Generate() string
}

// UUIDGenerator produces UUIDv7 keys, falling back to random v4 when the
// system clock refuses to cooperate. Time-ordered keys keep documents
// created together adjacent in key-ordered stores.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}

// ULIDGenerator produces lexicographically sortable ULID keys with
// monotonic ordering within the same millisecond. Safe for concurrent use.
type ULIDGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewULIDGenerator() *ULIDGenerator {
	source := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &ULIDGenerator{
		entropy: ulid.Monotonic(source, 0),
	}
}

func (g *ULIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(time.Now()), g.entropy)
	if err != nil {
		// Monotonic entropy can overflow within a single millisecond;
		// fall back to the library's own crypto-rand constructor.
		return ulid.Make().String()
	}
	return id.String()
}
