// Package simid generates entity and simulation identifiers.
//
// Entity ids (users, releases, transactions, events) use github.com/google/uuid
// the same way the teacher identifies models and tasks. Simulation ids
// follow the literal format §6 of the spec fixes: sim_<unix_ms>_<6-char-base36>,
// with full-lifecycle runs prefixed full_<unix_ms>.
package simid

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// New returns a fresh random entity id (user, release, transaction, event).
func New() string {
	return uuid.NewString()
}

// Simulation returns a new simulation id: sim_<unix_ms>_<6-char-base36>.
// unixMs must be supplied by the caller; this package reads no clock of
// its own.
func Simulation(unixMs int64, rng *rand.Rand) string {
	return fmt.Sprintf("sim_%d_%s", unixMs, base36(rng, 6))
}

// FullLifecycle returns a new full-lifecycle (start-full) id: full_<unix_ms>.
func FullLifecycle(unixMs int64) string {
	return fmt.Sprintf("full_%d", unixMs)
}

func base36(rng *rand.Rand, n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(base36Alphabet[rng.Intn(len(base36Alphabet))])
	}
	return b.String()
}
