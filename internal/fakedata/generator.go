// Package fakedata produces the synthetic accounts and filler notes a check
// plants in the service.
package fakedata

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/dmitrijs2005/n0t3b00k-checker/internal/models"
)

const passwordBytes = 16

// MakeRandHexString returns size random bytes encoded as hex, so the result
// is 2*size characters long.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Generator is safe for concurrent use.
type Generator struct {
	mu    sync.Mutex
	faker *gofakeit.Faker
	now   func() time.Time
}

// NewGenerator returns a Generator; seed 0 picks a random seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{
		faker: gofakeit.New(seed),
		now:   time.Now,
	}
}

// WithClock replaces the clock used for username suffixes.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Username is a plausible handle suffixed with the current UTC time in
// milliseconds, which keeps names from colliding across rounds.
func (g *Generator) Username() string {
	g.mu.Lock()
	base := g.faker.Username()
	g.mu.Unlock()

	base = sanitize(base, false)
	if base == "" {
		base = "user"
	}
	return base + strconv.FormatInt(g.now().UTC().UnixMilli(), 10)
}

func (g *Generator) Password() (string, error) {
	return MakeRandHexString(passwordBytes)
}

// NoiseText is a short sentence of corporate filler.
func (g *Generator) NoiseText() string {
	g.mu.Lock()
	text := fmt.Sprintf("%s %s %s", g.faker.BuzzWord(), g.faker.BS(), g.faker.Company())
	g.mu.Unlock()

	text = strings.Join(strings.Fields(sanitize(text, true)), " ")
	if text == "" {
		return "nothing to see here"
	}
	return text
}

// NewUser builds a fresh actor for chainID whose note will be note.
func (g *Generator) NewUser(chainID, note string) (*models.User, error) {
	password, err := g.Password()
	if err != nil {
		return nil, fmt.Errorf("generate password: %w", err)
	}
	return &models.User{
		Username:    g.Username(),
		Password:    password,
		Note:        note,
		TaskChainID: chainID,
	}, nil
}

// sanitize keeps printable ASCII; spaces survive only when allowed since
// usernames travel as a single protocol argument.
func sanitize(s string, spaces bool) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == ' ' && spaces:
			b.WriteRune(r)
		case r > ' ' && r < 0x7f && r != ':':
			b.WriteRune(r)
		}
	}
	return b.String()
}
