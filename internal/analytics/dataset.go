// Package analytics provides the built-in game analytics workers: a
// synthetic dataset generator, per-domain analyzers, and the capability
// implementations the orchestrator dispatches to.
package analytics

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"
)

// Default dataset dimensions.
const (
	defaultPlayerCount = 1000
	defaultSessionDays = 30
)

// cacheTTL is how long a generated dataset stays fresh in the store.
const cacheTTL = time.Hour

var deviceTypes = []string{"iOS", "Android", "PC", "Console"}

var countries = []string{"CN", "US", "JP", "KR", "DE", "FR", "GB"}

var playerTypes = []string{"casual", "core", "whale", "new"}

// Player is one synthetic player record.
type Player struct {
	ID               string
	RegistrationDate time.Time
	Level            int
	TotalPlaytime    int // minutes
	TotalSpent       float64
	LastLogin        time.Time
	DeviceType       string
	Country          string
	PlayerType       string
}

// Session is one synthetic play session record.
type Session struct {
	ID              string
	PlayerID        string
	StartTime       time.Time
	Duration        int // minutes
	LevelsCompleted int
	ItemsPurchased  int
	Revenue         float64
	Crashes         int
}

// Dataset bundles the player and session tables the analyzers read.
type Dataset struct {
	Players  []Player
	Sessions []Session
}

// Generator produces synthetic game data. Seed it for deterministic tests.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a Generator seeded from the given value.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate builds a full dataset with playerCount players and days worth of
// sessions. Non-positive arguments fall back to the defaults.
func (g *Generator) Generate(playerCount, days int) *Dataset {
	if playerCount <= 0 {
		playerCount = defaultPlayerCount
	}
	if days <= 0 {
		days = defaultSessionDays
	}
	return &Dataset{
		Players:  g.players(playerCount),
		Sessions: g.sessions(playerCount, days),
	}
}

func (g *Generator) players(count int) []Player {
	now := time.Now()
	players := make([]Player, 0, count)
	for i := 0; i < count; i++ {
		players = append(players, Player{
			ID:               fmt.Sprintf("player_%06d", i),
			RegistrationDate: now.AddDate(0, 0, -(g.rng.Intn(365) + 1)),
			Level:            g.rng.Intn(100) + 1,
			TotalPlaytime:    g.rng.Intn(9991) + 10,
			TotalSpent:       round2(g.rng.Float64() * 500),
			LastLogin:        now.AddDate(0, 0, -g.rng.Intn(31)),
			DeviceType:       deviceTypes[g.rng.Intn(len(deviceTypes))],
			Country:          countries[g.rng.Intn(len(countries))],
			PlayerType:       playerTypes[g.rng.Intn(len(playerTypes))],
		})
	}
	return players
}

func (g *Generator) sessions(playerCount, days int) []Session {
	now := time.Now()
	var sessions []Session
	for day := 0; day < days; day++ {
		date := now.AddDate(0, 0, -day)
		daily := g.rng.Intn(401) + 100
		for i := 0; i < daily; i++ {
			start := date.Add(time.Duration(g.rng.Intn(24))*time.Hour +
				time.Duration(g.rng.Intn(60))*time.Minute)
			sessions = append(sessions, Session{
				ID:              fmt.Sprintf("session_%08d", len(sessions)),
				PlayerID:        fmt.Sprintf("player_%06d", g.rng.Intn(playerCount)),
				StartTime:       start,
				Duration:        g.rng.Intn(180) + 1,
				LevelsCompleted: g.rng.Intn(11),
				ItemsPurchased:  g.rng.Intn(6),
				Revenue:         round2(g.rng.Float64() * 50),
				Crashes:         g.rng.Intn(3),
			})
		}
	}
	return sessions
}

// Store hands out the shared dataset, regenerating it once the cache TTL
// expires. Safe for concurrent workers.
type Store struct {
	mu          sync.Mutex
	generator   *Generator
	dataset     *Dataset
	updatedAt   time.Time
	ttl         time.Duration
	playerCount int
	sessionDays int
}

// NewStore creates a Store backed by the given generator.
func NewStore(generator *Generator) *Store {
	if generator == nil {
		generator = NewGenerator(time.Now().UnixNano())
	}
	return &Store{
		generator:   generator,
		ttl:         cacheTTL,
		playerCount: defaultPlayerCount,
		sessionDays: defaultSessionDays,
	}
}

// SetDimensions overrides the generated dataset size. Non-positive values
// keep the defaults. Takes effect on the next regeneration.
func (s *Store) SetDimensions(playerCount, sessionDays int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if playerCount > 0 {
		s.playerCount = playerCount
	}
	if sessionDays > 0 {
		s.sessionDays = sessionDays
	}
}

// Dataset returns the cached dataset, generating a fresh one when the cache
// is empty or stale.
func (s *Store) Dataset() *Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dataset == nil || time.Since(s.updatedAt) > s.ttl {
		s.dataset = s.generator.Generate(s.playerCount, s.sessionDays)
		s.updatedAt = time.Now()
	}
	return s.dataset
}

// Invalidate drops the cached dataset so the next read regenerates it.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataset = nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
