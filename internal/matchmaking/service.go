package matchmaking

import (
	"fmt"
	"math/bits"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Service implements the stateless utility commands: team balancing,
// random choice, random time slots and tie breaking.
type Service struct {
	// rand.Rand is not safe for concurrent use and the HTTP handlers
	// share one Service, so every draw goes through the mutex.
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a new Service.
func New() *Service {
	return &Service{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewWithSource creates a Service with a fixed random source, for tests.
func NewWithSource(src rand.Source) *Service {
	return &Service{rng: rand.New(src)}
}

// ParseLevels parses a comma-separated list of player levels.
func ParseLevels(input string) ([]int, error) {
	parts := strings.Split(input, ",")
	levels := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		level, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid level %q: %w", p, err)
		}
		levels = append(levels, level)
	}
	return levels, nil
}

// BalanceTeams splits an even number of player levels into two teams whose
// level totals are as close as possible. The search is exhaustive over all
// splits, which is fine for the team sizes this is used with.
func (s *Service) BalanceTeams(levels []int) (TeamSplit, error) {
	n := len(levels)
	if n == 0 || n%2 != 0 {
		return TeamSplit{}, fmt.Errorf("number of players must be even, got %d", n)
	}
	if n > MaxChooseOptions {
		return TeamSplit{}, fmt.Errorf("too many players: %d (max %d)", n, MaxChooseOptions)
	}

	teamSize := n / 2
	bestDiff := -1
	var bestMask uint32
	for mask := uint32(0); mask < 1<<n; mask++ {
		if bits.OnesCount32(mask) != teamSize {
			continue
		}
		diff := 0
		for i, level := range levels {
			if mask&(1<<i) != 0 {
				diff += level
			} else {
				diff -= level
			}
		}
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			bestDiff = diff
			bestMask = mask
		}
	}

	split := TeamSplit{}
	for i, level := range levels {
		if bestMask&(1<<i) != 0 {
			split.TeamA = append(split.TeamA, level)
		} else {
			split.TeamB = append(split.TeamB, level)
		}
	}
	return split, nil
}

// Choose picks one option from a comma-separated list, or, when the input
// is a bare number N, draws N distinct maps from the fixed pool.
func (s *Service) Choose(input string) (*Choice, error) {
	trimmed := strings.TrimSpace(input)
	if count, err := strconv.Atoi(trimmed); err == nil {
		if count < 1 || count > len(MapPool) {
			return nil, fmt.Errorf("map count must be between 1 and %d", len(MapPool))
		}
		s.mu.Lock()
		perm := s.rng.Perm(len(MapPool))
		s.mu.Unlock()
		selected := make([]string, 0, count)
		for _, i := range perm[:count] {
			selected = append(selected, MapPool[i])
		}
		return &Choice{Maps: selected}, nil
	}

	options := make([]string, 0)
	for _, p := range strings.Split(input, ",") {
		if p = strings.TrimSpace(p); p != "" {
			options = append(options, p)
		}
	}
	if len(options) < 2 {
		return nil, fmt.Errorf("need at least 2 options, or a number between 1 and %d for maps", len(MapPool))
	}
	if len(options) > MaxChooseOptions {
		return nil, fmt.Errorf("too many options: %d (max %d)", len(options), MaxChooseOptions)
	}

	s.mu.Lock()
	chosen := options[s.rng.Intn(len(options))]
	s.mu.Unlock()

	return &Choice{
		Chosen:  chosen,
		Options: options,
	}, nil
}

// TimeSlots returns the fixed 30-minute match slots between 12:00 and
// 17:00 UTC, inclusive.
func TimeSlots() []string {
	slots := make([]string, 0, 11)
	for hour := 12; hour <= 17; hour++ {
		for _, minute := range []int{0, 30} {
			if hour == 17 && minute == 30 {
				continue
			}
			slots = append(slots, fmt.Sprintf("%02d:%02d UTC", hour, minute))
		}
	}
	return slots
}

// RandomTimeSlot draws one of the fixed match slots.
func (s *Service) RandomTimeSlot() string {
	slots := TimeSlots()
	s.mu.Lock()
	defer s.mu.Unlock()
	return slots[s.rng.Intn(len(slots))]
}

// TieBreaker compares two teams' total scores. Empty team names fall back
// to Alpha and Bravo.
func (s *Service) TieBreaker(team1Name string, team1Scores []int, team2Name string, team2Scores []int) *TieBreak {
	if team1Name == "" {
		team1Name = "Alpha"
	}
	if team2Name == "" {
		team2Name = "Bravo"
	}

	result := &TieBreak{
		Team1Name:  team1Name,
		Team1Total: sum(team1Scores),
		Team2Name:  team2Name,
		Team2Total: sum(team2Scores),
	}
	switch {
	case result.Team1Total > result.Team2Total:
		result.Winner = team1Name
	case result.Team2Total > result.Team1Total:
		result.Winner = team2Name
	}
	return result
}
