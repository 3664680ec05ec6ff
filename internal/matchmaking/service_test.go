package matchmaking

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewWithSource(rand.NewSource(1))
}

func TestParseLevels(t *testing.T) {
	levels, err := ParseLevels("48, 50,51,  35,")
	require.NoError(t, err)
	assert.Equal(t, []int{48, 50, 51, 35}, levels)

	_, err = ParseLevels("48,fifty")
	require.Error(t, err)
}

func TestBalanceTeams(t *testing.T) {
	s := newTestService()

	split, err := s.BalanceTeams([]int{48, 50, 51, 35, 51, 50, 50, 37, 51, 52})
	require.NoError(t, err)
	assert.Len(t, split.TeamA, 5)
	assert.Len(t, split.TeamB, 5)

	// 475 total; an optimal split differs by exactly 1.
	assert.Equal(t, 1, split.Difference())
}

func TestBalanceTeamsTrivial(t *testing.T) {
	s := newTestService()

	split, err := s.BalanceTeams([]int{10, 10})
	require.NoError(t, err)
	assert.Equal(t, 0, split.Difference())
}

func TestBalanceTeamsRejectsOddCount(t *testing.T) {
	s := newTestService()

	_, err := s.BalanceTeams([]int{48, 50, 51})
	require.Error(t, err)

	_, err = s.BalanceTeams(nil)
	require.Error(t, err)
}

func TestChooseFromOptions(t *testing.T) {
	s := newTestService()

	choice, err := s.Choose("rock, paper, scissors")
	require.NoError(t, err)
	assert.Equal(t, []string{"rock", "paper", "scissors"}, choice.Options)
	assert.Contains(t, choice.Options, choice.Chosen)
	assert.Empty(t, choice.Maps)
}

func TestChooseNeedsTwoOptions(t *testing.T) {
	s := newTestService()

	_, err := s.Choose("only-one")
	require.Error(t, err)
}

func TestChooseMapsByCount(t *testing.T) {
	s := newTestService()

	choice, err := s.Choose("3")
	require.NoError(t, err)
	require.Len(t, choice.Maps, 3)
	seen := map[string]bool{}
	for _, m := range choice.Maps {
		assert.Contains(t, MapPool, m)
		assert.False(t, seen[m], "maps must be distinct")
		seen[m] = true
	}

	_, err = s.Choose("0")
	require.Error(t, err)
	_, err = s.Choose("99")
	require.Error(t, err)
}

func TestTimeSlots(t *testing.T) {
	slots := TimeSlots()
	require.Len(t, slots, 11)
	assert.Equal(t, "12:00 UTC", slots[0])
	assert.Equal(t, "17:00 UTC", slots[len(slots)-1])
	assert.NotContains(t, slots, "17:30 UTC")

	s := newTestService()
	assert.Contains(t, slots, s.RandomTimeSlot())
}

func TestTieBreaker(t *testing.T) {
	s := newTestService()

	result := s.TieBreaker("Sharks", []int{3, 4, 2, 1, 4}, "Orcas", []int{2, 2, 3, 1, 3})
	assert.Equal(t, 14, result.Team1Total)
	assert.Equal(t, 11, result.Team2Total)
	assert.Equal(t, "Sharks", result.Winner)

	result = s.TieBreaker("", []int{1}, "", []int{1})
	assert.Equal(t, "Alpha", result.Team1Name)
	assert.Equal(t, "Bravo", result.Team2Name)
	assert.Empty(t, result.Winner, "equal totals stay tied")
}

func TestConcurrentDraws(t *testing.T) {
	s := newTestService()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, err := s.Choose("3")
				assert.NoError(t, err)
				s.RandomTimeSlot()
			}
		}()
	}
	wg.Wait()
}
