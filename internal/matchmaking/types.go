package matchmaking

// MapPool is the fixed pool used when the choose command is given a count
// instead of a list of options.
var MapPool = []string{
	"New Storm (2024)",
	"Arid Frontier",
	"Islands of Iceland",
	"Unexplored Rocks",
	"Arctic",
	"Lost City",
	"Polar Frontier",
	"Hidden Dragon",
	"Monstrous Maelstrom",
	"Two Samurai",
	"Stone Peaks",
	"Viking Bay",
	"Greenlands",
	"Old Storm",
	"Rising Fortress",
}

// MaxChooseOptions caps the option list of the choose command.
const MaxChooseOptions = 20

// TeamSplit is the outcome of balancing players into two teams.
type TeamSplit struct {
	TeamA []int
	TeamB []int
}

// Difference returns the gap between the two team level totals.
func (s TeamSplit) Difference() int {
	diff := sum(s.TeamA) - sum(s.TeamB)
	if diff < 0 {
		return -diff
	}
	return diff
}

// Choice is the outcome of the choose command. Chosen is set when picking
// one option from a list; Maps is set when drawing from the map pool.
type Choice struct {
	Chosen  string
	Options []string
	Maps    []string
}

// TieBreak is the verdict of comparing two teams' total scores.
// Winner is empty when the totals are equal.
type TieBreak struct {
	Team1Name  string
	Team1Total int
	Team2Name  string
	Team2Total int
	Winner     string
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
