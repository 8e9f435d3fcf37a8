// Package scoring turns the thirteen self-assessed skill areas into the
// aggregate metrics stored with every assessment.
package scoring

import "math"

const (
	// AreaCount is the number of skill areas in an assessment.
	AreaCount = 13

	MinScore = 0
	MaxScore = 5

	// DefaultTarget applies to goals missing from the target table.
	DefaultTarget = 4
)

var targetByGoal = map[string]int{
	"exploring": 3,
	"support":   3,
	"job":       4,
	"pmp":       5,
	"improve":   4,
}

// Scores holds one 0-5 rating per skill area.
type Scores struct {
	Basics        int `json:"basics"`
	Agile         int `json:"agile"`
	Product       int `json:"product"`
	Initiation    int `json:"initiation"`
	Scope         int `json:"scope"`
	Time          int `json:"time"`
	Cost          int `json:"cost"`
	Quality       int `json:"quality"`
	Resources     int `json:"resources"`
	Communication int `json:"communication"`
	Risk          int `json:"risk"`
	Procurement   int `json:"procurement"`
	SoftSkills    int `json:"softskills"`
}

// Values returns the ratings in a fixed area order.
func (s Scores) Values() [AreaCount]int {
	return [AreaCount]int{
		s.Basics, s.Agile, s.Product, s.Initiation, s.Scope,
		s.Time, s.Cost, s.Quality, s.Resources, s.Communication,
		s.Risk, s.Procurement, s.SoftSkills,
	}
}

// Valid reports whether every rating lies in [MinScore, MaxScore].
func (s Scores) Valid() bool {
	for _, v := range s.Values() {
		if v < MinScore || v > MaxScore {
			return false
		}
	}
	return true
}

// Result is the derived summary of a set of scores.
type Result struct {
	OverallScore  int
	Target        int
	GapCount      int
	StrengthCount int
}

// KnownGoal reports whether goal has its own entry in the target table.
func KnownGoal(goal string) bool {
	_, ok := targetByGoal[goal]
	return ok
}

// TargetForGoal returns the rating an area must reach to count as a strength.
func TargetForGoal(goal string) int {
	if t, ok := targetByGoal[goal]; ok {
		return t
	}
	return DefaultTarget
}

// Compute derives the overall percentage and gap/strength counts. The overall
// score is the mean rating scaled to 100 and rounded; every area is either a
// gap (below target) or a strength.
func Compute(s Scores, goal string) Result {
	target := TargetForGoal(goal)

	r := Result{Target: target}
	sum := 0
	for _, v := range s.Values() {
		sum += v
		if v < target {
			r.GapCount++
		} else {
			r.StrengthCount++
		}
	}

	mean := float64(sum) / AreaCount
	r.OverallScore = int(math.Round(mean * 20))
	return r
}
