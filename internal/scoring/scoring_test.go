package scoring

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func uniform(v int) Scores {
	return Scores{v, v, v, v, v, v, v, v, v, v, v, v, v}
}

func TestComputeAllThreesForJobGoal(t *testing.T) {
	r := Compute(uniform(3), "job")

	assert.Equal(t, 60, r.OverallScore)
	assert.Equal(t, 4, r.Target)
	assert.Equal(t, 13, r.GapCount)
	assert.Equal(t, 0, r.StrengthCount)
}

func TestComputeBounds(t *testing.T) {
	assert.Equal(t, 0, Compute(uniform(0), "pmp").OverallScore)
	assert.Equal(t, 100, Compute(uniform(5), "pmp").OverallScore)
	assert.Equal(t, 13, Compute(uniform(5), "pmp").StrengthCount)
}

func TestTargetForGoal(t *testing.T) {
	cases := map[string]int{
		"exploring": 3,
		"support":   3,
		"job":       4,
		"pmp":       5,
		"improve":   4,
		"":          4,
		"astronaut": 4,
	}
	for goal, want := range cases {
		assert.Equal(t, want, TargetForGoal(goal), "goal %q", goal)
	}
}

func TestComputeMixedScores(t *testing.T) {
	s := Scores{
		Basics: 5, Agile: 4, Product: 3, Initiation: 2, Scope: 1,
		Time: 0, Cost: 5, Quality: 4, Resources: 3, Communication: 2,
		Risk: 1, Procurement: 0, SoftSkills: 5,
	}
	// sum 35, mean 2.6923, *20 = 53.85
	r := Compute(s, "support")

	assert.Equal(t, 54, r.OverallScore)
	assert.Equal(t, 7, r.StrengthCount)
	assert.Equal(t, 6, r.GapCount)
}

func TestComputeProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	goals := []string{"exploring", "support", "job", "pmp", "improve", "unknown"}

	for i := 0; i < 5000; i++ {
		var vals [AreaCount]int
		sum := 0
		for j := range vals {
			vals[j] = rng.Intn(MaxScore + 1)
			sum += vals[j]
		}
		s := Scores{
			vals[0], vals[1], vals[2], vals[3], vals[4], vals[5], vals[6],
			vals[7], vals[8], vals[9], vals[10], vals[11], vals[12],
		}
		goal := goals[rng.Intn(len(goals))]

		r := Compute(s, goal)

		want := int(math.Round(float64(sum) / AreaCount * 20))
		assert.Equal(t, want, r.OverallScore)
		assert.GreaterOrEqual(t, r.OverallScore, 0)
		assert.LessOrEqual(t, r.OverallScore, 100)
		assert.Equal(t, AreaCount, r.GapCount+r.StrengthCount)
		assert.True(t, s.Valid())
	}
}

func TestScoresValid(t *testing.T) {
	assert.True(t, uniform(0).Valid())
	assert.True(t, uniform(5).Valid())

	s := uniform(3)
	s.Risk = 6
	assert.False(t, s.Valid())

	s = uniform(3)
	s.Basics = -1
	assert.False(t, s.Valid())
}

func TestKnownGoal(t *testing.T) {
	for _, g := range []string{"exploring", "support", "job", "pmp", "improve"} {
		assert.True(t, KnownGoal(g), g)
	}
	assert.False(t, KnownGoal(""))
	assert.False(t, KnownGoal("JOB"))
	assert.False(t, KnownGoal("anything-else"))
}
