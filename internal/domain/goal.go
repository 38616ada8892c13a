package domain

// Goal is the normalized user intent driving the calorie adjustment.
type Goal int

const (
	GoalKeep Goal = iota
	GoalLose
	GoalGain
)

// String returns the lowercase wire form sent to the AI plan service.
func (g Goal) String() string {
	switch g {
	case GoalLose:
		return "lose"
	case GoalGain:
		return "gain"
	default:
		return "keep"
	}
}

// MarshalText lets goals travel as "lose"/"gain"/"keep" in JSON.
func (g Goal) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}
