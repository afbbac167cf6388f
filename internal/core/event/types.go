package event

import "github.com/emberfall/client/internal/world"

// SaveCommitted fires once per drained update batch that changed state,
// carrying the new committed snapshot.
type SaveCommitted struct {
	Save *world.GameSave
}

// LevelUp fires when a committed batch raised the character's level.
type LevelUp struct {
	OldLevel int
	NewLevel int
}

// TravelStarted fires when the travel coordinator leaves Idle.
type TravelStarted struct {
	FromAreaID    string
	ToAreaID      string
	EstimatedSecs float64
}

// TravelArrived fires when the location change of a completed travel commits.
type TravelArrived struct {
	AreaID string
}
