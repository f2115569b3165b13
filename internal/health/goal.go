package health

import (
	"math"

	"github.com/healthmate/healthmate-api/internal/domain"
)

// GoalProgress is current/target as a percentage clamped to [0, 100].
// A non-positive target yields 0.
func GoalProgress(current, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return math.Min(100, math.Max(0, current/target*100))
}

// RecomputeGoal refreshes Progress from CurrentValue and completes an active
// goal that reached its target. It runs before every goal write.
func RecomputeGoal(goal *domain.HealthGoal) {
	goal.Progress = GoalProgress(goal.CurrentValue, goal.TargetValue)
	if goal.Progress >= 100 && goal.Status == domain.GoalActive {
		goal.Status = domain.GoalCompleted
	}
}

// UpdateProgress records a new current value and recomputes the goal
func UpdateProgress(goal *domain.HealthGoal, currentValue float64) {
	goal.CurrentValue = currentValue
	RecomputeGoal(goal)
}
