package fsm

import (
	"sort"

	"fixiBack/internal/models"
)

// transitions lists the provider-driven moves a Solicitud may make.
// Terminal statuses have no entry.
var transitions = map[models.Status]map[models.Status]struct{}{
	models.StatusPending: {
		models.StatusAccepted: {},
		models.StatusRejected: {},
	},
	models.StatusAccepted: {
		models.StatusInProgress: {},
		models.StatusCancelled:  {},
	},
	models.StatusInProgress: {
		models.StatusCompleted: {},
		models.StatusCancelled: {},
	},
}

// CanTransition returns whether a solicitud can move from the current status to the target status.
// Re-applying the current status is allowed so retried requests stay idempotent.
func CanTransition(from, to models.Status) bool {
	if from == to {
		return true
	}
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// Next lists the statuses reachable from the given one, sorted.
func Next(from models.Status) []models.Status {
	out := make([]models.Status, 0, len(transitions[from]))
	for st := range transitions[from] {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Terminal reports whether no further transition is possible.
func Terminal(st models.Status) bool {
	return len(transitions[st]) == 0
}
