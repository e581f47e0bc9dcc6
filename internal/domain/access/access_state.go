package access

import (
	"time"

	"ooya-dx/internal/domain/subscriptions"
)

// Compute derives the dashboard access state from the mirrored subscription.
func Compute(now time.Time, sub *subscriptions.Subscription) State {
	if sub == nil {
		return StateLocked
	}

	switch sub.Status {
	case subscriptions.StatusActive, subscriptions.StatusTrialing:
		return StateActive

	case subscriptions.StatusPastDue, subscriptions.StatusUnpaid:
		return StatePastDue

	case subscriptions.StatusCanceled:
		if sub.HasAccess(now) {
			return StateGrace
		}
		return StateLocked

	default:
		return StateLocked
	}
}
