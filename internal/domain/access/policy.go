package access

import (
	"time"

	"ooya-dx/internal/domain/subscriptions"
)

type Policy struct {
	State        State      `json:"state"`
	Status       string     `json:"status"`
	Capabilities []string   `json:"capabilities"`
	AccessUntil  *time.Time `json:"access_until,omitempty"`
	CancelAt     *time.Time `json:"cancel_at,omitempty"`
}

func ComputePolicy(now time.Time, sub *subscriptions.Subscription) Policy {
	state := Compute(now, sub)
	p := Policy{
		State:        state,
		Status:       subscriptions.StatusNone.Display(),
		Capabilities: CapabilitiesFor(state),
	}
	if sub == nil {
		return p
	}

	p.Status = sub.Status.Display()
	if state.Unlocked() {
		p.AccessUntil = sub.CurrentPeriodEnd
	}
	if sub.CancelAt != nil {
		p.CancelAt = sub.CancelAt
	} else if sub.CancelAtPeriodEnd {
		p.CancelAt = sub.CurrentPeriodEnd
	}
	return p
}
