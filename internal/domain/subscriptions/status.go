package subscriptions

import "strings"

type Status string

const (
	StatusNone              Status = "none"
	StatusActive            Status = "active"
	StatusTrialing          Status = "trialing"
	StatusPastDue           Status = "past_due"
	StatusUnpaid            Status = "unpaid"
	StatusCanceled          Status = "canceled"
	StatusIncomplete        Status = "incomplete"
	StatusIncompleteExpired Status = "incomplete_expired"
	StatusPaused            Status = "paused"
)

// ParseStatus maps a raw Stripe status string onto Status.
// Unknown values are kept as-is so a new Stripe status is never lost.
func ParseStatus(raw string) Status {
	s := strings.TrimSpace(raw)
	if s == "" {
		return StatusNone
	}
	return Status(s)
}

// Display collapses the Stripe statuses into the four states the UI knows.
func (s Status) Display() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusTrialing:
		return "trialing"
	case StatusPastDue, StatusUnpaid:
		return "past_due"
	case StatusCanceled, StatusIncompleteExpired:
		return "canceled"
	case "":
		return string(StatusNone)
	default:
		return string(s)
	}
}
