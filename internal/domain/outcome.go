package domain

import "time"

// SignInOutcome records what happened for a single account during one run.
// DisplayID is the masked identifier; the raw credential never leaves the
// executor.
type SignInOutcome struct {
	DisplayID        string    `json:"display_id"`
	LoginSucceeded   bool      `json:"login_succeeded"`
	CheckinAttempted bool      `json:"checkin_attempted"`
	CheckinSucceeded bool      `json:"checkin_succeeded"`
	WasRedundant     bool      `json:"was_redundant"`
	Detail           string    `json:"detail,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

// HardFailure reports whether this outcome must fail the run: the login was
// rejected, or a check-in was attempted and did not succeed. A redundant
// check-in counts as a success.
func (o SignInOutcome) HardFailure() bool {
	if !o.LoginSucceeded {
		return true
	}
	return o.CheckinAttempted && !o.CheckinSucceeded
}
