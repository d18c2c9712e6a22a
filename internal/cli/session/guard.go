package session

import (
	"github.com/Jeremy-Bosire/PovertyLine/internal/models"
)

// Decision tells the caller what to do with a request for a protected view
type Decision int

const (
	// DecisionWait means the session is still resolving; hold the request.
	DecisionWait Decision = iota
	// DecisionLogin means the caller must authenticate first.
	DecisionLogin
	// DecisionHome means the account lacks the required role.
	DecisionHome
	// DecisionAllow admits the request.
	DecisionAllow
)

func (d Decision) String() string {
	switch d {
	case DecisionWait:
		return "wait"
	case DecisionLogin:
		return "login"
	case DecisionHome:
		return "home"
	case DecisionAllow:
		return "allow"
	}
	return "unknown"
}

// Evaluate gates access to a protected view from one state snapshot. It keeps
// no state of its own; callers re-evaluate with a fresh snapshot whenever it
// matters. A nil required role admits any authenticated account. The role
// comparison is exhaustive over the closed role set, so a role string the
// platform does not know never opens a protected view.
func Evaluate(snap Snapshot, required *models.Role) Decision {
	if snap.Loading {
		return DecisionWait
	}
	if !snap.Authenticated || snap.User == nil {
		return DecisionLogin
	}
	if required == nil {
		return DecisionAllow
	}

	switch *required {
	case models.RoleUser, models.RoleProvider, models.RoleAdmin:
		if models.Role(snap.User.Role) == *required {
			return DecisionAllow
		}
	}
	return DecisionHome
}
