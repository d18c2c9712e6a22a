package session

import (
	"testing"

	"github.com/Jeremy-Bosire/PovertyLine/internal/cli/client"
	"github.com/Jeremy-Bosire/PovertyLine/internal/models"
)

func roleOf(r models.Role) *models.Role {
	return &r
}

func authedSnapshot(role string) Snapshot {
	return Snapshot{
		Token:         "tok",
		Authenticated: true,
		User:          &client.User{ID: "u-1", Username: "johndoe", Role: role},
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		snap     Snapshot
		required *models.Role
		want     Decision
	}{
		{
			name: "loading suspends",
			snap: Snapshot{Loading: true},
			want: DecisionWait,
		},
		{
			name: "loading suspends even when authenticated",
			snap: func() Snapshot {
				s := authedSnapshot("admin")
				s.Loading = true
				return s
			}(),
			required: roleOf(models.RoleAdmin),
			want:     DecisionWait,
		},
		{
			name: "anonymous goes to login",
			snap: Snapshot{},
			want: DecisionLogin,
		},
		{
			name: "authenticated without user record goes to login",
			snap: Snapshot{Token: "tok", Authenticated: true},
			want: DecisionLogin,
		},
		{
			name: "authenticated with no role requirement is allowed",
			snap: authedSnapshot("user"),
			want: DecisionAllow,
		},
		{
			name:     "user denied admin view",
			snap:     authedSnapshot("user"),
			required: roleOf(models.RoleAdmin),
			want:     DecisionHome,
		},
		{
			name:     "admin allowed admin view",
			snap:     authedSnapshot("admin"),
			required: roleOf(models.RoleAdmin),
			want:     DecisionAllow,
		},
		{
			name:     "provider allowed provider view",
			snap:     authedSnapshot("provider"),
			required: roleOf(models.RoleProvider),
			want:     DecisionAllow,
		},
		{
			name:     "admin denied provider view",
			snap:     authedSnapshot("admin"),
			required: roleOf(models.RoleProvider),
			want:     DecisionHome,
		},
		{
			name:     "unknown required role never matches",
			snap:     authedSnapshot("superuser"),
			required: roleOf(models.Role("superuser")),
			want:     DecisionHome,
		},
		{
			name:     "unknown user role denied admin view",
			snap:     authedSnapshot("root"),
			required: roleOf(models.RoleAdmin),
			want:     DecisionHome,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.snap, tt.required); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecisionString(t *testing.T) {
	pairs := map[Decision]string{
		DecisionWait:  "wait",
		DecisionLogin: "login",
		DecisionHome:  "home",
		DecisionAllow: "allow",
		Decision(99):  "unknown",
	}
	for decision, want := range pairs {
		if got := decision.String(); got != want {
			t.Errorf("Decision(%d).String() = %q, want %q", decision, got, want)
		}
	}
}
