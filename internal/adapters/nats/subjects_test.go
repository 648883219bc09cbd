package natsadapter

import (
	"testing"

	"github.com/planora/backoffice/internal/core/domain"
)

func TestTripSubject(t *testing.T) {
	got := TripSubject(domain.TripEvent{Type: domain.TripDeleted, OwnerID: "user_42"})
	if got != "trips.user_42.deleted" {
		t.Errorf("unexpected subject %q", got)
	}
}

func TestToken_EscapesSubjectSyntax(t *testing.T) {
	cases := map[string]string{
		"plain":       "plain",
		"user_42":     "user_42",
		"a.b":         "a%2Eb",
		"auth0|abc*>": "auth0|abc%2A%3E",
		"with space":  "with%20space",
		"100%":        "100%25",
		"":            "%",
	}
	for in, want := range cases {
		if got := Token(in); got != want {
			t.Errorf("Token(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestToken_DistinctIDsNeverShareASubject(t *testing.T) {
	ids := []string{"alice.smith", "alice_smith", "alice smith", "alice%2Esmith", "a.b", "a_b", "_", "%", ""}
	seen := map[string]string{}
	for _, id := range ids {
		subj := OwnerTripSubjects(id)
		if other, dup := seen[subj]; dup {
			t.Errorf("ids %q and %q both map to %q", other, id, subj)
		}
		seen[subj] = id
	}
}

func TestOwnerSubjects(t *testing.T) {
	if got := OwnerTripSubjects("a.b"); got != "trips.a%2Eb.>" {
		t.Errorf("unexpected wildcard %q", got)
	}
	if got := DashboardSubject("u1"); got != "dashboards.u1.refreshed" {
		t.Errorf("unexpected dashboard subject %q", got)
	}
}
