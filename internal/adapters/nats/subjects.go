package natsadapter

import (
	"strings"

	"github.com/planora/backoffice/internal/core/domain"
)

const (
	// TripStream holds every trip lifecycle event.
	TripStream = "TRIP_EVENTS"

	tripSubjectRoot      = "trips"
	dashboardSubjectRoot = "dashboards"
)

// Token turns an arbitrary id into a single subject token. Letters,
// digits, '-', '_' and '|' pass through and every other byte becomes
// %XX, so distinct ids always get distinct tokens. The empty id maps to
// a lone "%", which no escaped id can produce.
func Token(id string) string {
	if id == "" {
		return "%"
	}
	var b strings.Builder
	b.Grow(len(id))
	for i := 0; i < len(id); i++ {
		c := id[i]
		if tokenSafe(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hexDigits[c>>4])
		b.WriteByte(hexDigits[c&0x0f])
	}
	return b.String()
}

const hexDigits = "0123456789ABCDEF"

func tokenSafe(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-' || c == '_' || c == '|':
		return true
	}
	return false
}

// TripSubject is the subject a trip event is published on.
func TripSubject(e domain.TripEvent) string {
	return tripSubjectRoot + "." + Token(e.OwnerID) + "." + string(e.Type)
}

// OwnerTripSubjects matches every trip event of one owner.
func OwnerTripSubjects(ownerID string) string {
	return tripSubjectRoot + "." + Token(ownerID) + ".>"
}

// DashboardSubject announces that an owner's dashboard was recomputed.
func DashboardSubject(ownerID string) string {
	return dashboardSubjectRoot + "." + Token(ownerID) + ".refreshed"
}
