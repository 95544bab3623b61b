package draft

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marcosfrias28/brymar-sub012/pkg/domain"
)

// GenerateDraftID produces a collision-resistant draft ID of the form
// <kind>-<unix ms>-<random suffix>-<truncated user id>.
//
// Uniqueness is a required property, not a convenience: two tabs opening
// the same wizard before either has saved must not end up overwriting each
// other under a shared ID. The timestamp keeps IDs roughly sortable; the
// uuid-derived suffix carries the entropy.
func GenerateDraftID(kind domain.Kind, userID string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s-%d-%s-%s", kind, time.Now().UnixMilli(), suffix, shortUser(userID))
}

func shortUser(userID string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return -1
	}, userID)
	if cleaned == "" {
		return "anon"
	}
	if len(cleaned) > 8 {
		cleaned = cleaned[:8]
	}
	return cleaned
}
