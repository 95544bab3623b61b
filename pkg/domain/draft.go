package domain

import "time"

// DraftTTL is how long a saved draft stays loadable. Anything older is
// treated as invalid and purged lazily on read or list.
const DraftTTL = 24 * time.Hour

// Draft is the persisted representation of a wizard session. Saves are
// overwrite-based: the latest write for a DraftID always wins, there is
// no merge.
type Draft struct {
	DraftID       string          `json:"draftId"`
	UserID        string          `json:"userId"`
	Kind          Kind            `json:"wizardKind"`
	FormData      map[string]any  `json:"formData"`
	CurrentStepID string          `json:"currentStepId"`
	StepProgress  map[string]bool `json:"stepProgress,omitempty"`

	// SavedAt is epoch milliseconds; it alone determines expiry.
	SavedAt int64 `json:"savedAt"`
}

// Expired reports whether the draft is older than DraftTTL at the given time.
func (d *Draft) Expired(now time.Time) bool {
	saved := time.UnixMilli(d.SavedAt)
	return now.Sub(saved) > DraftTTL
}

// SaveLocation identifies which storage tier ultimately held a save.
// Making the degraded path observable is part of the store contract:
// a cache-only save is a success the UI may still want to warn about.
type SaveLocation string

const (
	// LocationServer means the durable server tier accepted the write.
	LocationServer SaveLocation = "server"
	// LocationCache means the server tier failed and the local cache took it.
	LocationCache SaveLocation = "cache"
	// LocationNone means both tiers failed; the accompanying error is set.
	LocationNone SaveLocation = "none"
)

// SaveOutcome reports the result of a tiered draft save.
type SaveOutcome struct {
	DraftID  string
	Location SaveLocation
}

// Degraded reports whether the save missed the durable tier.
func (o SaveOutcome) Degraded() bool { return o.Location != LocationServer }
