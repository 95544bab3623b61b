package domain

import (
	"fmt"
	"time"

	"github.com/marcosfrias28/brymar-sub012/pkg/schema"
)

// Step describes one entry in the ordered wizard sequence.
type Step struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`

	// Description holds optional markdown shown alongside the step form.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Optional marks the step as skippable for navigation and recovery.
	Optional bool `json:"optional,omitempty" yaml:"optional,omitempty"`

	// Schema validates this step's slice of the document.
	Schema *schema.StepSchema `json:"-" yaml:"-"`
}

// Config is the static description of a wizard: its ordered steps, the
// full-document schema, and persistence/navigation settings. It is supplied
// once per session and must not be mutated afterwards.
type Config struct {
	Kind  Kind
	Steps []Step

	// Document validates the fully assembled document before completion.
	Document *schema.DocumentSchema

	AutoSave         bool
	AutoSaveInterval time.Duration
	AllowSkipSteps   bool
}

// DefaultAutoSaveInterval is used when AutoSave is enabled but no interval is set.
const DefaultAutoSaveInterval = 30 * time.Second

// Validate checks the configuration for structural problems: no steps,
// duplicate or empty step IDs, unknown kind.
func (c *Config) Validate() error {
	if !c.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownDraftKind, c.Kind)
	}
	if len(c.Steps) == 0 {
		return fmt.Errorf("wizard config for %s has no steps", c.Kind)
	}
	seen := make(map[string]bool, len(c.Steps))
	for i, s := range c.Steps {
		if s.ID == "" {
			return fmt.Errorf("step %d has an empty id", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate step id %q", s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}

// StepIndex returns the position of a step ID, or -1 if it does not exist.
func (c *Config) StepIndex(id string) int {
	for i, s := range c.Steps {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Step returns the step with the given ID.
func (c *Config) Step(id string) (*Step, bool) {
	if i := c.StepIndex(id); i >= 0 {
		return &c.Steps[i], true
	}
	return nil, false
}

// Interval returns the effective autosave interval.
func (c *Config) Interval() time.Duration {
	if c.AutoSaveInterval > 0 {
		return c.AutoSaveInterval
	}
	return DefaultAutoSaveInterval
}
