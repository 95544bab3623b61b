/*
Package wizard is a multi-step form engine for listing-style content:
properties, land parcels and blog posts. It drives step navigation gated
on schema validation, persists work-in-progress drafts across a two-tier
store with a 24 hour TTL, and records best-effort session analytics.

# Concept

A wizard is described by a static configuration: an ordered list of steps,
each with a field schema, plus a document-level schema checked before
completion. The engine owns the session state exclusively; the host
application renders steps and feeds edits back through UpdateData. This
Hexagonal Architecture keeps the core decoupled from storage and
transport adapters, so the same engine runs behind a CLI, an HTTP server
or an embedded UI.

# Key Features

  - Dual-mode validation: strict gates forward navigation and completion,
    lenient never blocks a save and reports completion percentage.
  - Two-tier drafts: a durable server store (redis, memory) with a local
    cache fallback; a save succeeds if either tier accepts it, and the
    outcome reports where the data landed.
  - Snapshot autosave: payloads capture data and step at trigger time, so
    concurrent navigation never corrupts an in-flight write.
  - Best-effort analytics: buffered session events, never able to fail a
    user operation.

# Usage

Register a server-tier store per wizard kind, then start sessions:

	package main

	import (
		"context"
		"log"

		wizard "github.com/marcosfrias28/brymar-sub012"
		"github.com/marcosfrias28/brymar-sub012/pkg/adapters/memory"
		"github.com/marcosfrias28/brymar-sub012/pkg/domain"
	)

	func main() {
		eng := wizard.New(wizard.WithCache(memory.NewCache()))
		if err := eng.RegisterStore(domain.KindProperty, memory.NewStore()); err != nil {
			log.Fatal(err)
		}

		session, err := eng.NewSession(propertyConfig(), wizard.ForUser("user-1"))
		if err != nil {
			log.Fatal(err)
		}
		defer session.Close()

		ctx := context.Background()
		session.UpdateData(map[string]any{"title": "Ocean Villa"})

		if advanced, result, err := session.NextStep(ctx); err != nil {
			log.Fatal(err)
		} else if !advanced {
			log.Printf("fix these fields first: %v", result.Errors)
		}

		outcome, _, err := session.SaveDraft(ctx)
		if err != nil {
			log.Printf("draft lost on both tiers: %v", err)
		} else {
			log.Printf("draft %s saved to %s", outcome.DraftID, outcome.Location)
		}
	}
*/
package wizard
