// Package draft implements draft persistence above the storage adapters:
// collision-resistant draft IDs, the closed kind -> server-store dispatch,
// and the tiered store that degrades from the durable server tier to the
// local cache tier without ever crashing a save.
package draft
