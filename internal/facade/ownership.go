// Package facade is the single entry point the transport layer sees while
// the platform migrates from the document store to the relational store. It
// composes the legacy logic with the new logic, routes every read and write
// to the owning store, and reconciles results.
package facade

// EntityKind enumerates the entity families the bridge routes.
type EntityKind int

const (
	KindCourse EntityKind = iota
	KindInstructor
	KindStudent
	KindFeedbackSession
	KindNotification
)

// Ownership says which store holds the truth for an entity kind during the
// current migration phase.
type Ownership int

const (
	// OwnedByNew: writes go to the relational store only.
	OwnedByNew Ownership = iota
	// OwnedByLegacy: writes go to the document store only.
	OwnedByLegacy
	// OwnedByBoth: reads consult both stores, new wins when present.
	OwnedByBoth
)

// ownerTable is the static routing configuration of the migration phase.
// Courses and notifications are fully migrated, instructors are mid-flight
// (new store writes, dual reads), students and feedback sessions still live
// legacy-side.
var ownerTable = map[EntityKind]Ownership{
	KindCourse:          OwnedByNew,
	KindInstructor:      OwnedByBoth,
	KindStudent:         OwnedByLegacy,
	KindFeedbackSession: OwnedByLegacy,
	KindNotification:    OwnedByNew,
}

// OwnerOf reports the owning store of an entity kind.
func OwnerOf(kind EntityKind) Ownership {
	return ownerTable[kind]
}
