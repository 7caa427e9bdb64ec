package models

import "time"

// NoteIDLength is the length of the opaque note id returned by the service.
const NoteIDLength = 32

// User is an actor created by a check: one simulated end user of the
// notebook service. It is persisted once per TaskChainID after its note is
// stored, and loaded again by the matching verify task.
type User struct {
	ID          string
	Username    string
	Password    string
	NoteID      string
	Note        string
	TaskChainID string
	CreatedAt   time.Time
}
