// Package store persists computed label points in SQLite.
package store

import (
	"time"

	"github.com/rotisserie/eris"
)

// ErrNotFound is returned when a requested label does not exist.
var ErrNotFound = eris.New("label not found")

// LabelRecord is one stored pole-of-inaccessibility result.
type LabelRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Source    string    `json:"source"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Distance  float64   `json:"distance"`
	Tolerance float64   `json:"tolerance"`
	CreatedAt time.Time `json:"created_at"`
}
