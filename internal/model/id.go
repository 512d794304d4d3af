package model

import "github.com/google/uuid"

// ValidID reports whether id has the canonical shape of an entity id.
func ValidID(id string) bool {
	u, err := uuid.Parse(id)
	return err == nil && u.String() == id
}
