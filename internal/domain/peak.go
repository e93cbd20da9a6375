package domain

import "time"

// Peak es una cumbre registrada por un usuario.
type Peak struct {
	ID         int64     `json:"id"`
	OwnerID    int64     `json:"-"`
	Name       string    `json:"name"`
	ElevationM int       `json:"elevation_m"`
	ClimbedAt  time.Time `json:"climbed_at"`
}
