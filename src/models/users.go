package models

import "time"

type User struct {
	ID                int
	GoogleID          string
	Email             *string
	Name              *string
	PictureURL        *string
	PreferredCurrency string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
