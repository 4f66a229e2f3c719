package models

import "gorm.io/gorm"

// Club is reference data synced from the booking provider. The watcher and
// the API only ever read it; mutation belongs to an external sync process.
type Club struct {
	gorm.Model
	ProviderID string `gorm:"uniqueIndex"` // club id on the booking provider's side
	Name       string
	Slug       string
	City       string
	Address    string
	Enabled    bool
}

type Clubs []Club
