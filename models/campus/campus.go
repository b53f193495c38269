package campus

import (
	"gorm.io/datatypes"
)

// SupportedCampusID is the one campus with full roadmap synthesis support.
// Profiles on any other campus get a null roadmap until their catalog and
// pathway data are loaded.
const SupportedCampusID uint = 1

type Campus struct {
	ID      uint                        `gorm:"primaryKey" json:"id"`
	Name    string                      `gorm:"unique;not null" json:"name"`
	Aliases datatypes.JSONSlice[string] `json:"aliases"`
}
