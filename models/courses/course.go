package courses

// Course is one catalog entry, keyed by campus plus the split course code
// ("ICS 111" -> prefix "ICS", number "111"). The catalog is read-only from
// the application's point of view; rows are loaded by an external import.
type Course struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	CampusID    uint    `gorm:"index;not null" json:"campusId"`
	Prefix      string  `gorm:"not null" json:"prefix"`
	Number      string  `gorm:"not null" json:"number"`
	Title       string  `json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	Units       float64 `json:"units"`
}

// Code returns the normalized "PREFIX NUMBER" form.
func (c Course) Code() string {
	return c.Prefix + " " + c.Number
}
