package users

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/phuong808/Pathfinity/config"
)

type User struct {
	ID       uint   `gorm:"primaryKey"`
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"unique;not null"`
	Password string `json:"-" gorm:"not null"`
	Role     string `json:"role" gorm:"not null;default:student"`

	// Academic profile used by roadmap synthesis.
	College   string     `json:"college"`
	Program   string     `json:"program"`
	Career    string     `json:"career"`
	Skills    []Skill    `json:"skills" gorm:"many2many:user_skills"`
	Interests []Interest `json:"interests" gorm:"many2many:user_interests"`

	// Roadmap is the generated roadmap document; NULL until a roadmap has
	// been generated, and reset to NULL for unsupported campuses and
	// unmatched programs.
	Roadmap datatypes.JSON `json:"roadmap" gorm:"type:jsonb"`

	AccessToken string `json:"token"`
	Provider    string `json:"provider"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type Skill struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"unique;not null" json:"name"`
}

type Interest struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"unique;not null" json:"name"`
}

func GetUserByID(userID interface{}) (*User, error) {
	var user User
	result := config.DB.Preload("Skills").Preload("Interests").First(&user, userID)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}
