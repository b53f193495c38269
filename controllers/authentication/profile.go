package authentication

import (
	"encoding/json"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/phuong808/Pathfinity/config"
	"github.com/phuong808/Pathfinity/models/users"
)

// UpdateProfile updates the academic fields of the authenticated user.
// Skills and interests are find-or-create so profiles can share the same
// rows; the roadmap column is owned by the pipeline and never touched here.
func UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut && r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	claims, err := ParseBearerClaims(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var user users.User
	if err := config.DB.Preload("Skills").Preload("Interests").First(&user, claims.UserID).Error; err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	var updated users.User
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if updated.Name != "" {
		user.Name = updated.Name
	}
	if updated.College != "" {
		user.College = updated.College
	}
	if updated.Program != "" {
		user.Program = updated.Program
	}
	if updated.Career != "" {
		user.Career = updated.Career
	}

	for _, skill := range updated.Skills {
		var existing users.Skill
		if err := config.DB.Where("name = ?", skill.Name).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				existing = users.Skill{Name: skill.Name}
				config.DB.Create(&existing)
			} else {
				writeError(w, http.StatusInternalServerError, "Error updating skills")
				return
			}
		}
		user.Skills = append(user.Skills, existing)
	}

	for _, interest := range updated.Interests {
		var existing users.Interest
		if err := config.DB.Where("name = ?", interest.Name).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				existing = users.Interest{Name: interest.Name}
				config.DB.Create(&existing)
			} else {
				writeError(w, http.StatusInternalServerError, "Error updating interests")
				return
			}
		}
		user.Interests = append(user.Interests, existing)
	}

	if err := config.DB.Save(&user).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Error saving profile")
		return
	}

	user.Password = ""
	writeJSON(w, http.StatusOK, user)
}

// SearchUsers filters profiles by skill, interest, or program.
func SearchUsers(w http.ResponseWriter, r *http.Request) {
	skill := r.URL.Query().Get("skill")
	interest := r.URL.Query().Get("interest")
	program := r.URL.Query().Get("program")

	var found []users.User
	query := config.DB

	if skill != "" {
		query = query.
			Joins("JOIN user_skills ON users.id = user_skills.user_id").
			Joins("JOIN skills ON skills.id = user_skills.skill_id").
			Where("skills.name = ?", skill)
	}
	if interest != "" {
		query = query.
			Joins("JOIN user_interests ON users.id = user_interests.user_id").
			Joins("JOIN interests ON interests.id = user_interests.interest_id").
			Where("interests.name = ?", interest)
	}
	if program != "" {
		query = query.Where("program = ?", program)
	}

	if err := query.Preload("Skills").Preload("Interests").Find(&found).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Error searching users")
		return
	}
	for i := range found {
		found[i].Password = ""
	}
	writeJSON(w, http.StatusOK, found)
}
