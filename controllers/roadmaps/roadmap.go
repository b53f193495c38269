package roadmaps

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/phuong808/Pathfinity/controllers/authentication"
	"github.com/phuong808/Pathfinity/models/users"
	"github.com/phuong808/Pathfinity/services"
)

// GenerateRoadmap runs the full roadmap resolution pipeline for the
// authenticated user and returns the stored document. A null body is a
// successful outcome for unsupported campuses and unmatched programs.
func GenerateRoadmap(w http.ResponseWriter, r *http.Request, svc *services.RoadmapService) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, err := authentication.ParseBearerClaims(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	if err := svc.GenerateRoadmap(r.Context(), claims.UserID); err != nil {
		var parseErr *services.SynthesisParseError
		switch {
		case errors.Is(err, services.ErrProfileNotFound), errors.Is(err, services.ErrCampusNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, services.ErrMissingProgram):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.As(err, &parseErr):
			http.Error(w, err.Error(), http.StatusBadGateway)
		default:
			http.Error(w, "Failed to generate roadmap", http.StatusInternalServerError)
		}
		return
	}

	writeRoadmap(w, claims.UserID)
}

// GetRoadmap returns the authenticated user's stored roadmap, null if none
// has been generated.
func GetRoadmap(w http.ResponseWriter, r *http.Request) {
	claims, err := authentication.ParseBearerClaims(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	writeRoadmap(w, claims.UserID)
}

func writeRoadmap(w http.ResponseWriter, userID uint) {
	user, err := users.GetUserByID(userID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if len(user.Roadmap) == 0 || string(user.Roadmap) == "null" {
		json.NewEncoder(w).Encode(map[string]interface{}{"roadmap": nil})
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{"roadmap": json.RawMessage(user.Roadmap)})
}
