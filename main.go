package main

import (
	"errors"
	"log"
	"net/http"
	"os"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/phuong808/Pathfinity/config"
	"github.com/phuong808/Pathfinity/controllers/authentication"
	"github.com/phuong808/Pathfinity/controllers/httpCors"
	"github.com/phuong808/Pathfinity/controllers/roadmaps"
	"github.com/phuong808/Pathfinity/models/campus"
	"github.com/phuong808/Pathfinity/models/courses"
	"github.com/phuong808/Pathfinity/models/users"
	"github.com/phuong808/Pathfinity/services"
)

func main() {
	settings := config.Load()

	logger, err := config.NewLogger(os.Getenv("APP_ENV"))
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	if err := config.InitDB(settings); err != nil {
		logger.Fatalw("init database", "error", err)
	}
	config.InitSessions(settings)
	authentication.Init(settings)

	err = config.DB.AutoMigrate(
		&users.User{},
		&users.Skill{},
		&users.Interest{},
		&campus.Campus{},
		&courses.Course{},
	)
	if err != nil {
		logger.Fatalw("migrate database", "error", err)
	}

	if err := seedCampuses(); err != nil {
		logger.Fatalw("seed campuses", "error", err)
	}

	store := services.NewGormStore(config.DB)
	gemini := services.NewGeminiClient(services.GeminiConfig{
		APIKey:  settings.GeminiAPIKey,
		BaseURL: settings.GeminiBaseURL,
		Model:   settings.GeminiModel,
	})
	roadmapSvc := services.NewRoadmapService(store, gemini, logger, settings.TemplatesDir)

	http.HandleFunc("/register", authentication.Register)
	http.HandleFunc("/login", authentication.Login)
	http.HandleFunc("/logout", authentication.Logout)
	http.HandleFunc("/login/google", authentication.HandleGoogleLogin)
	http.HandleFunc("/callback/google", authentication.HandleGoogleCallback)

	http.HandleFunc("/profile", authentication.GetProfile)
	http.HandleFunc("/profile/update", authentication.UpdateProfile)
	http.HandleFunc("/profile/password", authentication.ChangePassword)
	http.HandleFunc("/users/search", authentication.SearchUsers)

	http.HandleFunc("/roadmap", roadmaps.GetRoadmap)
	http.HandleFunc("/roadmap/generate", func(w http.ResponseWriter, r *http.Request) {
		roadmaps.GenerateRoadmap(w, r, roadmapSvc)
	})

	handler := httpCors.CorsSettings().Handler(http.DefaultServeMux)

	logger.Infow("server listening", "port", settings.Port)
	if err := http.ListenAndServe(":"+settings.Port, handler); err != nil {
		logger.Fatalw("server stopped", "error", err)
	}
}

// seedCampuses loads the UH system campuses. Only Mānoa has catalog and
// pathway data today; the rest resolve for profile matching but short-
// circuit to a null roadmap.
func seedCampuses() error {
	seeds := []campus.Campus{
		{ID: 1, Name: "University of Hawaii at Manoa", Aliases: datatypes.NewJSONSlice([]string{"UH Manoa", "Manoa", "UHM"})},
		{ID: 2, Name: "University of Hawaii at Hilo", Aliases: datatypes.NewJSONSlice([]string{"UH Hilo", "Hilo"})},
		{ID: 3, Name: "University of Hawaii West Oahu", Aliases: datatypes.NewJSONSlice([]string{"UH West Oahu", "West Oahu"})},
		{ID: 4, Name: "University of Hawaii Maui College", Aliases: datatypes.NewJSONSlice([]string{"UH Maui", "Maui College"})},
	}
	for _, seed := range seeds {
		var existing campus.Campus
		err := config.DB.First(&existing, seed.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := config.DB.Create(&seed).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}
