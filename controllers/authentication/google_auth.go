package authentication

import (
	"context"
	"log"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/phuong808/Pathfinity/config"
	"github.com/phuong808/Pathfinity/models/users"
)

// Credentials are filled in by Init.
var googleOauthConfig = &oauth2.Config{
	Scopes: []string{
		"https://www.googleapis.com/auth/userinfo.email",
		"https://www.googleapis.com/auth/userinfo.profile",
	},
	Endpoint: google.Endpoint,
}

const googleOauthState = "google"

// HandleGoogleLogin initiates Google OAuth login.
func HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	url := googleOauthConfig.AuthCodeURL(googleOauthState)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// HandleGoogleCallback exchanges the OAuth code, fetches userinfo through
// the Google OAuth2 API, and signs the user in (creating the profile on
// first login).
func HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if r.FormValue("state") != googleOauthState {
		log.Println("invalid oauth state")
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	token, err := googleOauthConfig.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		log.Printf("oauth code exchange: %v", err)
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	info, err := fetchGoogleUserInfo(r.Context(), token)
	if err != nil {
		log.Printf("fetch google userinfo: %v", err)
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	var user users.User
	err = config.DB.Where("email = ? AND provider = ?", info.Email, "google").First(&user).Error
	if err != nil {
		user = users.User{
			Name:     info.Name,
			Email:    info.Email,
			Password: "-",
			Role:     "student",
			Provider: "google",
		}
		if err := config.DB.Create(&user).Error; err != nil {
			log.Printf("create google user: %v", err)
			http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
			return
		}
	}

	tokenString, err := issueToken(&user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error generating token")
		return
	}

	session, _ := config.Store.Get(r, "session-name")
	session.Values["userID"] = user.ID
	session.Save(r, w)

	writeJSON(w, http.StatusOK, map[string]string{"token": tokenString})
}

func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*oauth2api.Userinfo, error) {
	svc, err := oauth2api.NewService(ctx, option.WithTokenSource(googleOauthConfig.TokenSource(ctx, token)))
	if err != nil {
		return nil, err
	}
	return svc.Userinfo.Get().Do()
}
