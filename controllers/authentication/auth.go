package authentication

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/phuong808/Pathfinity/config"
	"github.com/phuong808/Pathfinity/models/users"
)

var jwtKey []byte

// Init wires the signing key and Google OAuth credentials from the loaded
// settings. Call once at startup, before any handler runs.
func Init(s config.Settings) {
	jwtKey = []byte(s.JWTSecret)
	googleOauthConfig.ClientID = s.GoogleClientID
	googleOauthConfig.ClientSecret = s.GoogleClientSecret
	googleOauthConfig.RedirectURL = s.GoogleRedirectURL
}

type Claims struct {
	Email  string `json:"email"`
	Role   string `json:"role"`
	UserID uint   `json:"userId"`
	jwt.StandardClaims
}

// ParseBearerClaims validates the Authorization header's bearer token and
// returns its claims.
func ParseBearerClaims(r *http.Request) (*Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, errors.New("authorization header required")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	return claims, nil
}

func issueToken(user *users.User) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Register creates a local account and returns a signed JWT.
func Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var user users.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	var existing users.User
	if err := config.DB.Where("email = ? AND provider = ?", user.Email, "local").First(&existing).Error; err == nil {
		writeError(w, http.StatusConflict, "Email already registered")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error hashing password")
		return
	}
	user.Password = string(hashed)
	user.Provider = "local"
	if user.Role == "" {
		user.Role = "student"
	}
	if user.Role != "student" && user.Role != "advisor" {
		writeError(w, http.StatusBadRequest, "Invalid role. Allowed roles: student, advisor")
		return
	}

	if err := config.DB.Create(&user).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Error creating user")
		return
	}

	tokenString, err := issueToken(&user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error generating token")
		return
	}

	user.Password = ""
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"user":  user,
		"token": tokenString,
	})
}

// Login checks a local account's password and returns a fresh JWT.
func Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var input users.User
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	var user users.User
	if err := config.DB.Where("email = ? AND provider = ?", input.Email, "local").First(&user).Error; err != nil {
		writeError(w, http.StatusUnauthorized, "User not found")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	tokenString, err := issueToken(&user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error generating token")
		return
	}

	user.AccessToken = tokenString
	if err := config.DB.Save(&user).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Error updating user token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": tokenString})
}

// GetProfile returns the authenticated user's profile with skills and
// interests preloaded.
func GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, err := ParseBearerClaims(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	user, err := users.GetUserByID(claims.UserID)
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	user.Password = ""
	writeJSON(w, http.StatusOK, user)
}

func Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := config.Store.Get(r, "session-name")
	session.Options.MaxAge = -1
	session.Save(r, w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}
