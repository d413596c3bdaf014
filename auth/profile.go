package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"vestire/db"
	"vestire/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// Me returns the authenticated user's name and email.
func Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	user, err := findUser(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"name": user.Name, "email": user.Email})
}

// GetUser returns the full profile minus the password hash.
func GetUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	user, err := findUser(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user)
}

// UpdateProfile edits the caller's name and email.
func UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Name == "" || input.Email == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	res, err := db.UserCollection.UpdateOne(r.Context(),
		bson.M{"userid": userID},
		bson.M{"$set": bson.M{"name": input.Name, "email": input.Email, "updated_at": time.Now()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Profile updated", "name": input.Name, "email": input.Email})
}
