package utils

import (
	"net/http"

	"vestire/globals"
)

func GetUserIDFromRequest(r *http.Request) string {
	ctx := r.Context()
	requestingUserID, ok := ctx.Value(globals.UserIDKey).(string)
	if !ok || requestingUserID == "" {
		return ""
	}
	return requestingUserID
}

func GetUserEmailFromRequest(r *http.Request) string {
	ctx := r.Context()
	email, ok := ctx.Value(globals.UserEmailKey).(string)
	if !ok {
		return ""
	}
	return email
}
