package mapper

import (
	"miniapp-user-backend/internal/features/auth/verifier"
	"miniapp-user-backend/internal/features/user/models"
)

// ToUserPatch maps the update request body to a store patch
func ToUserPatch(req *models.UpdateUserRequest) models.UserPatch {
	return models.UserPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		UserData:  req.UserData,
	}
}

// ToProfileHints maps a verified init data identity to profile hints
func ToProfileHints(id verifier.Identity) models.ProfileHints {
	return models.ProfileHints{
		FirstName:    id.FirstName,
		LastName:     id.LastName,
		Username:     id.Username,
		LanguageCode: id.LanguageCode,
	}
}
