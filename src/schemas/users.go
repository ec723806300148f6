package schemas

type UserSettingsResponse struct {
	PreferredCurrency string `json:"preferredCurrency"`
}

type UpdateUserSettingsRequest struct {
	PreferredCurrency string `json:"preferredCurrency"`
}

type ProfileResponse struct {
	ID                int     `json:"id"`
	Name              *string `json:"name,omitempty"`
	Email             *string `json:"email,omitempty"`
	PictureURL        *string `json:"pictureUrl,omitempty"`
	PreferredCurrency string  `json:"preferredCurrency"`
}
