package domain

// UserProfile stores the editable account fields of a signed-in user.
type UserProfile struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Image string `json:"image,omitempty"`
}
