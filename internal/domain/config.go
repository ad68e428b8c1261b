package domain

// Session stores the provider-issued credentials of a signed-in user.
type Session struct {
	UserID       string `json:"user_id"`
	Phone        string `json:"phone"`
	IDToken      string `json:"id_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// SignedIn reports whether the session belongs to an authenticated user.
func (s Session) SignedIn() bool {
	return s.UserID != ""
}

// PendingVerification carries an in-flight phone verification between
// invocations.
type PendingVerification struct {
	Phone string `json:"phone"`
	Token string `json:"token"`
}

// Config stores local client state: the active session, an optional
// in-flight verification, and the location-access consent recorded on
// first use.
type Config struct {
	Session         Session              `json:"session"`
	Pending         *PendingVerification `json:"pending,omitempty"`
	LocationConsent bool                 `json:"location_consent"`
}
