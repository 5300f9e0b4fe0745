// ABOUTME: Session and user profile types held by the credential store
// ABOUTME: A session is authenticated exactly when it holds an access token

package auth

// User is the profile returned by auth/user/
type User struct {
	PK        int    `json:"pk"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// DisplayName returns the first name, falling back to the username
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}

// Session is the current authentication state.
//
// User may be nil while authenticated: the profile fetch is best-effort and
// can still be pending or have failed.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *User
}

func (s Session) IsAuthenticated() bool {
	return s.AccessToken != ""
}
