package core

import "context"

// Routes the login screen navigates to or links.
const (
	RouteLogin     = "/auth/login"
	RouteDashboard = "/dashboard"
	RouteRegister  = "/auth/register"
)

// ProvisionedByGoogleMarker is the substring a backend password field holds
// when the account was created through Google sign-in.
const ProvisionedByGoogleMarker = "googleusercontent"

// UserProfile is the signed-in user as kept in the session.
type UserProfile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
	Role    string `json:"role"`
}

// Credentials as typed into the form.
type Credentials struct {
	Email    string
	Password string
}

// BackendUser is the record returned by the backend email lookup.
type BackendUser struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// GoogleUserInfo is the subset of the Google userinfo response the screen reads.
type GoogleUserInfo struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// AuthClient exchanges credentials for an identity token.
type AuthClient interface {
	Login(ctx context.Context, email, password string) (token string, err error)
}

// UserDirectory looks backend users up by email.
type UserDirectory interface {
	UserByEmail(ctx context.Context, email string) (BackendUser, error)
}

// UserInfoFetcher resolves a Google access token to the user's profile.
type UserInfoFetcher interface {
	FetchUserInfo(ctx context.Context, accessToken string) (GoogleUserInfo, error)
}

// SessionWriter is the one capability the screen has over the session.
type SessionWriter interface {
	SetProfile(ctx context.Context, profile UserProfile) error
}

// Navigator moves the user to another route.
type Navigator interface {
	Navigate(route string)
}
