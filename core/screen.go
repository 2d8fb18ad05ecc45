package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	jwtkit "github.com/PaulFidika/stocksync-login/jwt"
	"github.com/sirupsen/logrus"
)

// Deps are the collaborators of a LoginScreen.
type Deps struct {
	Auth     AuthClient
	Users    UserDirectory
	Google   UserInfoFetcher
	Session  SessionWriter
	Navigate Navigator
	Log      logrus.FieldLogger
}

// LoginScreen holds the state of one login form and runs its two sign-in
// flows. It is not safe for concurrent use.
type LoginScreen struct {
	Email        string
	Password     string
	ErrorMessage string

	deps Deps
}

// NewLoginScreen returns a screen with empty state.
func NewLoginScreen(deps Deps) *LoginScreen {
	if deps.Log == nil {
		deps.Log = logrus.StandardLogger()
	}
	return &LoginScreen{deps: deps}
}

// SubmitCredentials signs in with email and password. It reports whether the
// user was navigated to the dashboard. ErrorMessage is only written on failure.
func (s *LoginScreen) SubmitCredentials(ctx context.Context, email, password string) bool {
	s.Email, s.Password = email, password
	log := s.deps.Log.WithField("method", MethodPassword)

	profile, err := s.credentialProfile(ctx, email, password)
	if err == nil {
		err = s.deps.Session.SetProfile(ctx, profile)
	}
	if err != nil {
		log.WithError(err).Warn("login failed")
		if reason, ok := rejectionReason(err); ok {
			s.ErrorMessage = reason
		} else {
			s.ErrorMessage = MsgLoginFailed
		}
		return false
	}

	log.WithField("role", profile.Role).Info("login successful")
	s.deps.Navigate.Navigate(RouteDashboard)
	return true
}

func (s *LoginScreen) credentialProfile(ctx context.Context, email, password string) (UserProfile, error) {
	token, err := s.deps.Auth.Login(ctx, email, password)
	if err != nil {
		return UserProfile{}, err
	}
	claims, err := jwtkit.DecodeUnverified(token)
	if err != nil {
		return UserProfile{}, fmt.Errorf("decode identity token: %w", err)
	}
	picture := claims.Picture
	if picture == "" {
		picture = "none"
	}
	return UserProfile{
		Name:    claims.Name,
		Email:   claims.Subject,
		Picture: picture,
		Role:    claims.Role,
	}, nil
}

// GoogleLoginFailed records a failure reported by the Google widget.
func (s *LoginScreen) GoogleLoginFailed(ctx context.Context, cause error) {
	_ = ctx
	s.deps.Log.WithField("method", MethodGoogle).WithError(cause).Warn("google login failed")
	s.ErrorMessage = MsgGoogleFailed
}

// GoogleLoginSucceeded finishes a Google sign-in for the given access token.
// Only accounts that the backend provisioned through Google are let in.
func (s *LoginScreen) GoogleLoginSucceeded(ctx context.Context, accessToken string) bool {
	log := s.deps.Log.WithField("method", MethodGoogle)

	profile, err := s.googleProfile(ctx, accessToken)
	if errors.Is(err, errNotProvisionedByGoogle) {
		log.Info("account not provisioned by google")
		s.ErrorMessage = MsgNotGoogleAccount
		return false
	}
	if err == nil {
		err = s.deps.Session.SetProfile(ctx, profile)
	}
	if err != nil {
		log.WithError(err).Warn("google user lookup failed")
		s.ErrorMessage = MsgGoogleLookupFailed
		return false
	}

	log.WithField("role", profile.Role).Info("login successful")
	s.deps.Navigate.Navigate(RouteDashboard)
	return true
}

var errNotProvisionedByGoogle = errors.New("account not provisioned by google")

func (s *LoginScreen) googleProfile(ctx context.Context, accessToken string) (UserProfile, error) {
	info, err := s.deps.Google.FetchUserInfo(ctx, accessToken)
	if err != nil {
		return UserProfile{}, fmt.Errorf("fetch userinfo: %w", err)
	}
	user, err := s.deps.Users.UserByEmail(ctx, info.Email)
	if err != nil {
		return UserProfile{}, fmt.Errorf("lookup user: %w", err)
	}
	if !strings.Contains(user.Password, ProvisionedByGoogleMarker) {
		return UserProfile{}, errNotProvisionedByGoogle
	}
	return UserProfile{
		Name:    info.Name,
		Email:   user.Email,
		Picture: info.Picture,
		Role:    user.Role,
	}, nil
}
