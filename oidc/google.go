package oidckit

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/PaulFidika/stocksync-login/core"
	"github.com/mr-tron/base58"
	"golang.org/x/oauth2"
)

// ErrUnknownState is returned when a callback carries a state that was never
// issued, has expired, or was already used.
var ErrUnknownState = errors.New("oidc: unknown state")

// GoogleWidget runs the Google authorization-code flow on behalf of the login
// screen and resolves access tokens to userinfo.
type GoogleWidget struct {
	oauthConfig *oauth2.Config
	userInfoURL string
	states      StateCache
	httpClient  *http.Client
}

// NewGoogleWidget builds a widget from cfg; empty fields take Google defaults.
func NewGoogleWidget(cfg RPConfig, states StateCache) (*GoogleWidget, error) {
	if states == nil {
		return nil, errors.New("oidc: state cache is required")
	}
	cfg = withDefaults("google", cfg)
	if cfg.ClientID == "" {
		return nil, errors.New("oidc: google client id is empty")
	}
	return &GoogleWidget{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
		},
		userInfoURL: cfg.UserInfoURL,
		states:      states,
	}, nil
}

// WithHTTPClient sets the client used for token exchange and userinfo calls.
func (w *GoogleWidget) WithHTTPClient(c *http.Client) *GoogleWidget {
	w.httpClient = c
	return w
}

// OAuthConfig returns the underlying OAuth2 configuration.
func (w *GoogleWidget) OAuthConfig() *oauth2.Config { return w.oauthConfig }

// NewState returns a fresh random state parameter.
func NewState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return base58.Encode(b), nil
}

// Start issues a state and a PKCE verifier, remembers both and returns the
// authorization URL carrying the S256 challenge.
func (w *GoogleWidget) Start(ctx context.Context, data StateData) (string, error) {
	state, err := NewState()
	if err != nil {
		return "", err
	}
	data.Provider = "google"
	data.CodeVerifier = oauth2.GenerateVerifier()
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now().UTC()
	}
	if err := w.states.Put(ctx, state, data); err != nil {
		return "", fmt.Errorf("store state: %w", err)
	}
	return w.oauthConfig.AuthCodeURL(state, oauth2.S256ChallengeOption(data.CodeVerifier)), nil
}

// ConsumeState verifies that state was issued by Start and forgets it.
func (w *GoogleWidget) ConsumeState(ctx context.Context, state string) (StateData, error) {
	if state == "" {
		return StateData{}, ErrUnknownState
	}
	data, ok, err := w.states.Take(ctx, state)
	if err != nil {
		return StateData{}, fmt.Errorf("load state: %w", err)
	}
	if !ok {
		return StateData{}, ErrUnknownState
	}
	return data, nil
}

// Exchange trades an authorization code for an access token, proving
// possession of the verifier stored by Start.
func (w *GoogleWidget) Exchange(ctx context.Context, code, verifier string) (string, error) {
	if code == "" {
		return "", errors.New("oidc: missing authorization code")
	}
	if verifier == "" {
		return "", errors.New("oidc: missing pkce verifier")
	}
	tok, err := w.oauthConfig.Exchange(w.clientContext(ctx), code, oauth2.VerifierOption(verifier))
	if err != nil {
		return "", fmt.Errorf("token exchange failed for google: %w", err)
	}
	if tok.AccessToken == "" {
		return "", errors.New("oidc: no access_token in response")
	}
	return tok.AccessToken, nil
}

// FetchUserInfo queries the userinfo endpoint with accessToken as bearer.
func (w *GoogleWidget) FetchUserInfo(ctx context.Context, accessToken string) (core.GoogleUserInfo, error) {
	ctx = w.clientContext(ctx)
	client := w.oauthConfig.Client(ctx, &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.userInfoURL, nil)
	if err != nil {
		return core.GoogleUserInfo{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return core.GoogleUserInfo{}, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return core.GoogleUserInfo{}, fmt.Errorf("failed to get user info: status %d", resp.StatusCode)
	}
	var info core.GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return core.GoogleUserInfo{}, fmt.Errorf("failed to decode user info: %w", err)
	}
	return info, nil
}

func (w *GoogleWidget) clientContext(ctx context.Context) context.Context {
	if w.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, w.httpClient)
}
