package supabase

import (
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/supabase-community/gotrue-go/types"
)

var errNoSession = errors.New("no active session")

// AuthClient wraps the GoTrue subsystem. It remembers the session from the
// last successful sign-in; the platform client itself is never mutated, use
// Client.WithToken to act as the signed-in user.
type AuthClient struct {
	client *Client

	mu      sync.RWMutex
	session *types.Session
}

func NewAuthClient(client *Client) *AuthClient {
	return &AuthClient{client: client}
}

// Session returns the session recorded by the last sign-in, if any.
func (a *AuthClient) Session() (types.Session, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.session == nil {
		return types.Session{}, false
	}
	return *a.session, true
}

// User fetches the user for the client's token. Errors are returned as-is.
func (a *AuthClient) User() (*types.UserResponse, error) {
	return a.client.Supabase.Auth.GetUser()
}

func (a *AuthClient) SignIn(email, password string) (*types.Session, error) {
	started := time.Now()
	resp, err := a.client.Supabase.Auth.SignInWithEmailPassword(email, password)
	observe("auth", "sign_in", started, err)
	if err != nil {
		return nil, a.client.report("sign in", err, "Failed to sign in")
	}

	session := resp.Session
	a.mu.Lock()
	a.session = &session
	a.mu.Unlock()
	return &session, nil
}

// SignUp registers a user. When the project auto-confirms, the response
// carries a session as well, which is recorded like a sign-in.
func (a *AuthClient) SignUp(email, password string) (*types.SignupResponse, error) {
	started := time.Now()
	resp, err := a.client.Supabase.Auth.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
	})
	observe("auth", "sign_up", started, err)
	if err != nil {
		return nil, a.client.report("sign up", err, "Failed to sign up")
	}

	if resp.Session.AccessToken != "" {
		session := resp.Session
		a.mu.Lock()
		a.session = &session
		a.mu.Unlock()
	}
	return resp, nil
}

// SignOut revokes the refresh tokens of the user behind the client's token,
// or of the recorded session when the client is not user scoped.
func (a *AuthClient) SignOut() error {
	auth := a.client.Supabase.Auth
	if a.client.AccessToken() == "" {
		session, ok := a.Session()
		if !ok {
			return a.client.report("sign out", errNoSession, "Failed to sign out")
		}
		auth = auth.WithToken(session.AccessToken)
	}

	started := time.Now()
	err := auth.Logout()
	observe("auth", "sign_out", started, err)
	if err != nil {
		return a.client.report("sign out", err, "Failed to sign out")
	}

	a.mu.Lock()
	a.session = nil
	a.mu.Unlock()
	return nil
}

// AuthorizeURL builds the URL that starts an OAuth flow with provider
// (for example "google"). The browser is sent there; GoTrue redirects back
// to redirectTo with the session in the fragment.
func (a *AuthClient) AuthorizeURL(provider, redirectTo string) string {
	q := url.Values{}
	q.Set("provider", provider)
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	return a.client.url + "/auth/v1/authorize?" + q.Encode()
}
