// Package session owns the CLI's authentication state: the bearer token, the
// authenticated account record and the last failure message. It is the single
// source of truth for identity — commands read it through Snapshot and mutate
// it only through the four transitions Register, Login, CheckStatus and
// Logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/Jeremy-Bosire/PovertyLine/internal/cli/auth"
	"github.com/Jeremy-Bosire/PovertyLine/internal/cli/client"
)

// Fallback messages for when the server does not supply an error field.
const (
	msgRegistrationFailed   = "Registration failed"
	msgLoginFailed          = "Login failed"
	msgAuthenticationFailed = "Authentication failed"
	msgNoToken              = "No token found"
)

// Snapshot is the session state at one point in time. Authenticated == true
// implies User != nil; an empty Token implies Authenticated == false.
type Snapshot struct {
	Token         string
	User          *client.User
	Authenticated bool
	Loading       bool
	Err           string
}

// Store is an injectable session service. opMu serializes the four
// transitions so an in-flight CheckStatus cannot interleave with a Logout;
// mu guards snapshot reads against partial writes.
type Store struct {
	client *client.Client
	tokens auth.TokenStore

	opMu sync.Mutex
	mu   sync.Mutex
	snap Snapshot
}

// New builds a session store talking to serverURL. A nil httpClient keeps the
// API client's default transport. The durable store seeds the initial token,
// but the session stays anonymous until CheckStatus confirms the token still
// works.
func New(serverURL string, httpClient *http.Client, tokens auth.TokenStore) *Store {
	apiClient := client.New(serverURL)
	if httpClient != nil {
		apiClient.SetHTTPClient(httpClient)
	}

	s := &Store{client: apiClient, tokens: tokens}

	if token, err := tokens.LoadToken(apiClient.Server()); err == nil && token != "" {
		apiClient.SetToken(token)
		s.snap.Token = token
	}

	return s
}

// Client returns the API client carrying the session's credential. Commands
// use it for everything beyond the four session transitions.
func (s *Store) Client() *client.Client {
	return s.client
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snap
	if s.snap.User != nil {
		user := *s.snap.User
		snap.User = &user
	}
	return snap
}

// ClearError discards the last failure message
func (s *Store) ClearError() {
	s.mu.Lock()
	s.snap.Err = ""
	s.mu.Unlock()
}

// RegisterInput is the signup form
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// Register creates an account and starts a session with the returned token
func (s *Store) Register(ctx context.Context, input RegisterInput) (*client.User, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.setLoading()

	resp, err := s.client.Register(ctx, client.RegisterRequest{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
	})
	if err != nil {
		return nil, s.fail(normalize(err, msgRegistrationFailed))
	}

	return s.establish(resp.User, resp.AccessToken)
}

// Login starts a session for an existing account
func (s *Store) Login(ctx context.Context, username, password string) (*client.User, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.setLoading()

	resp, err := s.client.Login(ctx, username, password)
	if err != nil {
		return nil, s.fail(normalize(err, msgLoginFailed))
	}

	return s.establish(resp.User, resp.AccessToken)
}

// CheckStatus validates the stored token against the server and loads the
// account behind it. With no stored token it resolves locally — no request
// goes out. A token the server rejects is purged everywhere, resetting the
// session to anonymous.
func (s *Store) CheckStatus(ctx context.Context) (*client.User, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	token, err := s.tokens.LoadToken(s.client.Server())
	if err != nil || token == "" {
		s.mu.Lock()
		s.snap = Snapshot{Err: msgNoToken}
		s.mu.Unlock()
		return nil, errors.New(msgNoToken)
	}

	s.setLoading()
	s.client.SetToken(token)

	user, err := s.client.Me(ctx)
	if err != nil {
		message := normalize(err, msgAuthenticationFailed)
		_ = s.clearToken()
		s.mu.Lock()
		s.snap = Snapshot{Err: message}
		s.mu.Unlock()
		return nil, errors.New(message)
	}

	s.mu.Lock()
	s.snap = Snapshot{Token: token, User: user, Authenticated: true}
	s.mu.Unlock()
	return user, nil
}

// Logout ends the session. The remote call is best-effort: local state resets
// no matter what the server says, so a dead server cannot keep a user logged
// in. The returned error only reports a durable store that refused to clear.
func (s *Store) Logout(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.setLoading()

	_ = s.client.Logout(ctx)

	clearErr := s.clearToken()

	s.mu.Lock()
	s.snap = Snapshot{}
	s.mu.Unlock()
	return clearErr
}

// setToken is the only place a credential is written: the durable store and
// the transport header move together or not at all.
func (s *Store) setToken(token string) error {
	if err := s.tokens.SaveToken(s.client.Server(), token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	s.client.SetToken(token)
	s.mu.Lock()
	s.snap.Token = token
	s.mu.Unlock()
	return nil
}

// clearToken is the only place a credential is removed, mirroring setToken.
// The transport header goes first so no request can reuse a purged token.
func (s *Store) clearToken() error {
	s.client.SetToken("")
	s.mu.Lock()
	s.snap.Token = ""
	s.mu.Unlock()
	return s.tokens.DeleteToken(s.client.Server())
}

func (s *Store) setLoading() {
	s.mu.Lock()
	s.snap.Loading = true
	s.snap.Err = ""
	s.mu.Unlock()
}

// establish finishes a successful register/login: persist the credential,
// then mark the session authenticated.
func (s *Store) establish(user *client.User, token string) (*client.User, error) {
	if err := s.setToken(token); err != nil {
		return nil, s.fail(err.Error())
	}

	s.mu.Lock()
	s.snap.User = user
	s.snap.Authenticated = true
	s.snap.Loading = false
	s.snap.Err = ""
	s.mu.Unlock()
	return user, nil
}

// fail records the failure message and ends the transition. The credential
// is left alone — only CheckStatus purges it.
func (s *Store) fail(message string) error {
	s.mu.Lock()
	s.snap.Loading = false
	s.snap.Err = message
	s.mu.Unlock()
	return errors.New(message)
}

// normalize turns a transport or API failure into the one human-readable
// message the state carries, preferring what the server said.
func normalize(err error, fallback string) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
