package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

type AuthEvent string

const (
	AuthSignedIn  AuthEvent = "SIGNED_IN"
	AuthSignedOut AuthEvent = "SIGNED_OUT"
)

// User is the identity issued by the auth subsystem. It is read-only to the
// application; names live in the metadata map populated at registration.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
	CreatedAt    string         `json:"created_at"`
}

// MetadataString returns a string metadata value, or "" when absent.
func (u *User) MetadataString(key string) string {
	if u == nil || u.UserMetadata == nil {
		return ""
	}
	value, _ := u.UserMetadata[key].(string)
	return value
}

type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         *User  `json:"user"`
}

// AuthClient wraps the GoTrue endpoints and fans auth-change notifications
// out to in-process subscribers.
type AuthClient struct {
	client *Client

	mu        sync.Mutex
	nextID    int
	listeners map[int]func(AuthEvent, *Session)
}

// OnAuthStateChange registers a callback invoked after sign-in and sign-out.
// The returned function unsubscribes it.
func (a *AuthClient) OnAuthStateChange(fn func(AuthEvent, *Session)) func() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listeners == nil {
		a.listeners = make(map[int]func(AuthEvent, *Session))
	}
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.listeners, id)
	}
}

func (a *AuthClient) emit(event AuthEvent, session *Session) {
	a.mu.Lock()
	callbacks := make([]func(AuthEvent, *Session), 0, len(a.listeners))
	for _, fn := range a.listeners {
		callbacks = append(callbacks, fn)
	}
	a.mu.Unlock()

	for _, fn := range callbacks {
		fn(event, session)
	}
}

type signUpResponse struct {
	Session
	ID    string `json:"id"`
	Email string `json:"email"`
}

// SignUp registers a new identity. When the project auto-confirms emails the
// response carries a full session; otherwise only the pending user record.
func (a *AuthClient) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*Session, error) {
	payload := map[string]any{
		"email":    email,
		"password": password,
	}
	if len(metadata) > 0 {
		payload["data"] = metadata
	}

	var resp signUpResponse
	if err := a.post(ctx, "/auth/v1/signup", payload, &resp); err != nil {
		return nil, err
	}

	session := resp.Session
	if session.AccessToken == "" && resp.ID != "" {
		session.User = &User{ID: resp.ID, Email: resp.Email}
	}
	if session.AccessToken != "" {
		a.emit(AuthSignedIn, &session)
	}
	return &session, nil
}

func (a *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	payload := map[string]any{
		"email":    email,
		"password": password,
	}

	var session Session
	if err := a.post(ctx, "/auth/v1/token?grant_type=password", payload, &session); err != nil {
		return nil, err
	}
	a.emit(AuthSignedIn, &session)
	return &session, nil
}

// SignOut revokes the token remotely. The signed-out notification fires on
// completion whether or not revocation succeeded; session state is driven by
// the notification, not by this call's result.
func (a *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	err := a.postWithToken(ctx, "/auth/v1/logout", accessToken, nil, nil)
	a.emit(AuthSignedOut, nil)
	return err
}

// GetUser resolves the identity behind an access token.
func (a *AuthClient) GetUser(ctx context.Context, accessToken string) (*User, error) {
	ctx, cancel := ensureDeadline(ctx, authTimeout)
	defer cancel()

	endpoint := a.client.baseURL + "/auth/v1/user"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build user request: %w", err)
	}
	a.client.setAuthHeaders(req, accessToken)

	resp, err := a.client.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, decodeAuthError(resp)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &user, nil
}

// AdminListUsers lists identities; requires the service key.
func (a *AuthClient) AdminListUsers(ctx context.Context) ([]User, error) {
	if a.client.serviceKey == "" {
		return nil, fmt.Errorf("admin user listing requires a service key")
	}

	endpoint := a.client.baseURL + "/auth/v1/admin/users"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build admin users request: %w", err)
	}
	req.Header.Set("apikey", a.client.anonKey)
	req.Header.Set("Authorization", "Bearer "+a.client.serviceKey)

	resp, err := a.client.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, decodeAuthError(resp)
	}

	var payload struct {
		Users []User `json:"users"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return payload.Users, nil
}

func (a *AuthClient) post(ctx context.Context, path string, payload, dest any) error {
	return a.postWithToken(ctx, path, "", payload, dest)
}

func (a *AuthClient) postWithToken(ctx context.Context, path, token string, payload, dest any) error {
	ctx, cancel := ensureDeadline(ctx, authTimeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode auth payload: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.client.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build auth request: %w", err)
	}
	a.client.setAuthHeaders(req, token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeAuthError(resp)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode auth response: %w", err)
	}
	return nil
}

func decodeAuthError(resp *http.Response) error {
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))

	var envelope struct {
		ErrorField       string `json:"error"`
		ErrorDescription string `json:"error_description"`
		Msg              string `json:"msg"`
		ErrorCode        string `json:"error_code"`
	}
	message := ""
	if err := json.Unmarshal(payload, &envelope); err == nil {
		switch {
		case envelope.ErrorDescription != "":
			message = envelope.ErrorDescription
		case envelope.Msg != "":
			message = envelope.Msg
		case envelope.ErrorField != "":
			message = envelope.ErrorField
		}
	}
	if message == "" {
		message = strings.TrimSpace(string(payload))
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	return &Error{StatusCode: resp.StatusCode, Code: envelope.ErrorCode, Message: message}
}
