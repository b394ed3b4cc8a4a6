package http

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/rotisserie/eris"

	"sdaadmin/app/internal/domain/accounts"
)

const (
	sessionName    = "sda_admin_session"
	sessionUserKey = "user_id"
	sessionMaxAge  = 14 * 24 * time.Hour
)

// SessionSettings configures the login cookie.
type SessionSettings struct {
	Secret []byte
	Secure bool
}

type sessionManager struct {
	store    *sessions.CookieStore
	accounts accounts.Service
}

func newSessionManager(settings SessionSettings, accountService accounts.Service) (*sessionManager, error) {
	if len(settings.Secret) == 0 {
		return nil, eris.New("session secret is required")
	}

	store := sessions.NewCookieStore(settings.Secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   settings.Secure,
		SameSite: stdhttp.SameSiteLaxMode,
	}

	return &sessionManager{store: store, accounts: accountService}, nil
}

// userFromSession returns the active user stored in the session cookie.
// A missing, undecodable or stale cookie yields a nil user.
func (m *sessionManager) userFromSession(r *stdhttp.Request) (*accounts.User, error) {
	session, err := m.store.Get(r, sessionName)
	if err != nil {
		return nil, nil
	}

	id, ok := session.Values[sessionUserKey].(uint)
	if !ok || id == 0 {
		return nil, nil
	}

	return m.activeUser(r.Context(), id)
}

func (m *sessionManager) activeUser(ctx context.Context, id uint) (*accounts.User, error) {
	user, err := m.accounts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, nil
	}
	return user, nil
}

func (m *sessionManager) login(w stdhttp.ResponseWriter, r *stdhttp.Request, user *accounts.User) error {
	session, _ := m.store.New(r, sessionName)
	session.Values[sessionUserKey] = user.ID
	if err := session.Save(r, w); err != nil {
		return eris.Wrap(err, "saving session")
	}
	return nil
}

func (m *sessionManager) logout(w stdhttp.ResponseWriter, r *stdhttp.Request) error {
	session, _ := m.store.Get(r, sessionName)
	session.Values = map[any]any{}
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		return eris.Wrap(err, "clearing session")
	}
	return nil
}
