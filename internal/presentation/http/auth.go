package http

import (
	stdhttp "net/http"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"sdaadmin/app/internal/domain/accounts"
	"sdaadmin/app/internal/presentation/http/templates"
)

const loginTitle = "Log in"

func (s *Server) registerAuthRoutes() {
	s.mux.HandleFunc("GET "+loginPath, s.loginPageHandler)
	s.mux.HandleFunc("POST "+loginPath, s.loginHandler)
	s.mux.HandleFunc("POST "+logoutPath, s.logoutHandler)
}

func (s *Server) loginPageHandler(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	next := safeNext(r.URL.Query().Get("next"))

	user, err := s.sessions.userFromSession(r)
	if err != nil {
		s.recordError(r.Context(), err, "loading session user", nil)
	}
	if user != nil {
		stdhttp.Redirect(w, r, next, stdhttp.StatusSeeOther)
		return
	}

	s.writePage(w, r, stdhttp.StatusOK, templates.LoginPage(templates.LoginData{
		Title: loginTitle,
		Next:  next,
	}))
}

func (s *Server) loginHandler(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	if status, err := s.parseForm(w, r); err != nil {
		s.writeErrorPage(w, r, status, err.Error())
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	data := templates.LoginData{
		Title:    loginTitle,
		Next:     safeNext(r.PostFormValue("next")),
		Username: username,
	}

	user, err := s.authenticate(r, username, r.PostFormValue("password"))
	if err != nil {
		status, message := classifyError(err)
		switch status {
		case stdhttp.StatusTooManyRequests:
			s.setRetryAfter(w, r)
		case stdhttp.StatusUnauthorized:
			// The login form is re-rendered with a 200 like any invalid form.
			status = stdhttp.StatusOK
		default:
			s.recordError(r.Context(), err, "authenticating user", logrus.Fields{"username": username})
		}
		data.Error = message
		s.writePage(w, r, status, templates.LoginPage(data))
		return
	}

	if err := s.sessions.login(w, r, user); err != nil {
		s.writeHTMLError(w, r, err, "starting session", logrus.Fields{"user_id": user.ID})
		return
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":    user.ID,
		"username":   user.Username,
		"remote_ip":  s.clientIP(r),
		"request_id": RequestIDFromContext(r.Context()),
	}).Info("admin signed in")

	stdhttp.Redirect(w, r, data.Next, stdhttp.StatusSeeOther)
}

func (s *Server) logoutHandler(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	if err := s.sessions.logout(w, r); err != nil {
		s.writeHTMLError(w, r, err, "clearing session", nil)
		return
	}
	stdhttp.Redirect(w, r, loginPath, stdhttp.StatusSeeOther)
}

// authenticate checks credentials under the per client attempt budget. A
// successful sign-in restores the budget.
func (s *Server) authenticate(r *stdhttp.Request, username, password string) (*accounts.User, error) {
	key := s.clientIP(r)
	if !s.rateLimiter.Allow(key) {
		return nil, eris.Wrapf(errRateLimited, "client %s", key)
	}

	user, err := s.accounts.Authenticate(r.Context(), username, password)
	if err != nil {
		return nil, err
	}

	s.rateLimiter.Reset(key)
	return user, nil
}

// writeAuthError answers a rejected API credential check.
func (s *Server) writeAuthError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	status, message := classifyError(err)
	switch status {
	case stdhttp.StatusTooManyRequests:
		s.setRetryAfter(w, r)
	case stdhttp.StatusUnauthorized:
		w.Header().Set("WWW-Authenticate", `Basic realm="sda-admin"`)
	default:
		s.recordError(r.Context(), err, "authenticating api client", nil)
	}
	writeProblem(w, status, message)
}

func (s *Server) setRetryAfter(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	wait := s.rateLimiter.RetryAfter(s.clientIP(r))
	seconds := int(wait.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(seconds))
}

// safeNext returns a local admin path to continue to after sign-in.
func safeNext(raw string) string {
	next := safeReturn(raw)
	if next == "" || strings.HasPrefix(next, loginPath) {
		return adminRoot
	}
	return next
}
