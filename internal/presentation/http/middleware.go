package http

import (
	"fmt"
	"net"
	stdhttp "net/http"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	applog "sdaadmin/app/internal/platform/log"
)

const requestIDHeader = "X-Request-ID"

type middleware func(stdhttp.Handler) stdhttp.Handler

func chain(handler stdhttp.Handler, middlewares ...middleware) stdhttp.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

// statusRecorder remembers the status code written by the wrapped handler.
type statusRecorder struct {
	stdhttp.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(body []byte) (int, error) {
	if r.status == 0 {
		r.status = stdhttp.StatusOK
	}
	n, err := r.ResponseWriter.Write(body)
	r.bytes += n
	return n, err
}

func (r *statusRecorder) Unwrap() stdhttp.ResponseWriter {
	return r.ResponseWriter
}

func (s *Server) sentryMiddleware(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		hub := applog.RequestHub(s.sentry)
		if hub == nil {
			next.ServeHTTP(w, r)
			return
		}

		hub.Scope().SetRequest(r)
		hub.Scope().SetTag("http.method", r.Method)
		defer hub.Flush(2 * time.Second)

		next.ServeHTTP(w, r.WithContext(sentry.SetHubOnContext(r.Context(), hub)))
	})
}

func (s *Server) requestIDMiddleware(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		reqID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if _, err := uuid.Parse(reqID); err != nil {
			reqID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, reqID)

		if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
			hub.Scope().SetTag("request_id", reqID)
		}

		state := &requestState{requestID: reqID}
		next.ServeHTTP(w, r.WithContext(withRequestState(r.Context(), state)))
	})
}

func (s *Server) recoveryMiddleware(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == stdhttp.ErrAbortHandler {
					panic(rec)
				}

				var err error
				switch v := rec.(type) {
				case error:
					err = v
				default:
					err = fmt.Errorf("panic: %v", v)
				}

				s.recordError(r.Context(), err, "panic recovered", logrus.Fields{"path": r.URL.Path})

				if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
					hub.RecoverWithContext(r.Context(), rec)
				}

				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				w.WriteHeader(stdhttp.StatusInternalServerError)
				_, _ = w.Write([]byte("internal server error"))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		if s.logger == nil {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(recorder, r)

		status := recorder.status
		if status == 0 {
			status = stdhttp.StatusOK
		}

		fields := logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      status,
			"bytes":       recorder.bytes,
			"remote_addr": r.RemoteAddr,
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000,
		}
		if r.Pattern != "" {
			fields["route"] = r.Pattern
		}
		if requestID := RequestIDFromContext(r.Context()); requestID != "" {
			fields["request_id"] = requestID
		}
		if user := UserFromContext(r.Context()); user != nil {
			fields["user"] = user.Username
		}

		entry := s.logger.WithFields(fields)
		if status >= 500 {
			entry.Error("request failed")
		} else {
			entry.Info("request completed")
		}
	})
}

// authMiddleware resolves the admin user from the session cookie or, for API
// clients, HTTP basic credentials. Anonymous HTML requests are sent to the
// login page and anonymous API requests get a 401.
func (s *Server) authMiddleware(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		user, err := s.sessions.userFromSession(r)
		if err != nil {
			s.recordError(r.Context(), err, "loading session user", nil)
		}

		if user == nil && isAPIPath(r.URL.Path) {
			if username, password, ok := r.BasicAuth(); ok {
				user, err = s.authenticate(r, username, password)
				if err != nil {
					s.writeAuthError(w, r, err)
					return
				}
			}
		}

		if user == nil {
			if isAPIPath(r.URL.Path) {
				w.Header().Set("WWW-Authenticate", `Basic realm="sda-admin"`)
				writeProblem(w, stdhttp.StatusUnauthorized, "Authentication credentials were not provided.")
				return
			}
			stdhttp.Redirect(w, r, loginURL(r.URL.RequestURI()), stdhttp.StatusSeeOther)
			return
		}

		if state := stateFromContext(r.Context()); state != nil {
			state.user = user
		}
		if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
			hub.Scope().SetUser(sentry.User{ID: fmt.Sprint(user.ID), Username: user.Username})
		}

		next.ServeHTTP(w, r)
	})
}

// operationMiddleware tags the request hub with the matched API operation.
func (s *Server) operationMiddleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if hub := sentry.GetHubFromContext(ctx.Context()); hub != nil {
			if op := ctx.Operation(); op != nil {
				hub.Scope().SetTag("http.route", op.Path)
				hub.Scope().SetTag("operation", op.OperationID)
			}
		}
		next(ctx)
	}
}

func isPublicPath(path string) bool {
	return path == loginPath || path == healthPath || strings.HasPrefix(path, "/static/")
}

func isAPIPath(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}

func loginURL(next string) string {
	if next == "" || next == adminRoot {
		return loginPath
	}
	return loginPath + "?next=" + url.QueryEscape(next)
}

// parseTrustedProxies accepts addresses and CIDR ranges.
func parseTrustedProxies(values []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(values))
	for _, raw := range values {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		if strings.Contains(value, "/") {
			prefix, err := netip.ParsePrefix(value)
			if err != nil {
				return nil, eris.Wrapf(err, "invalid trusted proxy %q", value)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(value)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid trusted proxy %q", value)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

func (s *Server) trustedProxy(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, prefix := range s.trustedProxies {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// clientIP identifies the peer for throttling. Forwarding headers are only
// read when the connection comes from a trusted proxy.
func (s *Server) clientIP(req *stdhttp.Request) string {
	if req == nil {
		return ""
	}

	remote := remoteHost(req.RemoteAddr)
	peer, err := netip.ParseAddr(remote)
	if err != nil || !s.trustedProxy(peer) {
		return remote
	}

	if forwarded := strings.TrimSpace(req.Header.Get("X-Forwarded-For")); forwarded != "" {
		hops := strings.Split(forwarded, ",")
		// The rightmost hop not added by our own proxies is the client.
		for i := len(hops) - 1; i >= 0; i-- {
			hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				break
			}
			if !s.trustedProxy(hop) {
				return hop.Unmap().String()
			}
		}
	}

	if realIP, err := netip.ParseAddr(strings.TrimSpace(req.Header.Get("X-Real-IP"))); err == nil {
		return realIP.Unmap().String()
	}
	return remote
}

func remoteHost(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return strings.TrimSpace(remoteAddr)
	}
	return host
}
