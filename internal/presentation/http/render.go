package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	stdhttp "net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/danielgtaylor/huma/v2"
	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"sdaadmin/app/internal/presentation/http/templates"
)

const htmlContentType = "text/html; charset=utf-8"

type htmlResponse struct {
	Status      int
	ContentType string `header:"Content-Type"`
	Location    string `header:"Location"`
	Body        []byte
}

func renderComponent(ctx context.Context, component templ.Component) ([]byte, error) {
	var buf bytes.Buffer
	if err := component.Render(ctx, &buf); err != nil {
		return nil, eris.Wrap(err, "error rendering component")
	}
	return buf.Bytes(), nil
}

func streamComponent(ctx context.Context, w io.Writer, component templ.Component) error {
	if err := component.Render(ctx, w); err != nil {
		return eris.Wrap(err, "error streaming component")
	}
	return nil
}

func newHTMLResponse(status int, body []byte) *htmlResponse {
	return &htmlResponse{
		Status:      status,
		ContentType: htmlContentType,
		Body:        body,
	}
}

func redirectResponse(location string) *htmlResponse {
	return &htmlResponse{
		Status:      stdhttp.StatusSeeOther,
		ContentType: htmlContentType,
		Location:    location,
	}
}

// htmlPage renders a component into a huma HTML response, falling back to
// the error page when rendering fails.
func (s *Server) htmlPage(ctx context.Context, status int, component templ.Component) (*htmlResponse, error) {
	body, err := renderComponent(ctx, component)
	if err != nil {
		s.recordError(ctx, err, "rendering page", logrus.Fields{"status": status})
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage)
	}
	return newHTMLResponse(status, body), nil
}

// writePage streams a component for handlers that are mounted on the mux directly.
func (s *Server) writePage(w stdhttp.ResponseWriter, r *stdhttp.Request, status int, component templ.Component) {
	body, err := renderComponent(r.Context(), component)
	if err != nil {
		s.recordError(r.Context(), err, "rendering page", logrus.Fields{"status": status})
		s.writeErrorPage(w, r, stdhttp.StatusInternalServerError, errorFallbackMessage)
		return
	}

	w.Header().Set("Content-Type", htmlContentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (s *Server) writeErrorPage(w stdhttp.ResponseWriter, r *stdhttp.Request, status int, message string) {
	w.Header().Set("Content-Type", htmlContentType)
	w.WriteHeader(status)
	if err := streamComponent(r.Context(), w, errorComponent(status, message)); err != nil {
		s.recordError(r.Context(), err, "streaming error page", logrus.Fields{"status": status})
	}
}

func htmlOperation(summary string, statuses ...int) func(op *huma.Operation) {
	return func(op *huma.Operation) {
		if summary != "" {
			op.Summary = summary
		}
		op.Tags = []string{"admin"}
		op.Hidden = true
		if op.Responses == nil {
			op.Responses = map[string]*huma.Response{}
		}

		statusCodes := append([]int{stdhttp.StatusOK}, statuses...)
		for _, status := range statusCodes {
			code := strconv.Itoa(status)
			op.Responses[code] = &huma.Response{
				Description: stdhttp.StatusText(status),
				Content: map[string]*huma.MediaType{
					htmlContentType: {
						Schema: &huma.Schema{Type: "string"},
					},
				},
			}
		}
	}
}

func errorComponent(status int, message string) templ.Component {
	label := fmt.Sprintf("%d %s", status, stdhttp.StatusText(status))
	return templates.ErrorPage(templates.ErrorPageData{
		Title:       label,
		StatusLabel: label,
		Message:     message,
		BackURL:     adminRoot,
	})
}

func (s *Server) renderErrorResponse(ctx context.Context, status int, message string) (*htmlResponse, error) {
	body, err := renderComponent(ctx, errorComponent(status, message))
	if err != nil {
		s.recordError(ctx, err, "rendering error page", logrus.Fields{"status": status})
		label := fmt.Sprintf("%d %s", status, stdhttp.StatusText(status))
		fallback := []byte(fmt.Sprintf("<html><body><h1>%s</h1><p>%s</p></body></html>", label, templ.EscapeString(message)))
		return newHTMLResponse(status, fallback), nil
	}

	return newHTMLResponse(status, body), nil
}

// writeProblem writes an RFC 9457 problem document outside of huma operations.
func writeProblem(w stdhttp.ResponseWriter, status int, detail string) {
	body, err := json.Marshal(&huma.ErrorModel{
		Title:  stdhttp.StatusText(status),
		Status: status,
		Detail: detail,
	})
	if err != nil {
		body = []byte(`{"status":500}`)
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (s *Server) recordError(ctx context.Context, err error, message string, fields logrus.Fields) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if fields != nil {
			entry = entry.WithFields(fields)
		}
		if requestID := RequestIDFromContext(ctx); requestID != "" {
			entry = entry.WithField("request_id", requestID)
		}
		entry.Error(message)
	}

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.CaptureException(err)
		return
	}
	if s.sentry != nil {
		s.sentry.CaptureException(err)
	}
}
