package http

import (
	"errors"
	stdhttp "net/http"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"sdaadmin/app/internal/domain/admin"
	"sdaadmin/app/internal/domain/media"
	"sdaadmin/app/internal/presentation/http/templates"
)

const (
	formErrorMessage = "Please correct the errors below."

	actionContinue   = "continue"
	actionAddAnother = "add-another"
)

func (s *Server) registerFormRoutes() {
	s.mux.HandleFunc("POST "+adminRoot+"/{resource}", s.saveFormHandler)
	s.mux.HandleFunc("POST "+adminRoot+"/{resource}/{id}", s.saveFormHandler)
	s.mux.HandleFunc("POST "+adminRoot+"/{resource}/{id}/delete", s.deleteFormHandler)
}

func (s *Server) saveFormHandler(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	res, err := s.admin.Registry().Get(r.PathValue("resource"))
	if err != nil {
		s.writeHTMLError(w, r, err, "resolving resource", nil)
		return
	}

	var id *uint
	if raw := r.PathValue("id"); raw != "" {
		parsed, ok := parseID(raw)
		if !ok {
			s.writeErrorPage(w, r, stdhttp.StatusNotFound, notFoundMessage)
			return
		}
		id = &parsed
	}

	if status, err := s.parseForm(w, r); err != nil {
		s.writeErrorPage(w, r, status, err.Error())
		return
	}

	returnTo := safeReturn(r.PostFormValue("_return"))
	verr := admin.NewValidationError()

	values, err := admin.ParseForm(res, r.PostForm)
	if err != nil {
		parseErr, ok := admin.AsValidationError(err)
		if !ok {
			s.writeHTMLError(w, r, err, "parsing form", logrus.Fields{"resource": res.Key})
			return
		}
		for key, message := range parseErr.Fields {
			verr.Add(key, message)
		}
	}

	files := map[string]media.File{}
	for _, field := range res.UploadFields() {
		// Browsers submit an empty value for an untouched file input.
		delete(values, field.Key)
		if r.PostFormValue(field.Key+templates.ClearSuffix) != "" {
			if field.Nullable {
				values[field.Key] = nil
			} else {
				values[field.Key] = ""
			}
		}

		file, err := s.formFile(r.MultipartForm, field.Key)
		if errors.Is(err, errNoFile) {
			continue
		}
		if err != nil {
			status, message := classifyError(err)
			if status == stdhttp.StatusInternalServerError {
				s.recordError(ctx, err, "reading upload", logrus.Fields{"resource": res.Key, "field": field.Key})
			}
			verr.Add(field.Key, message)
			continue
		}
		files[field.Key] = file
	}

	if !verr.Empty() {
		s.renderInvalidForm(w, r, res, id, values, verr, stdhttp.StatusUnprocessableEntity, formErrorMessage, returnTo)
		return
	}

	record, err := s.admin.SaveForm(ctx, res.Key, id, values, files)
	if err != nil {
		if fieldErr, ok := admin.AsValidationError(err); ok {
			s.renderInvalidForm(w, r, res, id, values, fieldErr, stdhttp.StatusUnprocessableEntity, formErrorMessage, returnTo)
			return
		}
		if eris.Is(err, admin.ErrConflict) {
			s.renderInvalidForm(w, r, res, id, values, nil, stdhttp.StatusConflict, conflictMessage, returnTo)
			return
		}
		s.writeHTMLError(w, r, err, "saving record", logrus.Fields{"resource": res.Key})
		return
	}

	saved := admin.Snapshot(record)
	stdhttp.Redirect(w, r, s.afterSave(res, saved, r.PostFormValue("_action"), returnTo), stdhttp.StatusSeeOther)
}

func (s *Server) deleteFormHandler(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	res, err := s.admin.Registry().Get(r.PathValue("resource"))
	if err != nil {
		s.writeHTMLError(w, r, err, "resolving resource", nil)
		return
	}

	id, ok := parseID(r.PathValue("id"))
	if !ok {
		s.writeErrorPage(w, r, stdhttp.StatusNotFound, notFoundMessage)
		return
	}

	if status, err := s.parseForm(w, r); err != nil {
		s.writeErrorPage(w, r, status, err.Error())
		return
	}

	if err := s.admin.Delete(r.Context(), res.Key, id); err != nil {
		s.writeHTMLError(w, r, err, "deleting record", logrus.Fields{"resource": res.Key, "id": id})
		return
	}

	target := safeReturn(r.PostFormValue("return"))
	if target == "" {
		target = safeReturn(r.URL.Query().Get("return"))
	}
	if target == "" {
		target = resourceURL(res.Key)
	}
	stdhttp.Redirect(w, r, appendQuery(target, "done", "deleted"), stdhttp.StatusSeeOther)
}

// parseForm reads a multipart or urlencoded body within the upload limit.
func (s *Server) parseForm(w stdhttp.ResponseWriter, r *stdhttp.Request) (int, error) {
	r.Body = stdhttp.MaxBytesReader(w, r.Body, s.maxUpload+multipartOverhead)

	err := r.ParseMultipartForm(multipartOverhead)
	if err == nil || errors.Is(err, stdhttp.ErrNotMultipart) {
		return stdhttp.StatusOK, nil
	}

	var tooLarge *stdhttp.MaxBytesError
	if errors.As(err, &tooLarge) {
		return stdhttp.StatusRequestEntityTooLarge, eris.New("The submitted form is too large.")
	}
	return stdhttp.StatusBadRequest, eris.New("The submitted form could not be read.")
}

func (s *Server) renderInvalidForm(w stdhttp.ResponseWriter, r *stdhttp.Request, res *admin.Resource, id *uint, values admin.Values, verr *admin.ValidationError, status int, message, returnTo string) {
	ctx := r.Context()

	base := admin.Snapshot(res.New())
	if id != nil {
		record, err := s.admin.Get(ctx, res.Key, *id)
		if err != nil {
			s.writeHTMLError(w, r, err, "loading record", logrus.Fields{"resource": res.Key, "id": *id})
			return
		}
		base = admin.Snapshot(record)
	}

	tag := s.requestLanguage(r.PostFormValue("lang"), r.Header.Get("Accept-Language"))
	data, err := s.formData(ctx, res, id, mergeValues(base, values), verr, tag, returnTo)
	if err != nil {
		s.writeHTMLError(w, r, err, "building form", logrus.Fields{"resource": res.Key})
		return
	}
	data.Error = message

	s.writePage(w, r, status, templates.FormPage(data))
}

func (s *Server) afterSave(res *admin.Resource, saved map[string]any, action, returnTo string) string {
	id, _ := saved["id"].(uint)

	switch action {
	case actionContinue:
		return withReturn(appendQuery(recordURL(res.Key, id), "done", "saved"), returnTo)
	case actionAddAnother:
		target := appendQuery(resourceURL(res.Key)+"/new", "done", "saved")
		if res.Parent != nil {
			if parentID, ok := saved[res.Parent.Field].(uint); ok && parentID != 0 {
				target = appendQuery(target, "parent", strconv.FormatUint(uint64(parentID), 10))
			}
		}
		return withReturn(target, returnTo)
	default:
		if returnTo != "" {
			return appendQuery(returnTo, "done", "saved")
		}
		return appendQuery(resourceURL(res.Key), "done", "saved")
	}
}

func (s *Server) writeHTMLError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error, message string, fields logrus.Fields) {
	status, detail := classifyError(err)
	if status == stdhttp.StatusInternalServerError {
		s.recordError(r.Context(), err, message, fields)
	}
	s.writeErrorPage(w, r, status, detail)
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
