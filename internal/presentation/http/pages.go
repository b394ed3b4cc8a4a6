package http

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"sdaadmin/app/internal/domain/admin"
	"sdaadmin/app/internal/presentation/http/templates"
)

// childRowLimit caps the inline rows shown under a parent form.
const childRowLimit = 100

const (
	badPageMessage   = "That page number is not valid."
	badParentMessage = "That parent record reference is not valid."
)

type dashboardInput struct {
	Done string `query:"done"`
}

type listPageInput struct {
	Resource       string `path:"resource"`
	Query          string `query:"q"`
	Page           string `query:"page"`
	Parent         string `query:"parent"`
	Done           string `query:"done"`
	Lang           string `query:"lang"`
	AcceptLanguage string `header:"Accept-Language"`
}

type newPageInput struct {
	Resource       string `path:"resource"`
	Parent         string `query:"parent"`
	Return         string `query:"return"`
	Done           string `query:"done"`
	Lang           string `query:"lang"`
	AcceptLanguage string `header:"Accept-Language"`
}

type recordPageInput struct {
	Resource       string `path:"resource"`
	ID             string `path:"id"`
	Return         string `query:"return"`
	Done           string `query:"done"`
	Lang           string `query:"lang"`
	AcceptLanguage string `header:"Accept-Language"`
}

func (s *Server) registerPageRoutes() {
	huma.Get(s.api, adminRoot, s.dashboardHandler, htmlOperation("Admin dashboard", stdhttp.StatusInternalServerError))
	huma.Get(s.api, adminRoot+"/{resource}", s.listPageHandler, htmlOperation(
		"Resource change list",
		stdhttp.StatusBadRequest,
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))
	huma.Get(s.api, adminRoot+"/{resource}/new", s.newPageHandler, htmlOperation(
		"Add record form",
		stdhttp.StatusBadRequest,
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))
	huma.Get(s.api, adminRoot+"/{resource}/{id}", s.editPageHandler, htmlOperation(
		"Change record form",
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))
	huma.Get(s.api, adminRoot+"/{resource}/{id}/delete", s.deletePageHandler, htmlOperation(
		"Delete confirmation",
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))
}

func (s *Server) layout(ctx context.Context, title, active string) templates.Layout {
	layout := templates.Layout{
		Title: title,
		Nav:   navigation(s.admin.Registry(), active),
	}
	if user := UserFromContext(ctx); user != nil {
		layout.Username = user.Username
	}
	return layout
}

func (s *Server) dashboardHandler(ctx context.Context, _ *dashboardInput) (*htmlResponse, error) {
	counts, err := s.admin.Counts(ctx)
	if err != nil {
		return s.htmlError(ctx, err, "counting records", nil)
	}

	registry := s.admin.Registry()
	data := templates.DashboardData{Layout: s.layout(ctx, "Site administration", "")}
	for _, res := range registry.TopLevel() {
		card := templates.DashboardCard{
			Label: res.Plural,
			URL:   resourceURL(res.Key),
			Count: counts[res.Key],
		}
		for _, child := range registry.Children(res.Key) {
			card.Children = append(card.Children, fmt.Sprintf("%s (%d)", child.Plural, counts[child.Key]))
		}
		data.Cards = append(data.Cards, card)
	}

	return s.htmlPage(ctx, stdhttp.StatusOK, templates.DashboardPage(data))
}

func (s *Server) listPageHandler(ctx context.Context, input *listPageInput) (*htmlResponse, error) {
	registry := s.admin.Registry()
	res, err := registry.Get(input.Resource)
	if err != nil {
		return s.htmlError(ctx, err, "resolving resource", nil)
	}

	pageNumber, ok := parsePageNumber(input.Page)
	if !ok {
		return s.renderErrorResponse(ctx, stdhttp.StatusBadRequest, badPageMessage)
	}
	parentID, ok := parseOptionalID(input.Parent)
	if !ok {
		return s.renderErrorResponse(ctx, stdhttp.StatusBadRequest, badParentMessage)
	}

	opts := admin.ListOptions{Query: input.Query, Page: pageNumber}
	if parentID != 0 && res.Parent != nil {
		opts.ParentID = &parentID
	}

	page, err := s.admin.List(ctx, res.Key, opts)
	if err != nil {
		return s.htmlError(ctx, err, "listing records", logrus.Fields{"resource": res.Key})
	}

	tag := s.requestLanguage(input.Lang, input.AcceptLanguage)
	query := url.Values{}
	if page.Search != "" {
		query.Set("q", page.Search)
	}
	if opts.ParentID != nil {
		query.Set("parent", strconv.FormatUint(uint64(*opts.ParentID), 10))
	}
	if page.Page > page.Pages() {
		return redirectResponse(withQuery(resourceURL(res.Key), withPage(withLang(query, input.Lang), page.Pages()))), nil
	}

	data := templates.ListData{
		Layout:   s.layout(ctx, res.Plural, navigationKey(registry, res)),
		Heading:  res.Plural,
		NewURL:   resourceURL(res.Key) + "/new",
		Search:   page.Search,
		Searched: page.Search != "",
		Action:   resourceURL(res.Key),
		Table:    buildTable(res, page.Items, tag),
		Total:    page.Total,
		Page:     page.Page,
		Pages:    page.Pages(),
		Flash:    doneMessage(input.Done),
	}
	data.Languages = languageLinks(resourceURL(res.Key), withPage(query, page.Page), tag)

	if page.Page > 1 {
		data.PrevURL = withQuery(resourceURL(res.Key), withPage(withLang(query, input.Lang), page.Page-1))
	}
	if page.Page < data.Pages {
		data.NextURL = withQuery(resourceURL(res.Key), withPage(withLang(query, input.Lang), page.Page+1))
	}

	return s.htmlPage(ctx, stdhttp.StatusOK, templates.ListPage(data))
}

func (s *Server) newPageHandler(ctx context.Context, input *newPageInput) (*htmlResponse, error) {
	res, err := s.admin.Registry().Get(input.Resource)
	if err != nil {
		return s.htmlError(ctx, err, "resolving resource", nil)
	}

	parentID, ok := parseOptionalID(input.Parent)
	if !ok {
		return s.renderErrorResponse(ctx, stdhttp.StatusBadRequest, badParentMessage)
	}

	values := admin.Snapshot(res.New())
	returnTo := safeReturn(input.Return)
	if parentID != 0 && res.Parent != nil {
		values[res.Parent.Field] = parentID
		if returnTo == "" {
			returnTo = recordURL(res.Parent.Resource, parentID)
		}
	}

	tag := s.requestLanguage(input.Lang, input.AcceptLanguage)
	data, err := s.formData(ctx, res, nil, values, nil, tag, returnTo)
	if err != nil {
		return s.htmlError(ctx, err, "building form", logrus.Fields{"resource": res.Key})
	}
	data.Flash = doneMessage(input.Done)

	return s.htmlPage(ctx, stdhttp.StatusOK, templates.FormPage(data))
}

func (s *Server) editPageHandler(ctx context.Context, input *recordPageInput) (*htmlResponse, error) {
	res, err := s.admin.Registry().Get(input.Resource)
	if err != nil {
		return s.htmlError(ctx, err, "resolving resource", nil)
	}

	id, ok := parseID(input.ID)
	if !ok {
		return s.renderErrorResponse(ctx, stdhttp.StatusNotFound, notFoundMessage)
	}

	record, err := s.admin.Get(ctx, res.Key, id)
	if err != nil {
		return s.htmlError(ctx, err, "loading record", logrus.Fields{"resource": res.Key, "id": id})
	}

	tag := s.requestLanguage(input.Lang, input.AcceptLanguage)
	data, err := s.formData(ctx, res, &id, admin.Snapshot(record), nil, tag, safeReturn(input.Return))
	if err != nil {
		return s.htmlError(ctx, err, "building form", logrus.Fields{"resource": res.Key, "id": id})
	}
	data.Flash = doneMessage(input.Done)

	query := url.Values{}
	if input.Return != "" {
		query.Set("return", input.Return)
	}
	data.Languages = languageLinks(recordURL(res.Key, id), query, tag)

	return s.htmlPage(ctx, stdhttp.StatusOK, templates.FormPage(data))
}

func (s *Server) deletePageHandler(ctx context.Context, input *recordPageInput) (*htmlResponse, error) {
	registry := s.admin.Registry()
	res, err := registry.Get(input.Resource)
	if err != nil {
		return s.htmlError(ctx, err, "resolving resource", nil)
	}

	id, ok := parseID(input.ID)
	if !ok {
		return s.renderErrorResponse(ctx, stdhttp.StatusNotFound, notFoundMessage)
	}

	record, err := s.admin.Get(ctx, res.Key, id)
	if err != nil {
		return s.htmlError(ctx, err, "loading record", logrus.Fields{"resource": res.Key, "id": id})
	}

	tag := s.requestLanguage(input.Lang, input.AcceptLanguage)
	returnTo := safeReturn(input.Return)
	data := templates.DeleteData{
		Layout:    s.layout(ctx, "Delete "+strings.ToLower(res.Singular), navigationKey(registry, res)),
		Heading:   "Delete " + strings.ToLower(res.Singular),
		Name:      recordTitle(res, admin.Snapshot(record), tag),
		Action:    withReturn(recordURL(res.Key, id)+"/delete", returnTo),
		CancelURL: withReturn(recordURL(res.Key, id), returnTo),
	}

	for _, child := range registry.Children(res.Key) {
		page, err := s.admin.List(ctx, child.Key, admin.ListOptions{ParentID: &id, PerPage: 1})
		if err != nil {
			return s.htmlError(ctx, err, "counting related records", logrus.Fields{"resource": child.Key, "parent": id})
		}
		if page.Total > 0 {
			data.Related = append(data.Related, fmt.Sprintf("%d %s", page.Total, strings.ToLower(child.Plural)))
		}
	}

	return s.htmlPage(ctx, stdhttp.StatusOK, templates.DeletePage(data))
}

// formData assembles the form page for a new (id nil) or existing record.
func (s *Server) formData(ctx context.Context, res *admin.Resource, id *uint, values map[string]any, verr *admin.ValidationError, tag language.Tag, returnTo string) (templates.FormData, error) {
	registry := s.admin.Registry()

	fields, err := s.formFields(ctx, res, values, verr, tag)
	if err != nil {
		return templates.FormData{}, err
	}
	if returnTo != "" {
		fields = append(fields, templates.FormField{Name: "_return", Value: returnTo, Hidden: true})
	}
	if langCode := languageCode(tag); langCode != languageCode(s.language) {
		fields = append(fields, templates.FormField{Name: "lang", Value: langCode, Hidden: true})
	}

	cancelURL := resourceURL(res.Key)
	if returnTo != "" {
		cancelURL = returnTo
	}

	data := templates.FormData{
		Fields:    fields,
		CancelURL: cancelURL,
	}

	if id == nil {
		data.Heading = "Add " + strings.ToLower(res.Singular)
		data.Action = resourceURL(res.Key)
		data.Layout = s.layout(ctx, data.Heading, navigationKey(registry, res))
		return data, nil
	}

	data.Editing = true
	data.Heading = "Change " + strings.ToLower(res.Singular) + ": " + recordTitle(res, values, tag)
	data.Action = recordURL(res.Key, *id)
	data.DeleteURL = withReturn(recordURL(res.Key, *id)+"/delete", returnTo)
	data.Layout = s.layout(ctx, data.Heading, navigationKey(registry, res))

	parentURL := recordURL(res.Key, *id)
	for _, child := range registry.Children(res.Key) {
		page, err := s.admin.List(ctx, child.Key, admin.ListOptions{ParentID: id, PerPage: childRowLimit})
		if err != nil {
			return templates.FormData{}, err
		}

		table := buildTable(child, page.Items, tag)
		for i := range table.Rows {
			table.Rows[i].EditURL = withReturn(table.Rows[i].EditURL, parentURL)
		}
		data.Children = append(data.Children, templates.ChildTable{
			Heading: child.Plural,
			NewURL:  resourceURL(child.Key) + "/new?parent=" + strconv.FormatUint(uint64(*id), 10),
			Table:   table,
		})
	}

	return data, nil
}

// parseOptionalID reads an optional positive id query value.
func parseOptionalID(raw string) (uint, bool) {
	if raw == "" {
		return 0, true
	}
	return parseID(raw)
}

func parsePageNumber(raw string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return page, true
}

func doneMessage(done string) string {
	switch done {
	case "saved":
		return "The record was saved successfully."
	case "deleted":
		return "The record was deleted successfully."
	default:
		return ""
	}
}

func withPage(query url.Values, page int) url.Values {
	params := cloneValues(query)
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}
	return params
}

func withLang(query url.Values, lang string) url.Values {
	params := cloneValues(query)
	if lang != "" {
		params.Set("lang", lang)
	}
	return params
}

func withReturn(target, returnTo string) string {
	if returnTo == "" {
		return target
	}
	return appendQuery(target, "return", returnTo)
}

func appendQuery(target, key, value string) string {
	separator := "?"
	if strings.Contains(target, "?") {
		separator = "&"
	}
	return target + separator + url.QueryEscape(key) + "=" + url.QueryEscape(value)
}

func cloneValues(values url.Values) url.Values {
	params := url.Values{}
	for key, list := range values {
		params[key] = append([]string(nil), list...)
	}
	return params
}

// safeReturn accepts only local admin paths as redirect targets.
func safeReturn(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "//") || strings.Contains(raw, `\`) {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" {
		return ""
	}
	if parsed.Path != adminRoot && !strings.HasPrefix(parsed.Path, adminRoot+"/") {
		return ""
	}
	return parsed.RequestURI()
}
