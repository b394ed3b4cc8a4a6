package http

import (
	"context"
	"mime/multipart"
	stdhttp "net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"

	"sdaadmin/app/internal/data/database"
	"sdaadmin/app/internal/domain/admin"
	"sdaadmin/app/internal/domain/media"
)

const (
	apiTag        = "resources"
	uploadFormKey = "file"
)

type resourceInput struct {
	Resource string `path:"resource" doc:"Resource key, for example projects or news-sections"`
}

type recordInput struct {
	Resource string `path:"resource" doc:"Resource key"`
	ID       uint   `path:"id" doc:"Record identifier"`
}

type listRecordsInput struct {
	Resource string `path:"resource" doc:"Resource key"`
	Query    string `query:"q" doc:"Case-insensitive search over the resource's searchable columns"`
	Page     int    `query:"page" doc:"1-based page number"`
	PerPage  int    `query:"per_page" doc:"Page size, capped by the server"`
	ParentID uint   `query:"parent_id" doc:"Only records that belong to this parent"`
}

type writeRecordInput struct {
	Resource string         `path:"resource" doc:"Resource key"`
	Body     map[string]any `doc:"Attribute values keyed by field key. Localized fields take an object keyed by language code."`
}

type updateRecordInput struct {
	Resource string         `path:"resource" doc:"Resource key"`
	ID       uint           `path:"id" doc:"Record identifier"`
	Body     map[string]any `doc:"Attribute values to change, keyed by field key"`
}

type attachFileInput struct {
	Resource string `path:"resource" doc:"Resource key"`
	ID       uint   `path:"id" doc:"Record identifier"`
	Field    string `path:"field" doc:"Key of an image or file field"`
	RawBody  multipart.Form
}

type uploadInput struct {
	RawBody multipart.Form
}

type resourcesOutput struct {
	Body []*admin.Resource
}

type recordPage struct {
	Items   []any `json:"items"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Pages   int   `json:"pages"`
}

type recordPageOutput struct {
	Body recordPage
}

type recordOutput struct {
	Status   int
	Location string `header:"Location"`
	Body     any
}

type uploadOutput struct {
	Body struct {
		URL string `json:"url" doc:"Public URL returned by the upload endpoint"`
	}
}

type healthResponse struct {
	Status int
	Body   struct {
		Status   string `json:"status"`
		Database string `json:"database"`
	}
}

func (s *Server) registerHealthRoute() {
	huma.Get(s.api, healthPath, s.healthHandler, func(op *huma.Operation) {
		op.Summary = "Health check"
	})
}

func (s *Server) registerAPIRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-resources",
		Method:      stdhttp.MethodGet,
		Path:        "/api/resources",
		Summary:     "List administrable resources",
		Tags:        []string{apiTag},
	}, s.listResourcesHandler)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-records",
		Method:      stdhttp.MethodGet,
		Path:        "/api/resources/{resource}",
		Summary:     "List records of a resource",
		Tags:        []string{apiTag},
	}, s.listRecordsHandler)

	huma.Register(s.api, huma.Operation{
		OperationID:   "create-record",
		Method:        stdhttp.MethodPost,
		Path:          "/api/resources/{resource}",
		Summary:       "Create a record",
		Tags:          []string{apiTag},
		DefaultStatus: stdhttp.StatusCreated,
	}, s.createRecordHandler)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-record",
		Method:      stdhttp.MethodGet,
		Path:        "/api/resources/{resource}/{id}",
		Summary:     "Fetch a record",
		Tags:        []string{apiTag},
	}, s.getRecordHandler)

	huma.Register(s.api, huma.Operation{
		OperationID: "update-record",
		Method:      stdhttp.MethodPut,
		Path:        "/api/resources/{resource}/{id}",
		Summary:     "Update a record",
		Tags:        []string{apiTag},
	}, s.updateRecordHandler)

	huma.Register(s.api, huma.Operation{
		OperationID:   "delete-record",
		Method:        stdhttp.MethodDelete,
		Path:          "/api/resources/{resource}/{id}",
		Summary:       "Delete a record",
		Tags:          []string{apiTag},
		DefaultStatus: stdhttp.StatusNoContent,
	}, s.deleteRecordHandler)

	huma.Register(s.api, huma.Operation{
		OperationID: "attach-file",
		Method:      stdhttp.MethodPost,
		Path:        "/api/resources/{resource}/{id}/files/{field}",
		Summary:     "Upload a file and store its URL on a record",
		Tags:        []string{apiTag},
	}, s.attachFileHandler)

	huma.Register(s.api, huma.Operation{
		OperationID: "upload-file",
		Method:      stdhttp.MethodPost,
		Path:        "/api/uploads",
		Summary:     "Relay a file to the upload endpoint and return its URL",
		Tags:        []string{"uploads"},
	}, s.uploadHandler)
}

func (s *Server) listResourcesHandler(_ context.Context, _ *struct{}) (*resourcesOutput, error) {
	return &resourcesOutput{Body: s.admin.Registry().All()}, nil
}

func (s *Server) listRecordsHandler(ctx context.Context, input *listRecordsInput) (*recordPageOutput, error) {
	opts := admin.ListOptions{
		Query:   input.Query,
		Page:    input.Page,
		PerPage: input.PerPage,
	}
	if input.ParentID != 0 {
		parentID := input.ParentID
		opts.ParentID = &parentID
	}

	page, err := s.admin.List(ctx, input.Resource, opts)
	if err != nil {
		return nil, s.apiError(ctx, err, "listing records", logrus.Fields{"resource": input.Resource})
	}

	return &recordPageOutput{Body: recordPage{
		Items:   page.Items,
		Total:   page.Total,
		Page:    page.Page,
		PerPage: page.PerPage,
		Pages:   page.Pages(),
	}}, nil
}

func (s *Server) createRecordHandler(ctx context.Context, input *writeRecordInput) (*recordOutput, error) {
	res, err := s.admin.Registry().Get(input.Resource)
	if err != nil {
		return nil, s.apiError(ctx, err, "resolving resource", nil)
	}

	values, err := admin.FromJSON(res, input.Body)
	if err != nil {
		return nil, s.apiError(ctx, err, "decoding record", nil)
	}

	record, err := s.admin.Create(ctx, res.Key, values, nil)
	if err != nil {
		return nil, s.apiError(ctx, err, "creating record", logrus.Fields{"resource": res.Key})
	}

	return &recordOutput{
		Status:   stdhttp.StatusCreated,
		Location: apiRecordURL(res.Key, admin.Snapshot(record)["id"]),
		Body:     record,
	}, nil
}

func (s *Server) getRecordHandler(ctx context.Context, input *recordInput) (*recordOutput, error) {
	record, err := s.admin.Get(ctx, input.Resource, input.ID)
	if err != nil {
		return nil, s.apiError(ctx, err, "loading record", logrus.Fields{"resource": input.Resource, "id": input.ID})
	}
	return &recordOutput{Status: stdhttp.StatusOK, Body: record}, nil
}

func (s *Server) updateRecordHandler(ctx context.Context, input *updateRecordInput) (*recordOutput, error) {
	res, err := s.admin.Registry().Get(input.Resource)
	if err != nil {
		return nil, s.apiError(ctx, err, "resolving resource", nil)
	}

	values, err := admin.FromJSON(res, input.Body)
	if err != nil {
		return nil, s.apiError(ctx, err, "decoding record", nil)
	}

	record, err := s.admin.Update(ctx, res.Key, input.ID, values, nil)
	if err != nil {
		return nil, s.apiError(ctx, err, "updating record", logrus.Fields{"resource": res.Key, "id": input.ID})
	}
	return &recordOutput{Status: stdhttp.StatusOK, Body: record}, nil
}

func (s *Server) deleteRecordHandler(ctx context.Context, input *recordInput) (*struct{}, error) {
	if err := s.admin.Delete(ctx, input.Resource, input.ID); err != nil {
		return nil, s.apiError(ctx, err, "deleting record", logrus.Fields{"resource": input.Resource, "id": input.ID})
	}
	return nil, nil
}

func (s *Server) attachFileHandler(ctx context.Context, input *attachFileInput) (*recordOutput, error) {
	file, err := s.formFile(&input.RawBody, uploadFormKey)
	if err != nil {
		return nil, s.apiError(ctx, fileError(input.Field, err), "reading upload", nil)
	}

	record, err := s.admin.AttachFile(ctx, input.Resource, input.ID, input.Field, file)
	if err != nil {
		return nil, s.apiError(ctx, err, "attaching file", logrus.Fields{"resource": input.Resource, "id": input.ID, "field": input.Field})
	}
	return &recordOutput{Status: stdhttp.StatusOK, Body: record}, nil
}

func (s *Server) uploadHandler(ctx context.Context, input *uploadInput) (*uploadOutput, error) {
	file, err := s.formFile(&input.RawBody, uploadFormKey)
	if err != nil {
		return nil, s.apiError(ctx, fileError(uploadFormKey, err), "reading upload", nil)
	}

	url, err := s.admin.Upload(ctx, file)
	if err != nil {
		return nil, s.apiError(ctx, fileError(uploadFormKey, err), "relaying upload", logrus.Fields{"file": file.Name})
	}

	out := &uploadOutput{}
	out.Body.URL = url
	return out, nil
}

func (s *Server) healthHandler(ctx context.Context, _ *struct{}) (*healthResponse, error) {
	resp := &healthResponse{Status: stdhttp.StatusOK}
	resp.Body.Status = "ok"
	resp.Body.Database = "ok"

	if s.db == nil {
		resp.Body.Database = "unconfigured"
		return resp, nil
	}

	sqlDB, err := database.SQLDB(s.db)
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		s.recordError(ctx, err, "pinging database", nil)
		resp.Body.Status = "degraded"
		resp.Body.Database = "error"
		resp.Status = stdhttp.StatusServiceUnavailable
	}

	return resp, nil
}

// formFile reads one uploaded file from a parsed multipart form.
func (s *Server) formFile(form *multipart.Form, key string) (media.File, error) {
	if form == nil || len(form.File[key]) == 0 {
		return media.File{}, errNoFile
	}
	return media.ReadFile(form.File[key][0], s.maxUpload)
}

// fileError turns a file read or relay failure into a field error.
func fileError(field string, err error) error {
	if _, ok := admin.AsValidationError(err); ok {
		return err
	}

	status, message := classifyError(err)
	if err == errNoFile {
		message = "No file was submitted."
	} else if status == stdhttp.StatusInternalServerError {
		return err
	}

	verr := admin.NewValidationError()
	verr.Add(field, message)
	return verr
}
