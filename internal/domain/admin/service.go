package admin

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/getsentry/sentry-go"
	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"sdaadmin/app/internal/domain/media"
)

// Service defines the admin operations shared by the HTML screens and the JSON API.
type Service interface {
	Registry() *Registry
	List(ctx context.Context, key string, opts ListOptions) (*Page, error)
	Get(ctx context.Context, key string, id uint) (any, error)
	Create(ctx context.Context, key string, values Values, files map[string]media.File) (any, error)
	Update(ctx context.Context, key string, id uint, values Values, files map[string]media.File) (any, error)
	Delete(ctx context.Context, key string, id uint) error
	SaveForm(ctx context.Context, key string, id *uint, values Values, files map[string]media.File) (any, error)
	AttachFile(ctx context.Context, key string, id uint, fieldKey string, file media.File) (any, error)
	Upload(ctx context.Context, file media.File) (string, error)
	Counts(ctx context.Context) (map[string]int64, error)
}

// Settings tunes paging and upload limits.
type Settings struct {
	PerPage        int
	MaxPerPage     int
	MaxUploadBytes int64
}

const (
	defaultPerPage    = 20
	defaultMaxPerPage = 100
	countConcurrency  = 4
)

// ListOptions are the caller supplied list parameters.
type ListOptions struct {
	Query    string
	Page     int
	PerPage  int
	ParentID *uint
}

// Page is one page of records.
type Page struct {
	Resource *Resource
	Items    []any
	Total    int64
	Page     int
	PerPage  int
	Search   string
	ParentID *uint
}

// Pages returns the number of pages needed for Total records.
func (p *Page) Pages() int {
	if p.PerPage <= 0 || p.Total == 0 {
		return 1
	}
	return int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
}

type service struct {
	registry  *Registry
	repo      Repository
	store     media.Store
	settings  Settings
	validate  *validator.Validate
	logger    *logrus.Logger
	sentryHub *sentry.Hub
}

var _ Service = (*service)(nil)

// NewService wires the admin service with its dependencies.
func NewService(registry *Registry, repo Repository, store media.Store, settings Settings, logger *logrus.Logger, hub *sentry.Hub) (Service, error) {
	if registry == nil {
		return nil, eris.New("resource registry is required")
	}
	if repo == nil {
		return nil, eris.New("admin repository is required")
	}
	if store == nil {
		return nil, eris.New("media store is required")
	}

	if settings.PerPage <= 0 {
		settings.PerPage = defaultPerPage
	}
	if settings.MaxPerPage < settings.PerPage {
		settings.MaxPerPage = max(defaultMaxPerPage, settings.PerPage)
	}

	return &service{
		registry:  registry,
		repo:      repo,
		store:     store,
		settings:  settings,
		validate:  newValidator(),
		logger:    logger,
		sentryHub: hub,
	}, nil
}

func (s *service) Registry() *Registry {
	return s.registry
}

func (s *service) List(ctx context.Context, key string, opts ListOptions) (*Page, error) {
	res, err := s.registry.Get(key)
	if err != nil {
		return nil, err
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = s.settings.PerPage
	}
	perPage = min(perPage, s.settings.MaxPerPage)

	query := Query{
		Search:   strings.TrimSpace(opts.Query),
		ParentID: opts.ParentID,
		Limit:    perPage,
		Offset:   (page - 1) * perPage,
	}
	if query.ParentID != nil && res.Parent == nil {
		return nil, eris.Wrapf(ErrUnknownResource, "resource %q has no parent", key)
	}

	list, total, err := s.repo.List(ctx, res, query)
	if err != nil {
		s.recordError(logrus.Fields{"resource": key, "page": page}, err, "listing records")
		return nil, eris.Wrapf(err, "listing %s", key)
	}

	return &Page{
		Resource: res,
		Items:    recordsOf(list),
		Total:    total,
		Page:     page,
		PerPage:  perPage,
		Search:   query.Search,
		ParentID: query.ParentID,
	}, nil
}

func (s *service) Get(ctx context.Context, key string, id uint) (any, error) {
	res, err := s.registry.Get(key)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, res, id)
}

func (s *service) Create(ctx context.Context, key string, values Values, files map[string]media.File) (any, error) {
	res, err := s.registry.Get(key)
	if err != nil {
		return nil, err
	}

	record := res.New()
	if err := s.apply(ctx, res, record, values, files); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, res, record); err != nil {
		if eris.Is(err, ErrConflict) {
			return nil, err
		}
		s.recordError(logrus.Fields{"resource": key}, err, "creating record")
		return nil, eris.Wrapf(err, "creating %s", key)
	}

	return record, nil
}

func (s *service) Update(ctx context.Context, key string, id uint, values Values, files map[string]media.File) (any, error) {
	res, err := s.registry.Get(key)
	if err != nil {
		return nil, err
	}

	record, err := s.load(ctx, res, id)
	if err != nil {
		return nil, err
	}

	if err := s.apply(ctx, res, record, values, files); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, res, record); err != nil {
		if eris.Is(err, ErrConflict) {
			return nil, err
		}
		s.recordError(logrus.Fields{"resource": key, "id": id}, err, "updating record")
		return nil, eris.Wrapf(err, "updating %s %d", key, id)
	}

	return record, nil
}

func (s *service) Delete(ctx context.Context, key string, id uint) error {
	res, err := s.registry.Get(key)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, res, id, s.registry.Children(key))
	if err != nil {
		if eris.Is(err, ErrInUse) {
			return err
		}
		s.recordError(logrus.Fields{"resource": key, "id": id}, err, "deleting record")
		return eris.Wrapf(err, "deleting %s %d", key, id)
	}
	if !deleted {
		return eris.Wrapf(ErrNotFound, "%s %d", key, id)
	}

	return nil
}

// SaveForm creates a record when id is nil and updates it otherwise.
func (s *service) SaveForm(ctx context.Context, key string, id *uint, values Values, files map[string]media.File) (any, error) {
	if id == nil {
		return s.Create(ctx, key, values, files)
	}
	return s.Update(ctx, key, *id, values, files)
}

func (s *service) AttachFile(ctx context.Context, key string, id uint, fieldKey string, file media.File) (any, error) {
	res, err := s.registry.Get(key)
	if err != nil {
		return nil, err
	}

	field, ok := res.Field(fieldKey)
	if !ok || !field.IsUpload() {
		verr := NewValidationError()
		verr.Add(fieldKey, "This field does not accept files.")
		return nil, verr
	}

	return s.Update(ctx, key, id, Values{}, map[string]media.File{field.Key: file})
}

func (s *service) Upload(ctx context.Context, file media.File) (string, error) {
	if err := file.Validate(s.settings.MaxUploadBytes); err != nil {
		return "", err
	}

	url, err := s.store.Store(ctx, file)
	if err != nil {
		s.recordError(logrus.Fields{"file": file.Name}, err, "relaying upload")
		return "", err
	}

	return url, nil
}

func (s *service) Counts(ctx context.Context) (map[string]int64, error) {
	var (
		mu     sync.Mutex
		counts = make(map[string]int64)
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(countConcurrency)

	for _, res := range s.registry.All() {
		group.Go(func() error {
			count, err := s.repo.Count(groupCtx, res)
			if err != nil {
				return eris.Wrapf(err, "counting %s", res.Key)
			}

			mu.Lock()
			counts[res.Key] = count
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		s.recordError(nil, err, "counting records")
		return nil, err
	}

	return counts, nil
}

func (s *service) load(ctx context.Context, res *Resource, id uint) (any, error) {
	record, err := s.repo.Get(ctx, res, id)
	if err != nil {
		s.recordError(logrus.Fields{"resource": res.Key, "id": id}, err, "loading record")
		return nil, eris.Wrapf(err, "loading %s %d", res.Key, id)
	}
	if record == nil {
		return nil, eris.Wrapf(ErrNotFound, "%s %d", res.Key, id)
	}
	return record, nil
}

// apply relays uploads, decodes values onto the record and validates the result.
// Nothing is written when it returns an error.
func (s *service) apply(ctx context.Context, res *Resource, record any, values Values, files map[string]media.File) error {
	verr := NewValidationError()
	merged := Values{}
	for key, value := range values {
		merged[key] = value
	}

	fieldKeys := make([]string, 0, len(files))
	for key := range files {
		fieldKeys = append(fieldKeys, key)
	}
	sort.Strings(fieldKeys)

	for _, key := range fieldKeys {
		field, ok := res.Field(key)
		if !ok || !field.IsUpload() {
			verr.Add(key, "This field does not accept files.")
			continue
		}

		url, err := s.Upload(ctx, files[key])
		if err != nil {
			verr.Add(key, uploadMessage(err))
			continue
		}
		merged[key] = url
	}
	if !verr.Empty() {
		return verr
	}

	if err := Decode(record, merged); err != nil {
		return eris.Wrapf(err, "applying values to %s", res.Key)
	}

	fieldErrors, err := validateRecord(ctx, s.validate, record)
	if err != nil {
		return err
	}
	if fieldErrors != nil {
		for key, message := range fieldErrors.Fields {
			verr.Add(key, message)
		}
	}

	if err := s.checkReferences(ctx, res, record, verr); err != nil {
		return err
	}

	if !verr.Empty() {
		return verr
	}
	return nil
}

func (s *service) checkReferences(ctx context.Context, res *Resource, record any, verr *ValidationError) error {
	snapshot := Snapshot(record)
	for _, field := range res.Fields {
		if field.Kind != KindRef {
			continue
		}
		if _, failed := verr.Fields[field.Key]; failed {
			continue
		}

		id, ok := snapshot[field.Key].(uint)
		if !ok || id == 0 {
			continue
		}

		target, err := s.registry.Get(field.Ref)
		if err != nil {
			return err
		}
		exists, err := s.repo.Exists(ctx, target, id)
		if err != nil {
			s.recordError(logrus.Fields{"resource": field.Ref, "id": id}, err, "checking reference")
			return eris.Wrapf(err, "checking %s reference %d", field.Ref, id)
		}
		if !exists {
			verr.Add(field.Key, "Select a valid record.")
		}
	}
	return nil
}

func uploadMessage(err error) string {
	var uploadErr *media.UploadError
	switch {
	case eris.Is(err, media.ErrEmptyFile):
		return "The submitted file is empty."
	case eris.Is(err, media.ErrFileTooLarge):
		return "The submitted file is too large."
	case errors.As(err, &uploadErr):
		return "Upload failed: " + uploadErr.Message
	default:
		return "Upload failed: " + err.Error()
	}
}

// recordsOf flattens a pointer to a slice into element pointers.
func recordsOf(list any) []any {
	value := reflect.Indirect(reflect.ValueOf(list))
	if value.Kind() != reflect.Slice {
		return nil
	}

	records := make([]any, 0, value.Len())
	for i := 0; i < value.Len(); i++ {
		records = append(records, value.Index(i).Addr().Interface())
	}
	return records
}

func (s *service) recordError(fields logrus.Fields, err error, message string) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if len(fields) > 0 {
			entry = entry.WithFields(fields)
		}
		entry.Error(message)
	}

	if s.sentryHub != nil {
		s.sentryHub.CaptureException(err)
	}
}
