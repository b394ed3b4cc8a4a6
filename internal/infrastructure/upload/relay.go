package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"sdaadmin/app/internal/domain/media"
)

const (
	defaultURLField    = "url"
	defaultTimeout     = 30 * time.Second
	defaultMaxAttempts = 3
	maxResponseBytes   = 64 << 10
	fileFieldName      = "file"
)

// Options configures the upload relay.
type Options struct {
	Endpoint    string
	URLField    string
	Timeout     time.Duration
	MaxAttempts int
	// InitialInterval is the first retry delay. Zero uses the backoff default.
	InitialInterval time.Duration
	Client          *http.Client
	Logger          *logrus.Logger
}

// Relay forwards files to the external upload endpoint and returns the stored URL.
type Relay struct {
	endpoint        string
	urlField        string
	timeout         time.Duration
	maxAttempts     int
	initialInterval time.Duration
	client          *http.Client
	logger          *logrus.Logger
}

var _ media.Store = (*Relay)(nil)

// NewRelay constructs a relay for the configured endpoint.
func NewRelay(opts Options) (*Relay, error) {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		return nil, eris.New("upload endpoint is required")
	}

	relay := &Relay{
		endpoint:        endpoint,
		urlField:        strings.TrimSpace(opts.URLField),
		timeout:         opts.Timeout,
		maxAttempts:     opts.MaxAttempts,
		initialInterval: opts.InitialInterval,
		client:          opts.Client,
		logger:          opts.Logger,
	}

	if relay.urlField == "" {
		relay.urlField = defaultURLField
	}
	if relay.timeout <= 0 {
		relay.timeout = defaultTimeout
	}
	if relay.maxAttempts <= 0 {
		relay.maxAttempts = defaultMaxAttempts
	}
	if relay.client == nil {
		relay.client = &http.Client{}
	}

	return relay, nil
}

// Store posts the file as multipart field "file" and returns the URL from the response.
// Server errors and transport failures are retried; client errors are not.
func (r *Relay) Store(ctx context.Context, file media.File) (string, error) {
	if len(file.Data) == 0 {
		return "", eris.Wrapf(media.ErrEmptyFile, "file %s", file.Name)
	}

	body, contentType, err := encodeMultipart(file)
	if err != nil {
		return "", err
	}

	policy := backoff.NewExponentialBackOff()
	if r.initialInterval > 0 {
		policy.InitialInterval = r.initialInterval
	}

	attempt := 0
	operation := func() (string, error) {
		attempt++
		return r.post(ctx, body, contentType)
	}

	notify := func(err error, wait time.Duration) {
		r.logWarn(logrus.Fields{"file": file.Name, "attempt": attempt, "retry_in": wait.String()}, err, "upload attempt failed")
	}

	url, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(r.maxAttempts)),
		backoff.WithNotify(notify),
	)
	if err != nil {
		return "", err
	}

	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{
			"component": "upload_relay",
			"file":      file.Name,
			"bytes":     len(file.Data),
			"attempts":  attempt,
		}).Info("file uploaded")
	}

	return url, nil
}

func (r *Relay) post(ctx context.Context, body []byte, contentType string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", backoff.Permanent(eris.Wrap(err, "building upload request"))
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", backoff.Permanent(&media.UploadError{Message: ctx.Err().Error()})
		}
		return "", &media.UploadError{Message: err.Error()}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &media.UploadError{Status: resp.StatusCode, Message: "reading response: " + err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		uploadErr := &media.UploadError{
			Status:  resp.StatusCode,
			Message: strings.TrimSpace(fmt.Sprintf("%d %s", resp.StatusCode, strings.TrimSpace(string(payload)))),
		}
		if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
			return "", uploadErr
		}
		return "", backoff.Permanent(uploadErr)
	}

	url := strings.TrimSpace(gjson.GetBytes(payload, r.urlField).String())
	if url == "" {
		return "", backoff.Permanent(&media.UploadError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("response has no %q value", r.urlField),
		})
	}

	return url, nil
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func encodeMultipart(file media.File) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	name := file.Name
	if name == "" {
		name = "upload"
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, fileFieldName, quoteEscaper.Replace(name)))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", eris.Wrap(err, "creating multipart file part")
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", eris.Wrap(err, "writing multipart file part")
	}
	if err := writer.Close(); err != nil {
		return nil, "", eris.Wrap(err, "closing multipart writer")
	}

	return buf.Bytes(), writer.FormDataContentType(), nil
}

func (r *Relay) logWarn(fields logrus.Fields, err error, message string) {
	if r.logger == nil || err == nil {
		return
	}

	entry := r.logger.WithField("error", err.Error()).WithField("component", "upload_relay")
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Warn(message)
}
