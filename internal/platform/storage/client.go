package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

const publicURLBase = "https://storage.googleapis.com"

var (
	errNoClient           = errors.New("storage: client is required")
	errInvalidBucket      = errors.New("storage: bucket name is required")
	errInvalidObject      = errors.New("storage: object name is required")
	errNoBody             = errors.New("storage: upload body is required")
	errContentTypeMissing = errors.New("storage: content type is required for uploads")
	errContentTypeDenied  = errors.New("storage: content type not allowed")
	errObjectTooLarge     = errors.New("storage: object exceeds permitted size")
)

// Uploader writes objects to a Cloud Storage bucket and exposes their public
// download URLs. The bucket is expected to allow public reads on the uploaded
// prefixes.
type Uploader struct {
	client *storage.Client
	bucket string
	now    func() time.Time
}

// UploaderOption customises uploader behaviour.
type UploaderOption func(*Uploader)

// WithClock injects a custom clock (useful for tests).
func WithClock(clock func() time.Time) UploaderOption {
	return func(u *Uploader) {
		if clock != nil {
			u.now = clock
		}
	}
}

// NewUploader constructs an Uploader bound to the given bucket.
func NewUploader(client *storage.Client, bucket string, opts ...UploaderOption) (*Uploader, error) {
	if client == nil {
		return nil, errNoClient
	}
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errInvalidBucket
	}

	uploader := &Uploader{
		client: client,
		bucket: bucket,
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(uploader)
		}
	}
	return uploader, nil
}

// Bucket returns the bucket name the uploader writes to.
func (u *Uploader) Bucket() string {
	if u == nil {
		return ""
	}
	return u.bucket
}

// UploadInput describes a single object upload.
type UploadInput struct {
	Purpose             AssetPurpose
	Params              PathParams
	Body                io.Reader
	ContentType         string
	CacheControl        string
	AllowedContentTypes []string
	MaxSize             int64
}

// UploadResult describes the stored object.
type UploadResult struct {
	ObjectPath  string
	PublicURL   string
	Size        int64
	ContentType string
	UploadedAt  time.Time
}

// Upload validates the input, writes the object, and returns its public URL.
func (u *Uploader) Upload(ctx context.Context, input UploadInput) (UploadResult, error) {
	if u == nil || u.client == nil {
		return UploadResult{}, errNoClient
	}
	if ctx == nil {
		return UploadResult{}, errors.New("storage: context is required")
	}
	if input.Body == nil {
		return UploadResult{}, errNoBody
	}

	contentType := strings.TrimSpace(input.ContentType)
	if contentType == "" {
		return UploadResult{}, errContentTypeMissing
	}
	if len(input.AllowedContentTypes) > 0 && !contentTypeAllowed(contentType, input.AllowedContentTypes) {
		return UploadResult{}, errContentTypeDenied
	}

	params := input.Params
	if params.UnixMillis == 0 {
		params.UnixMillis = u.now().UnixMilli()
	}
	objectPath, err := BuildObjectPath(input.Purpose, params)
	if err != nil {
		return UploadResult{}, err
	}

	body := input.Body
	if input.MaxSize > 0 {
		// One extra byte so an oversized stream is detected rather than
		// silently truncated.
		body = io.LimitReader(body, input.MaxSize+1)
	}

	writer := u.client.Bucket(u.bucket).Object(objectPath).NewWriter(ctx)
	writer.ContentType = contentType
	if input.CacheControl != "" {
		writer.CacheControl = input.CacheControl
	}

	written, copyErr := io.Copy(writer, body)
	if copyErr != nil {
		_ = writer.Close()
		return UploadResult{}, fmt.Errorf("storage: write object %s: %w", objectPath, copyErr)
	}
	if input.MaxSize > 0 && written > input.MaxSize {
		_ = writer.Close()
		return UploadResult{}, errObjectTooLarge
	}
	if err := writer.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("storage: finalize object %s: %w", objectPath, err)
	}

	return UploadResult{
		ObjectPath:  objectPath,
		PublicURL:   PublicURL(u.bucket, objectPath),
		Size:        written,
		ContentType: contentType,
		UploadedAt:  u.now(),
	}, nil
}

// IsRejectedUpload reports whether the error stems from upload validation
// (missing body, disallowed content type, oversized object) rather than the
// backing store.
func IsRejectedUpload(err error) bool {
	return errors.Is(err, errNoBody) ||
		errors.Is(err, errContentTypeMissing) ||
		errors.Is(err, errContentTypeDenied) ||
		errors.Is(err, errObjectTooLarge)
}

// Delete removes the object at the given path. Missing objects are ignored.
func (u *Uploader) Delete(ctx context.Context, objectPath string) error {
	if u == nil || u.client == nil {
		return errNoClient
	}
	objectPath = strings.TrimSpace(objectPath)
	if objectPath == "" {
		return errInvalidObject
	}

	err := u.client.Bucket(u.bucket).Object(objectPath).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("storage: delete object %s: %w", objectPath, err)
	}
	return nil
}

// PublicURL composes the canonical public download URL for a bucket object.
func PublicURL(bucket, objectPath string) string {
	segments := strings.Split(objectPath, "/")
	escaped := make([]string, 0, len(segments))
	for _, segment := range segments {
		escaped = append(escaped, url.PathEscape(segment))
	}
	return fmt.Sprintf("%s/%s/%s", publicURLBase, bucket, strings.Join(escaped, "/"))
}

// ObjectPathFromPublicURL recovers the object path from a public download URL
// for the given bucket. It reports false for URLs outside the bucket.
func ObjectPathFromPublicURL(bucket, publicURL string) (string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(publicURL))
	if err != nil {
		return "", false
	}
	if parsed.Host != "storage.googleapis.com" {
		return "", false
	}
	prefix := "/" + bucket + "/"
	if !strings.HasPrefix(parsed.Path, prefix) {
		return "", false
	}
	objectPath := strings.TrimPrefix(parsed.Path, prefix)
	if objectPath == "" {
		return "", false
	}
	return objectPath, true
}

func contentTypeAllowed(contentType string, allowed []string) bool {
	normalized := strings.ToLower(strings.TrimSpace(contentType))
	for _, candidate := range allowed {
		candidate = strings.ToLower(strings.TrimSpace(candidate))
		if candidate == "" {
			continue
		}
		if candidate == "*" {
			return true
		}
		if strings.HasSuffix(candidate, "/*") {
			prefix := strings.TrimSuffix(candidate, "*")
			if strings.HasPrefix(normalized, strings.TrimSuffix(prefix, "/")) {
				return true
			}
			continue
		}
		if normalized == candidate {
			return true
		}
	}
	return false
}
