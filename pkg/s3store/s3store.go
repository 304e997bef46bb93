package s3store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dmitrymomot/uploadkit"
)

// Engine uploads files to S3-compatible object storage. The bucket and
// region come from the resolved per-field configuration; credentials and
// endpoint are engine-level settings. Clients are built lazily per region
// and reused across requests.
//
// Engine implements uploadkit.Engine: every internal error is converted
// into a failed Result and never escapes the Upload boundary.
type Engine struct {
	registry *clientRegistry
	cfg      engineConfig
}

type engineConfig struct {
	accessKey string
	secretKey string
	endpoint  string
	publicURL string
	region    string
	pathStyle bool
}

// Option configures the engine.
type Option func(*engineConfig)

// WithCredentials sets static credentials. Without them the AWS default
// credential chain is used (environment, shared config, instance role).
func WithCredentials(accessKey, secretKey string) Option {
	return func(c *engineConfig) {
		c.accessKey = accessKey
		c.secretKey = secretKey
	}
}

// WithEndpoint sets a custom S3 endpoint, for MinIO or other S3-compatible
// services. pathStyle enables path-style addressing, required for MinIO.
func WithEndpoint(endpoint string, pathStyle bool) Option {
	return func(c *engineConfig) {
		c.endpoint = endpoint
		c.pathStyle = pathStyle
	}
}

// WithPublicURL sets a CDN or public URL prefix used when building object
// URLs, replacing the default bucket URL.
func WithPublicURL(u string) Option {
	return func(c *engineConfig) {
		c.publicURL = u
	}
}

// WithRegion sets the fallback region used when the upload configuration
// carries none. Defaults to us-east-1.
func WithRegion(region string) Option {
	return func(c *engineConfig) {
		c.region = region
	}
}

// DefaultRegion is used when neither the upload configuration nor the
// engine options name a region.
const DefaultRegion = "us-east-1"

// New creates an S3 engine.
func New(opts ...Option) *Engine {
	cfg := engineConfig{region: DefaultRegion}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{
		cfg:      cfg,
		registry: newClientRegistry(cfg),
	}
}

// Upload implements uploadkit.Engine. Foreground uploads read the file fully
// and issue a single atomic PutObject; background uploads open the content
// synchronously, then stream it to S3 on the scheduler, returning an
// immediate in-flight result with the deterministic object URL.
func (e *Engine) Upload(ctx context.Context, form *uploadkit.Form, field uploadkit.Field, cfg uploadkit.EffectiveConfig, file *uploadkit.File) uploadkit.Result {
	bucket := cfg.Bucket
	if bucket == "" {
		return failed(field.Name, file.Filename, fmt.Errorf("%w: bucket is not set", ErrInvalidConfig))
	}
	region := cfg.Region
	if region == "" {
		region = e.cfg.region
	}

	key := e.objectKey(ctx, form, field.Name, cfg, file)
	objectURL := e.objectURL(bucket, region, key)

	client, err := e.registry.client(ctx, region)
	if err != nil {
		return failed(field.Name, file.Filename, err)
	}

	rc, err := file.Open()
	if err != nil {
		return failed(field.Name, file.Filename, err)
	}

	if cfg.Background && cfg.Scheduler != nil {
		cfg.Scheduler.Schedule(func(bgCtx context.Context) {
			defer rc.Close()
			if _, err := e.put(bgCtx, client, bucket, key, rc, file, cfg.ExtraArgs); err != nil {
				if cfg.Logger != nil {
					cfg.Logger.Error("background s3 upload failed",
						"field", field.Name, "filename", file.Filename, "error", err.Error())
				}
			}
		})
		return uploadkit.Result{
			FieldName:   field.Name,
			Filename:    file.Filename,
			ContentType: file.ContentType,
			Size:        file.Size,
			Status:      true,
			URL:         objectURL,
			Message:     fmt.Sprintf("%s is uploading in the background", file.Filename),
		}
	}

	defer rc.Close()
	out, err := e.put(ctx, client, bucket, key, rc, file, cfg.ExtraArgs)
	if err != nil {
		return failed(field.Name, file.Filename, err)
	}

	metadata := map[string]string{"bucket": bucket, "key": key}
	if out != nil && out.ETag != nil {
		metadata["etag"] = strings.Trim(*out.ETag, `"`)
	}

	return uploadkit.Result{
		FieldName:   field.Name,
		Filename:    file.Filename,
		ContentType: file.ContentType,
		Size:        file.Size,
		Status:      true,
		URL:         objectURL,
		Metadata:    metadata,
		Message:     fmt.Sprintf("%s successfully uploaded", file.Filename),
	}
}

// put issues the PutObject call. The SDK needs a seekable body for payload
// signing, so non-seekable readers are buffered first.
func (e *Engine) put(ctx context.Context, client *s3.Client, bucket, key string, r io.Reader, file *uploadkit.File, extra map[string]string) (*s3.PutObjectOutput, error) {
	body, size, err := seekableBody(r, file.Size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(file.ContentType),
	}
	applyExtraArgs(input, extra)

	out, err := client.PutObject(ctx, input)
	if err != nil {
		return nil, wrapS3Error(err, ErrUploadFailed)
	}
	return out, nil
}

// objectKey resolves the destination key: the destination hook wins, then a
// static prefix is joined with the filename, then the bare filename.
func (e *Engine) objectKey(ctx context.Context, form *uploadkit.Form, field string, cfg uploadkit.EffectiveConfig, file *uploadkit.File) string {
	if cfg.DestinationFunc != nil {
		return strings.TrimPrefix(cfg.DestinationFunc.Resolve(ctx, form, field, file), "/")
	}
	if dest := strings.Trim(cfg.Destination, "/"); dest != "" {
		return dest + "/" + file.Filename
	}
	return file.Filename
}

// objectURL builds the deterministic URL the uploaded object will live at.
func (e *Engine) objectURL(bucket, region, key string) string {
	escaped := escapeKey(key)

	if e.cfg.publicURL != "" {
		return strings.TrimSuffix(e.cfg.publicURL, "/") + "/" + escaped
	}
	if e.cfg.endpoint != "" {
		endpoint := strings.TrimSuffix(e.cfg.endpoint, "/")
		if e.cfg.pathStyle {
			return fmt.Sprintf("%s/%s/%s", endpoint, bucket, escaped)
		}
		return fmt.Sprintf("%s/%s", endpoint, escaped)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, escaped)
}

// escapeKey URL-encodes each key segment, preserving the separators.
func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// seekableBody returns a seekable reader over r and the content length.
func seekableBody(r io.Reader, size int64) (io.ReadSeeker, int64, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, size, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, err
	}
	return bytes.NewReader(data), int64(len(data)), nil
}

// applyExtraArgs maps free-form backend options onto the PutObject input.
// Unknown keys are passed through as object metadata.
func applyExtraArgs(input *s3.PutObjectInput, extra map[string]string) {
	for k, v := range extra {
		switch strings.ToLower(k) {
		case "acl":
			input.ACL = types.ObjectCannedACL(v)
		case "content-type":
			input.ContentType = aws.String(v)
		case "cache-control":
			input.CacheControl = aws.String(v)
		case "content-disposition":
			input.ContentDisposition = aws.String(v)
		case "storage-class":
			input.StorageClass = types.StorageClass(v)
		default:
			if input.Metadata == nil {
				input.Metadata = map[string]string{}
			}
			input.Metadata[k] = v
		}
	}
}

// failed builds a failure outcome carrying the engine error by value.
func failed(field, filename string, err error) uploadkit.Result {
	return uploadkit.Result{
		FieldName: field,
		Filename:  filename,
		Status:    false,
		Error:     err.Error(),
		Message:   fmt.Sprintf("Unable to upload %s for field %s", filename, field),
	}
}

var _ uploadkit.Engine = (*Engine)(nil)
