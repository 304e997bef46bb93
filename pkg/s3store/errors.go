package s3store

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// Sentinel errors for S3 operations. They never escape Upload directly;
// they end up, wrapped, in the failed Result's Error string.
var (
	ErrInvalidConfig = errors.New("s3store: invalid configuration")
	ErrUploadFailed  = errors.New("s3store: upload failed")
	ErrAccessDenied  = errors.New("s3store: access denied")
	ErrBucketMissing = errors.New("s3store: bucket does not exist")
)

// wrapS3Error wraps S3 errors with appropriate sentinel errors.
// Uses %v (not %w) for the original error to normalize error types; callers
// match with errors.Is on the sentinels, not errors.As on AWS types.
func wrapS3Error(err error, fallback error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "Forbidden":
			return fmt.Errorf("%w: %v", ErrAccessDenied, err)
		case "NoSuchBucket":
			return fmt.Errorf("%w: %v", ErrBucketMissing, err)
		}
	}

	return fmt.Errorf("%w: %v", fallback, err)
}
