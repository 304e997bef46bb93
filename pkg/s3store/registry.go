package s3store

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/singleflight"
)

// clientRegistry caches S3 clients per region. Clients are effectively
// immutable once built and are shared across requests; construction is
// deduplicated with singleflight so concurrent first requests for a region
// build exactly one client.
type clientRegistry struct {
	cfg engineConfig

	mu      sync.RWMutex
	clients map[string]*s3.Client
	group   singleflight.Group
}

func newClientRegistry(cfg engineConfig) *clientRegistry {
	return &clientRegistry{
		cfg:     cfg,
		clients: make(map[string]*s3.Client),
	}
}

// client returns the cached client for a region, building it on first use.
func (r *clientRegistry) client(ctx context.Context, region string) (*s3.Client, error) {
	r.mu.RLock()
	c, ok := r.clients[region]
	r.mu.RUnlock()
	if ok {
		return c, nil
	}

	v, err, _ := r.group.Do(region, func() (any, error) {
		// Re-check under the write path; a previous flight may have
		// stored the client already.
		r.mu.RLock()
		c, ok := r.clients[region]
		r.mu.RUnlock()
		if ok {
			return c, nil
		}

		c, err := r.build(ctx, region)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.clients[region] = c
		r.mu.Unlock()
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*s3.Client), nil
}

// build constructs a client for the region. Static credentials take
// precedence; otherwise the AWS default chain resolves them from the
// environment.
func (r *clientRegistry) build(ctx context.Context, region string) (*s3.Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if r.cfg.accessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(r.cfg.accessKey, r.cfg.secretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if r.cfg.endpoint != "" {
			o.BaseEndpoint = aws.String(r.cfg.endpoint)
			o.UsePathStyle = r.cfg.pathStyle
		}
	})

	return client, nil
}
