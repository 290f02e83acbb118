package uploads

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const (
	// ACL applied to uploaded objects so resume links resolve without auth
	ACL              = "public-read"
	SuccessStatus    = 201
)

// Config defines the bucket uploads are signed for
type Config struct {
	Bucket          string
	CredentialsPath string
}

// Policy is a signed browser POST policy
type Policy struct {
	URL    string
	Fields map[string]string
}

type bucketSigner interface {
	GenerateSignedPostPolicyV4(object string, opts *storage.PostPolicyV4Options) (*storage.PostPolicyV4, error)
}

// Client signs direct-to-bucket upload policies
type Client struct {
	storage *storage.Client
	bucket  bucketSigner
	now     func() time.Time
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("uploads: bucket is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("uploads: failed to create storage client: %w", err)
	}

	return &Client{
		storage: client,
		bucket:  client.Bucket(cfg.Bucket),
		now:     time.Now,
	}, nil
}

// SignPost returns a policy allowing one POST of key within expires
func (c *Client) SignPost(_ context.Context, key string, expires time.Duration) (Policy, error) {
	if key == "" {
		return Policy{}, fmt.Errorf("uploads: key is required")
	}

	policy, err := c.bucket.GenerateSignedPostPolicyV4(key, &storage.PostPolicyV4Options{
		Expires: c.now().Add(expires),
		Fields: &storage.PolicyV4Fields{
			ACL:                 ACL,
			StatusCodeOnSuccess: SuccessStatus,
		},
		Conditions: []storage.PostPolicyV4Condition{
			storage.ConditionStartsWith("$Content-Type", ""),
			storage.ConditionStartsWith("$key", ""),
		},
	})
	if err != nil {
		return Policy{}, fmt.Errorf("uploads: sign post policy for %s: %w", key, err)
	}

	return Policy{URL: policy.URL, Fields: policy.Fields}, nil
}

func (c *Client) Close() error {
	if c.storage == nil {
		return nil
	}
	return c.storage.Close()
}
