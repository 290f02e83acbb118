package upload

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caseconsulting/job-apply/pkg/logging"
	"github.com/caseconsulting/job-apply/pkg/uploads"
)

// ErrContentTypeNotAllowed is returned for content types outside the allow-list
var ErrContentTypeNotAllowed = errors.New("upload: file type not allowed")

const DefaultExpires = 180 * time.Second

// DefaultAllowedContentTypes are the resume formats accepted by default
var DefaultAllowedContentTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"text/plain",
}

// Signer issues signed POST policies for an object key
type Signer interface {
	SignPost(ctx context.Context, key string, expires time.Duration) (uploads.Policy, error)
}

// Credential is what a browser needs to POST a file straight to storage
type Credential struct {
	Signature    map[string]string `json:"signature"`
	PostEndpoint string            `json:"postEndpoint"`
}

// Service hands out short-lived upload credentials
type Service struct {
	signer  Signer
	allowed map[string]struct{}
	expires time.Duration
	logger  *logging.Logger
}

func NewService(signer Signer, allowed []string, expires time.Duration, logger *logging.Logger) (*Service, error) {
	if signer == nil {
		return nil, fmt.Errorf("upload.Service: signer is required")
	}
	if len(allowed) == 0 {
		allowed = DefaultAllowedContentTypes
	}
	if expires <= 0 {
		expires = DefaultExpires
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	set := make(map[string]struct{}, len(allowed))
	for _, ct := range allowed {
		set[normalize(ct)] = struct{}{}
	}

	return &Service{signer: signer, allowed: set, expires: expires, logger: logger.Named("upload")}, nil
}

// Allowed reports whether contentType may be uploaded
func (s *Service) Allowed(contentType string) bool {
	_, ok := s.allowed[normalize(contentType)]
	return ok
}

// Authorize checks the content type and signs a policy for path
func (s *Service) Authorize(ctx context.Context, path, contentType string) (Credential, error) {
	if !s.Allowed(contentType) {
		s.logger.Info("rejected upload", "path", path, "content_type", contentType)
		return Credential{}, ErrContentTypeNotAllowed
	}

	policy, err := s.signer.SignPost(ctx, path, s.expires)
	if err != nil {
		return Credential{}, fmt.Errorf("upload: authorize %s: %w", path, err)
	}

	signature := map[string]string{
		"Content-Type":          "",
		"acl":                   uploads.ACL,
		"success_action_status": fmt.Sprint(uploads.SuccessStatus),
	}
	for k, v := range policy.Fields {
		signature[k] = v
	}

	s.logger.Info("issued upload credential", "path", path)
	return Credential{Signature: signature, PostEndpoint: policy.URL}, nil
}

func normalize(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
