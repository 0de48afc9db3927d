package blob

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/vesselworks/dashboard/internal/config"
	"github.com/vesselworks/dashboard/internal/pkg/errs"
)

// Letters are well under this size, so every upload is a single conditional PUT.
const singlePartLimit = 16 << 20

type S3Deps struct {
	Client        *s3.Client
	Uploader      *manager.Uploader
	Presigner     *s3.PresignClient
	Bucket        string
	SSE           *s3types.ServerSideEncryption
	PublicBaseURL string
	PresignExpire time.Duration
}

func NewS3(ctx context.Context, cfg *config.Config) (*S3Deps, error) {
	loadOpts := []func(*awsCfg.LoadOptions) error{
		awsCfg.WithRegion(cfg.S3.Region),
	}
	if cfg.S3.AccessKey != "" && cfg.S3.SecretKey != "" {
		loadOpts = append(loadOpts, awsCfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3.AccessKey, cfg.S3.SecretKey, ""),
		))
	}

	acfg, err := awsCfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	s3Opts := func(o *s3.Options) {
		if ep := strings.TrimSpace(cfg.S3.Endpoint); ep != "" {
			if !strings.HasPrefix(ep, "http://") && !strings.HasPrefix(ep, "https://") {
				ep = "https://" + ep
			}
			if u, uerr := url.Parse(ep); uerr == nil {
				o.BaseEndpoint = aws.String(u.String())
			}
		}
		o.UsePathStyle = cfg.S3.UsePathStyle
	}

	client := s3.NewFromConfig(acfg, s3Opts)
	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = singlePartLimit
	})
	presigner := s3.NewPresignClient(client)

	var sse *s3types.ServerSideEncryption
	if cfg.S3.SSE != "" {
		v := s3types.ServerSideEncryption(cfg.S3.SSE)
		sse = &v
	}

	expire := time.Duration(cfg.S3.PresignExpireSec) * time.Second
	if expire <= 0 {
		expire = 15 * time.Minute
	}

	return &S3Deps{
		Client:        client,
		Uploader:      uploader,
		Presigner:     presigner,
		Bucket:        cfg.S3.Bucket,
		SSE:           sse,
		PublicBaseURL: cfg.S3.PublicBaseURL,
		PresignExpire: expire,
	}, nil
}

// Generate a pre-signed GET URL
func (s *S3Deps) PresignGet(ctx context.Context, key string, expire time.Duration) (string, error) {
	if key == "" {
		return "", errors.New("key is empty")
	}
	ps, err := s.Presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.Bucket,
		Key:    &key,
	}, func(po *s3.PresignOptions) {
		po.Expires = expire
	})
	if err != nil {
		return "", err
	}
	return ps.URL, nil
}

type UploadedMeta struct {
	Bucket string
	Key    string
	URL    string
	ETag   string
	SHA256 string
	MIME   string
	SizeB  int64
}

// PutObject writes body under key only if no object exists there yet. An existing
// object is reported as errs.ErrDuplicatePath.
func (s *S3Deps) PutObject(ctx context.Context, key string, body []byte, contentType string) (*UploadedMeta, error) {
	sum := sha256.Sum256(body)
	sumHex := hex.EncodeToString(sum[:])

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
		IfNoneMatch: aws.String("*"),
		Metadata: map[string]string{
			"sha256": sumHex,
		},
	}
	if s.SSE != nil {
		input.ServerSideEncryption = *s.SSE
	}

	out, err := s.Uploader.Upload(ctx, input)
	if err != nil {
		if IsDuplicate(err) {
			return nil, fmt.Errorf("put %s: %w", key, errs.ErrDuplicatePath)
		}
		return nil, fmt.Errorf("put %s: %w", key, err)
	}

	objURL, err := s.ObjectURL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("url for %s: %w", key, err)
	}

	return &UploadedMeta{
		Bucket: s.Bucket,
		Key:    key,
		URL:    objURL,
		ETag:   aws.ToString(out.ETag),
		SHA256: sumHex,
		MIME:   contentType,
		SizeB:  int64(len(body)),
	}, nil
}

// ObjectURL is the public URL of key when a public base URL is configured, and a
// pre-signed GET URL otherwise.
func (s *S3Deps) ObjectURL(ctx context.Context, key string) (string, error) {
	if s.PublicBaseURL != "" {
		return JoinURL(s.PublicBaseURL, key), nil
	}
	return s.PresignGet(ctx, key, s.PresignExpire)
}

// JoinURL appends an object key to a base URL, escaping each path segment.
func JoinURL(base, key string) string {
	segs := strings.Split(key, "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(segs, "/")
}

// IsDuplicate reports whether err is S3's answer to a conditional write onto an existing key.
func IsDuplicate(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "PreconditionFailed", "ConditionalRequestConflict":
		return true
	}
	return false
}
