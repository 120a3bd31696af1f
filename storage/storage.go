// Package storage saves uploaded images and returns their public URL.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// PublicPath is where the local backend's files are served.
const PublicPath = "/uploads"

var allowedExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

type Uploader interface {
	Upload(ctx context.Context, name string, body io.Reader, contentType string) (string, error)
}

// SafeFileName turns a client file name into "<unix>_<base><ext>": spaces
// become underscores, repeated image extensions collapse, anything outside
// [A-Za-z0-9._-] is dropped. Only image extensions are accepted.
func SafeFileName(original string, now time.Time) (string, error) {
	name := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExt[ext] {
		return "", fmt.Errorf("unsupported file type %q", ext)
	}

	base := strings.TrimSuffix(name, filepath.Ext(name))
	for {
		e := strings.ToLower(filepath.Ext(base))
		if e == "" || !allowedExt[e] {
			break
		}
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}

	base = strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '_'
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		}
		return -1
	}, base)
	if base == "" {
		base = "image"
	}
	return fmt.Sprintf("%d_%s%s", now.Unix(), base, ext), nil
}

// -------- Local disk --------

type LocalUploader struct {
	dir     string
	baseURL string
}

// NewLocalUploader writes into dir; files are expected to be served at
// baseURL + PublicPath.
func NewLocalUploader(dir, baseURL string) *LocalUploader {
	return &LocalUploader{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (u *LocalUploader) Dir() string { return u.dir }

func (u *LocalUploader) Upload(_ context.Context, name string, body io.Reader, _ string) (string, error) {
	if err := os.MkdirAll(u.dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("create upload folder: %w", err)
	}
	f, err := os.Create(filepath.Join(u.dir, filepath.Base(name)))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return fmt.Sprintf("%s%s/%s", u.baseURL, PublicPath, filepath.Base(name)), nil
}

// -------- S3 --------

type S3Uploader struct {
	uploader *manager.Uploader
	bucket   string
}

// NewS3Uploader loads AWS credentials from the default chain.
func NewS3Uploader(ctx context.Context, bucket string) (*S3Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &S3Uploader{uploader: manager.NewUploader(s3.NewFromConfig(cfg)), bucket: bucket}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, name string, body io.Reader, contentType string) (string, error) {
	result, err := u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String("images/" + name),
		Body:        body,
		ACL:         types.ObjectCannedACLPublicRead,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	return result.Location, nil
}
