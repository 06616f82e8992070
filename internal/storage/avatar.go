// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

// Package storage persists uploaded profile pictures.
package storage

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/samber/oops"
)

// filenameBytes is the number of random bytes in a generated avatar filename.
const filenameBytes = 8

// contentTypes maps the accepted upload extensions to their MIME types.
var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// AvatarStore persists profile pictures and resolves their public URLs.
type AvatarStore interface {
	// Save stores the picture under a freshly generated filename and
	// returns that filename.
	Save(ctx context.Context, data []byte, ext string) (string, error)

	// URL returns the public URL for a stored filename.
	URL(filename string) string
}

// RandomFilename generates an avatar filename from random hex and the
// original file's extension. The extension must be one of the accepted
// image types.
func RandomFilename(ext string) (string, error) {
	ext = strings.ToLower(ext)
	if _, ok := contentTypes[ext]; !ok {
		return "", oops.Code("AVATAR_INVALID_EXT").
			With("ext", ext).
			Errorf("unsupported image extension")
	}

	buf := make([]byte, filenameBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", oops.Code("AVATAR_NAME_FAILED").
			With("operation", "generate random filename").
			Wrap(err)
	}
	return hex.EncodeToString(buf) + ext, nil
}

// MinioAvatarStore implements AvatarStore on a MinIO (or S3-compatible)
// bucket.
type MinioAvatarStore struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

// MinioConfig holds connection settings for a MinIO avatar store.
type MinioConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PublicBaseURL string
}

// NewMinioAvatarStore connects to MinIO and ensures the bucket exists.
func NewMinioAvatarStore(ctx context.Context, cfg MinioConfig) (*MinioAvatarStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, oops.Code("AVATAR_INIT_FAILED").
			With("operation", "create minio client").
			With("endpoint", cfg.Endpoint).
			Wrap(err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, oops.Code("AVATAR_INIT_FAILED").
			With("operation", "check bucket").
			With("bucket", cfg.Bucket).
			Wrap(err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, oops.Code("AVATAR_INIT_FAILED").
				With("operation", "create bucket").
				With("bucket", cfg.Bucket).
				Wrap(err)
		}
	}

	return &MinioAvatarStore{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

// Save stores the picture and returns its generated filename.
func (s *MinioAvatarStore) Save(ctx context.Context, data []byte, ext string) (string, error) {
	filename, err := RandomFilename(ext)
	if err != nil {
		return "", err
	}

	reader := bytes.NewReader(data)
	_, err = s.client.PutObject(ctx, s.bucket, filename, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType: contentTypes[strings.ToLower(ext)],
	})
	if err != nil {
		return "", oops.Code("AVATAR_STORE_FAILED").
			With("operation", "put object").
			With("bucket", s.bucket).
			Wrap(err)
	}
	return filename, nil
}

// URL returns the public URL for a stored filename.
func (s *MinioAvatarStore) URL(filename string) string {
	return s.publicBaseURL + "/" + filename
}

// Compile-time interface check.
var _ AvatarStore = (*MinioAvatarStore)(nil)
