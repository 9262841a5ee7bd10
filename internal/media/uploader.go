// Package media wraps the external object store. Callers hand it a staged
// local file and get back an opaque asset reference; the staged file is gone
// by the time Upload returns, whatever the outcome.
package media

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"lms/internal/apperr"
	"lms/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Kind selects the storage classification and transfer parameters.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// videoPartSize is the multipart segment size for video transfers.
const videoPartSize = 50 * 1024 * 1024

// Uploader stores and removes binaries in the external object store.
type Uploader interface {
	Upload(ctx context.Context, localPath string, kind Kind) (model.AssetRef, error)
	Destroy(ctx context.Context, assetID string, kind Kind) error
}

// ObjectAPI is the slice of the S3 surface the adapter needs. *s3.Client
// satisfies it.
type ObjectAPI interface {
	manager.UploadAPIClient
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type s3Uploader struct {
	client        ObjectAPI
	videoUploader *manager.Uploader
	bucket        string
	baseURL       string
	logger        zerolog.Logger
}

// NewS3Uploader builds an Uploader over an S3-compatible endpoint. baseURL is
// the public path-style root used to derive asset URLs.
func NewS3Uploader(client ObjectAPI, bucket, baseURL string, logger zerolog.Logger) Uploader {
	return &s3Uploader{
		client: client,
		videoUploader: manager.NewUploader(client, func(u *manager.Uploader) {
			u.PartSize = videoPartSize
		}),
		bucket:  bucket,
		baseURL: baseURL,
		logger:  logger.With().Str("service", "MediaUploader").Logger(),
	}
}

// Upload pushes the staged file to the store and returns its reference.
// The staged file is removed on every exit path; only the file handed to this
// call is touched, never the rest of the staging directory.
func (u *s3Uploader) Upload(ctx context.Context, localPath string, kind Kind) (model.AssetRef, error) {
	defer u.removeLocal(localPath)

	f, err := os.Open(localPath)
	if err != nil {
		return model.AssetRef{}, apperr.Wrap(apperr.UploadFailed, "file not uploaded, please try again", err)
	}
	defer f.Close()

	ext := filepath.Ext(localPath)
	key := fmt.Sprintf("lms/%s/%s%s", folderFor(kind), uuid.NewString(), ext)

	input := &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   f,
	}
	if contentType := mime.TypeByExtension(ext); contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if kind == KindVideo {
		// Large-chunk transfer; the manager splits the stream into parts.
		_, err = u.videoUploader.Upload(ctx, input)
	} else {
		_, err = u.client.PutObject(ctx, input)
	}
	if err != nil {
		u.logger.Error().Err(err).Str("key", key).Msg("Failed to upload object")
		return model.AssetRef{}, apperr.Wrap(apperr.UploadFailed, fmt.Sprintf("file not uploaded, please try again: %v", err), err)
	}

	return model.AssetRef{
		AssetID: key,
		URL:     fmt.Sprintf("%s/%s/%s", u.baseURL, u.bucket, key),
	}, nil
}

// Destroy removes a previously stored asset. Callers treat failure as a
// degraded outcome, not a veto over record deletion.
func (u *s3Uploader) Destroy(ctx context.Context, assetID string, kind Kind) error {
	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(assetID),
	})
	if err != nil {
		u.logger.Error().Err(err).Str("asset_id", assetID).Str("kind", string(kind)).Msg("Failed to delete object")
		return fmt.Errorf("failed to delete object %s: %w", assetID, err)
	}
	return nil
}

func (u *s3Uploader) removeLocal(localPath string) {
	if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
		u.logger.Warn().Err(err).Str("path", localPath).Msg("Failed to remove staged upload file")
	}
}

func folderFor(kind Kind) string {
	if kind == KindVideo {
		return "videos"
	}
	return "images"
}
