package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lms/internal/apperr"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// fakeObjectAPI records calls and can be told to fail.
type fakeObjectAPI struct {
	putCalls    []s3.PutObjectInput
	deleteCalls []s3.DeleteObjectInput
	putErr      error
	deleteErr   error
}

func (f *fakeObjectAPI) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putCalls = append(f.putCalls, *in)
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjectAPI) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleteCalls = append(f.deleteCalls, *in)
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeObjectAPI) CreateMultipartUpload(ctx context.Context, in *s3.CreateMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	return nil, errors.New("multipart not expected for small test files")
}

func (f *fakeObjectAPI) UploadPart(ctx context.Context, in *s3.UploadPartInput, optFns ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	return nil, errors.New("multipart not expected for small test files")
}

func (f *fakeObjectAPI) CompleteMultipartUpload(ctx context.Context, in *s3.CompleteMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	return nil, errors.New("multipart not expected for small test files")
}

func (f *fakeObjectAPI) AbortMultipartUpload(ctx context.Context, in *s3.AbortMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	return nil, errors.New("multipart not expected for small test files")
}

func stageTestFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("payload"), 0o600); err != nil {
		t.Fatalf("failed to stage test file: %v", err)
	}
	return path
}

func TestUploadImageSuccess(t *testing.T) {
	dir := t.TempDir()
	staged := stageTestFile(t, dir, "thumb.png")
	other := stageTestFile(t, dir, "unrelated.png")

	api := &fakeObjectAPI{}
	u := NewS3Uploader(api, "lms-bucket", "http://storage.local", zerolog.Nop())

	ref, err := u.Upload(context.Background(), staged, KindImage)
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if !strings.HasPrefix(ref.AssetID, "lms/images/") || !strings.HasSuffix(ref.AssetID, ".png") {
		t.Errorf("unexpected asset id %q", ref.AssetID)
	}
	if want := "http://storage.local/lms-bucket/" + ref.AssetID; ref.URL != want {
		t.Errorf("got url %q, want %q", ref.URL, want)
	}
	if len(api.putCalls) != 1 {
		t.Fatalf("got %d PutObject calls, want 1", len(api.putCalls))
	}
	if *api.putCalls[0].Bucket != "lms-bucket" || *api.putCalls[0].Key != ref.AssetID {
		t.Errorf("PutObject called with bucket=%s key=%s", *api.putCalls[0].Bucket, *api.putCalls[0].Key)
	}

	if _, err := os.Stat(staged); !os.IsNotExist(err) {
		t.Error("staged file still on disk after successful upload")
	}
	// Only the file handed to this call may be touched.
	if _, err := os.Stat(other); err != nil {
		t.Error("unrelated staging file was removed")
	}
}

func TestUploadVideoUsesVideoPrefix(t *testing.T) {
	staged := stageTestFile(t, t.TempDir(), "lecture.mp4")
	api := &fakeObjectAPI{}
	u := NewS3Uploader(api, "lms-bucket", "http://storage.local", zerolog.Nop())

	ref, err := u.Upload(context.Background(), staged, KindVideo)
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if !strings.HasPrefix(ref.AssetID, "lms/videos/") {
		t.Errorf("unexpected asset id %q", ref.AssetID)
	}
	if _, err := os.Stat(staged); !os.IsNotExist(err) {
		t.Error("staged file still on disk after successful upload")
	}
}

func TestUploadFailureStillCleansUp(t *testing.T) {
	staged := stageTestFile(t, t.TempDir(), "thumb.png")
	api := &fakeObjectAPI{putErr: errors.New("storage unreachable")}
	u := NewS3Uploader(api, "lms-bucket", "http://storage.local", zerolog.Nop())

	_, err := u.Upload(context.Background(), staged, KindImage)
	if err == nil {
		t.Fatal("expected upload error")
	}
	if apperr.KindOf(err) != apperr.UploadFailed {
		t.Errorf("got kind %d, want UploadFailed", apperr.KindOf(err))
	}
	if _, statErr := os.Stat(staged); !os.IsNotExist(statErr) {
		t.Error("staged file still on disk after failed upload")
	}
}

func TestUploadMissingFileFailsAndErrs(t *testing.T) {
	api := &fakeObjectAPI{}
	u := NewS3Uploader(api, "lms-bucket", "http://storage.local", zerolog.Nop())

	_, err := u.Upload(context.Background(), filepath.Join(t.TempDir(), "absent.png"), KindImage)
	if err == nil {
		t.Fatal("expected error for missing staged file")
	}
	if apperr.KindOf(err) != apperr.UploadFailed {
		t.Errorf("got kind %d, want UploadFailed", apperr.KindOf(err))
	}
	if len(api.putCalls) != 0 {
		t.Error("PutObject called despite missing staged file")
	}
}

func TestDestroy(t *testing.T) {
	api := &fakeObjectAPI{}
	u := NewS3Uploader(api, "lms-bucket", "http://storage.local", zerolog.Nop())

	if err := u.Destroy(context.Background(), "lms/videos/abc.mp4", KindVideo); err != nil {
		t.Fatalf("Destroy returned error: %v", err)
	}
	if len(api.deleteCalls) != 1 {
		t.Fatalf("got %d DeleteObject calls, want 1", len(api.deleteCalls))
	}
	if *api.deleteCalls[0].Key != "lms/videos/abc.mp4" {
		t.Errorf("DeleteObject called with key %s", *api.deleteCalls[0].Key)
	}

	api.deleteErr = errors.New("already gone")
	if err := u.Destroy(context.Background(), "lms/videos/abc.mp4", KindVideo); err == nil {
		t.Fatal("expected error from failed destroy")
	}
}
