package sink

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakeUploader) Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	f.input = input
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.body = string(data)
	if f.err != nil {
		return nil, f.err
	}
	return &manager.UploadOutput{Key: input.Key}, nil
}

func TestKey(t *testing.T) {
	name := "metaspy_report_20240101_000000.json"

	assert.Equal(t, name, (&S3Sink{}).Key(name))
	assert.Equal(t, "reports/"+name, (&S3Sink{prefix: "reports"}).Key(name))
	assert.Equal(t, "team/reports/"+name, (&S3Sink{prefix: "/team/reports/"}).Key(name))
}

func TestUpload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metaspy_report_20240101_000000.csv")
	require.NoError(t, os.WriteFile(path, []byte("File\r\na.pdf\r\n"), 0644))

	fake := &fakeUploader{}
	s := &S3Sink{uploader: fake, bucket: "evidence", prefix: "cases/42"}

	location, err := s.Upload(context.Background(), path, "text/csv; charset=utf-8")
	require.NoError(t, err)

	assert.Equal(t, "s3://evidence/cases/42/metaspy_report_20240101_000000.csv", location)
	assert.Equal(t, "evidence", aws.ToString(fake.input.Bucket))
	assert.Equal(t, "cases/42/metaspy_report_20240101_000000.csv", aws.ToString(fake.input.Key))
	assert.Equal(t, "text/csv; charset=utf-8", aws.ToString(fake.input.ContentType))
	assert.Equal(t, "File\r\na.pdf\r\n", fake.body)
}

func TestUpload_Failure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	s := &S3Sink{uploader: &fakeUploader{err: errors.New("AccessDenied")}, bucket: "b"}
	_, err := s.Upload(context.Background(), path, "text/plain")
	assert.ErrorContains(t, err, "s3 upload failed: AccessDenied")
}

func TestUpload_MissingFile(t *testing.T) {
	s := &S3Sink{uploader: &fakeUploader{}, bucket: "b"}
	_, err := s.Upload(context.Background(), "/no/such/report.json", "application/json")
	assert.Error(t, err)
}

func TestNewS3_RequiresBucket(t *testing.T) {
	_, err := NewS3(context.Background(), Options{Prefix: "reports"})
	assert.EqualError(t, err, "S3 bucket name not set")
}

func TestNewS3_StaticCredentials(t *testing.T) {
	s, err := NewS3(context.Background(), Options{
		Bucket:    "evidence",
		Prefix:    "cases",
		Region:    "ap-northeast-2",
		AccessKey: "AKIAEXAMPLE",
		SecretKey: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "cases/r.json", s.Key("r.json"))
}
