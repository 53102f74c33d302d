package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhantomInTheWire/tileprint/pkg/config"
	"github.com/PhantomInTheWire/tileprint/pkg/errs"
)

type fakeS3 struct {
	headErr   error
	createErr error
	failKeys  map[string]bool
	created   []string
	objects   map[string][]byte
	types     map[string]string
}

func newFake() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}, failKeys: map[string]bool{}}
}

func (f *fakeS3) HeadBucket(_ context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, f.headErr
}

func (f *fakeS3) CreateBucket(_ context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, aws.ToString(in.Bucket))
	return &s3.CreateBucketOutput{}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	key := aws.ToString(in.Key)
	if f.failKeys[key] {
		return nil, errors.New("access denied")
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[key] = data
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func quietLogger() *log.Logger { return log.New(io.Discard) }

func TestEnsureBucket(t *testing.T) {
	fake := newFake()
	u := newUploader(fake, config.Upload{Bucket: "posters"}, quietLogger())
	require.NoError(t, u.EnsureBucket(context.Background()))
	assert.Empty(t, fake.created)

	fake.headErr = errors.New("not found")
	require.NoError(t, u.EnsureBucket(context.Background()))
	assert.Equal(t, []string{"posters"}, fake.created)

	fake.createErr = errors.New("forbidden")
	assert.ErrorIs(t, u.EnsureBucket(context.Background()), errs.ErrOutput)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "a.pdf", newUploader(newFake(), config.Upload{}, nil).Key("a.pdf"))
	assert.Equal(t, "job1/a.pdf", newUploader(newFake(), config.Upload{Prefix: "/job1/"}, nil).Key("a.pdf"))
	assert.Equal(t, "runs/7/a.pdf", newUploader(newFake(), config.Upload{Prefix: "runs/7"}, nil).Key("a.pdf"))
}

func TestUploadFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "poster.pdf")
	require.NoError(t, os.WriteFile(p, []byte("%PDF-1.7"), 0o644))

	fake := newFake()
	u := newUploader(fake, config.Upload{Bucket: "posters", Prefix: "job1"}, quietLogger())
	key, err := u.UploadFile(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "job1/poster.pdf", key)
	assert.True(t, bytes.Equal([]byte("%PDF-1.7"), fake.objects[key]))
	assert.Equal(t, "application/pdf", fake.types[key])

	_, err = u.UploadFile(context.Background(), filepath.Join(dir, "missing.pdf"))
	assert.ErrorIs(t, err, errs.ErrOutput)
}

func TestUploadFiles(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"tile_1_0.png", "tile_0_0.png", "tile_0_1.png"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(name), 0o644))
		paths = append(paths, p)
	}
	paths = append(paths, filepath.Join(dir, "missing.png"))

	fake := newFake()
	fake.failKeys["tiles/tile_0_0.png"] = true
	u := newUploader(fake, config.Upload{Bucket: "posters", Prefix: "tiles"}, quietLogger())

	keys, err := u.UploadFiles(context.Background(), paths)
	assert.ErrorIs(t, err, errs.ErrOutput)
	assert.Equal(t, []string{"tiles/tile_1_0.png", "tiles/tile_0_1.png"}, keys)
	assert.Len(t, fake.objects, 2)
	assert.Equal(t, "image/png", fake.types["tiles/tile_1_0.png"])

	keys, err = u.UploadFiles(context.Background(), nil)
	assert.NoError(t, err)
	assert.Empty(t, keys)
}
