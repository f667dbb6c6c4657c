package database

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-backend/catalog"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

type fakeS3 struct {
	objects map[string][]byte
	putErr  error
	puts    int
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}}
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.puts++
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = body
	return &s3.PutObjectOutput{}, nil
}

func TestS3DocumentMissingObjectLoadsEmpty(t *testing.T) {
	doc := NewS3Document(newFakeS3(), "bucket", "")

	loaded, err := doc.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded.Projects)
	assert.Empty(t, loaded.Skills)
}

func TestS3DocumentRoundTripsThroughStore(t *testing.T) {
	fake := newFakeS3()
	doc := NewS3Document(fake, "bucket", "portfolio/catalog.json")
	doc.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	store, err := catalog.NewStore(context.Background(), doc)
	require.NoError(t, err)

	_, err = store.CreateProject(context.Background(), models.Project{
		Title:        "Portfolio",
		Technologies: []string{"Go", "React"},
	})
	require.NoError(t, err)
	require.NoError(t, store.ReplaceCurrentlyLearning(context.Background(), []string{"Rust"}))
	assert.Equal(t, 2, fake.puts)
	assert.Contains(t, string(fake.objects["bucket/portfolio/catalog.json"]), `"updatedAt":"2026-01-02T03:04:05Z"`)

	reloaded, err := catalog.NewStore(context.Background(), doc)
	require.NoError(t, err)
	snap := reloaded.Snapshot()
	require.Len(t, snap.Projects, 1)
	assert.Equal(t, "Portfolio", snap.Projects[0].Title)
	assert.Equal(t, []string{"Rust"}, snap.CurrentlyLearning)
	assert.Equal(t, []string{models.AllTechnologiesTag, "Go", "React"}, snap.TechnologyTags)
}

func TestS3DocumentPutFailureKeepsStoreUnchanged(t *testing.T) {
	fake := newFakeS3()
	fake.putErr = errors.New("access denied")
	store, err := catalog.NewStore(context.Background(), NewS3Document(fake, "bucket", "catalog.json"))
	require.NoError(t, err)

	_, err = store.CreateProject(context.Background(), models.Project{Title: "Lost"})
	require.Error(t, err)
	assert.True(t, errs.IsDatabaseError(err))
	assert.Empty(t, store.Snapshot().Projects)
}
