package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemoryS3() *memoryS3 {
	return &memoryS3{objects: make(map[string][]byte)}
}

func (m *memoryS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *memoryS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (m *memoryS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3FileStore(t *testing.T) {
	client := newMemoryS3()
	store := NewS3FileStoreWithClient(client, "notes-bucket", "/uploads/")
	ctx := context.Background()

	location, err := store.Save(ctx, "01H-list.txt", strings.NewReader("- email Sam"))
	require.NoError(t, err)
	assert.Equal(t, "s3://notes-bucket/uploads/01H-list.txt", location)
	assert.Contains(t, client.objects, "notes-bucket/uploads/01H-list.txt")

	text, err := ReadText(ctx, store, location)
	require.NoError(t, err)
	assert.Equal(t, "- email Sam", text)

	require.NoError(t, store.Remove(ctx, location))
	assert.NotContains(t, client.objects, "notes-bucket/uploads/01H-list.txt")
	assert.Error(t, store.Remove(ctx, "s3://other-bucket/01H-list.txt"))
}

func TestS3FileStoreForeignLocation(t *testing.T) {
	store := NewS3FileStoreWithClient(newMemoryS3(), "notes-bucket", "")

	_, err := store.Open(context.Background(), "s3://other-bucket/a.txt")
	assert.Error(t, err)

	_, err = store.Open(context.Background(), "s3://notes-bucket/missing.txt")
	assert.Error(t, err)
}
