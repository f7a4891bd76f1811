package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestObjectName(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	tests := []struct {
		name     string
		original string
		want     string
	}{
		{"Plain file", "photo.png", "1700000000123-photo.png"},
		{"Strips directories", "../../etc/passwd", "1700000000123-passwd"},
		{"Strips windows directories", `C:\Users\ada\cat.jpg`, "1700000000123-cat.jpg"},
		{"Empty name", "", "1700000000123-upload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectName(now, tt.original))
		})
	}
}

func TestLocalStore_Put(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "temporary")
	store := NewLocalStore(dir, "/temporary/", zerolog.Nop())

	url, err := store.Put(context.Background(), Object{Name: "1-a.txt", Data: []byte("hello")})

	require.NoError(t, err)
	assert.Equal(t, "/temporary/1-a.txt", url)

	data, err := os.ReadFile(filepath.Join(dir, "1-a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

// MockS3Putter is a mock implementation of the S3 PutObject call.
type MockS3Putter struct {
	mock.Mock
}

func (m *MockS3Putter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func TestS3Store_Put(t *testing.T) {
	client := new(MockS3Putter)
	store := newS3Store(client, "bucket", "eu-west-1", "uploads/", zerolog.Nop())

	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "bucket" && *in.Key == "uploads/1-a.png" &&
			*in.ContentLength == 3 && *in.ContentType == "image/png"
	})).Return(&s3.PutObjectOutput{}, nil)

	url, err := store.Put(context.Background(), Object{Name: "1-a.png", Data: []byte("png"), ContentType: "image/png"})

	require.NoError(t, err)
	assert.Equal(t, "https://bucket.s3.eu-west-1.amazonaws.com/uploads/1-a.png", url)
	client.AssertExpectations(t)
}

func TestS3Store_PutError(t *testing.T) {
	client := new(MockS3Putter)
	store := newS3Store(client, "bucket", "eu-west-1", "", zerolog.Nop())
	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	_, err := store.Put(context.Background(), Object{Name: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

// mockStore is a function-backed Store for testing.
type mockStore struct {
	putFunc func(ctx context.Context, obj Object) (string, error)
}

func (m *mockStore) Put(ctx context.Context, obj Object) (string, error) {
	return m.putFunc(ctx, obj)
}

func TestFallbackStore(t *testing.T) {
	ctx := context.Background()
	local := &mockStore{putFunc: func(_ context.Context, obj Object) (string, error) {
		return "/temporary/" + obj.Name, nil
	}}

	tests := []struct {
		name    string
		primary Store
		want    string
	}{
		{
			name: "Primary succeeds",
			primary: &mockStore{putFunc: func(_ context.Context, obj Object) (string, error) {
				return "https://cdn/" + obj.Name, nil
			}},
			want: "https://cdn/a",
		},
		{
			name: "Primary fails",
			primary: &mockStore{putFunc: func(context.Context, Object) (string, error) {
				return "", errors.New("unreachable")
			}},
			want: "/temporary/a",
		},
		{
			name:    "No primary",
			primary: nil,
			want:    "/temporary/a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, err := NewFallbackStore(tt.primary, local, zerolog.Nop()).Put(ctx, Object{Name: "a"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, url)
		})
	}
}
