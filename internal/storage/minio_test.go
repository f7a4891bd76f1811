package storage

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestMinioStore_Put(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping minio test in short mode")
	}

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "minio/minio:latest",
			ExposedPorts: []string{"9000/tcp"},
			Cmd:          []string{"server", "/data"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     "minioadmin",
				"MINIO_ROOT_PASSWORD": "minioadmin",
			},
			WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	defer container.Terminate(ctx)

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	store, err := NewMinioStore(ctx, endpoint, "minioadmin", "minioadmin", "uploads", false, zerolog.Nop())
	require.NoError(t, err)

	url, err := store.Put(ctx, Object{Name: "1-hello.txt", Data: []byte("hello"), ContentType: "text/plain"})
	require.NoError(t, err)
	assert.Equal(t, "http://"+endpoint+"/uploads/1-hello.txt", url)

	// The bucket is private; a HEAD without credentials is denied but proves the route exists.
	resp, err := http.Head(url)
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
