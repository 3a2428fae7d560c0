package clientcli_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sagarc03/camupload"
	"github.com/sagarc03/camupload/clientcli"
	"github.com/sagarc03/camupload/filesystem"
	camhttp "github.com/sagarc03/camupload/http"
	"github.com/sagarc03/camupload/keybackend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jpegBody = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0xFF, 0xD9}

var fixedNow = time.Date(2024, time.March, 5, 7, 8, 9, 123456000, time.Local)

func newTestServer(t *testing.T, auth camupload.Authenticator, maxSize int64) (*httptest.Server, string) {
	t.Helper()

	dir := t.TempDir()
	root, err := os.OpenRoot(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = root.Close() })

	handler := camhttp.NewHandler(&camhttp.HandlerConfig{
		Authenticator: auth,
		MaxUploadSize: maxSize,
		Now:           func() time.Time { return fixedNow },
	}, filesystem.NewFileStorage(root))

	server := httptest.NewServer(handler.Router())
	t.Cleanup(server.Close)

	return server, dir
}

func writeJPEG(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, jpegBody, 0o644))
	return path
}

func storedFile(base, site, camera string) string {
	return filepath.Join(base, site, camera, "2024", "03", "05", "07", "20240305-070809-123456.jpg")
}

func TestNew_NilConfig(t *testing.T) {
	_, err := clientcli.New(nil)
	assert.ErrorIs(t, err, clientcli.ErrConfigRequired)
}

func TestNew_IncompleteBasicCredentials(t *testing.T) {
	_, err := clientcli.New(&clientcli.Config{Username: "axis"})
	assert.ErrorIs(t, err, clientcli.ErrPasswordRequired)
}

func TestClient_Push_Token(t *testing.T) {
	server, base := newTestServer(t, camupload.NewTokenAuth("s3cret"), 0)

	client, err := clientcli.New(&clientcli.Config{Endpoint: server.URL + "/", Token: "s3cret"})
	require.NoError(t, err)

	file := writeJPEG(t, t.TempDir(), "snap.jpg")
	result, err := client.Push(context.Background(), clientcli.PushOptions{
		LocalPath: file,
		Site:      "site1",
		Camera:    "cam7",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "Image accepted", result.Message)
	assert.Equal(t, int64(len(jpegBody)), result.Size)

	data, err := os.ReadFile(storedFile(base, "site1", "cam7"))
	require.NoError(t, err)
	assert.Equal(t, jpegBody, data)
}

func TestClient_Push_Reader(t *testing.T) {
	server, base := newTestServer(t, camupload.NewTokenAuth(""), 0)

	client, err := clientcli.New(&clientcli.Config{Endpoint: server.URL})
	require.NoError(t, err)

	result, err := client.Push(context.Background(), clientcli.PushOptions{Reader: bytes.NewReader(jpegBody)})
	require.NoError(t, err)
	assert.Equal(t, int64(len(jpegBody)), result.Size)

	_, err = os.Stat(storedFile(base, camupload.DefaultSite, camupload.DefaultCamera))
	assert.NoError(t, err)
}

func TestClient_Push_SiteOnly(t *testing.T) {
	server, base := newTestServer(t, camupload.NewTokenAuth(""), 0)

	client, err := clientcli.New(&clientcli.Config{Endpoint: server.URL})
	require.NoError(t, err)

	_, err = client.Push(context.Background(), clientcli.PushOptions{Reader: bytes.NewReader(jpegBody), Site: "hq"})
	require.NoError(t, err)

	_, err = os.Stat(storedFile(base, "hq", camupload.DefaultCamera))
	assert.NoError(t, err)
}

func TestClient_Push_InvalidToken(t *testing.T) {
	server, _ := newTestServer(t, camupload.NewTokenAuth("s3cret"), 0)

	client, err := clientcli.New(&clientcli.Config{Endpoint: server.URL, Token: "wrong"})
	require.NoError(t, err)

	_, err = client.Push(context.Background(), clientcli.PushOptions{Reader: bytes.NewReader(jpegBody)})
	require.Error(t, err)

	assert.ErrorIs(t, err, clientcli.ErrBadRequest)

	var apiErr *clientcli.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Missing or invalid upload token", apiErr.Message)
}

func TestClient_Push_WrongContentType(t *testing.T) {
	server, _ := newTestServer(t, camupload.NewTokenAuth(""), 0)

	client, err := clientcli.New(&clientcli.Config{Endpoint: server.URL})
	require.NoError(t, err)

	_, err = client.Push(context.Background(), clientcli.PushOptions{
		Reader:      strings.NewReader("hello"),
		ContentType: "text/plain",
	})
	assert.ErrorIs(t, err, clientcli.ErrBadRequest)
	assert.Contains(t, err.Error(), "Unexpected content type")
}

func TestClient_Push_BasicAuth(t *testing.T) {
	store := keybackend.NewMapCredentialStore(map[string]string{"axis": "hunter2"})
	server, base := newTestServer(t, camupload.NewBasicAuth("camupload", store), 0)

	t.Run("accepted", func(t *testing.T) {
		client, err := clientcli.New(&clientcli.Config{Endpoint: server.URL, Username: "axis", Password: "hunter2"})
		require.NoError(t, err)

		_, err = client.Push(context.Background(), clientcli.PushOptions{
			Reader: bytes.NewReader(jpegBody),
			Site:   "gate",
			Camera: "north",
		})
		require.NoError(t, err)

		_, err = os.Stat(storedFile(base, "gate", "north"))
		assert.NoError(t, err)
	})

	t.Run("rejected", func(t *testing.T) {
		client, err := clientcli.New(&clientcli.Config{Endpoint: server.URL, Username: "axis", Password: "nope"})
		require.NoError(t, err)

		_, err = client.Push(context.Background(), clientcli.PushOptions{Reader: bytes.NewReader(jpegBody)})
		assert.ErrorIs(t, err, clientcli.ErrUnauthorized)
	})
}

func TestClient_Push_TooLarge(t *testing.T) {
	server, _ := newTestServer(t, camupload.NewTokenAuth(""), 4)

	client, err := clientcli.New(&clientcli.Config{Endpoint: server.URL})
	require.NoError(t, err)

	file := writeJPEG(t, t.TempDir(), "big.jpg")
	_, err = client.Push(context.Background(), clientcli.PushOptions{LocalPath: file})
	assert.ErrorIs(t, err, clientcli.ErrTooLarge)
}

func TestClient_Push_Errors(t *testing.T) {
	client, err := clientcli.New(&clientcli.Config{Endpoint: "http://127.0.0.1:1"})
	require.NoError(t, err)

	_, err = client.Push(context.Background(), clientcli.PushOptions{})
	assert.ErrorIs(t, err, clientcli.ErrEmptyPath)

	_, err = client.Push(context.Background(), clientcli.PushOptions{LocalPath: filepath.Join(t.TempDir(), "missing.jpg")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open file")
}

func TestClient_PushPaths(t *testing.T) {
	server, base := newTestServer(t, camupload.NewTokenAuth("s3cret"), 0)

	client, err := clientcli.New(&clientcli.Config{Endpoint: server.URL, Token: "s3cret"})
	require.NoError(t, err)

	dir := t.TempDir()
	writeJPEG(t, dir, "a.jpg")
	writeJPEG(t, dir, filepath.Join("nested", "b.JPEG"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))

	missing := filepath.Join(dir, "missing.jpg")

	results, err := client.PushPaths(context.Background(), []string{dir, missing}, "site1", "cam7")
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, clientcli.HasPushErrors(results))
	assert.Equal(t, missing, results[2].LocalPath)
	assert.Error(t, results[2].Err)

	// both images share the fixed clock, so the second overwrote the first
	_, err = os.Stat(storedFile(base, "site1", "cam7"))
	assert.NoError(t, err)
}

func TestClient_PushPaths_NoPaths(t *testing.T) {
	client, err := clientcli.New(&clientcli.Config{})
	require.NoError(t, err)

	_, err = client.PushPaths(context.Background(), nil, "", "")
	assert.ErrorIs(t, err, clientcli.ErrNoPaths)
}

func TestHasPushErrors(t *testing.T) {
	assert.False(t, clientcli.HasPushErrors(nil))
	assert.False(t, clientcli.HasPushErrors([]clientcli.PushResult{{LocalPath: "a.jpg"}}))
	assert.True(t, clientcli.HasPushErrors([]clientcli.PushResult{{LocalPath: "a.jpg", Err: errors.New("x")}}))
}

func TestClient_Ping(t *testing.T) {
	server, _ := newTestServer(t, camupload.NewTokenAuth("s3cret"), 0)

	client, err := clientcli.New(&clientcli.Config{Endpoint: server.URL})
	require.NoError(t, err)

	result, err := client.Ping(context.Background())
	require.NoError(t, err)

	assert.Equal(t, server.URL+"/", result.Endpoint)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "Image upload server ready", result.Message)
	assert.Positive(t, result.Latency)
}

func TestClient_Ping_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		camhttp.WriteStatusPage(w, http.StatusInternalServerError, "error uploading file")
	}))
	defer server.Close()

	client, err := clientcli.New(&clientcli.Config{Endpoint: server.URL})
	require.NoError(t, err)

	_, err = client.Ping(context.Background())
	assert.ErrorIs(t, err, clientcli.ErrServer)
}

func TestClient_WithOptions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		camhttp.WriteStatusPage(w, http.StatusOK, "Image upload server ready")
	}))
	defer server.Close()

	client, err := clientcli.New(&clientcli.Config{Endpoint: server.URL}, clientcli.WithTimeout(10*time.Millisecond))
	require.NoError(t, err)

	_, err = client.Ping(context.Background())
	assert.Error(t, err)

	client, err = clientcli.New(&clientcli.Config{Endpoint: server.URL}, clientcli.WithHTTPClient(&http.Client{}))
	require.NoError(t, err)

	_, err = client.Ping(context.Background())
	assert.NoError(t, err)
}

func TestAPIError(t *testing.T) {
	err := &clientcli.APIError{StatusCode: http.StatusBadRequest, Message: "Unexpected content type"}

	assert.Equal(t, "server error: 400 - Unexpected content type", err.Error())
	assert.ErrorIs(t, err, clientcli.ErrBadRequest)
	assert.NotErrorIs(t, err, clientcli.ErrUnauthorized)
}
