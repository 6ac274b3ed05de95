package fetch

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchDownloadsAndSkips(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("contents of " + r.URL.Path))
	})
	dir := filepath.Join(t.TempDir(), "nested", "data")
	f := New(0, zerolog.Nop())

	res := GoEmotions(srv.URL + "/data")
	results, err := f.Fetch(context.Background(), dir, res)
	require.NoError(t, err)
	require.Len(t, results, 4)
	for i, r := range results {
		assert.Equal(t, StatusDownloaded, r.Status)
		assert.Equal(t, GoEmotionsFiles[i], r.Resource.Name)
		data, err := os.ReadFile(r.Path)
		require.NoError(t, err)
		assert.Equal(t, "contents of /data/"+GoEmotionsFiles[i], string(data))
	}
	assert.EqualValues(t, 4, hits.Load())

	results, err = f.Fetch(context.Background(), dir, res)
	require.NoError(t, err)
	for _, r := range results {
		assert.Equal(t, StatusSkipped, r.Status)
	}
	assert.EqualValues(t, 4, hits.Load(), "existing files are not downloaded again")
}

func TestFetchNon200LeavesNoFile(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	dir := t.TempDir()

	results, err := New(0, zerolog.Nop()).Fetch(context.Background(), dir, []Resource{{Name: "train.tsv", URL: srv.URL + "/train.tsv"}})
	require.ErrorIs(t, err, ErrStatus)
	assert.Equal(t, StatusFailed, results[0].Status)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFetchRejectsDeclaredCharset(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=iso-8859-1")
		_, _ = w.Write([]byte("caf\xe9"))
	})
	_, err := New(0, zerolog.Nop()).Fetch(context.Background(), t.TempDir(), []Resource{{Name: "a.txt", URL: srv.URL}})
	assert.ErrorIs(t, err, ErrEncoding)
}

func TestFetchRejectsInvalidUTF8Body(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("caf\xe9 au lait"))
	})
	dir := t.TempDir()
	_, err := New(0, zerolog.Nop()).Fetch(context.Background(), dir, []Resource{{Name: "a.txt", URL: srv.URL}})
	assert.ErrorIs(t, err, ErrEncoding)
	_, statErr := os.Stat(filepath.Join(dir, "a.txt"))
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestFetchBinaryAcceptsArbitraryBytes(t *testing.T) {
	payload := []byte{0x00, 0xff, 0xfe, 0x80, 0x01}
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(payload)
	})
	dir := t.TempDir()
	results, err := New(0, zerolog.Nop()).Fetch(context.Background(), dir, []Resource{{Name: "model.bin", URL: srv.URL, Binary: true}})
	require.NoError(t, err)
	assert.EqualValues(t, len(payload), results[0].Bytes)
	got, err := os.ReadFile(filepath.Join(dir, "model.bin"))
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestFetchEmptyBody(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {})
	_, err := New(0, zerolog.Nop()).Fetch(context.Background(), t.TempDir(), []Resource{{Name: "empty.txt", URL: srv.URL}})
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestFetchValidatesResources(t *testing.T) {
	f := New(0, zerolog.Nop())
	for _, r := range []Resource{
		{Name: "", URL: "http://x"},
		{Name: "../escape", URL: "http://x"},
		{Name: "/etc/passwd", URL: "http://x"},
		{Name: "onnx/../../escape", URL: "http://x"},
		{Name: "onnx//model.onnx", URL: "http://x"},
		{Name: "onnx/", URL: "http://x"},
		{Name: "ok.txt", URL: "ftp://x"},
	} {
		_, err := f.Fetch(context.Background(), t.TempDir(), []Resource{r})
		assert.ErrorIs(t, err, ErrInvalidResource, "%+v", r)
	}
}

func TestFetchNestedModelFiles(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.URL.Path))
	})
	res, err := HuggingFace(srv.URL, "org/encoder", "v1", []string{"config.json", "1_Pooling/config.json", "onnx/model.onnx"})
	require.NoError(t, err)

	dir := t.TempDir()
	results, err := New(0, zerolog.Nop()).Fetch(context.Background(), dir, res)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, filepath.Join(dir, "1_Pooling", "config.json"), results[1].Path)

	got, err := os.ReadFile(filepath.Join(dir, "onnx", "model.onnx"))
	require.NoError(t, err)
	assert.Equal(t, "/org/encoder/resolve/v1/onnx/model.onnx", string(got))
}

func TestCopyUTF8AcrossChunkBoundary(t *testing.T) {
	text := strings.Repeat("aé", 30000) // a rune straddles the 32 KiB read size
	var out bytes.Buffer
	n, err := copyUTF8(&out, strings.NewReader(text))
	require.NoError(t, err)
	assert.EqualValues(t, len(text), n)
	assert.Equal(t, text, out.String())

	_, err = copyUTF8(&bytes.Buffer{}, strings.NewReader("ok\xc3"))
	assert.ErrorIs(t, err, ErrEncoding)

	_, err = copyUTF8(&bytes.Buffer{}, strings.NewReader("abc\xffdef"))
	require.ErrorIs(t, err, ErrEncoding)
	assert.Contains(t, err.Error(), "at byte 3")
}

func TestHuggingFaceResources(t *testing.T) {
	res, err := HuggingFace("", "bert-base-cased", "", []string{"config.json", " vocab.txt "})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "https://huggingface.co/bert-base-cased/resolve/main/config.json", res[0].URL)
	assert.Equal(t, "vocab.txt", res[1].Name)
	assert.True(t, res[1].Binary)

	_, err = HuggingFace("", "", "main", []string{"a"})
	assert.ErrorIs(t, err, ErrInvalidResource)
	_, err = HuggingFace("", "repo", "main", nil)
	assert.ErrorIs(t, err, ErrInvalidResource)
}

func TestGoEmotionsDefaults(t *testing.T) {
	res := GoEmotions("")
	require.Len(t, res, 4)
	assert.Equal(t, GoEmotionsBaseURL+"emotions.txt", res[3].URL)
	assert.False(t, res[0].Binary)
}
