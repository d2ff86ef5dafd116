package emoji

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x1 transparent PNG
var pixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func TestEncodeImage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		data        []byte
		contentType string
		wantPrefix  string
		wantErr     error
	}{
		{"declared png", pixel, "image/png", "data:image/png;base64,", nil},
		{"sniffed when header is generic", pixel, "application/octet-stream", "data:image/png;base64,", nil},
		{"charset parameter ignored", pixel, "image/png; charset=binary", "data:image/png;base64,", nil},
		{"html rejected", []byte("<html></html>"), "text/html", "", errNotAnImage},
		{"too large", make([]byte, maxEmojiBytes+1), "image/png", "", errTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := encodeImage(tt.data, tt.contentType)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(got, tt.wantPrefix))
		})
	}
}

func TestDownload(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pixel)
	}))
	defer server.Close()

	f := NewFeature(server.Client())

	got, err := f.download(context.Background(), server.URL+"/emoji.png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "data:image/png;base64,"))

	_, err = f.download(context.Background(), server.URL+"/missing")
	assert.ErrorIs(t, err, errDownloadFail)

	_, err = f.download(context.Background(), "ftp://example.com/emoji.png")
	assert.ErrorIs(t, err, errNotAnImage)
}
