package emoji

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStickerSlots(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5, stickerSlots(discordgo.PremiumTierNone))
	assert.Equal(t, 15, stickerSlots(discordgo.PremiumTier1))
	assert.Equal(t, 30, stickerSlots(discordgo.PremiumTier2))
	assert.Equal(t, 60, stickerSlots(discordgo.PremiumTier3))
}

func TestFirstSticker(t *testing.T) {
	t.Parallel()

	newest := &discordgo.StickerItem{ID: "2", Name: "newest"}
	older := &discordgo.StickerItem{ID: "1", Name: "older"}
	messages := []*discordgo.Message{
		{ID: "30", Content: "no sticker"},
		nil,
		{ID: "20", StickerItems: []*discordgo.StickerItem{newest}},
		{ID: "10", StickerItems: []*discordgo.StickerItem{older}},
	}

	assert.Same(t, newest, firstSticker(messages))
	assert.Nil(t, firstSticker(messages[:2]))
	assert.Nil(t, firstSticker(nil))
}

func TestStickerFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		format    discordgo.StickerFormat
		wantURL   string
		wantType  string
		wantErr   error
		wantAnErr bool
	}{
		{"png", discordgo.StickerFormatTypePNG, stickerCDN + "42.png", "image/png", nil, false},
		{"apng", discordgo.StickerFormatTypeAPNG, stickerCDN + "42.png", "image/png", nil, false},
		{"gif", discordgo.StickerFormatTypeGIF, stickerCDN + "42.gif", "image/gif", nil, false},
		{"lottie", discordgo.StickerFormatTypeLottie, "", "", errLottieSticker, true},
		{"unknown", discordgo.StickerFormat(99), "", "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			url, name, mediaType, err := stickerFile(&discordgo.StickerItem{ID: "42", FormatType: tt.format})
			if tt.wantAnErr {
				require.Error(t, err)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, url)
			assert.Equal(t, tt.wantType, mediaType)
			assert.Contains(t, url, name)
		})
	}
}

func TestFindSticker(t *testing.T) {
	t.Parallel()

	stickers := []*discordgo.Sticker{
		{ID: "100", Name: "Wave"},
		{ID: "200", Name: "100"},
	}

	assert.Equal(t, "100", findSticker(stickers, "100").ID, "id wins over a name that looks like an id")
	assert.Equal(t, "100", findSticker(stickers, " wave ").ID)
	assert.Equal(t, "200", findSticker(stickers, "200").ID)
	assert.Nil(t, findSticker(stickers, "dance"))
	assert.Nil(t, findSticker(stickers, ""))
}

func TestValidStickerName(t *testing.T) {
	t.Parallel()

	assert.False(t, validStickerName("a"))
	assert.True(t, validStickerName("ok"))
	assert.True(t, validStickerName("ねこねこ"))
	assert.True(t, validStickerName(string(bytes.Repeat([]byte("x"), maxStickerName))))
	assert.False(t, validStickerName(string(bytes.Repeat([]byte("x"), maxStickerName+1))))
}

func TestStickerUploadForm(t *testing.T) {
	t.Parallel()

	readForm := func(t *testing.T, u stickerUpload) *multipart.Form {
		t.Helper()
		contentType, body, err := u.form()
		require.NoError(t, err)

		mediaType, params, err := mime.ParseMediaType(contentType)
		require.NoError(t, err)
		require.Equal(t, "multipart/form-data", mediaType)

		form, err := multipart.NewReader(bytes.NewReader(body), params["boundary"]).ReadForm(1 << 20)
		require.NoError(t, err)
		t.Cleanup(func() { _ = form.RemoveAll() })
		return form
	}

	t.Run("fields and file", func(t *testing.T) {
		t.Parallel()
		form := readForm(t, stickerUpload{
			Name:        "wave",
			Description: "waving hand",
			Tags:        "wave",
			FileName:    "42.png",
			MediaType:   "image/png",
			Data:        pixel,
		})

		assert.Equal(t, []string{"wave"}, form.Value["name"])
		assert.Equal(t, []string{"waving hand"}, form.Value["description"])
		assert.Equal(t, []string{"wave"}, form.Value["tags"])

		require.Len(t, form.File["file"], 1)
		header := form.File["file"][0]
		assert.Equal(t, "42.png", header.Filename)
		assert.Equal(t, "image/png", header.Header.Get("Content-Type"))

		f, err := header.Open()
		require.NoError(t, err)
		defer f.Close()
		data, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, pixel, data)
		assert.Equal(t, "image/png", http.DetectContentType(data))
	})

	t.Run("tags default to name and short descriptions are dropped", func(t *testing.T) {
		t.Parallel()
		form := readForm(t, stickerUpload{
			Name:        "wave",
			Description: "x",
			FileName:    "42.gif",
			MediaType:   "image/gif",
			Data:        []byte("GIF89a"),
		})

		assert.Equal(t, []string{"wave"}, form.Value["tags"])
		assert.Equal(t, []string{""}, form.Value["description"])
	})
}
