package welcome

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	cardWidth      = 1024
	cardHeight     = 340
	avatarSize     = 220
	maxAvatarBytes = 8 << 20
)

// CardText is the text printed on a welcome card
type CardText struct {
	Title    string // e.g. "WELCOME"
	Name     string
	Subtitle string // e.g. "Member #1,234"
}

// CardRenderer draws welcome cards
type CardRenderer struct {
	httpClient *http.Client
	titleFont  *truetype.Font
	bodyFont   *truetype.Font
}

// NewCardRenderer parses the bundled fonts
func NewCardRenderer(httpClient *http.Client) (*CardRenderer, error) {
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}
	return &CardRenderer{
		httpClient: httpClient,
		titleFont:  bold,
		bodyFont:   regular,
	}, nil
}

func (r *CardRenderer) face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Render draws the card as PNG; a missing avatar leaves a plain circle
func (r *CardRenderer) Render(ctx context.Context, avatarURL string, text CardText) ([]byte, error) {
	dc := gg.NewContext(cardWidth, cardHeight)

	// Background
	grad := gg.NewLinearGradient(0, 0, cardWidth, cardHeight)
	grad.AddColorStop(0, rgb(0x23272A))
	grad.AddColorStop(1, rgb(0x2C2F63))
	dc.SetFillStyle(grad)
	dc.DrawRoundedRectangle(0, 0, cardWidth, cardHeight, 24)
	dc.Fill()

	// Avatar ring
	cx, cy := float64(60+avatarSize/2), float64(cardHeight/2)
	dc.SetHexColor("#5865F2")
	dc.DrawCircle(cx, cy, avatarSize/2+8)
	dc.Fill()

	avatar := r.fetchAvatar(ctx, avatarURL)
	if avatar != nil {
		dc.Push()
		dc.DrawCircle(cx, cy, avatarSize/2)
		dc.Clip()
		scaled := scaleTo(avatar, avatarSize)
		dc.DrawImageAnchored(scaled, int(cx), int(cy), 0.5, 0.5)
		dc.ResetClip()
		dc.Pop()
	} else {
		dc.SetHexColor("#99AAB5")
		dc.DrawCircle(cx, cy, avatarSize/2)
		dc.Fill()
	}

	textX := float64(60 + avatarSize + 50)
	maxWidth := float64(cardWidth) - textX - 40

	dc.SetFontFace(r.face(r.titleFont, 64))
	dc.SetHexColor("#FFFFFF")
	dc.DrawString(text.Title, textX, 130)

	dc.SetFontFace(r.face(r.titleFont, 44))
	dc.SetHexColor("#FEE75C")
	dc.DrawString(fitText(dc, text.Name, maxWidth), textX, 200)

	dc.SetFontFace(r.face(r.bodyFont, 32))
	dc.SetHexColor("#B9BBBE")
	dc.DrawString(fitText(dc, text.Subtitle, maxWidth), textX, 255)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode welcome card: %w", err)
	}
	return buf.Bytes(), nil
}

// fetchAvatar downloads and decodes an avatar; failures return nil
func (r *CardRenderer) fetchAvatar(ctx context.Context, url string) image.Image {
	if url == "" {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, maxAvatarBytes))
	if err != nil {
		return nil
	}
	return img
}

// scaleTo resizes an image into a size x size square
func scaleTo(img image.Image, size int) image.Image {
	b := img.Bounds()
	if b.Dx() == size && b.Dy() == size {
		return img
	}
	dc := gg.NewContext(size, size)
	dc.Scale(float64(size)/float64(b.Dx()), float64(size)/float64(b.Dy()))
	dc.DrawImage(img, -b.Min.X, -b.Min.Y)
	return dc.Image()
}

// fitText trims s with an ellipsis until it fits in width
func fitText(dc *gg.Context, s string, width float64) string {
	if w, _ := dc.MeasureString(s); w <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 1 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "…"
		if w, _ := dc.MeasureString(candidate); w <= width {
			return candidate
		}
	}
	return string(runes)
}

func rgb(c int) color.RGBA {
	return color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 255}
}
