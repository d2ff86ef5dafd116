package welcome

import (
	"context"
	"image"
	"net/http"
	"testing"

	"warden/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelFor(t *testing.T) {
	t.Parallel()

	welcome, boost := int64(10), int64(30)
	settings := &entities.GuildSettings{WelcomeChannelID: &welcome, BoostChannelID: &boost}

	assert.Equal(t, &welcome, channelFor(settings, KindWelcome))
	assert.Nil(t, channelFor(settings, KindLeave))
	assert.Equal(t, &boost, channelFor(settings, KindBoost))
}

func TestTemplateFor(t *testing.T) {
	t.Parallel()

	custom := "bye {user.name}"
	settings := &entities.GuildSettings{LeaveMessage: &custom}

	assert.Equal(t, entities.DefaultWelcomeMessage, templateFor(settings, KindWelcome))
	assert.Equal(t, custom, templateFor(settings, KindLeave))
	assert.Equal(t, entities.DefaultBoostMessage, templateFor(settings, KindBoost))
}

func TestCardRenderer_Render(t *testing.T) {
	t.Parallel()

	renderer, err := NewCardRenderer(http.DefaultClient)
	require.NoError(t, err)

	png, err := renderer.Render(context.Background(), "", CardText{
		Title:    "WELCOME",
		Name:     "a very long display name that will not fit on the card at all",
		Subtitle: "Member #1,234",
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}

func TestScaleTo(t *testing.T) {
	t.Parallel()

	src := image.NewRGBA(image.Rect(0, 0, 64, 32))
	scaled := scaleTo(src, 16)
	assert.Equal(t, 16, scaled.Bounds().Dx())
	assert.Equal(t, 16, scaled.Bounds().Dy())
}
