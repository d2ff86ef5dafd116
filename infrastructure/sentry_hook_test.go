package infrastructure

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTransport struct {
	events []*sentry.Event
}

func (t *recordingTransport) Configure(options sentry.ClientOptions) {}
func (t *recordingTransport) SendEvent(event *sentry.Event) { t.events = append(t.events, event) }
func (t *recordingTransport) Flush(timeout time.Duration) bool { return true }
func (t *recordingTransport) FlushWithContext(ctx context.Context) bool { return true }
func (t *recordingTransport) Close() {}

func newTestHub(t *testing.T) (*sentry.Hub, *recordingTransport) {
	transport := &recordingTransport{}
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:       "https://public@example.com/1",
		Transport: transport,
	})
	require.NoError(t, err)
	return sentry.NewHub(client, sentry.NewScope()), transport
}

func TestSentryHook_Fire(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		entry         *log.Entry
		wantException bool
		wantExtra     map[string]interface{}
		wantTag       string
	}{
		{
			name: "error field becomes exception",
			entry: &log.Entry{
				Level:   log.ErrorLevel,
				Message: "Failed to record case",
				Data: log.Fields{
					log.ErrorKey: errors.New("connection reset"),
					"case":       7,
					"guild_id":   int64(123),
				},
			},
			wantException: true,
			wantExtra:     map[string]interface{}{"case": "7", "message": "Failed to record case"},
			wantTag:       "123",
		},
		{
			name: "plain message",
			entry: &log.Entry{
				Level:   log.ErrorLevel,
				Message: "Reminder delivery failed",
				Data:    log.Fields{"user_id": 42},
			},
			wantExtra: map[string]interface{}{"user_id": "42"},
		},
		{
			name: "non error value in error field is sent as message",
			entry: &log.Entry{
				Level:   log.ErrorLevel,
				Message: "odd",
				Data:    log.Fields{log.ErrorKey: "not an error"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			hub, transport := newTestHub(t)
			hook := NewSentryHook(hub)

			require.NoError(t, hook.Fire(tt.entry))
			require.Len(t, transport.events, 1)
			event := transport.events[0]

			if tt.wantException {
				require.NotEmpty(t, event.Exception)
				assert.Equal(t, "connection reset", event.Exception[len(event.Exception)-1].Value)
			} else {
				assert.Empty(t, event.Exception)
				assert.Equal(t, tt.entry.Message, event.Message)
			}
			for k, v := range tt.wantExtra {
				assert.Equal(t, v, event.Extra[k])
			}
			if tt.wantTag != "" {
				assert.Equal(t, tt.wantTag, event.Tags["guild_id"])
			}
		})
	}
}

func TestSentryHook_Levels(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []log.Level{log.ErrorLevel, log.FatalLevel, log.PanicLevel}, NewSentryHook(nil).Levels())
}
