package purge

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func message(id int, authorID string, bot bool, content string, age time.Duration, now time.Time) *discordgo.Message {
	return &discordgo.Message{
		ID:        strconv.Itoa(id),
		Content:   content,
		Timestamp: now.Add(-age),
		Author:    &discordgo.User{ID: authorID, Bot: bot},
	}
}

func TestSelectMessages(t *testing.T) {
	t.Parallel()

	now := time.Now()
	page := []*discordgo.Message{
		message(1, "a", false, "hello world", time.Minute, now),
		message(2, "b", true, "beep", 2*time.Minute, now),
		message(3, "a", false, "Spam spam", time.Hour, now),
		message(4, "c", false, "old", 15*24*time.Hour, now),
		message(5, "a", false, "older", 16*24*time.Hour, now),
	}

	tests := []struct {
		name     string
		filter   filter
		limit    int
		wantIDs  []string
		wantDone bool
	}{
		{
			name:     "stops at the bulk delete window",
			limit:    10,
			wantIDs:  []string{"1", "2", "3"},
			wantDone: true,
		},
		{
			name:     "limit reached",
			limit:    2,
			wantIDs:  []string{"1", "2"},
			wantDone: true,
		},
		{
			name:     "user filter",
			filter:   filter{userID: "a"},
			limit:    10,
			wantIDs:  []string{"1", "3"},
			wantDone: true,
		},
		{
			name:     "bots only",
			filter:   filter{botsOnly: true},
			limit:    10,
			wantIDs:  []string{"2"},
			wantDone: true,
		},
		{
			name:     "contains is case-insensitive",
			filter:   filter{contains: "SPAM"},
			limit:    10,
			wantIDs:  []string{"3"},
			wantDone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ids, done := selectMessages(page, tt.filter, tt.limit, now)
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantDone, done)
		})
	}
}

func TestSelectMessages_SkipsPinned(t *testing.T) {
	t.Parallel()

	now := time.Now()
	pinned := message(1, "a", false, "rules", time.Minute, now)
	pinned.Pinned = true

	ids, done := selectMessages([]*discordgo.Message{pinned, message(2, "a", false, "hi", time.Minute, now)}, filter{}, 5, now)
	assert.Equal(t, []string{"2"}, ids)
	assert.False(t, done)
}

func TestBatches(t *testing.T) {
	t.Parallel()

	ids := make([]string, 250)
	for i := range ids {
		ids[i] = strconv.Itoa(i)
	}

	out := batches(ids, 100)
	assert.Len(t, out, 3)
	assert.Len(t, out[0], 100)
	assert.Len(t, out[2], 50)
	assert.Empty(t, batches(nil, 100))
}

// fakeChannel serves pages of history and records deletions
type fakeChannel struct {
	history   []*discordgo.Message
	fetches   []string
	bulk      [][]string
	single    []string
	deleteErr error
}

func (c *fakeChannel) ChannelMessages(_ string, limit int, beforeID, _, _ string, _ ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	c.fetches = append(c.fetches, beforeID)
	start := 0
	if beforeID != "" {
		for idx, m := range c.history {
			if m.ID == beforeID {
				start = idx + 1
				break
			}
		}
	}
	end := min(start+limit, len(c.history))
	return c.history[start:end], nil
}

func (c *fakeChannel) ChannelMessageDelete(_, messageID string, _ ...discordgo.RequestOption) error {
	if c.deleteErr != nil {
		return c.deleteErr
	}
	c.single = append(c.single, messageID)
	return nil
}

func (c *fakeChannel) ChannelMessagesBulkDelete(_ string, messages []string, _ ...discordgo.RequestOption) error {
	if c.deleteErr != nil {
		return c.deleteErr
	}
	c.bulk = append(c.bulk, messages)
	return nil
}

func messageIDs(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = strconv.Itoa(i + 1)
	}
	return out
}

func TestDeleteMessages(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name       string
		count      int
		wantBulk   []int
		wantSingle int
	}{
		{name: "one message", count: 1, wantSingle: 1},
		{name: "one batch", count: 100, wantBulk: []int{100}},
		{name: "lone remainder", count: 101, wantBulk: []int{100}, wantSingle: 1},
		{name: "three batches", count: 250, wantBulk: []int{100, 100, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ch := &fakeChannel{}

			deleted, err := deleteMessages(ctx, ch, "c", messageIDs(tt.count))
			require.NoError(t, err)
			assert.Equal(t, tt.count, deleted)

			var sizes []int
			for _, b := range ch.bulk {
				sizes = append(sizes, len(b))
			}
			assert.Equal(t, tt.wantBulk, sizes)
			assert.Len(t, ch.single, tt.wantSingle)
		})
	}
}

func TestDeleteMessages_ReportsPartialProgress(t *testing.T) {
	t.Parallel()

	ch := &fakeChannel{deleteErr: errors.New("missing access")}
	deleted, err := deleteMessages(context.Background(), ch, "c", messageIDs(5))
	require.Error(t, err)
	assert.Equal(t, 0, deleted)
}

func TestCollect(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Now()

	t.Run("pages until the bulk delete window ends", func(t *testing.T) {
		t.Parallel()

		// 150 recent messages, then history older than 14 days
		ch := &fakeChannel{}
		for n := 1; n <= 150; n++ {
			ch.history = append(ch.history, message(n, "a", false, "hi", time.Duration(n)*time.Minute, now))
		}
		for n := 151; n <= 300; n++ {
			ch.history = append(ch.history, message(n, "a", false, "old", 15*24*time.Hour, now))
		}

		got, err := collect(ctx, ch, "c", filter{}, 500, now)
		require.NoError(t, err)
		assert.Len(t, got, 150)
		assert.Equal(t, []string{"", "100"}, ch.fetches)
	})

	t.Run("stops once the amount is reached", func(t *testing.T) {
		t.Parallel()

		ch := &fakeChannel{}
		for n := 1; n <= 300; n++ {
			ch.history = append(ch.history, message(n, "a", false, "hi", time.Minute, now))
		}

		got, err := collect(ctx, ch, "c", filter{}, 120, now)
		require.NoError(t, err)
		assert.Len(t, got, 120)
		assert.Equal(t, "1", got[0])
		assert.Len(t, ch.fetches, 2)
	})

	t.Run("short channel", func(t *testing.T) {
		t.Parallel()

		ch := &fakeChannel{history: []*discordgo.Message{message(1, "b", true, "beep", time.Minute, now)}}
		got, err := collect(ctx, ch, "c", filter{userID: "a"}, 10, now)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.Len(t, ch.fetches, 1)
	})
}
