package music

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(tracks []Track) []string {
	out := make([]string, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, t.Identifier)
	}
	return out
}

func filledQueue(names ...string) *Queue {
	q := NewQueue()
	for _, n := range names {
		q.Push(track(n, time.Minute))
	}
	return q
}

func TestQueue_PushPop(t *testing.T) {
	t.Parallel()

	q := filledQueue("a", "b")
	q.PushFront(track("z", time.Minute))
	assert.Equal(t, []string{"z", "a", "b"}, ids(q.Tracks()))
	assert.Equal(t, 3*time.Minute, q.Duration())

	first, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "z", first.Identifier)
	assert.Equal(t, 2, q.Len())

	_, _ = q.Pop()
	_, _ = q.Pop()
	_, ok = q.Pop()
	assert.False(t, ok)
}

func TestQueue_Remove(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pos     int
		want    string
		wantErr bool
		left    []string
	}{
		{name: "first", pos: 1, want: "a", left: []string{"b", "c"}},
		{name: "last", pos: 3, want: "c", left: []string{"a", "b"}},
		{name: "zero", pos: 0, wantErr: true, left: []string{"a", "b", "c"}},
		{name: "past end", pos: 4, wantErr: true, left: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			q := filledQueue("a", "b", "c")
			got, err := q.Remove(tt.pos)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPosition)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got.Identifier)
			}
			assert.Equal(t, tt.left, ids(q.Tracks()))
		})
	}
}

func TestQueue_Move(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		from, to int
		want     []string
		wantErr  bool
	}{
		{name: "to front", from: 3, to: 1, want: []string{"c", "a", "b"}},
		{name: "to back", from: 1, to: 3, want: []string{"b", "c", "a"}},
		{name: "same place", from: 2, to: 2, want: []string{"a", "b", "c"}},
		{name: "invalid", from: 0, to: 2, want: []string{"a", "b", "c"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			q := filledQueue("a", "b", "c")
			_, err := q.Move(tt.from, tt.to)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPosition)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, ids(q.Tracks()))
		})
	}
}

func TestQueue_ShuffleKeepsTracks(t *testing.T) {
	t.Parallel()

	q := filledQueue("a", "b", "c", "d", "e")
	q.Shuffle(rand.New(rand.NewSource(7)))
	assert.ElementsMatch(t, []string{"a", "b", "c", "d", "e"}, ids(q.Tracks()))

	assert.Equal(t, 5, q.Clear())
	assert.Equal(t, 0, q.Len())
}

func TestQueue_TracksIsACopy(t *testing.T) {
	t.Parallel()

	q := filledQueue("a")
	tracks := q.Tracks()
	tracks[0].Title = "changed"
	first, _ := q.Pop()
	assert.Equal(t, "Track a", first.Title)
}

func TestParseLoopMode(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]LoopMode{"off": LoopOff, "TRACK": LoopTrack, " Queue ": LoopQueue} {
		got, err := ParseLoopMode(input)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseLoopMode("forever")
	assert.ErrorIs(t, err, ErrInvalidLoopMode)
}

func TestEndReason_MayStartNext(t *testing.T) {
	t.Parallel()

	assert.True(t, EndFinished.MayStartNext())
	assert.True(t, EndLoadFailed.MayStartNext())
	assert.False(t, EndStopped.MayStartNext())
	assert.False(t, EndReplaced.MayStartNext())
	assert.False(t, EndCleanup.MayStartNext())
}
