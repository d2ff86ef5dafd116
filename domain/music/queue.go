package music

import (
	"math/rand"
	"time"
)

// Queue holds upcoming tracks. It is not safe for concurrent use; Player guards it.
type Queue struct {
	tracks []Track
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Push(t Track) {
	q.tracks = append(q.tracks, t)
}

// PushFront places a track so it plays next
func (q *Queue) PushFront(t Track) {
	q.tracks = append([]Track{t}, q.tracks...)
}

// Pop removes and returns the next track
func (q *Queue) Pop() (Track, bool) {
	if len(q.tracks) == 0 {
		return Track{}, false
	}
	t := q.tracks[0]
	q.tracks = q.tracks[1:]
	return t, true
}

// Remove deletes the track at a 1-based position
func (q *Queue) Remove(pos int) (Track, error) {
	if pos < 1 || pos > len(q.tracks) {
		return Track{}, ErrInvalidPosition
	}
	t := q.tracks[pos-1]
	q.tracks = append(q.tracks[:pos-1], q.tracks[pos:]...)
	return t, nil
}

// Move relocates the track at from to to, both 1-based
func (q *Queue) Move(from, to int) (Track, error) {
	if from < 1 || from > len(q.tracks) || to < 1 || to > len(q.tracks) {
		return Track{}, ErrInvalidPosition
	}
	t := q.tracks[from-1]
	q.tracks = append(q.tracks[:from-1], q.tracks[from:]...)
	q.tracks = append(q.tracks[:to-1], append([]Track{t}, q.tracks[to-1:]...)...)
	return t, nil
}

func (q *Queue) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(q.tracks), func(i, j int) {
		q.tracks[i], q.tracks[j] = q.tracks[j], q.tracks[i]
	})
}

// Clear empties the queue and returns how many tracks were dropped
func (q *Queue) Clear() int {
	n := len(q.tracks)
	q.tracks = nil
	return n
}

func (q *Queue) Len() int {
	return len(q.tracks)
}

// Tracks returns a copy of the queued tracks
func (q *Queue) Tracks() []Track {
	out := make([]Track, len(q.tracks))
	copy(out, q.tracks)
	return out
}

// Duration returns the total length of non-stream tracks
func (q *Queue) Duration() time.Duration {
	var total time.Duration
	for _, t := range q.tracks {
		if !t.IsStream {
			total += t.Length
		}
	}
	return total
}
