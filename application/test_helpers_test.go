package application_test

import (
	"context"
	"errors"
	"sync"

	"warden/application"
	"warden/database"
	"warden/domain/entities"
	"warden/events"
	"warden/repository"
)

// testUnitOfWorkFactory hands out real units of work whose events land in a recorder
type testUnitOfWorkFactory struct {
	db       *database.DB
	recorder events.Publisher
}

func (f *testUnitOfWorkFactory) CreateForGuild(guildID int64) application.UnitOfWork {
	return repository.CreateTestUnitOfWork(f.db, guildID, events.NewTransactionalPublisher(f.recorder))
}

type postedCase struct {
	channelID int64
	messageID int64
	modCase   entities.ModCase
}

type fakeModLogPoster struct {
	mu     sync.Mutex
	nextID int64
	posts  []postedCase
	edits  []postedCase
	err    error
}

func (p *fakeModLogPoster) PostCase(_ context.Context, channelID int64, modCase *entities.ModCase) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return 0, p.err
	}
	p.nextID++
	id := 5000 + p.nextID
	p.posts = append(p.posts, postedCase{channelID: channelID, messageID: id, modCase: *modCase})
	return id, nil
}

func (p *fakeModLogPoster) EditCase(_ context.Context, channelID, messageID int64, modCase *entities.ModCase) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.edits = append(p.edits, postedCase{channelID: channelID, messageID: messageID, modCase: *modCase})
	return nil
}

type fakeReminderSender struct {
	mu      sync.Mutex
	sent    []*entities.Reminder
	failFor map[int64]bool
}

func (s *fakeReminderSender) SendReminder(_ context.Context, reminder *entities.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFor[reminder.UserID] {
		return errors.New("cannot send messages to this channel")
	}
	s.sent = append(s.sent, reminder)
	return nil
}
