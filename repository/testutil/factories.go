package testutil

import (
	"time"

	"warden/domain/entities"
)

// CreateTestCase returns an unsaved case with the given number and action
func CreateTestCase(number int64, action entities.CaseAction, targetID, moderatorID int64) *entities.ModCase {
	return &entities.ModCase{
		CaseNumber:  number,
		Action:      action,
		TargetID:    targetID,
		ModeratorID: moderatorID,
		Reason:      entities.DefaultCaseReason,
	}
}

// CreateTestReminder returns an unsaved reminder firing after delay
func CreateTestReminder(userID int64, message string, delay time.Duration) *entities.Reminder {
	return &entities.Reminder{
		UserID:    userID,
		ChannelID: 900,
		Message:   message,
		RemindAt:  time.Now().UTC().Add(delay),
	}
}
