package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mockRetryPublisher struct {
	sendAttempts int
	failUntil    int // Fail until this attempt number (0-indexed)
	lastEvent    Event
}

func (m *mockRetryPublisher) SendEvent(event Event) error {
	m.lastEvent = event
	currentAttempt := m.sendAttempts
	m.sendAttempts++

	if currentAttempt < m.failUntil {
		return errors.New("simulated send failure")
	}
	return nil
}

func TestPublishWithRetry_Success(t *testing.T) {
	mock := &mockRetryPublisher{}
	event := Event{Type: EventBoardChanged, BoardID: 1, Kind: ChangeCards}

	err := PublishWithRetry(mock, event, 3)

	assert.NoError(t, err)
	assert.Equal(t, 1, mock.sendAttempts)
	assert.Equal(t, event, mock.lastEvent)
}

func TestPublishWithRetry_SuccessAfterRetries(t *testing.T) {
	mock := &mockRetryPublisher{failUntil: 2}

	err := PublishWithRetry(mock, Event{Type: EventBoardChanged, BoardID: 2}, 3)

	assert.NoError(t, err)
	assert.Equal(t, 3, mock.sendAttempts)
}

func TestPublishWithRetry_FailureAfterAllRetries(t *testing.T) {
	mock := &mockRetryPublisher{failUntil: 999}

	err := PublishWithRetry(mock, Event{Type: EventBoardChanged, BoardID: 3}, 3)

	assert.Error(t, err)
	assert.Equal(t, 3, mock.sendAttempts)
}

func TestPublishWithRetry_NilPublisher(t *testing.T) {
	assert.NoError(t, PublishWithRetry(nil, Event{Type: EventBoardChanged}, 3))
}
