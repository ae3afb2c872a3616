package events

import (
	"log/slog"
	"time"
)

// PublishWithRetry attempts to publish an event with retry logic.
// It makes up to maxRetries attempts with exponential backoff and returns
// the error from the final attempt if all of them fail.
func PublishWithRetry(publisher Publisher, event Event, maxRetries int) error {
	if publisher == nil {
		return nil
	}

	var lastErr error
	baseDelay := 50 * time.Millisecond

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := publisher.SendEvent(event)
		if err == nil {
			if attempt > 0 {
				slog.Debug("event published after retry",
					"attempt", attempt+1,
					"event_type", event.Type,
					"board_id", event.BoardID)
			}
			return nil
		}

		lastErr = err

		if attempt < maxRetries-1 {
			// 50ms, 100ms, 200ms
			delay := baseDelay * (1 << attempt)
			slog.Debug("event publish failed, retrying",
				"attempt", attempt+1,
				"max_retries", maxRetries,
				"retry_delay", delay,
				"error", err)
			time.Sleep(delay)
		}
	}

	// Warn: watchers will miss this change until their next refresh
	slog.Warn("event publish failed after all retries",
		"attempts", maxRetries,
		"event_type", event.Type,
		"board_id", event.BoardID,
		"error", lastErr)

	return lastErr
}
