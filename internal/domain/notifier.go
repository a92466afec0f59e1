package domain

import "context"

// Notifier delivers a run summary to one channel. Send must respect ctx so
// a slow endpoint cannot stall the coordinator past its dispatch timeout.
type Notifier interface {
	Name() string
	Send(ctx context.Context, subject, message string) error
}
