package notify

import (
	"context"
	"errors"

	"github.com/notexe/personal-hub/internal/reminder"
)

// Fanout sends to every backend and joins their errors.
type Fanout []Backend

func (f Fanout) Send(ctx context.Context, n reminder.Notification) error {
	var errs []error
	for _, b := range f {
		if err := b.Send(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
