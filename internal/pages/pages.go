// Package pages holds the per-view controllers that sit between the
// front-end and the API client: they own filter state, run validations, drive
// the shared list controller, and translate failures into notifications.
package pages

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/retailpos/backoffice/internal/api"
	"github.com/retailpos/backoffice/internal/domain"
	"github.com/retailpos/backoffice/internal/toast"
)

// Navigator moves the front-end between views. Satisfied by nav.Router.
type Navigator interface {
	Navigate(ctx context.Context, name string) string
}

// Saver persists downloaded blobs. Satisfied by download.Saver.
type Saver interface {
	Save(name string, data []byte) (string, error)
}

// SessionSource yields the current session for role checks.
// Satisfied by session.Manager.
type SessionSource interface {
	Current() *domain.Session
}

// notifyAPIError surfaces the server's message when one exists, otherwise a
// generic message naming the failed action.
func notifyAPIError(toasts *toast.Queue, log zerolog.Logger, err error, action string) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		toasts.ShowError(apiErr.UserMessage(fmt.Sprintf("An error occurred while %s. Status: %d", action, apiErr.StatusCode)))
		return
	}
	log.Error().Err(err).Str("action", action).Msg("pages: request failed")
	toasts.ShowError(fmt.Sprintf("An unexpected error occurred while %s.", action))
}
