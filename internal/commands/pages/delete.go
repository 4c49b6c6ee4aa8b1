package pagescmd

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/seitenwerk/seitenwerk/internal/commands"
	"github.com/seitenwerk/seitenwerk/internal/pages"
	"github.com/seitenwerk/seitenwerk/pkg/interfaces"
)

const deletePageMessageType = "siteadmin.pages.delete"

// DeletePageCommand removes a page by slug. Deleting an absent page is not
// an error; the service keeps deletion idempotent.
type DeletePageCommand struct {
	PageID string `json:"page_id"`
}

// Type implements command.Message.
func (DeletePageCommand) Type() string { return deletePageMessageType }

func (m DeletePageCommand) Validate() error {
	if strings.TrimSpace(m.PageID) == "" {
		return validation.Errors{
			"page_id": validation.NewError("siteadmin.pages.delete.id_required", "page id is required"),
		}
	}
	return nil
}

type DeletePageHandler struct {
	inner *commands.Handler[DeletePageCommand]
}

func NewDeletePageHandler(service pages.Service, logger interfaces.Logger, opts ...commands.HandlerOption[DeletePageCommand]) *DeletePageHandler {
	exec := func(ctx context.Context, msg DeletePageCommand) error {
		return service.Delete(ctx, msg.PageID)
	}

	handlerOpts := []commands.HandlerOption[DeletePageCommand]{
		commands.WithLogger[DeletePageCommand](logger),
		commands.WithOperation[DeletePageCommand]("pages.delete"),
		commands.WithMessageFields(func(msg DeletePageCommand) map[string]any {
			return map[string]any{"page": msg.PageID}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &DeletePageHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute implements command.Commander[DeletePageCommand].
func (h *DeletePageHandler) Execute(ctx context.Context, msg DeletePageCommand) error {
	return h.inner.Execute(ctx, msg)
}
