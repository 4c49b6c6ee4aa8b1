package pagescmd

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/seitenwerk/seitenwerk/internal/commands"
	"github.com/seitenwerk/seitenwerk/internal/pages"
	"github.com/seitenwerk/seitenwerk/pkg/interfaces"
)

const savePageMessageType = "siteadmin.pages.save"

// SavePageCommand persists a full page document through the pages service.
type SavePageCommand struct {
	Page *pages.PageDocument `json:"page"`
}

// Type implements command.Message.
func (SavePageCommand) Type() string { return savePageMessageType }

// Validate ensures the command carries a well-formed page before reaching
// the handler.
func (m SavePageCommand) Validate() error {
	errs := validation.Errors{}
	if m.Page == nil {
		errs["page"] = validation.NewError("siteadmin.pages.save.page_required", "page is required")
		return errs
	}
	if strings.TrimSpace(m.Page.ID) == "" {
		errs["id"] = validation.NewError("siteadmin.pages.save.id_required", "page id is required")
	}
	if strings.TrimSpace(m.Page.TemplateID) == "" {
		errs["template_id"] = validation.NewError("siteadmin.pages.save.template_required", "template id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SavePageHandler saves pages via the page service using the shared handler
// foundation.
type SavePageHandler struct {
	inner *commands.Handler[SavePageCommand]
}

func NewSavePageHandler(service pages.Service, logger interfaces.Logger, opts ...commands.HandlerOption[SavePageCommand]) *SavePageHandler {
	exec := func(ctx context.Context, msg SavePageCommand) error {
		_, err := service.Save(ctx, msg.Page)
		return err
	}

	handlerOpts := []commands.HandlerOption[SavePageCommand]{
		commands.WithLogger[SavePageCommand](logger),
		commands.WithOperation[SavePageCommand]("pages.save"),
		commands.WithMessageFields(func(msg SavePageCommand) map[string]any {
			fields := map[string]any{}
			if msg.Page != nil {
				fields["page"] = msg.Page.ID
				fields["template"] = msg.Page.TemplateID
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SavePageHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute implements command.Commander[SavePageCommand].
func (h *SavePageHandler) Execute(ctx context.Context, msg SavePageCommand) error {
	return h.inner.Execute(ctx, msg)
}
