package wordcloudcmd

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/seitenwerk/seitenwerk/internal/commands"
	"github.com/seitenwerk/seitenwerk/internal/wordcloud"
	"github.com/seitenwerk/seitenwerk/pkg/interfaces"
)

const saveWordCloudMessageType = "siteadmin.wordcloud.save"

// SaveWordCloudCommand replaces the homepage word cloud with the given
// entries, order significant.
type SaveWordCloudCommand struct {
	Entries []wordcloud.Entry `json:"entries"`
}

// Type implements command.Message.
func (SaveWordCloudCommand) Type() string { return saveWordCloudMessageType }

// Validate runs each entry's own validation so a malformed entry is
// rejected before the handler runs.
func (m SaveWordCloudCommand) Validate() error {
	errs := validation.Errors{}
	for i, entry := range m.Entries {
		if err := entry.Validate(); err != nil {
			errs[fmt.Sprintf("entries.%d", i)] = err
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SaveWordCloudHandler struct {
	inner *commands.Handler[SaveWordCloudCommand]
}

func NewSaveWordCloudHandler(service wordcloud.Service, logger interfaces.Logger, opts ...commands.HandlerOption[SaveWordCloudCommand]) *SaveWordCloudHandler {
	exec := func(ctx context.Context, msg SaveWordCloudCommand) error {
		_, err := service.Save(ctx, msg.Entries)
		return err
	}

	handlerOpts := []commands.HandlerOption[SaveWordCloudCommand]{
		commands.WithLogger[SaveWordCloudCommand](logger),
		commands.WithOperation[SaveWordCloudCommand]("wordcloud.save"),
		commands.WithMessageFields(func(msg SaveWordCloudCommand) map[string]any {
			return map[string]any{"entries": len(msg.Entries)}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SaveWordCloudHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute implements command.Commander[SaveWordCloudCommand].
func (h *SaveWordCloudHandler) Execute(ctx context.Context, msg SaveWordCloudCommand) error {
	return h.inner.Execute(ctx, msg)
}
