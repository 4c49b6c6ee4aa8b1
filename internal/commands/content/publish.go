package contentcmd

import (
	"context"

	"github.com/seitenwerk/seitenwerk/internal/commands"
	"github.com/seitenwerk/seitenwerk/internal/maincontent"
	"github.com/seitenwerk/seitenwerk/pkg/interfaces"
)

const publishContentMessageType = "siteadmin.content.publish"

// PublishContentCommand promotes the homepage draft to the live variant.
// It carries no payload; the draft document is the single source.
type PublishContentCommand struct{}

// Type implements command.Message.
func (PublishContentCommand) Type() string { return publishContentMessageType }

func (PublishContentCommand) Validate() error { return nil }

type PublishContentHandler struct {
	inner *commands.Handler[PublishContentCommand]
}

func NewPublishContentHandler(service maincontent.Service, logger interfaces.Logger, opts ...commands.HandlerOption[PublishContentCommand]) *PublishContentHandler {
	exec := func(ctx context.Context, _ PublishContentCommand) error {
		_, err := service.Publish(ctx)
		return err
	}

	handlerOpts := []commands.HandlerOption[PublishContentCommand]{
		commands.WithLogger[PublishContentCommand](logger),
		commands.WithOperation[PublishContentCommand]("content.publish"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &PublishContentHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute implements command.Commander[PublishContentCommand].
func (h *PublishContentHandler) Execute(ctx context.Context, msg PublishContentCommand) error {
	return h.inner.Execute(ctx, msg)
}
