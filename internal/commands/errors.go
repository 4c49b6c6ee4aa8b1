package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to command failures so host status surfaces can route
// them without parsing messages.
const (
	codeValidationFailed = "SITEADMIN_CMD_VALIDATION"
	codeCanceled         = "SITEADMIN_CMD_CANCELED"
	codeTimeout          = "SITEADMIN_CMD_TIMEOUT"
	codeContextError     = "SITEADMIN_CMD_CONTEXT"
	codeExecuteFailed    = "SITEADMIN_CMD_FAILED"
)

// Wrapping is idempotent: an error already tagged by a nested handler keeps
// its original category and code.

func wrapValidationError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command message rejected").
		WithTextCode(codeValidationFailed)
}

func wrapContextError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command canceled").
			WithTextCode(codeCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command timed out").
			WithTextCode(codeTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command context failed").
			WithTextCode(codeContextError)
	}
}

func wrapExecuteError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command failed").
		WithTextCode(codeExecuteFailed)
}
