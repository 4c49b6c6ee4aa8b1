package pages

import (
	"errors"
	"fmt"
	"time"

	"github.com/seitenwerk/seitenwerk/internal/styles"
)

// PageDocument is one template-driven page. The ID doubles as the slug and
// the storage key.
type PageDocument struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	TemplateID string          `json:"templateId"`
	Data       map[string]any  `json:"data"`
	Settings   styles.Settings `json:"settings"`
	Created    time.Time       `json:"created"`
	Updated    time.Time       `json:"updated"`
}

// CreateRequest carries the fields needed to create a page; everything else
// is populated from the template's defaults.
type CreateRequest struct {
	ID         string
	Title      string
	TemplateID string
}

// ListOptions is the ordering and limit pass-through for List.
type ListOptions struct {
	OrderBy    string
	Descending bool
	Limit      int
}

var (
	ErrPageIDInvalid = errors.New("pages: page id must be a valid slug")
	ErrTitleRequired = errors.New("pages: title is required")
	ErrPageExists    = errors.New("pages: page already exists")
	ErrPageNotFound  = errors.New("pages: page not found")
)

// NotFoundError carries the missing page id alongside the sentinel.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ErrPageNotFound.Error()
	}
	return fmt.Sprintf("%s: %q", ErrPageNotFound.Error(), e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrPageNotFound
}
