package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/seitenwerk/seitenwerk/pkg/interfaces"
)

func TestMapRepositoryErrorConnectionFailures(t *testing.T) {
	for _, cause := range []error{sql.ErrConnDone, driver.ErrBadConn, context.DeadlineExceeded} {
		mapped := mapRepositoryError(fmt.Errorf("select documents: %w", cause), "pages", "about-me")
		if !interfaces.IsUnavailable(mapped) {
			t.Fatalf("%v: expected ErrStoreUnavailable, got %v", cause, mapped)
		}
		if !errors.Is(mapped, cause) {
			t.Fatalf("%v: cause lost in %v", cause, mapped)
		}
	}
}

func TestMapRepositoryErrorKeepsQueryFailures(t *testing.T) {
	cause := errors.New("syntax error")
	mapped := mapRepositoryError(cause, "pages", "about-me")
	if interfaces.IsUnavailable(mapped) {
		t.Fatalf("query failure misreported as unavailable: %v", mapped)
	}
	if !errors.Is(mapped, cause) {
		t.Fatalf("cause lost in %v", mapped)
	}
}
