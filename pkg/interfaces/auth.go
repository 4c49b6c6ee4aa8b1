package interfaces

import "context"

// AuthProvider is the opaque identity collaborator. The admin surface only
// needs the current operator and a permission gate; session handling stays
// inside the implementation.
type AuthProvider interface {
	CurrentUserID(ctx context.Context) (string, error)
	HasPermission(ctx context.Context, permission string) (bool, error)
}
