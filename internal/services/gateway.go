// Package services implements the client-side operations of the
// tier-list application: tierlist and item lifecycle, user self-service,
// and the active-tierlist reconciler. All network traffic goes through
// the injected Gateway; services add validation, sequencing, and error
// shaping on top.
package services

import "context"

// Gateway is the slice of the API client the services depend on.
type Gateway interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, out any) error
	Delete(ctx context.Context, path string) error
}
