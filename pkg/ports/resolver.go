package ports

import "context"

// Resolved holds direct locations for a media item's streams.
// Audio equals Video unless the item is served as separate streams.
type Resolved struct {
	Video string
	Audio string
	Title string
}

// Resolver turns a user-supplied location into directly playable ones.
type Resolver interface {
	Resolve(ctx context.Context, location string) (Resolved, error)
}
