package client

import (
	"context"

	"github.com/mkravets/formflow/internal/engine"
)

// RemoteResolver resolves navigation steps against a formflow server
// instead of a local field list. It satisfies the session Resolver
// interface, so a session can be driven identically in both modes.
type RemoteResolver struct {
	Client  *Client
	FormKey string
}

// NewRemoteResolver binds a client to one form.
func NewRemoteResolver(c *Client, formKey string) *RemoteResolver {
	return &RemoteResolver{Client: c, FormKey: formKey}
}

func (r *RemoteResolver) Resolve(ctx context.Context, currentFieldID string, value any, answers map[string]any) (engine.Resolution, error) {
	return r.Client.ResolveNext(ctx, r.FormKey, currentFieldID, value, answers)
}
