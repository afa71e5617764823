// Package public implements the storefront API: accounts, the segment
// catalog, paid reports and Pix checkout.
package public

import "github.com/mixcampeao/api/internal/provider"

// Handler serves customer-facing endpoints.
type Handler struct {
	*provider.Container
}

// New creates the public handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
