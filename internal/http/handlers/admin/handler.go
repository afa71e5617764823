// Package admin implements the back-office API: segment and catalog
// management plus the spreadsheet importer.
package admin

import "github.com/mixcampeao/api/internal/provider"

// Handler serves the back-office endpoints.
type Handler struct {
	*provider.Container
}

// New creates the admin handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
