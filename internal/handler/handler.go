package handler

import (
	"inbox-service/internal/store"
	"inbox-service/pkg/config"
)

// Listing limits, matching the shape of the API this service fronts for.
const (
	emailListLimit  = 50
	adminListLimit  = 500
	adminEmailLimit = 100
	tenantListLimit = 200
)

// Handler carries the injected collaborators every endpoint needs. The
// store handle is constructed at startup and passed in; handlers never
// reach for a global connection.
type Handler struct {
	store   *store.Store
	secrets config.SecretsConfig
}

// New constructs the handler set.
func New(st *store.Store, secrets config.SecretsConfig) *Handler {
	return &Handler{store: st, secrets: secrets}
}
