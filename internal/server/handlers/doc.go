// Package handlers contains the HTTP handlers of the landing page service.
//
// This package provides handlers for:
//   - The landing page document on the site listener
//   - Health, readiness and version endpoints (monitoring)
//   - Read-only content inspection endpoints on the admin listener
//   - Shared response helper functions
//
// All handlers report failures through the foundation/errors HTTP adapter and
// shape JSON bodies with the server/responses package.
package handlers
