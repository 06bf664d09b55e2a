package router

import (
	"os"
	"path/filepath"

	"coolkid-chat/backend/pkg/validator"
)

// AddOpenAPIValidation enables schema validation of incoming requests
// and serves the schema under /api/docs. A missing schema file only
// logs a warning so the server still runs without one.
func (r *Router) AddOpenAPIValidation(schemaPath string) {
	if _, err := os.Stat(schemaPath); os.IsNotExist(err) {
		r.Logger.Warn("OpenAPI schema file not found, skipping validation", "path", schemaPath)
		return
	}

	v, err := validator.NewOpenAPIValidator(schemaPath)
	if err != nil {
		r.Logger.Error("Failed to initialize OpenAPI validator", "error", err.Error())
		return
	}

	r.Engine.Use(v.Middleware())
	r.Engine.Static("/api/docs", filepath.Dir(schemaPath))
	r.Logger.Info("OpenAPI validation enabled", "schema", schemaPath)
}
