// Package validator enforces the published OpenAPI contract at the edge.
package validator

import (
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/gin-gonic/gin"
)

// OpenAPIValidator validates incoming requests against the API schema.
// Requests for paths the schema does not describe pass through untouched.
type OpenAPIValidator struct {
	doc        *openapi3.T
	router     routers.Router
	schemaPath string
	mutex      sync.RWMutex
}

// NewOpenAPIValidator loads and validates the schema at the given path.
func NewOpenAPIValidator(schemaPath string) (*OpenAPIValidator, error) {
	doc, router, err := loadSchema(schemaPath)
	if err != nil {
		return nil, err
	}

	return &OpenAPIValidator{
		doc:        doc,
		router:     router,
		schemaPath: schemaPath,
	}, nil
}

func loadSchema(path string) (*openapi3.T, routers.Router, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load OpenAPI schema from %s: %w", path, err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, nil, fmt.Errorf("invalid OpenAPI schema: %w", err)
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating OpenAPI router: %w", err)
	}
	return doc, router, nil
}

// ReloadSchema re-reads the schema from disk, replacing the live copy
// atomically.
func (v *OpenAPIValidator) ReloadSchema() error {
	doc, router, err := loadSchema(v.schemaPath)
	if err != nil {
		return err
	}

	v.mutex.Lock()
	defer v.mutex.Unlock()
	v.doc = doc
	v.router = router
	return nil
}

// Middleware validates the request body and parameters against the
// schema. A missing schema file disables validation so local runs work
// without one.
func (v *OpenAPIValidator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := os.Stat(v.schemaPath); os.IsNotExist(err) {
			c.Next()
			return
		}

		v.mutex.RLock()
		route, pathParams, err := v.router.FindRoute(c.Request)
		v.mutex.RUnlock()
		if err != nil {
			c.Next()
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    c.Request,
			PathParams: pathParams,
			Route:      route,
			Options: &openapi3filter.Options{
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			},
		}

		if err := openapi3filter.ValidateRequest(c.Request.Context(), input); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Invalid request: %v", err),
			})
			return
		}

		c.Next()
	}
}
