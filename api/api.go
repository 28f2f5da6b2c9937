// Package api embeds the OpenAPI document of the HTTP API and registers it
// with swag so echo-swagger can serve it.
package api

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/swaggo/swag"
)

//go:embed openapi.yml
var document []byte

// BasePath is the prefix every documented path is served under.
const BasePath = "/api/v1"

// Load parses and validates the embedded document.
func Load(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err = doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return doc, nil
}

// JSON renders the validated document as JSON.
func JSON(ctx context.Context) ([]byte, error) {
	doc, err := Load(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

type swaggerDoc struct{ json string }

func (d swaggerDoc) ReadDoc() string { return d.json }

func init() {
	raw, err := JSON(context.Background())
	if err != nil {
		panic(err)
	}
	swag.Register(swag.Name, swaggerDoc{json: string(raw)})
}
