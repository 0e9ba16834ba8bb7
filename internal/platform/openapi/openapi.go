// Package openapi serves a machine-readable description of the HTTP API at
// /openapi.json, so the demo frontend and API tooling can discover routes.
package openapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Generator builds the OpenAPI 3.0 document.
type Generator struct {
	version string
	baseURL string
}

// NewGenerator creates a generator for the given server base URL.
func NewGenerator(version, baseURL string) *Generator {
	return &Generator{version: version, baseURL: baseURL}
}

func jsonContent(schema map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"application/json": map[string]interface{}{"schema": schema},
	}
}

func ref(name string) map[string]interface{} {
	return map[string]interface{}{"$ref": "#/components/schemas/" + name}
}

func errorResponses(codes ...string) map[string]interface{} {
	out := map[string]interface{}{}
	for _, code := range codes {
		out[code] = map[string]interface{}{
			"description": "Error",
			"content":     jsonContent(ref("ErrorDetail")),
		}
	}
	return out
}

// GenerateSpec produces the OpenAPI document as a map.
func (g *Generator) GenerateSpec() map[string]interface{} {
	paths := map[string]interface{}{}

	keywordParams := []map[string]interface{}{
		{"name": "keyword", "in": "query", "required": true, "schema": map[string]interface{}{"type": "string", "minLength": 2}},
		{"name": "limit", "in": "query", "schema": map[string]interface{}{"type": "integer", "default": 20, "maximum": 100}},
	}

	paths["/api/v1/search"] = map[string]interface{}{
		"post": map[string]interface{}{
			"summary":     "Search ICD-11 codes by free text",
			"requestBody": map[string]interface{}{"required": true, "content": jsonContent(ref("SearchRequest"))},
			"responses": merge(map[string]interface{}{
				"200": map[string]interface{}{"description": "Matching codes", "content": jsonContent(ref("SearchResponse"))},
			}, errorResponses("400", "422")),
		},
	}
	paths["/api/v1/search_icd11"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary":    "Keyword search across ICD-11 and TM2",
			"parameters": keywordParams,
			"responses": merge(map[string]interface{}{
				"200": map[string]interface{}{"description": "Matching codes"},
			}, errorResponses("404", "422")),
		},
	}
	paths["/api/v1/search_namaste"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary":    "Keyword search across NAMASTE codes",
			"parameters": keywordParams,
			"responses": merge(map[string]interface{}{
				"200": map[string]interface{}{"description": "Matching codes"},
			}, errorResponses("404", "422")),
		},
	}
	paths["/api/v1/map_namaste"] = map[string]interface{}{
		"post": map[string]interface{}{
			"summary":     "Map a NAMASTE code to ICD-11",
			"requestBody": map[string]interface{}{"required": true, "content": jsonContent(ref("MappingRequest"))},
			"responses": merge(map[string]interface{}{
				"200": map[string]interface{}{"description": "The mapping"},
			}, errorResponses("404", "422")),
		},
	}
	paths["/api/v1/patients"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary": "List patients",
			"parameters": []map[string]interface{}{
				{"name": "skip", "in": "query", "schema": map[string]interface{}{"type": "integer", "default": 0}},
				{"name": "limit", "in": "query", "schema": map[string]interface{}{"type": "integer", "default": 20, "maximum": 100}},
				{"name": "gender", "in": "query", "schema": map[string]interface{}{"type": "string", "enum": []string{"male", "female", "other", "unknown"}}},
			},
			"responses": map[string]interface{}{
				"200": map[string]interface{}{"description": "Patient page"},
			},
		},
		"post": map[string]interface{}{
			"summary":     "Create a patient",
			"security":    []map[string]interface{}{{"bearerAuth": []string{}}},
			"requestBody": map[string]interface{}{"required": true, "content": jsonContent(ref("PatientCreate"))},
			"responses": merge(map[string]interface{}{
				"201": map[string]interface{}{"description": "Created patient"},
			}, errorResponses("401", "422")),
		},
	}
	paths["/api/v1/patients/{id}"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary":    "Fetch a patient",
			"parameters": idParam(),
			"responses": merge(map[string]interface{}{
				"200": map[string]interface{}{"description": "The patient"},
			}, errorResponses("404")),
		},
		"put": map[string]interface{}{
			"summary":     "Update a patient",
			"security":    []map[string]interface{}{{"bearerAuth": []string{}}},
			"parameters":  idParam(),
			"requestBody": map[string]interface{}{"required": true, "content": jsonContent(ref("PatientUpdate"))},
			"responses": merge(map[string]interface{}{
				"200": map[string]interface{}{"description": "Updated patient"},
			}, errorResponses("401", "404", "422")),
		},
		"delete": map[string]interface{}{
			"summary":    "Delete a patient",
			"security":   []map[string]interface{}{{"bearerAuth": []string{}}},
			"parameters": idParam(),
			"responses": merge(map[string]interface{}{
				"200": map[string]interface{}{"description": "Deleted"},
			}, errorResponses("401", "404")),
		},
	}
	paths["/api/v1/ehr_integration"] = map[string]interface{}{
		"post": map[string]interface{}{
			"summary":     "Store a patient and return its FHIR Bundle",
			"security":    []map[string]interface{}{{"bearerAuth": []string{}}},
			"requestBody": map[string]interface{}{"required": true, "content": jsonContent(ref("PatientCreate"))},
			"responses": merge(map[string]interface{}{
				"201": map[string]interface{}{"description": "Patient plus FHIR rendering"},
			}, errorResponses("401", "422")),
		},
	}
	paths["/api/v1/analytics"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary": "Summary statistics over stored patients",
			"responses": map[string]interface{}{
				"200": map[string]interface{}{"description": "Analytics summary"},
			},
		},
	}
	paths["/auth/login"] = map[string]interface{}{
		"post": map[string]interface{}{
			"summary":     "Obtain an access token",
			"requestBody": map[string]interface{}{"required": true, "content": jsonContent(ref("LoginRequest"))},
			"responses": merge(map[string]interface{}{
				"200": map[string]interface{}{"description": "Token response"},
			}, errorResponses("401")),
		},
	}

	return map[string]interface{}{
		"openapi": "3.0.3",
		"info": map[string]interface{}{
			"title":   "AyushBridge EMR API",
			"version": g.version,
		},
		"servers": []map[string]interface{}{{"url": g.baseURL}},
		"paths":   paths,
		"components": map[string]interface{}{
			"securitySchemes": map[string]interface{}{
				"bearerAuth": map[string]interface{}{"type": "http", "scheme": "bearer", "bearerFormat": "JWT"},
			},
			"schemas": g.schemas(),
		},
	}
}

func idParam() []map[string]interface{} {
	return []map[string]interface{}{
		{"name": "id", "in": "path", "required": true, "schema": map[string]interface{}{"type": "integer"}},
	}
}

func merge(a, b map[string]interface{}) map[string]interface{} {
	for k, v := range b {
		a[k] = v
	}
	return a
}

func (g *Generator) schemas() map[string]interface{} {
	str := map[string]interface{}{"type": "string"}
	return map[string]interface{}{
		"ErrorDetail": map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{"detail": str},
		},
		"SearchRequest": map[string]interface{}{
			"type":     "object",
			"required": []string{"q"},
			"properties": map[string]interface{}{
				"q":      str,
				"module": map[string]interface{}{"type": "string", "enum": []string{"MMS", "TM2"}, "default": "MMS"},
				"limit":  map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 50, "default": 10},
			},
		},
		"SearchResponse": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"source":     str,
				"query_hash": str,
				"count":      map[string]interface{}{"type": "integer"},
				"results": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"code":       str,
							"title":      str,
							"definition": str,
						},
					},
				},
				"cached_at": map[string]interface{}{"type": "string", "format": "date-time"},
			},
		},
		"MappingRequest": map[string]interface{}{
			"type":       "object",
			"required":   []string{"namaste_code"},
			"properties": map[string]interface{}{"namaste_code": str},
		},
		"PatientCreate": map[string]interface{}{
			"type":     "object",
			"required": []string{"name", "age", "gender"},
			"properties": map[string]interface{}{
				"name":         str,
				"age":          map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 130},
				"gender":       map[string]interface{}{"type": "string", "enum": []string{"male", "female", "other", "unknown"}},
				"diagnosis":    str,
				"icd11_code":   str,
				"namaste_code": str,
			},
		},
		"PatientUpdate": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name":         str,
				"age":          map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 130},
				"gender":       map[string]interface{}{"type": "string", "enum": []string{"male", "female", "other", "unknown"}},
				"diagnosis":    str,
				"icd11_code":   str,
				"namaste_code": str,
			},
		},
		"LoginRequest": map[string]interface{}{
			"type":       "object",
			"required":   []string{"username", "password"},
			"properties": map[string]interface{}{"username": str, "password": str},
		},
	}
}

// Handler serves the generated document.
func (g *Generator) Handler() echo.HandlerFunc {
	spec := g.GenerateSpec()
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, spec)
	}
}
