package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "PrintGate API",
        "description": "One-time, secret-gated print authorization service",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Sessions", "description": "Anonymous owner sessions"},
        {"name": "Jobs", "description": "Owner job management"},
        {"name": "Print", "description": "Verification and disclosure for the printing party"}
    ],
    "paths": {
        "/sessions": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Start an anonymous owner session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/jobs": {
            "post": {
                "tags": ["Jobs"],
                "summary": "Create a print job",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "copies", "in": "formData", "type": "integer", "required": true},
                    {"name": "color_mode", "in": "formData", "type": "string", "required": true},
                    {"name": "paper_size", "in": "formData", "type": "string", "required": true},
                    {"name": "orientation", "in": "formData", "type": "string", "required": true},
                    {"name": "file", "in": "formData", "type": "file", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"}
                }
            },
            "get": {
                "tags": ["Jobs"],
                "summary": "List own print jobs",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Jobs"],
                "summary": "Delete own finished jobs and their documents",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/jobs": {
            "get": {
                "tags": ["Jobs"],
                "summary": "Export own job list as CSV",
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/jobs/{id}/receipt": {
            "get": {
                "tags": ["Jobs"],
                "summary": "Download a PDF authorization receipt",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/print/{token}": {
            "get": {
                "tags": ["Print"],
                "summary": "Resolve a capability token into the public job view",
                "parameters": [
                    {"name": "token", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/jobs/{id}/verify": {
            "post": {
                "tags": ["Print"],
                "summary": "Attempt to unlock a job with its one-time secret",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/VerifyRequest"}}
                ],
                "responses": {
                    "200": {"description": "Tagged verification outcome", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "429": {"description": "Rate limited"}
                }
            }
        },
        "/jobs/{id}/render": {
            "post": {
                "tags": ["Print"],
                "summary": "Produce the one-shot printable document for a verified job",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RenderRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Job not authorized for printing"},
                    "404": {"description": "Not found"}
                }
            }
        }
    },
    "definitions": {
        "VerifyRequest": {
            "type": "object",
            "required": ["secret"],
            "properties": {
                "secret": {"type": "string", "example": "482913"}
            }
        },
        "RenderRequest": {
            "type": "object",
            "required": ["file_key", "copies", "color_mode", "paper_size", "orientation"],
            "properties": {
                "file_key": {"type": "string"},
                "copies": {"type": "integer"},
                "color_mode": {"type": "string"},
                "paper_size": {"type": "string"},
                "orientation": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"type": "object"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
