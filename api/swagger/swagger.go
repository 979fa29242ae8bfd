package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Academic Outcomes API",
        "description": "Registered, failed and dropped-out student counts for administrators and teachers",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Dashboard", "description": "Academic outcome summary scoped by role"},
        {"name": "Operations", "description": "Probes and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Operations"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["Operations"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": ["Operations"],
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "Metrics exposition"}
                }
            }
        },
        "/api/v1/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Academic outcome summary",
                "description": "Administrators see the whole institution. Teachers see only their own groups; their dropped_out counts withdrawn enrollments rather than inactive students.",
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "responses": {
                    "200": {
                        "description": "Summary",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/ResponseEnvelope"},
                                {"properties": {"data": {"$ref": "#/definitions/DashboardResponse"}}}
                            ]
                        }
                    },
                    "400": {"description": "Role cannot be scoped", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Role not allowed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "A record read failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/dashboard/export": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Download the academic outcome summary",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "required": true, "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Rendered file", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "DashboardResponse": {
            "type": "object",
            "properties": {
                "scope": {"type": "string", "enum": ["global", "teacher"]},
                "dropout_basis": {"type": "string", "enum": ["institution", "course"]},
                "registered": {"type": "integer", "minimum": 0},
                "failed": {"type": "integer", "minimum": 0},
                "dropped_out": {"type": "integer", "minimum": 0},
                "common_dropout_reason": {"type": "string", "x-nullable": true}
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
