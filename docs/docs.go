// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with `swag init -g cmd/main.go` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {"tags": ["system"], "summary": "Health check", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/auth/sign-up": {
            "post": {"tags": ["auth"], "summary": "Sign up", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "input", "required": true, "schema": {"$ref": "#/definitions/credentials"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/auth/sign-in": {
            "post": {"tags": ["auth"], "summary": "Sign in", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "input", "required": true, "schema": {"$ref": "#/definitions/credentials"}}],
                "responses": {"200": {"description": "token, role"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "500": {"description": "Internal Server Error"}}}
        },
        "/ingest/readings": {
            "post": {"tags": ["ingest"], "summary": "Ingest a sensor reading", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"in": "header", "name": "X-Device-Key", "type": "string"},
                    {"in": "body", "name": "reading", "required": true, "schema": {"type": "object", "additionalProperties": {"type": "number"}}}
                ],
                "responses": {"202": {"description": "Accepted"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "429": {"description": "Too Many Requests"}}}
        },
        "/api/v1/readings/latest": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["readings"], "summary": "Latest reading", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/v1/alerts": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["alerts"], "summary": "Grouped alerts", "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "show_suspicious", "type": "boolean"},
                    {"in": "query", "name": "limit", "type": "integer"}
                ],
                "responses": {"200": {"description": "count, alerts"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["alerts"], "summary": "Clear alert log (admin)", "produces": ["application/json"],
                "responses": {"200": {"description": "removed"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}}
        },
        "/api/v1/alerts/log": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["alerts"], "summary": "Alert log", "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "from", "type": "string"},
                    {"in": "query", "name": "to", "type": "string"},
                    {"in": "query", "name": "type", "type": "string", "enum": ["tempAgua", "tempAire", "humedadAire", "ph", "rssi"]}
                ],
                "responses": {"200": {"description": "count, alerts"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/v1/thresholds": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["thresholds"], "summary": "Effective thresholds", "produces": ["application/json"],
                "responses": {"200": {"description": "thresholds, settings"}, "401": {"description": "Unauthorized"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["thresholds"], "summary": "Save threshold overrides (premium, admin)",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "input", "required": true, "schema": {"$ref": "#/definitions/thresholdSettings"}}],
                "responses": {"200": {"description": "thresholds, settings"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}}}
        }
    },
    "definitions": {
        "credentials": {
            "type": "object", "required": ["username", "password"],
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}}
        },
        "thresholdOverride": {
            "type": "object",
            "properties": {"enabled": {"type": "boolean"}, "min": {"type": "number"}, "max": {"type": "number"}}
        },
        "thresholdSettings": {
            "type": "object",
            "properties": {
                "waterTemp": {"$ref": "#/definitions/thresholdOverride"},
                "airTemp": {"$ref": "#/definitions/thresholdOverride"},
                "humidity": {"$ref": "#/definitions/thresholdOverride"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Pool Monitor API",
	Description:      "Pool sensor telemetry, alert detection and deduplication.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
