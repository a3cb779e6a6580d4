// Package docs holds the swagger document served when built with
// -tags=swagger. Regenerate with `swag init -g cmd/vaxslots/docs.go`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {"name": "MIT", "url": "https://opensource.org/licenses/MIT"},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/signup": {
            "post": {
                "tags": ["accounts"], "summary": "Register a user",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.SignupRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.InsertResult"}}}
            }
        },
        "/login": {
            "post": {
                "tags": ["accounts"], "summary": "Check user credentials",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.LoginRequest"}}],
                "responses": {"200": {"description": "Success, Failed or Error", "schema": {"type": "string"}}}
            }
        },
        "/getVaccinationCenters": {
            "get": {
                "tags": ["centers"], "summary": "List vaccination centers",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/types.Center"}}}}
            }
        },
        "/addVaccinationCenter": {
            "post": {
                "tags": ["centers"], "summary": "Add a vaccination center",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.CenterRequest"}}],
                "responses": {"200": {"description": "Success or Error", "schema": {"type": "string"}}}
            }
        },
        "/updateVaccinationCenter/{id}": {
            "put": {
                "tags": ["centers"], "summary": "Update a vaccination center's details",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "integer"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.CenterRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ActionResponse"}}}
            }
        },
        "/removeVaccinationCenter": {
            "post": {
                "tags": ["centers"], "summary": "Remove a vaccination center",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.CenterRef"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ActionResponse"}}}
            }
        },
        "/bookVaccinationCenter": {
            "post": {
                "tags": ["centers"], "summary": "Book one slot at a vaccination center",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.CenterRef"}}],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/types.ActionResponse"},
                        "headers": {"X-Booking-Outcome": {"type": "string", "description": "success, no_slots, not_found, invalid or store_error"}}
                    }
                }
            }
        }
    },
    "definitions": {
        "types.Center": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "location": {"type": "string"},
                "dosageDetails": {"type": "string"},
                "timings": {"type": "string"},
                "availableSlots": {"type": "integer"}
            }
        },
        "types.CenterRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "location": {"type": "string"},
                "dosageDetails": {"type": "string"},
                "timings": {"type": "string"}
            }
        },
        "types.CenterRef": {
            "type": "object",
            "properties": {"id": {"type": "integer"}}
        },
        "types.ActionResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}, "error": {"type": "string"}}
        },
        "types.SignupRequest": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}
        },
        "types.LoginRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "types.InsertResult": {
            "type": "object",
            "properties": {"affectedRows": {"type": "integer"}, "insertId": {"type": "integer"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "vaxslots API",
	Description:      "Vaccination center registry with concurrency-safe slot booking and live change notifications.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
