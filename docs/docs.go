// Package docs is generated by swag from the handler annotations.
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
        "/api/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Sign in",
                "parameters": [
                    {"in": "body", "name": "login", "required": true, "schema": {"$ref": "#/definitions/models.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ActionResult"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/models.ActionResult"}}
                }
            }
        },
        "/api/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Sign up",
                "parameters": [
                    {"in": "body", "name": "register", "required": true, "schema": {"$ref": "#/definitions/models.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/models.ActionResult"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/models.ActionResult"}}
                }
            }
        },
        "/api/logout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Sign out",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ActionResult"}}}
            }
        },
        "/api/me": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Current profile",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/api/admin/tasks": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Tasks"],
                "summary": "Task list",
                "parameters": [
                    {"type": "string", "description": "all|0|1|2", "name": "day", "in": "query"},
                    {"type": "string", "description": "all|0|1|2", "name": "status", "in": "query"},
                    {"type": "string", "name": "itemId", "in": "query"},
                    {"type": "string", "name": "leaderUserId", "in": "query"},
                    {"type": "string", "name": "fromLocationId", "in": "query"},
                    {"type": "string", "name": "toLocationId", "in": "query"},
                    {"type": "string", "description": "status|itemAndQuantity|scheduledStartTime", "name": "sortKey", "in": "query"},
                    {"type": "string", "description": "asc|desc", "name": "sortDirection", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Tasks"],
                "summary": "Create task",
                "parameters": [
                    {"in": "body", "name": "task", "required": true, "schema": {"$ref": "#/definitions/models.TaskInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.ActionResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ActionResult"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/models.ActionResult"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ActionResult"}}
                }
            }
        },
        "/api/admin/tasks/form": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Tasks"],
                "summary": "Task form",
                "parameters": [
                    {"type": "string", "description": "create|edit", "name": "mode", "in": "query"},
                    {"type": "string", "name": "taskId", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/admin/tasks/export.pdf": {
            "get": {
                "produces": ["application/pdf"],
                "tags": ["Tasks"],
                "summary": "Run sheet",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/admin/tasks/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Tasks"],
                "summary": "Task by id",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Tasks"],
                "summary": "Update task",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "task", "required": true, "schema": {"$ref": "#/definitions/models.TaskInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ActionResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ActionResult"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/models.ActionResult"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["Tasks"],
                "summary": "Delete task",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ActionResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ActionResult"}}
                }
            }
        }
    },
    "definitions": {
        "models.ActionResult": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"},
                "message": {"type": "string"},
                "fieldErrors": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}}
            }
        },
        "models.LoginRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "models.RegisterRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "confirmPassword": {"type": "string"}
            }
        },
        "models.TaskInput": {
            "type": "object",
            "properties": {
                "eventDayType": {"type": "integer"},
                "currentStatus": {"type": "integer"},
                "leaderUserId": {"type": "string"},
                "fromLocationId": {"type": "string"},
                "toLocationId": {"type": "string"},
                "itemId": {"type": "string"},
                "quantity": {"type": "integer"},
                "scheduledStartTime": {"type": "string"},
                "scheduledEndTime": {"type": "string"},
                "note": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Goods Go API",
	Description:      "Festival goods logistics: task board, sessions and run sheets.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
