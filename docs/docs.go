// Package docs holds the OpenAPI document served at /swagger. It follows the
// layout of swag's generated docs.go; keep it in step with the handler
// annotations by hand or regenerate it with swag init.
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
        "/dashboard/invoices": {
            "get": {
                "produces": ["application/json"],
                "tags": ["invoices"],
                "summary": "List invoices",
                "parameters": [
                    {"type": "string", "description": "Matches customer name, email, amount, date or status", "name": "query", "in": "query"},
                    {"type": "integer", "description": "1-based page number", "name": "page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.invoiceListResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["invoices"],
                "summary": "Create an invoice",
                "parameters": [
                    {"type": "string", "description": "Customer id", "name": "customerId", "in": "formData", "required": true},
                    {"type": "string", "description": "Amount in major units", "name": "amount", "in": "formData", "required": true},
                    {"type": "string", "description": "pending or paid", "name": "status", "in": "formData", "required": true}
                ],
                "responses": {
                    "303": {"description": "See Other"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.stateResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.stateResponse"}}
                }
            }
        },
        "/dashboard/invoices/create": {
            "get": {
                "produces": ["application/json"],
                "tags": ["invoices"],
                "summary": "Data for the create invoice form",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.invoiceFormResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/dashboard/invoices/{id}": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["invoices"],
                "summary": "Update an invoice",
                "parameters": [
                    {"type": "string", "description": "Invoice id", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Customer id", "name": "customerId", "in": "formData", "required": true},
                    {"type": "string", "description": "Amount in major units", "name": "amount", "in": "formData", "required": true},
                    {"type": "string", "description": "pending or paid", "name": "status", "in": "formData", "required": true}
                ],
                "responses": {
                    "303": {"description": "See Other"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.stateResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.stateResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["invoices"],
                "summary": "Delete an invoice",
                "parameters": [
                    {"type": "string", "description": "Invoice id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.stateResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.stateResponse"}}
                }
            }
        },
        "/dashboard/invoices/{id}/edit": {
            "get": {
                "produces": ["application/json"],
                "tags": ["invoices"],
                "summary": "Data for the edit invoice form",
                "parameters": [
                    {"type": "string", "description": "Invoice id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.invoiceFormResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/login": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login page",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.loginPageResponse"}},
                    "303": {"description": "See Other"}
                }
            },
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"type": "string", "description": "Account email", "name": "email", "in": "formData", "required": true},
                    {"type": "string", "description": "Account password", "name": "password", "in": "formData", "required": true},
                    {"type": "string", "description": "Local path to continue to", "name": "redirectTo", "in": "formData"}
                ],
                "responses": {
                    "303": {"description": "See Other"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.loginResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {
                    "303": {"description": "See Other"}
                }
            }
        }
    },
    "definitions": {
        "handler.customerResponse": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "id": {"type": "string"},
                "image_url": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "handler.invoiceDetailResponse": {
            "type": "object",
            "properties": {
                "amount": {"type": "string"},
                "customer_id": {"type": "string"},
                "date": {"type": "string"},
                "id": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "handler.invoiceFormResponse": {
            "type": "object",
            "properties": {
                "customers": {"type": "array", "items": {"$ref": "#/definitions/handler.customerResponse"}},
                "invoice": {"$ref": "#/definitions/handler.invoiceDetailResponse"}
            }
        },
        "handler.invoiceListItemResponse": {
            "type": "object",
            "properties": {
                "amount": {"type": "string"},
                "customer_id": {"type": "string"},
                "date": {"type": "string"},
                "email": {"type": "string"},
                "id": {"type": "string"},
                "image_url": {"type": "string"},
                "name": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "handler.invoiceListResponse": {
            "type": "object",
            "properties": {
                "invoices": {"type": "array", "items": {"$ref": "#/definitions/handler.invoiceListItemResponse"}},
                "page": {"type": "integer"},
                "query": {"type": "string"},
                "total_pages": {"type": "integer"}
            }
        },
        "handler.loginPageResponse": {
            "type": "object",
            "properties": {
                "providers": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handler.loginResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "handler.stateResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {
                        "message": {"type": "string"}
                    }
                },
                "errors": {
                    "type": "object",
                    "additionalProperties": {"type": "array", "items": {"type": "string"}}
                },
                "message": {"type": "string"}
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
	Title:            "Invoice Dashboard API",
	Description:      "Invoice management and credential sign-in for the billing dashboard.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
