package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Label Admin API",
        "description": "Record label administration backend: catalog, sales, artist contracts and merchandising",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login, registration and token lifecycle"},
        {"name": "Albums", "description": "Album catalog"},
        {"name": "Artists", "description": "Artist roster"},
        {"name": "Songs", "description": "Song catalog"},
        {"name": "Sales", "description": "Sales ledger"},
        {"name": "Users", "description": "Dashboard user management"},
        {"name": "Acquisitions", "description": "Artist contract purchases and sales"},
        {"name": "Merchandising", "description": "Merch items, statistics and spreadsheet exchange"},
        {"name": "Attachments", "description": "Covers, photos and contract documents"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a viewer account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Email already used"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Rotate refresh token",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Expired or revoked"}
                }
            }
        },
        "/albums": {
            "get": {
                "tags": ["Albums"],
                "summary": "List albums",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "genre", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Albums"],
                "summary": "Create album",
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/albums/{id}": {
            "get": {
                "tags": ["Albums"],
                "summary": "Album detail",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "put": {
                "tags": ["Albums"],
                "summary": "Update album",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Albums"],
                "summary": "Deactivate album",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No content"}}
            }
        },
        "/albums/{id}/restore": {
            "post": {
                "tags": ["Albums"],
                "summary": "Restore a deactivated album",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/albums/export": {
            "get": {
                "tags": ["Albums"],
                "summary": "Export filtered albums",
                "parameters": [{"name": "format", "in": "query", "type": "string", "enum": ["csv", "xlsx", "pdf"]}],
                "responses": {"200": {"description": "File download"}}
            }
        },
        "/acquisitions/{id}/sell": {
            "post": {
                "tags": ["Acquisitions"],
                "summary": "Sell an acquired contract",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Already sold"}
                }
            }
        },
        "/acquisitions/{id}/merch/stats": {
            "get": {
                "tags": ["Merchandising"],
                "summary": "Merchandising statistics",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/MerchStats"}}}
            }
        },
        "/acquisitions/{id}/merch/import": {
            "post": {
                "tags": ["Merchandising"],
                "summary": "Import merch items from a spreadsheet",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {"200": {"description": "Import report with per-row errors"}}
            }
        },
        "/attachments": {
            "post": {
                "tags": ["Attachments"],
                "summary": "Upload an attachment",
                "consumes": ["multipart/form-data"],
                "parameters": [{"name": "file", "in": "formData", "required": true, "type": "file"}],
                "responses": {
                    "201": {"description": "Created"},
                    "413": {"description": "File too large"},
                    "415": {"description": "MIME type not allowed"}
                }
            }
        },
        "/attachments/{id}/download": {
            "get": {
                "tags": ["Attachments"],
                "summary": "Download a file via signed token",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "403": {"description": "Invalid or expired token"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "RegisterRequest": {
            "type": "object",
            "required": ["name", "email", "password"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6}
            }
        },
        "MerchStats": {
            "type": "object",
            "properties": {
                "acquisition_id": {"type": "string"},
                "item_count": {"type": "integer"},
                "total_units_sold": {"type": "integer"},
                "total_revenue": {"type": "number"},
                "avg_revenue": {"type": "number"},
                "best_seller": {"type": "object"},
                "chart": {"type": "object"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
