// Package docs is generated by swaggo/swag from the handler annotations.
// Regenerate with: swag init -g cmd/tally/main.go -o docs
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
        "/api/accounts": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "List connected provider accounts",
                "responses": {
                    "200": {"description": "Accounts", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            },
            "post": {
                "security": [{"Bearer": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Connect a provider account",
                "parameters": [
                    {"description": "Account", "name": "account", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ConnectAccountRequest"}}
                ],
                "responses": {
                    "201": {"description": "Connected", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "409": {"description": "Provider already connected", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/api/accounts/{id}": {
            "delete": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Disconnect a provider account",
                "parameters": [{"type": "string", "description": "Account ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Disconnected", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "404": {"description": "Account not found", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/api/accounts/{id}/subscriptions": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "List an account's subscriptions",
                "parameters": [
                    {"type": "string", "description": "Account ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "default": 1, "description": "Page", "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Page size", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Subscriptions", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "404": {"description": "Account not found", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/api/admin/cache/{userId}/invalidate": {
            "post": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Invalidate a user's cached metrics",
                "parameters": [{"type": "string", "description": "User ID", "name": "userId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Invalidated", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "403": {"description": "Not an admin", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "500": {"description": "Cache unavailable", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/api/dashboard": {
            "get": {
                "security": [{"Bearer": []}],
                "description": "Summary, daily MRR and revenue charts, weekly churn chart and plan distribution",
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Revenue dashboard",
                "parameters": [
                    {"type": "string", "description": "Range start (RFC3339 or YYYY-MM-DD)", "name": "startDate", "in": "query"},
                    {"type": "string", "description": "Range end (RFC3339 or YYYY-MM-DD)", "name": "endDate", "in": "query"},
                    {"type": "string", "default": "30d", "description": "7d, 30d, 90d or 1y", "name": "period", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Dashboard", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "400": {"description": "Invalid range", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "500": {"description": "Metric computation failed", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/api/dashboard/metrics": {
            "get": {
                "security": [{"Bearer": []}],
                "description": "MRR, churn rate, LTV, active users, revenue and refunds; period=all covers all time",
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "All metrics",
                "parameters": [
                    {"type": "string", "description": "Range start", "name": "startDate", "in": "query"},
                    {"type": "string", "description": "Range end", "name": "endDate", "in": "query"},
                    {"type": "string", "default": "30d", "description": "7d, 30d, 90d, 1y or all", "name": "period", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Metrics", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "400": {"description": "Invalid range", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "500": {"description": "Metric computation failed", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/api/dashboard/snapshot": {
            "get": {
                "security": [{"Bearer": []}],
                "description": "The all-time metrics persisted by the snapshot worker",
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Last metrics snapshot",
                "responses": {
                    "200": {"description": "Snapshot", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "404": {"description": "No snapshot captured yet", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Service health",
                "responses": {
                    "200": {"description": "Healthy", "schema": {"type": "object", "additionalProperties": true}},
                    "503": {"description": "A dependency is down", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/webhooks/paypal/{accountId}": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["webhooks"],
                "summary": "PayPal webhook",
                "parameters": [{"type": "string", "description": "Account ID", "name": "accountId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Accepted", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "400": {"description": "Malformed or failed event", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "404": {"description": "Unknown account", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/webhooks/stripe/{accountId}": {
            "post": {
                "description": "Verified with the account's signing secret when one is configured",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["webhooks"],
                "summary": "Stripe webhook",
                "parameters": [
                    {"type": "string", "description": "Account ID", "name": "accountId", "in": "path", "required": true},
                    {"type": "string", "description": "Stripe signature", "name": "Stripe-Signature", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "Accepted", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "400": {"description": "Malformed or failed event", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "401": {"description": "Invalid signature", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "404": {"description": "Unknown account", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.ConnectAccountRequest": {
            "type": "object",
            "required": ["provider", "provider_account_id"],
            "properties": {
                "provider": {"type": "string", "enum": ["stripe", "paypal"]},
                "provider_account_id": {"type": "string", "maxLength": 255},
                "webhook_secret": {"type": "string", "maxLength": 255}
            }
        },
        "utils.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/utils.ErrorInfo"},
                "message": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "utils.ErrorInfo": {
            "type": "object",
            "properties": {
                "details": {"type": "string"},
                "message": {"type": "string"},
                "type": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "Bearer": {
            "description": "Type \"Bearer\" followed by a space and a JWT.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Tally API",
	Description:      "Subscription revenue analytics: MRR, churn, LTV and provider webhooks.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
