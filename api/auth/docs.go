// Package auth holds the Swagger document served at /swagger/.
// Regenerate with: swag init -g internal/auth/http/router.go -o api/auth
package auth

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "AussieBroadWAN Team",
            "url": "https://github.com/aussiebroadwan/keycard"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/livez": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness Check Endpoint",
                "responses": {
                    "200": {"description": "status, uptime, version", "schema": {"$ref": "#/definitions/authsdk.HealthResponse"}}
                }
            }
        },
        "/readyz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness Check Endpoint",
                "responses": {
                    "200": {"description": "status, uptime, version, checks", "schema": {"$ref": "#/definitions/authsdk.HealthResponse"}},
                    "503": {"description": "service not ready", "schema": {"$ref": "#/definitions/authsdk.HealthResponse"}}
                }
            }
        },
        "/v1/login": {
            "post": {
                "description": "Verifies a username (or email) and password and issues an access token plus a refresh token. A rejected login is still HTTP 200 with statusCode 0.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Credentials"],
                "summary": "Login",
                "parameters": [
                    {"description": "Credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authsdk.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "statusCode 1 on success, 0 on failure", "schema": {"$ref": "#/definitions/authsdk.LoginResponse"}},
                    "400": {"description": "malformed body", "schema": {"$ref": "#/definitions/authsdk.APIError"}},
                    "503": {"description": "store unavailable", "schema": {"$ref": "#/definitions/authsdk.APIError"}}
                }
            }
        },
        "/v1/refresh": {
            "post": {
                "description": "Exchanges an access token (expired is fine) and the current refresh token for a new pair. Every rejection is the same invalid_request error.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Credentials"],
                "summary": "Refresh",
                "parameters": [
                    {"description": "Current token pair", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authsdk.RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "accessToken, refreshToken", "schema": {"$ref": "#/definitions/authsdk.RefreshResponse"}},
                    "400": {"description": "Invalid client request", "schema": {"$ref": "#/definitions/authsdk.APIError"}},
                    "503": {"description": "store unavailable", "schema": {"$ref": "#/definitions/authsdk.APIError"}}
                }
            }
        },
        "/v1/revoke": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Credentials"],
                "summary": "Revoke",
                "responses": {
                    "200": {"description": "true", "schema": {"type": "boolean"}},
                    "401": {"description": "missing or invalid access token", "schema": {"$ref": "#/definitions/authsdk.APIError"}},
                    "503": {"description": "store unavailable", "schema": {"$ref": "#/definitions/authsdk.APIError"}}
                }
            }
        },
        "/v1/registration": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Accounts"],
                "summary": "Register user",
                "parameters": [
                    {"description": "New account", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authsdk.RegistrationRequest"}}
                ],
                "responses": {
                    "200": {"description": "statusCode 1 on success, 0 on failure", "schema": {"$ref": "#/definitions/authsdk.Status"}},
                    "400": {"description": "malformed body", "schema": {"$ref": "#/definitions/authsdk.APIError"}}
                }
            }
        },
        "/v1/registration/admin": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Anonymous callers are accepted only while no Admin exists.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Accounts"],
                "summary": "Register admin",
                "parameters": [
                    {"description": "New account", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authsdk.RegistrationRequest"}}
                ],
                "responses": {
                    "200": {"description": "statusCode 1 on success, 0 on failure", "schema": {"$ref": "#/definitions/authsdk.Status"}},
                    "401": {"description": "invalid access token", "schema": {"$ref": "#/definitions/authsdk.APIError"}},
                    "403": {"description": "caller is not an admin", "schema": {"$ref": "#/definitions/authsdk.APIError"}}
                }
            }
        },
        "/v1/password": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Accounts"],
                "summary": "Change password",
                "parameters": [
                    {"description": "Username, current and new password", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authsdk.ChangePasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "statusCode 1 on success, 0 on failure", "schema": {"$ref": "#/definitions/authsdk.Status"}}
                }
            }
        },
        "/v1/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Accounts"],
                "summary": "Current principal",
                "responses": {
                    "200": {"description": "username, name, roles, expiresAt", "schema": {"$ref": "#/definitions/authsdk.MeResponse"}},
                    "401": {"description": "missing or invalid access token, or account no longer exists", "schema": {"$ref": "#/definitions/authsdk.APIError"}},
                    "503": {"description": "credential store unavailable", "schema": {"$ref": "#/definitions/authsdk.APIError"}}
                }
            }
        },
        "/v1/admin/data": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Accounts"],
                "summary": "Admin probe",
                "responses": {
                    "200": {"description": "Data from admin controller", "schema": {"type": "string"}},
                    "403": {"description": "caller is not an admin", "schema": {"$ref": "#/definitions/authsdk.APIError"}}
                }
            }
        }
    },
    "definitions": {
        "authsdk.APIError": {
            "type": "object",
            "properties": {"error": {"type": "string"}, "error_description": {"type": "string"}}
        },
        "authsdk.LoginRequest": {
            "type": "object",
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}}
        },
        "authsdk.LoginResponse": {
            "type": "object",
            "properties": {
                "statusCode": {"type": "integer"},
                "message": {"type": "string"},
                "name": {"type": "string"},
                "username": {"type": "string"},
                "token": {"type": "string"},
                "refreshToken": {"type": "string"},
                "expiration": {"type": "string", "format": "date-time"}
            }
        },
        "authsdk.RefreshRequest": {
            "type": "object",
            "properties": {"accessToken": {"type": "string"}, "refreshToken": {"type": "string"}}
        },
        "authsdk.RefreshResponse": {
            "type": "object",
            "properties": {"accessToken": {"type": "string"}, "refreshToken": {"type": "string"}}
        },
        "authsdk.RegistrationRequest": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "username": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}
        },
        "authsdk.ChangePasswordRequest": {
            "type": "object",
            "properties": {"username": {"type": "string"}, "currentPassword": {"type": "string"}, "newPassword": {"type": "string"}}
        },
        "authsdk.Status": {
            "type": "object",
            "properties": {"statusCode": {"type": "integer"}, "message": {"type": "string"}}
        },
        "authsdk.MeResponse": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "name": {"type": "string"},
                "roles": {"type": "array", "items": {"type": "string"}},
                "expiresAt": {"type": "string", "format": "date-time"}
            }
        },
        "authsdk.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"},
                "checks": {"$ref": "#/definitions/authsdk.HealthChecks"}
            }
        },
        "authsdk.HealthChecks": {
            "type": "object",
            "properties": {"store": {"type": "string"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT access token. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Keycard Credential Service API",
	Description:      "Login, refresh and revoke for HS256-signed JWT access tokens with rotating opaque refresh tokens.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
