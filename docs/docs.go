// Package docs registers the Swagger document served under /swagger.
// Keep it in sync with the handler annotations.
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
        "/auth/login": {
            "post": {
                "description": "Authenticate user with username and password",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "User login",
                "parameters": [
                    {"description": "User login credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Login successful - returns JWT token and user data", "schema": {"$ref": "#/definitions/models.LoginResponse"}},
                    "400": {"description": "Bad request - invalid input data", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized - invalid credentials", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "description": "Register a new user with username, display name and password",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {"description": "User registration data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "User created successfully", "schema": {"$ref": "#/definitions/models.UserResponse"}},
                    "400": {"description": "Bad request - invalid input data", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "409": {"description": "Username already exists", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/messages": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Messages the current user sent or received and has not deleted, newest first. Paging metadata is also returned in the Pagination header.",
                "produces": ["application/json"],
                "tags": ["messages"],
                "summary": "List the current user's messages",
                "operationId": "getMessagesForUser",
                "parameters": [
                    {"type": "integer", "default": 1, "description": "1-based page number", "name": "pageNumber", "in": "query"},
                    {"type": "integer", "default": 10, "description": "Page size (max 50)", "name": "pageSize", "in": "query"},
                    {"enum": ["all", "inbox", "outbox"], "type": "string", "description": "all, inbox or outbox", "name": "container", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Page of messages", "schema": {"$ref": "#/definitions/models.PaginatedMessageResponse"}, "headers": {"Pagination": {"type": "string", "description": "JSON paging metadata"}}},
                    "400": {"description": "Invalid query parameters", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized - invalid or missing token", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Send a message from the current user to another user",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["messages"],
                "summary": "Send a direct message",
                "operationId": "createMessage",
                "parameters": [
                    {"description": "Recipient and content", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CreateMessageRequest"}}
                ],
                "responses": {
                    "200": {"description": "Message sent", "schema": {"$ref": "#/definitions/models.MessageResponse"}},
                    "400": {"description": "Invalid request or failed to send", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized - invalid or missing token", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Recipient not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/messages/thread/{username}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Messages between the current user and the given user, oldest first",
                "produces": ["application/json"],
                "tags": ["messages"],
                "summary": "Get the conversation with another user",
                "operationId": "getMessageThread",
                "parameters": [
                    {"type": "string", "description": "Other participant", "name": "username", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Conversation", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.MessageResponse"}}},
                    "401": {"description": "Unauthorized - invalid or missing token", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/messages/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Hides the message from the current user. Once both participants delete it the message is removed.",
                "produces": ["application/json"],
                "tags": ["messages"],
                "summary": "Delete a message for the current user",
                "operationId": "deleteMessage",
                "parameters": [
                    {"type": "integer", "description": "Message ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Message deleted", "schema": {"$ref": "#/definitions/models.StatusResponse"}},
                    "400": {"description": "Invalid message ID or failed to delete", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Not a participant of this message", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/users/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Get the current user's profile information",
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get user profile",
                "responses": {
                    "200": {"description": "User profile", "schema": {"$ref": "#/definitions/models.UserResponse"}},
                    "401": {"description": "Unauthorized - invalid or missing token", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Change the current user's display name. The username cannot change.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Update user profile",
                "parameters": [
                    {"description": "Profile fields to update", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.UpdateUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated profile", "schema": {"$ref": "#/definitions/models.UserResponse"}},
                    "400": {"description": "Bad request - invalid input data", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized - invalid or missing token", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.CreateMessageRequest": {
            "type": "object",
            "required": ["content", "recipientUsername"],
            "properties": {
                "content": {"type": "string", "maxLength": 4000},
                "recipientUsername": {"type": "string", "maxLength": 64}
            }
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "details": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "models.LoginRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "models.LoginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/models.UserResponse"}
            }
        },
        "models.MessageResponse": {
            "type": "object",
            "properties": {
                "content": {"type": "string"},
                "id": {"type": "integer"},
                "messageSent": {"type": "string"},
                "recipientId": {"type": "integer"},
                "recipientUsername": {"type": "string"},
                "senderId": {"type": "integer"},
                "senderUsername": {"type": "string"}
            }
        },
        "models.PaginatedMessageResponse": {
            "type": "object",
            "properties": {
                "currentPage": {"type": "integer"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/models.MessageResponse"}},
                "pageSize": {"type": "integer"},
                "totalCount": {"type": "integer"},
                "totalPages": {"type": "integer"}
            }
        },
        "models.RegisterRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "displayName": {"type": "string", "maxLength": 128},
                "password": {"type": "string", "minLength": 6},
                "username": {"type": "string", "maxLength": 32, "minLength": 3}
            }
        },
        "models.StatusResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "models.UpdateUserRequest": {
            "type": "object",
            "properties": {
                "displayName": {"type": "string", "maxLength": 128}
            }
        },
        "models.UserResponse": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "displayName": {"type": "string"},
                "id": {"type": "integer"},
                "username": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Messaging Service API",
	Description:      "Direct messages between registered users",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
