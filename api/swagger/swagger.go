package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Student Interaction Tracker API",
        "description": "Staff tooling for tracking student contact cadence and follow-ups",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Staff login and session management"},
        {"name": "Students", "description": "Program participant roster"},
        {"name": "Interactions", "description": "Logged contact events"},
        {"name": "Settings", "description": "Interaction formula configuration"},
        {"name": "Analytics", "description": "Aggregate reporting"},
        {"name": "Dashboard", "description": "Staff landing page payload"},
        {"name": "Exports", "description": "Dataset export and CSV import"},
        {"name": "FollowUps", "description": "Follow-up email dispatch"},
        {"name": "AI", "description": "Note summarisation proxy"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate staff member",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token pair", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "responses": {
                    "200": {"description": "New token pair"},
                    "401": {"description": "Invalid or revoked refresh token"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Revoke refresh token",
                "responses": {
                    "204": {"description": "Logged out"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current staff member",
                "responses": {
                    "200": {"description": "User info"}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "program", "in": "query", "type": "string"},
                    {"name": "cohort", "in": "query", "type": "integer"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Students", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Create student",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/students/needing-interaction": {
            "get": {
                "tags": ["Students"],
                "summary": "Students whose contact cadence is due",
                "responses": {
                    "200": {"description": "Students ordered priority first, then longest since last contact"}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Student"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Students"],
                "summary": "Update student",
                "responses": {
                    "200": {"description": "Updated"}
                }
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Deactivate student",
                "responses": {
                    "204": {"description": "Deactivated"}
                }
            }
        },
        "/interactions": {
            "get": {
                "tags": ["Interactions"],
                "summary": "List interactions",
                "parameters": [
                    {"name": "studentId", "in": "query", "type": "string"},
                    {"name": "staffId", "in": "query", "type": "string"},
                    {"name": "type", "in": "query", "type": "string"},
                    {"name": "archived", "in": "query", "type": "boolean"},
                    {"name": "followUpPending", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Interactions"}
                }
            },
            "post": {
                "tags": ["Interactions"],
                "summary": "Log an interaction",
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/interactions/{id}": {
            "get": {
                "tags": ["Interactions"],
                "summary": "Get interaction",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Interaction"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Interactions"],
                "summary": "Update interaction",
                "responses": {
                    "200": {"description": "Updated"},
                    "409": {"description": "Interaction is archived"}
                }
            },
            "delete": {
                "tags": ["Interactions"],
                "summary": "Archive interaction",
                "responses": {
                    "204": {"description": "Archived"}
                }
            }
        },
        "/interactions/{id}/follow-up/sent": {
            "post": {
                "tags": ["Interactions"],
                "summary": "Mark a follow-up as already handled",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Marked"},
                    "409": {"description": "No follow-up scheduled"}
                }
            }
        },
        "/users": {
            "get": {
                "tags": ["Authentication"],
                "summary": "List staff accounts (admin)",
                "responses": {
                    "200": {"description": "Users"}
                }
            },
            "post": {
                "tags": ["Authentication"],
                "summary": "Create staff account (admin)",
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/settings/formula": {
            "get": {
                "tags": ["Settings"],
                "summary": "Get interaction formula settings",
                "responses": {
                    "200": {"description": "Settings, with defaulted=true when unset"}
                }
            },
            "put": {
                "tags": ["Settings"],
                "summary": "Update interaction formula settings (admin)",
                "responses": {
                    "200": {"description": "Updated settings"}
                }
            }
        },
        "/analytics/summary": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Program analytics summary",
                "responses": {
                    "200": {"description": "Aggregates with cache metadata"}
                }
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Staff dashboard overview",
                "responses": {
                    "200": {"description": "Summary, due students, recent interactions"}
                }
            }
        },
        "/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue a dataset export",
                "responses": {
                    "202": {"description": "Export job accepted"}
                }
            }
        },
        "/exports/{id}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export job status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Job status with download URL when completed"}
                }
            }
        },
        "/exports/{id}/download": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download export via signed token",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File stream"},
                    "401": {"description": "Expired or invalid token"}
                }
            }
        },
        "/imports/students": {
            "post": {
                "tags": ["Exports"],
                "summary": "Import students from CSV",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "Import result with per-row errors"}
                }
            }
        },
        "/followups/run": {
            "post": {
                "tags": ["FollowUps"],
                "summary": "Run due follow-up dispatch now (admin)",
                "responses": {
                    "200": {"description": "Dispatch result"}
                }
            }
        },
        "/followups/test-email": {
            "post": {
                "tags": ["FollowUps"],
                "summary": "Send a test email (admin)",
                "responses": {
                    "202": {"description": "Queued"}
                }
            }
        },
        "/ai/summarize": {
            "post": {
                "tags": ["AI"],
                "summary": "Summarise interaction notes",
                "responses": {
                    "200": {"description": "Summary text"},
                    "503": {"description": "AI proxy disabled or provider unavailable"}
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
