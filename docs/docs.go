// Package docs registers the Swagger document served at /swagger/doc.json.
//
// @title Resume Screener API
// @version 1.0
// @description Skill matching and ATS scoring for resumes.
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
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
        "/domains": {
            "get": {"tags": ["vocabulary"], "summary": "List domains", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/types.DomainSummary"}}}}}
        },
        "/vocabulary/schema": {
            "get": {"tags": ["vocabulary"], "summary": "Vocabulary document schema", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/analyze": {
            "post": {"tags": ["screening"], "summary": "Screen resume files",
                "consumes": ["multipart/form-data"], "produces": ["application/json", "text/csv"],
                "parameters": [
                    {"type": "file", "description": "Resume files (PDF, DOCX, HTML, TXT)", "name": "files", "in": "formData", "required": true},
                    {"type": "string", "description": "Domain name", "name": "domain", "in": "formData"},
                    {"type": "number", "description": "Fuzzy match threshold (0-100)", "name": "threshold", "in": "formData"},
                    {"type": "string", "description": "weighted or unweighted", "name": "mode", "in": "formData"},
                    {"type": "boolean", "description": "Pick the best domain when none is given", "name": "detect_domain", "in": "formData"},
                    {"type": "string", "description": "csv for a CSV export", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/types.AnalysisReport"}}},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Login required"},
                    "413": {"description": "Upload too large"}
                }}
        },
        "/analyze/text": {
            "post": {"tags": ["screening"], "summary": "Screen resume text",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"description": "Resume text and options", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.AnalyzeTextRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.AnalysisReport"}}, "400": {"description": "Bad Request"}, "401": {"description": "Login required"}}}
        },
        "/export": {
            "post": {"tags": ["screening"], "summary": "Export reports as CSV",
                "consumes": ["application/json"], "produces": ["text/csv"],
                "parameters": [{"description": "Reports to export", "name": "reports", "in": "body", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/types.AnalysisReport"}}}],
                "responses": {"200": {"description": "CSV document"}, "400": {"description": "Bad Request"}}}
        },
        "/rank": {
            "post": {"tags": ["ranking"], "summary": "Rank resumes against a job description",
                "consumes": ["multipart/form-data"], "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Job description text", "name": "job_description", "in": "formData", "required": true},
                    {"type": "file", "description": "Resume files", "name": "files", "in": "formData", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/types.RankedResume"}}}, "400": {"description": "Bad Request"}, "502": {"description": "Embedding request failed"}, "503": {"description": "No embedding model configured"}}}
        },
        "/rewrite": {
            "post": {"tags": ["rewriting"], "summary": "Rewrite experience text",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"description": "Text to rewrite", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.RewriteRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.RewriteResponse"}}, "400": {"description": "Bad Request"}}}
        },
        "/render": {
            "post": {"tags": ["rendering"], "summary": "Render a resume",
                "consumes": ["application/json"], "produces": ["text/html", "application/pdf"],
                "parameters": [{"description": "Resume data, template and format", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.RenderRequest"}}],
                "responses": {"200": {"description": "Rendered document"}, "400": {"description": "Bad Request"}, "503": {"description": "PDF rendering unavailable"}}}
        },
        "/auth/register": {
            "post": {"tags": ["auth"], "summary": "Register a user", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"description": "New account", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.CreateUserRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/types.LoginResponse"}}, "400": {"description": "Bad Request"}, "409": {"description": "Email already registered"}}}
        },
        "/auth/login": {
            "post": {"tags": ["auth"], "summary": "Log in with email and password", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"description": "Credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.LoginRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.LoginResponse"}}, "401": {"description": "Invalid credentials"}}}
        },
        "/auth/password": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Change password", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"description": "Passwords", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.UpdatePasswordRequest"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/auth/google/login": {
            "get": {"tags": ["auth"], "summary": "Start Google sign-in", "responses": {"302": {"description": "Redirect to Google"}}}
        },
        "/auth/google/callback": {
            "get": {"tags": ["auth"], "summary": "Finish Google sign-in", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "OAuth state", "name": "state", "in": "query", "required": true},
                    {"type": "string", "description": "Authorization code", "name": "code", "in": "query", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.LoginResponse"}}, "400": {"description": "Bad Request"}, "401": {"description": "Sign-in failed"}}}
        },
        "/users/me": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Current user", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.User"}}, "401": {"description": "Unauthorized"}}}
        },
        "/history": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["history"], "summary": "Screening history", "produces": ["application/json"],
                "parameters": [{"type": "integer", "description": "Maximum records (default 100)", "name": "limit", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/types.HistoryRecord"}}}, "401": {"description": "Unauthorized"}}}
        }
    },
    "definitions": {
        "types.AnalysisReport": {"type": "object", "properties": {
            "filename": {"type": "string"}, "domain": {"type": "string"}, "score": {"type": "number"},
            "matched": {"type": "array", "items": {"type": "string"}}, "missing": {"type": "array", "items": {"type": "string"}},
            "mode": {"type": "string"}, "threshold": {"type": "number"}, "content_hash": {"type": "string"},
            "extraction_failed": {"type": "boolean"}, "suggestion": {"type": "string"}}},
        "types.AnalyzeTextRequest": {"type": "object", "required": ["text"], "properties": {
            "text": {"type": "string"}, "filename": {"type": "string"}, "domain": {"type": "string"},
            "threshold": {"type": "number", "minimum": 0, "maximum": 100}, "mode": {"type": "string", "enum": ["weighted", "unweighted"]},
            "detect_domain": {"type": "boolean"}}},
        "types.DomainSummary": {"type": "object", "properties": {
            "name": {"type": "string"}, "total_weight": {"type": "integer"},
            "skills": {"type": "array", "items": {"$ref": "#/definitions/types.SkillEntry"}}}},
        "types.SkillEntry": {"type": "object", "properties": {
            "name": {"type": "string"}, "weight": {"type": "integer"}, "synonyms": {"type": "array", "items": {"type": "string"}}}},
        "types.RankedResume": {"type": "object", "properties": {
            "rank": {"type": "integer"}, "filename": {"type": "string"}, "similarity": {"type": "number"}, "percent": {"type": "number"}}},
        "types.RewriteRequest": {"type": "object", "required": ["text"], "properties": {"text": {"type": "string"}}},
        "types.RewriteResponse": {"type": "object", "properties": {
            "text": {"type": "string"}, "enhanced": {"type": "boolean"}, "diagnostic": {"type": "string"}}},
        "types.ResumeData": {"type": "object", "required": ["name"], "properties": {
            "name": {"type": "string"}, "email": {"type": "string"}, "phone": {"type": "string"}, "location": {"type": "string"},
            "summary": {"type": "string"}, "skills": {"type": "array", "items": {"type": "string"}},
            "experience": {"type": "array", "items": {"type": "object", "properties": {
                "title": {"type": "string"}, "company": {"type": "string"}, "period": {"type": "string"},
                "bullets": {"type": "array", "items": {"type": "string"}}}}},
            "education": {"type": "array", "items": {"type": "object", "properties": {
                "degree": {"type": "string"}, "school": {"type": "string"}, "year": {"type": "string"}}}}}},
        "types.RenderRequest": {"type": "object", "properties": {
            "resume": {"$ref": "#/definitions/types.ResumeData"}, "template": {"type": "string"},
            "format": {"type": "string", "enum": ["html", "pdf"]}}},
        "types.CreateUserRequest": {"type": "object", "required": ["name", "email", "password"], "properties": {
            "name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string", "minLength": 8}, "phone": {"type": "string"}}},
        "types.LoginRequest": {"type": "object", "required": ["email", "password"], "properties": {
            "email": {"type": "string"}, "password": {"type": "string"}}},
        "types.UpdatePasswordRequest": {"type": "object", "required": ["new_password"], "properties": {
            "current_password": {"type": "string"}, "new_password": {"type": "string", "minLength": 8}}},
        "types.User": {"type": "object", "properties": {
            "id": {"type": "string"}, "name": {"type": "string"}, "email": {"type": "string"}, "phone": {"type": "string"},
            "auth_provider": {"type": "string"}, "password_set": {"type": "boolean"},
            "created_at": {"type": "string"}, "updated_at": {"type": "string"}}},
        "types.LoginResponse": {"type": "object", "properties": {
            "user": {"$ref": "#/definitions/types.User"}, "token": {"type": "string"}}},
        "types.HistoryRecord": {"type": "object", "properties": {
            "id": {"type": "integer"}, "user_id": {"type": "string"}, "domain": {"type": "string"},
            "score": {"type": "number"}, "created_at": {"type": "string"}}}
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
	Schemes:          []string{"http", "https"},
	Title:            "Resume Screener API",
	Description:      "Skill matching and ATS scoring for resumes.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
