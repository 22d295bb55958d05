package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "The Surface Log API",
        "description": "Community-reported player interaction board",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Logs", "description": "Transmission feed, search and submission"},
        {"name": "Handles", "description": "Per-handle history and dossier export"},
        {"name": "Flags", "description": "Community flagging"},
        {"name": "Disputes", "description": "Correction requests"},
        {"name": "Leaderboard", "description": "Watchlist summaries"}
    ],
    "paths": {
        "/feed": {
            "get": {
                "tags": ["Logs"],
                "summary": "Latest transmissions",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/search": {
            "get": {
                "tags": ["Logs"],
                "summary": "Search transmissions by handle",
                "parameters": [
                    {"name": "q", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Missing query"}
                }
            }
        },
        "/logs": {
            "post": {
                "tags": ["Logs"],
                "summary": "Submit a new transmission",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation failed"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/logs/{id}/flags": {
            "post": {
                "tags": ["Flags"],
                "summary": "Flag a transmission",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Already flagged"}
                }
            }
        },
        "/logs/{id}/disputes": {
            "post": {
                "tags": ["Disputes"],
                "summary": "Dispute a transmission",
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/handles/{handle}/logs": {
            "get": {
                "tags": ["Handles"],
                "summary": "Transmission history for a handle",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/handles/{handle}/export": {
            "get": {
                "tags": ["Handles"],
                "summary": "Export a handle dossier",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "No logs for handle"}
                }
            }
        },
        "/leaderboard": {
            "get": {
                "tags": ["Leaderboard"],
                "summary": "Leaderboard summaries",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/flags/mine": {
            "get": {
                "tags": ["Flags"],
                "summary": "List the caller's flags",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        }
    },
    "definitions": {
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
