package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Timetable API",
        "description": "Class timetable generation service: multi-start randomized scheduling with versioned results.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Timetables", "description": "Timetable generation, history and export"},
        {"name": "Operations", "description": "Health, readiness and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Operations"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["Operations"],
                "summary": "Readiness check against Postgres and Redis",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "A dependency is unreachable"}
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": ["Operations"],
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/timetables/generate": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Generate a timetable for a branch",
                "description": "Runs the multi-start optimizer against the branch catalogue and stores the best attempt as a new version.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateTimetableRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload or attempts out of range", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Scheduling data failed integrity checks", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "Engine failure", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Request cancelled before any attempt completed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetables": {
            "get": {
                "tags": ["Timetables"],
                "summary": "List stored timetable versions for a branch",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "branchId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetables/{id}": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Get a stored timetable",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Timetables"],
                "summary": "Delete a stored timetable",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/timetables/{id}/export": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Export a stored timetable",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download", "schema": {"type": "file"}},
                    "409": {"description": "Run did not succeed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "GenerateTimetableRequest": {
            "type": "object",
            "properties": {
                "branchId": {"type": "string"},
                "attempts": {"type": "integer", "minimum": 1, "maximum": 500},
                "seed": {"type": "integer", "format": "int64"}
            },
            "required": ["branchId"]
        },
        "Placement": {
            "type": "object",
            "properties": {
                "day": {"type": "integer"},
                "period": {"type": "integer"},
                "lessonId": {"type": "string"},
                "lessonName": {"type": "string"},
                "classId": {"type": "string"},
                "teacherId": {"type": "string"},
                "roomIds": {"type": "array", "items": {"type": "string"}}
            }
        },
        "ScheduleEntry": {
            "type": "array",
            "description": "Pair of \"day:period:teacherId\" key and placement",
            "items": {}
        },
        "UnassignedRemainder": {
            "type": "object",
            "properties": {
                "lessonId": {"type": "string"},
                "lessonName": {"type": "string"},
                "remainingHours": {"type": "integer"}
            }
        },
        "IntegrityIssue": {
            "type": "object",
            "properties": {
                "entity": {"type": "string"},
                "entityId": {"type": "string"},
                "name": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "TimetableResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "branchId": {"type": "string"},
                "version": {"type": "integer"},
                "status": {"type": "string", "enum": ["SUCCEEDED", "FAILED"]},
                "success": {"type": "boolean"},
                "attempts": {"type": "integer"},
                "seed": {"type": "integer", "format": "int64"},
                "attemptIndex": {"type": "integer"},
                "fitnessScore": {"type": "number"},
                "workloadVariance": {"type": "number"},
                "totalGaps": {"type": "integer"},
                "totalUnassignedHours": {"type": "integer"},
                "daysPerWeek": {"type": "integer"},
                "hoursPerDay": {"type": "integer"},
                "schedule": {"type": "array", "items": {"$ref": "#/definitions/ScheduleEntry"}},
                "unassignedLessons": {"type": "array", "items": {"$ref": "#/definitions/UnassignedRemainder"}},
                "issues": {"type": "array", "items": {"$ref": "#/definitions/IntegrityIssue"}},
                "logs": {"type": "array", "items": {"type": "string"}},
                "createdAt": {"type": "string", "format": "date-time"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object"}
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
