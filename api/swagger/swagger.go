package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Course Planner API",
        "description": "Generates ranked, conflict-free weekly schedules from the course catalog.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Scheduler", "description": "Schedule generation and exports"},
        {"name": "Catalog", "description": "Course catalog"},
        {"name": "Ops", "description": "Probes and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Ops"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["Ops"],
                "summary": "Readiness probe",
                "description": "Checks the catalog snapshot and backing stores.",
                "responses": {
                    "200": {"description": "Ready", "schema": {"$ref": "#/definitions/Readiness"}},
                    "503": {"description": "Not ready", "schema": {"$ref": "#/definitions/Readiness"}}
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": ["Ops"],
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "Prometheus exposition format"}
                }
            }
        },
        "/api/v1/generate-schedules": {
            "post": {
                "tags": ["Scheduler"],
                "summary": "Generate ranked conflict-free schedules",
                "description": "Returns up to max_options schedules for the selected courses, best score first. An empty options list means no conflict-free combination exists. The run id is returned in the X-Schedule-Run-ID header.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/GenerateSchedulesRequest"}}
                ],
                "responses": {
                    "200": {
                        "description": "Ranked options",
                        "headers": {"X-Schedule-Run-ID": {"type": "string"}},
                        "schema": {"$ref": "#/definitions/GenerateSchedulesResponse"}
                    },
                    "400": {"description": "Invalid request, unknown course, invalid preference or a course without sections", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Catalog unavailable or search timed out", "headers": {"Retry-After": {"type": "integer"}}, "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/generate-schedules/export": {
            "post": {
                "tags": ["Scheduler"],
                "summary": "Export generated schedules as CSV or PDF",
                "description": "delivery=inline streams the file; delivery=link stores it and returns a signed download link.",
                "consumes": ["application/json"],
                "produces": ["text/csv", "application/pdf", "application/json"],
                "parameters": [
                    {"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf"], "default": "csv"},
                    {"in": "query", "name": "delivery", "type": "string", "enum": ["inline", "link"], "default": "inline"},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/GenerateSchedulesRequest"}}
                ],
                "responses": {
                    "200": {"description": "Export file", "schema": {"type": "file"}},
                    "201": {"description": "Signed download link", "schema": {"$ref": "#/definitions/ExportLinkEnvelope"}},
                    "400": {"description": "Invalid request or unsupported format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/exports/download": {
            "get": {
                "tags": ["Scheduler"],
                "summary": "Download a stored export",
                "produces": ["text/csv", "application/pdf", "application/json"],
                "parameters": [
                    {"in": "query", "name": "token", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Export file", "schema": {"type": "file"}},
                    "403": {"description": "Invalid token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Export no longer stored", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "410": {"description": "Link expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/courses": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List catalog courses",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "semester", "type": "string", "maxLength": 16}
                ],
                "responses": {
                    "200": {
                        "description": "Courses",
                        "headers": {"X-Cache": {"type": "string", "enum": ["HIT", "MISS"]}},
                        "schema": {"$ref": "#/definitions/CourseListResponse"}
                    },
                    "503": {"description": "Catalog unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/metrics/summary": {
            "get": {
                "tags": ["Ops"],
                "summary": "Aggregated service metrics",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Metrics snapshot", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "CoursePreference": {
            "type": "object",
            "required": ["course_id", "preferred_instructor_id"],
            "properties": {
                "course_id": {"type": "string"},
                "preferred_instructor_id": {"type": "string"}
            }
        },
        "Preferences": {
            "type": "object",
            "required": ["preferred_start_time", "preferred_end_time"],
            "properties": {
                "preferred_start_time": {"type": "string", "example": "09:00"},
                "preferred_end_time": {"type": "string", "example": "17:00"},
                "day_off_requested": {"type": "integer", "minimum": 0, "maximum": 6, "x-nullable": true},
                "course_preferences": {"type": "array", "items": {"$ref": "#/definitions/CoursePreference"}}
            }
        },
        "GenerateSchedulesRequest": {
            "type": "object",
            "required": ["selected_course_ids", "preferences"],
            "properties": {
                "selected_course_ids": {"type": "array", "minItems": 1, "items": {"type": "string"}},
                "preferences": {"$ref": "#/definitions/Preferences"},
                "max_options": {"type": "integer", "minimum": 1, "maximum": 20}
            }
        },
        "Meeting": {
            "type": "object",
            "properties": {
                "day": {"type": "integer"},
                "start": {"type": "string"},
                "end": {"type": "string"}
            }
        },
        "ScheduleItem": {
            "type": "object",
            "properties": {
                "course_id": {"type": "string"},
                "course_name": {"type": "string"},
                "section_id": {"type": "string"},
                "type": {"type": "string", "enum": ["Lecture", "Recitation", "Lab"]},
                "instructor": {"type": "string"},
                "meetings": {"type": "array", "items": {"$ref": "#/definitions/Meeting"}}
            }
        },
        "ScheduleOption": {
            "type": "object",
            "properties": {
                "score": {"type": "integer", "minimum": 0, "maximum": 100},
                "schedule": {"type": "array", "items": {"$ref": "#/definitions/ScheduleItem"}}
            }
        },
        "GenerateSchedulesResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["success", "partial"]},
                "options": {"type": "array", "items": {"$ref": "#/definitions/ScheduleOption"}}
            }
        },
        "CourseSummary": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "semester": {"type": "string"}
            }
        },
        "CourseListResponse": {
            "type": "object",
            "properties": {
                "courses": {"type": "array", "items": {"$ref": "#/definitions/CourseSummary"}}
            }
        },
        "ExportLink": {
            "type": "object",
            "properties": {
                "export_id": {"type": "string"},
                "format": {"type": "string"},
                "download_url": {"type": "string"},
                "expires_at": {"type": "string", "format": "date-time"}
            }
        },
        "ExportLinkEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/ExportLink"}
            }
        },
        "Readiness": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["ready", "not_ready"]},
                "checks": {"type": "object", "additionalProperties": {"type": "string"}}
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
