// Package docs holds the OpenAPI document for the HTTP API, registered with swag
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.0.3",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "paths": {
        "/": {
            "get": {
                "tags": ["Legacy"],
                "summary": "Liveness message, bare body",
                "responses": {"200": {"description": "{\"message\": \"Sentiment Analysis API is running.\"}"}}
            }
        },
        "/analyze": {
            "post": {
                "tags": ["Legacy"],
                "summary": "Analyze one text, bare response body",
                "requestBody": {
                    "required": true,
                    "content": {"application/json": {"schema": {"$ref": "#/components/schemas/AnalyzeRequest"}}}
                },
                "responses": {
                    "200": {
                        "description": "OK",
                        "content": {"application/json": {"schema": {"$ref": "#/components/schemas/AnalysisResult"}}}
                    },
                    "503": {
                        "description": "Classifier not ready",
                        "content": {"application/json": {"schema": {"$ref": "#/components/schemas/LegacyError"}}}
                    }
                }
            }
        },
        "/api/v1/sentiment/analyze": {
            "post": {
                "tags": ["Sentiment"],
                "summary": "Analyze one text",
                "requestBody": {
                    "required": true,
                    "content": {"application/json": {"schema": {"$ref": "#/components/schemas/AnalyzeRequest"}}}
                },
                "responses": {
                    "200": {
                        "description": "OK, data is an AnalysisResult",
                        "content": {"application/json": {"schema": {"$ref": "#/components/schemas/AnalysisEnvelope"}}}
                    },
                    "503": {
                        "description": "Classifier not ready",
                        "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}
                    }
                }
            }
        },
        "/api/v1/sentiment/analyze/batch": {
            "post": {
                "tags": ["Sentiment"],
                "summary": "Analyze up to CORE_API_BATCH_MAX texts, results keep input order",
                "requestBody": {
                    "required": true,
                    "content": {"application/json": {"schema": {"$ref": "#/components/schemas/BatchRequest"}}}
                },
                "responses": {
                    "200": {"description": "OK, data.items holds one result or error per input"},
                    "503": {
                        "description": "Classifier not ready",
                        "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}
                    }
                }
            }
        },
        "/api/v1/ledger/recent": {
            "get": {
                "tags": ["Ledger"],
                "summary": "Most recent verdicts, newest first",
                "parameters": [
                    {"name": "limit", "in": "query", "schema": {"type": "integer", "minimum": 1, "maximum": 200, "default": 50}}
                ],
                "responses": {"200": {"description": "OK, data.items holds ledger entries"}}
            }
        },
        "/api/v1/ledger/summary": {
            "get": {
                "tags": ["Ledger"],
                "summary": "Label counts per language over a trailing window",
                "parameters": [
                    {"name": "hours", "in": "query", "schema": {"type": "integer", "minimum": 1, "maximum": 720, "default": 24}}
                ],
                "responses": {"200": {"description": "OK, data.buckets holds label x language counts"}}
            }
        },
        "/api/v1/meta/health": {
            "get": {"tags": ["Meta"], "summary": "Liveness", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/meta/ready": {
            "get": {"tags": ["Meta"], "summary": "Readiness with classifier and store checks", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/meta/version": {
            "get": {"tags": ["Meta"], "summary": "Build info", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/meta/service": {
            "get": {"tags": ["Meta"], "summary": "Service info and uptime", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/meta/classifier": {
            "get": {"tags": ["Meta"], "summary": "Classifier backend and readiness", "responses": {"200": {"description": "OK"}}}
        }
    },
    "components": {
        "schemas": {
            "AnalyzeRequest": {
                "type": "object",
                "required": ["text"],
                "properties": {
                    "text": {"type": "string", "maxLength": 10000, "example": "Esto es terrible"},
                    "language": {"type": "string", "default": "auto", "description": "accepted, detection is automatic"}
                }
            },
            "BatchRequest": {
                "type": "object",
                "required": ["texts"],
                "properties": {
                    "texts": {"type": "array", "minItems": 1, "items": {"type": "string"}}
                }
            },
            "Detail": {
                "type": "object",
                "properties": {
                    "label": {"type": "string", "enum": ["positive", "negative", "neutral"]},
                    "score": {"type": "number", "format": "double"}
                }
            },
            "TranslatedDetail": {
                "type": "object",
                "properties": {
                    "label": {"type": "string", "enum": ["positive", "negative", "neutral"]},
                    "score": {"type": "number", "format": "double"},
                    "text": {"type": "string"}
                }
            },
            "AnalysisResult": {
                "type": "object",
                "properties": {
                    "label": {"type": "string", "enum": ["positive", "negative", "neutral"], "example": "negative"},
                    "score": {"type": "number", "format": "double", "example": 0.99},
                    "emoji": {"type": "string", "example": "😠"},
                    "details": {"type": "array", "items": {"$ref": "#/components/schemas/Detail"}},
                    "language": {"type": "string", "example": "es"},
                    "language_name": {"type": "string", "example": "Spanish"},
                    "translation": {"type": "string", "nullable": true, "example": "This is terrible"},
                    "comparison_details": {
                        "type": "object",
                        "properties": {
                            "raw": {"$ref": "#/components/schemas/Detail"},
                            "translated": {"$ref": "#/components/schemas/TranslatedDetail"}
                        }
                    }
                }
            },
            "AnalysisEnvelope": {
                "type": "object",
                "properties": {
                    "status_code": {"type": "integer"},
                    "status": {"type": "string"},
                    "request_id": {"type": "string"},
                    "data": {"$ref": "#/components/schemas/AnalysisResult"}
                }
            },
            "LegacyError": {
                "type": "object",
                "properties": {
                    "detail": {"type": "string", "example": "Model is not available."},
                    "trace": {"type": "array", "items": {"type": "string"}}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Title:            "moodmeter API",
	Description:      "Multilingual sentiment analysis with confidence-gated translation arbitration.",
	InfoInstanceName: "moodmeter",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
