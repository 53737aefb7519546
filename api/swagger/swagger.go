package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Guardian Assistant Tools",
        "description": "Webhook tools called by the school guardian assistant",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "WebhookToken": {
            "type": "apiKey",
            "in": "header",
            "name": "Authorization"
        }
    },
    "tags": [
        {
            "name": "Tools",
            "description": "Assistant webhook tools"
        }
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {
                        "description": "Ready"
                    },
                    "503": {
                        "description": "A dependency is unavailable"
                    }
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "produces": [
                    "text/plain"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/tools/guardian-authentication": {
            "get": {
                "tags": [
                    "Tools"
                ],
                "summary": "Authenticate a guardian by identity and PIN",
                "security": [
                    {
                        "WebhookToken": []
                    }
                ],
                "parameters": [
                    {
                        "name": "x-identity",
                        "in": "header",
                        "type": "string",
                        "required": true,
                        "description": "email:<email>, phone:<phone> or whatsapp:<phone>"
                    },
                    {
                        "name": "pin",
                        "in": "header",
                        "type": "string",
                        "description": "Guardian PIN, also accepted in query or body"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "500": {
                        "description": "Configuration or upstream failure",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Tools"
                ],
                "summary": "Authenticate a guardian by identity and PIN",
                "security": [
                    {
                        "WebhookToken": []
                    }
                ],
                "parameters": [
                    {
                        "name": "x-identity",
                        "in": "header",
                        "type": "string",
                        "required": true,
                        "description": "email:<email>, phone:<phone> or whatsapp:<phone>"
                    },
                    {
                        "name": "pin",
                        "in": "header",
                        "type": "string",
                        "description": "Guardian PIN, also accepted in query or body"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "500": {
                        "description": "Configuration or upstream failure",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    }
                }
            }
        },
        "/tools/student-lookup": {
            "get": {
                "tags": [
                    "Tools"
                ],
                "summary": "List the calling guardian's students",
                "security": [
                    {
                        "WebhookToken": []
                    }
                ],
                "parameters": [
                    {
                        "name": "x-identity",
                        "in": "header",
                        "type": "string",
                        "required": true,
                        "description": "email:<email>, phone:<phone> or whatsapp:<phone>"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "500": {
                        "description": "Configuration or upstream failure",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Tools"
                ],
                "summary": "List the calling guardian's students",
                "security": [
                    {
                        "WebhookToken": []
                    }
                ],
                "parameters": [
                    {
                        "name": "x-identity",
                        "in": "header",
                        "type": "string",
                        "required": true,
                        "description": "email:<email>, phone:<phone> or whatsapp:<phone>"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "500": {
                        "description": "Configuration or upstream failure",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    }
                }
            }
        },
        "/tools/absence-lookup": {
            "get": {
                "tags": [
                    "Tools"
                ],
                "summary": "List absences of the guardian's students, newest first",
                "security": [
                    {
                        "WebhookToken": []
                    }
                ],
                "parameters": [
                    {
                        "name": "x-identity",
                        "in": "header",
                        "type": "string",
                        "required": true,
                        "description": "email:<email>, phone:<phone> or whatsapp:<phone>"
                    },
                    {
                        "name": "x-start-date",
                        "in": "header",
                        "type": "string",
                        "description": "YYYY-MM-DD"
                    },
                    {
                        "name": "x-end-date",
                        "in": "header",
                        "type": "string",
                        "description": "YYYY-MM-DD"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "500": {
                        "description": "Configuration or upstream failure",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Tools"
                ],
                "summary": "List absences of the guardian's students, newest first",
                "security": [
                    {
                        "WebhookToken": []
                    }
                ],
                "parameters": [
                    {
                        "name": "x-identity",
                        "in": "header",
                        "type": "string",
                        "required": true,
                        "description": "email:<email>, phone:<phone> or whatsapp:<phone>"
                    },
                    {
                        "name": "x-start-date",
                        "in": "header",
                        "type": "string",
                        "description": "YYYY-MM-DD"
                    },
                    {
                        "name": "x-end-date",
                        "in": "header",
                        "type": "string",
                        "description": "YYYY-MM-DD"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "500": {
                        "description": "Configuration or upstream failure",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    }
                }
            }
        },
        "/tools/field-trip-info": {
            "get": {
                "tags": [
                    "Tools"
                ],
                "summary": "Field trips for a trip id or for the grades of the guardian's students",
                "security": [
                    {
                        "WebhookToken": []
                    }
                ],
                "parameters": [
                    {
                        "name": "x-identity",
                        "in": "header",
                        "type": "string",
                        "required": true,
                        "description": "email:<email>, phone:<phone> or whatsapp:<phone>"
                    },
                    {
                        "name": "x-trip-id",
                        "in": "header",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "500": {
                        "description": "Configuration or upstream failure",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Tools"
                ],
                "summary": "Field trips for a trip id or for the grades of the guardian's students",
                "security": [
                    {
                        "WebhookToken": []
                    }
                ],
                "parameters": [
                    {
                        "name": "x-identity",
                        "in": "header",
                        "type": "string",
                        "required": true,
                        "description": "email:<email>, phone:<phone> or whatsapp:<phone>"
                    },
                    {
                        "name": "x-trip-id",
                        "in": "header",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "500": {
                        "description": "Configuration or upstream failure",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    }
                }
            }
        },
        "/tools/report-absence": {
            "post": {
                "tags": [
                    "Tools"
                ],
                "summary": "Report an absence for one of the guardian's students",
                "security": [
                    {
                        "WebhookToken": []
                    }
                ],
                "parameters": [
                    {
                        "name": "x-identity",
                        "in": "header",
                        "type": "string",
                        "required": true,
                        "description": "email:<email>, phone:<phone> or whatsapp:<phone>"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ReportAbsenceRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "500": {
                        "description": "Configuration or upstream failure",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    }
                }
            }
        },
        "/tools/schedule-counselor-conference": {
            "post": {
                "tags": [
                    "Tools"
                ],
                "summary": "Schedule a conference with the guidance counselor",
                "security": [
                    {
                        "WebhookToken": []
                    }
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ScheduleConferenceRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "500": {
                        "description": "Configuration or upstream failure",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    }
                }
            }
        },
        "/tools/send-sms": {
            "post": {
                "tags": [
                    "Tools"
                ],
                "summary": "Send an SMS to the caller's phone identity",
                "security": [
                    {
                        "WebhookToken": []
                    }
                ],
                "parameters": [
                    {
                        "name": "x-identity",
                        "in": "header",
                        "type": "string",
                        "required": true,
                        "description": "email:<email>, phone:<phone> or whatsapp:<phone>"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SendSMSRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "500": {
                        "description": "Configuration or upstream failure",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    }
                }
            }
        },
        "/tools/send-to-flex": {
            "post": {
                "tags": [
                    "Tools"
                ],
                "summary": "Hand the conversation or call over to a human agent",
                "security": [
                    {
                        "WebhookToken": []
                    }
                ],
                "parameters": [
                    {
                        "name": "x-session-id",
                        "in": "header",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "x-identity",
                        "in": "header",
                        "type": "string",
                        "required": false,
                        "description": "email:<email>, phone:<phone> or whatsapp:<phone>"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/HandoffRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    },
                    "500": {
                        "description": "Configuration or upstream failure",
                        "schema": {
                            "$ref": "#/definitions/ToolEnvelope"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "ReportAbsenceRequest": {
            "type": "object",
            "required": [
                "student_name",
                "date",
                "reason"
            ],
            "properties": {
                "student_name": {
                    "type": "string"
                },
                "date": {
                    "type": "string"
                },
                "reason": {
                    "type": "string"
                }
            }
        },
        "ScheduleConferenceRequest": {
            "type": "object",
            "required": [
                "student_name",
                "preferred_date",
                "preferred_time",
                "reason"
            ],
            "properties": {
                "student_name": {
                    "type": "string"
                },
                "preferred_date": {
                    "type": "string"
                },
                "preferred_time": {
                    "type": "string"
                },
                "reason": {
                    "type": "string"
                }
            }
        },
        "SendSMSRequest": {
            "type": "object",
            "required": [
                "message"
            ],
            "properties": {
                "message": {
                    "type": "string"
                }
            }
        },
        "HandoffRequest": {
            "type": "object",
            "properties": {
                "FlexWorkflowSid": {
                    "type": "string"
                },
                "FlexWorkspaceSid": {
                    "type": "string"
                }
            }
        },
        "ToolEnvelope": {
            "type": "object",
            "description": "Tool specific payload keys are returned next to status and message",
            "properties": {
                "status": {
                    "type": "integer"
                },
                "message": {
                    "type": "string"
                },
                "code": {
                    "type": "string"
                }
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
