// Package docs holds the OpenAPI description of the HTTP API
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
		"/auth/signup": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Create an account",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"400": {
						"description": "validation_error",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/model.SignupRequest"
						}
					}
				]
			}
		},
		"/auth/login": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Log in",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"400": {
						"description": "validation_error",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/model.LoginRequest"
						}
					}
				]
			}
		},
		"/auth/refresh": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Rotate credentials",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"400": {
						"description": "validation_error",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/auth/logout": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Log out",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"400": {
						"description": "validation_error",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				}
			}
		},
		"/auth/me": {
			"get": {
				"tags": [
					"auth"
				],
				"summary": "Current user",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"400": {
						"description": "validation_error",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"401": {
						"description": "unauthorized",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/checkins": {
			"post": {
				"tags": [
					"checkins"
				],
				"summary": "Submit a check-in",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"400": {
						"description": "validation_error",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"401": {
						"description": "unauthorized",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/model.CheckinRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"get": {
				"tags": [
					"checkins"
				],
				"summary": "List check-ins",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"400": {
						"description": "validation_error",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"401": {
						"description": "unauthorized",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				},
				"parameters": [
					{
						"in": "query",
						"name": "range",
						"type": "string",
						"description": "window such as 7d, default 30d"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/checkins/{id}": {
			"get": {
				"tags": [
					"checkins"
				],
				"summary": "Get a check-in",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"400": {
						"description": "validation_error",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"401": {
						"description": "unauthorized",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				},
				"parameters": [
					{
						"in": "path",
						"name": "id",
						"required": true,
						"type": "string"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/checkins/{id}/analysis": {
			"get": {
				"tags": [
					"checkins"
				],
				"summary": "Analysis of a check-in, pending until computed",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"400": {
						"description": "validation_error",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"401": {
						"description": "unauthorized",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				},
				"parameters": [
					{
						"in": "path",
						"name": "id",
						"required": true,
						"type": "string"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/dashboard": {
			"get": {
				"tags": [
					"insights"
				],
				"summary": "Dashboard aggregates",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"400": {
						"description": "validation_error",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"401": {
						"description": "unauthorized",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				},
				"parameters": [
					{
						"in": "query",
						"name": "range",
						"type": "string",
						"description": "window such as 7d, default 30d"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/insights/recent": {
			"get": {
				"tags": [
					"insights"
				],
				"summary": "Recent insights",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"400": {
						"description": "validation_error",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"401": {
						"description": "unauthorized",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/insights/{id}": {
			"get": {
				"tags": [
					"insights"
				],
				"summary": "Get an insight",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"400": {
						"description": "validation_error",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"401": {
						"description": "unauthorized",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				},
				"parameters": [
					{
						"in": "path",
						"name": "id",
						"required": true,
						"type": "string"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/alerts": {
			"get": {
				"tags": [
					"alerts"
				],
				"summary": "Latest alerts",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"400": {
						"description": "validation_error",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"401": {
						"description": "unauthorized",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/alerts/{id}": {
			"patch": {
				"tags": [
					"alerts"
				],
				"summary": "Acknowledge or close an alert",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"400": {
						"description": "validation_error",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"401": {
						"description": "unauthorized",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "path",
						"name": "id",
						"required": true,
						"type": "string"
					},
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/model.AlertUpdateRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/users/profile": {
			"get": {
				"tags": [
					"users"
				],
				"summary": "Profile",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"400": {
						"description": "validation_error",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"401": {
						"description": "unauthorized",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"put": {
				"tags": [
					"users"
				],
				"summary": "Update profile",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"400": {
						"description": "validation_error",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"401": {
						"description": "unauthorized",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/model.ProfileUpdateRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/users/settings": {
			"get": {
				"tags": [
					"users"
				],
				"summary": "Settings",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"400": {
						"description": "validation_error",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"401": {
						"description": "unauthorized",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"put": {
				"tags": [
					"users"
				],
				"summary": "Update settings",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"400": {
						"description": "validation_error",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"401": {
						"description": "unauthorized",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/model.SettingsUpdateRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/admin/users": {
			"get": {
				"tags": [
					"admin"
				],
				"summary": "List users",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"400": {
						"description": "validation_error",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"401": {
						"description": "unauthorized",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				},
				"parameters": [
					{
						"in": "query",
						"name": "page",
						"type": "integer"
					},
					{
						"in": "query",
						"name": "per_page",
						"type": "integer"
					},
					{
						"in": "query",
						"name": "search",
						"type": "string"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/admin/users/{id}/role": {
			"patch": {
				"tags": [
					"admin"
				],
				"summary": "Change role",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"400": {
						"description": "validation_error",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"401": {
						"description": "unauthorized",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "path",
						"name": "id",
						"required": true,
						"type": "string"
					},
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/model.RoleUpdateRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/admin/users/{id}": {
			"delete": {
				"tags": [
					"admin"
				],
				"summary": "Deactivate user",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"400": {
						"description": "validation_error",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					},
					"401": {
						"description": "unauthorized",
						"schema": {
							"$ref": "#/definitions/response.Envelope"
						}
					}
				},
				"parameters": [
					{
						"in": "path",
						"name": "id",
						"required": true,
						"type": "string"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		}
	},
	"definitions": {
		"response.Envelope": {
			"type": "object",
			"properties": {
				"ok": {
					"type": "boolean"
				},
				"data": {},
				"error": {
					"$ref": "#/definitions/response.ErrorBody"
				}
			}
		},
		"response.ErrorBody": {
			"type": "object",
			"properties": {
				"code": {
					"type": "string"
				},
				"message": {
					"type": "string"
				}
			}
		},
		"model.SignupRequest": {
			"type": "object",
			"required": [
				"email",
				"password",
				"full_name"
			],
			"properties": {
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string",
					"minLength": 8
				},
				"full_name": {
					"type": "string",
					"minLength": 2,
					"maxLength": 255
				}
			}
		},
		"model.LoginRequest": {
			"type": "object",
			"required": [
				"email",
				"password"
			],
			"properties": {
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string",
					"minLength": 8
				}
			}
		},
		"model.CheckinRequest": {
			"type": "object",
			"required": [
				"mood",
				"sleep_hours"
			],
			"properties": {
				"mood": {
					"type": "integer",
					"minimum": 1,
					"maximum": 10
				},
				"sleep_hours": {
					"type": "number",
					"minimum": 0,
					"maximum": 24
				},
				"notes": {
					"type": "string",
					"maxLength": 1000
				}
			}
		},
		"model.AlertUpdateRequest": {
			"type": "object",
			"required": [
				"status"
			],
			"properties": {
				"status": {
					"type": "string",
					"enum": [
						"acknowledged",
						"closed"
					]
				}
			}
		},
		"model.ProfileUpdateRequest": {
			"type": "object",
			"properties": {
				"full_name": {
					"type": "string"
				},
				"email": {
					"type": "string"
				}
			}
		},
		"model.SettingsUpdateRequest": {
			"type": "object",
			"properties": {
				"theme": {
					"type": "string"
				},
				"language": {
					"type": "string"
				},
				"notifications_email": {
					"type": "boolean"
				},
				"notifications_push": {
					"type": "boolean"
				},
				"timezone": {
					"type": "string"
				}
			}
		},
		"model.RoleUpdateRequest": {
			"type": "object",
			"required": [
				"role"
			],
			"properties": {
				"role": {
					"type": "string",
					"enum": [
						"user",
						"coach",
						"admin"
					]
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "MindPulse API",
	Description:      "Daily wellness check-ins with rule-based analysis, alerts and dashboards.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
