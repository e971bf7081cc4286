// Package docs holds the OpenAPI document served under /swagger.
// Keep it in step with the @Summary/@Router annotations of the handlers.
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
        "/dashboard/funnel": {
            "get": {
                "description": "Current lead count per stage of the first selected pipeline, ordered by stage sort.\nNo date filter applies.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Dashboard"
                ],
                "summary": "Sales funnel",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Pipeline ids, comma separated",
                        "name": "pipeline_id",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Responsible user ids, comma separated",
                        "name": "manager_id",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/domain.FunnelStage"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/domain.FunnelStage"
                            }
                        }
                    }
                }
            }
        },
        "/kpi/leads": {
            "get": {
                "description": "Totals, sales, losses, refunds, debt and conversion of the selected pipelines.\nWithout pipeline_id every counter is zero.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "KPI"
                ],
                "summary": "Lead KPI summary",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Pipeline ids, comma separated",
                        "name": "pipeline_id",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Responsible user ids, comma separated",
                        "name": "manager_id",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Window start, epoch seconds or milliseconds",
                        "name": "from",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Window end, epoch seconds or milliseconds",
                        "name": "to",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "standard, launch or mixed",
                        "name": "mode",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.KPISummary"
                        }
                    }
                }
            }
        },
        "/login": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Auth"
                ],
                "summary": "Dashboard login",
                "parameters": [
                    {
                        "description": "Credentials",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "username": {
                                    "type": "string"
                                },
                                "password": {
                                    "type": "string"
                                }
                            }
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.LoginResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/domain.SuccessResponse"
                        }
                    }
                }
            }
        },
        "/managers": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Reference"
                ],
                "summary": "List managers",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/domain.Reference"
                            }
                        }
                    }
                }
            }
        },
        "/marketing/analytics": {
            "get": {
                "description": "Lead counts by source, tariff, region, business type and employee count.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Marketing"
                ],
                "summary": "Marketing breakdown",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Pipeline ids, comma separated",
                        "name": "pipeline_id",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Responsible user ids, comma separated",
                        "name": "manager_id",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Window start",
                        "name": "from",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Window end",
                        "name": "to",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "all, success, lost or realtime",
                        "name": "status_type",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "standard, launch or mixed",
                        "name": "global_mode",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.MarketingBreakdown"
                        }
                    }
                }
            }
        },
        "/pipelines": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Reference"
                ],
                "summary": "List pipelines",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/domain.Reference"
                            }
                        }
                    }
                }
            }
        },
        "/plan/delete": {
            "delete": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Plans"
                ],
                "summary": "Delete a plan",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Manager id, 0 for a pipeline plan",
                        "name": "manager_id",
                        "in": "query",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Start date, YYYY-MM-DD",
                        "name": "start_date",
                        "in": "query",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.SuccessResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/domain.APIError"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/domain.SuccessResponse"
                        }
                    }
                }
            }
        },
        "/plan/save": {
            "post": {
                "description": "Creates the plan or replaces the one with the same manager_id and start_date.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Plans"
                ],
                "summary": "Save a plan",
                "parameters": [
                    {
                        "description": "Plan",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/domain.SavePlanRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.SuccessResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/domain.APIError"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/domain.SuccessResponse"
                        }
                    }
                }
            }
        },
        "/plan/status": {
            "get": {
                "description": "Every stored plan of the selected pipelines with the actual sales of its period.\nfrom and to override the plan period.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Plans"
                ],
                "summary": "Plan progress",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Pipeline ids, comma separated",
                        "name": "pipeline_id",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Period start",
                        "name": "from",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Period end",
                        "name": "to",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/domain.PlanStatus"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/domain.PlanStatus"
                            }
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "domain.APIError": {
            "type": "object",
            "properties": {
                "detail": {
                    "type": "string"
                },
                "errors": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "string"
                    }
                },
                "status": {
                    "type": "integer"
                },
                "title": {
                    "type": "string"
                },
                "type": {
                    "type": "string"
                }
            }
        },
        "domain.FunnelStage": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "name": {
                    "type": "string"
                },
                "sort": {
                    "type": "integer"
                },
                "value": {
                    "type": "integer"
                }
            }
        },
        "domain.KPISummary": {
            "type": "object",
            "properties": {
                "avgCheck": {
                    "type": "number"
                },
                "conversion": {
                    "type": "number"
                },
                "debtAmount": {
                    "type": "number"
                },
                "debtCount": {
                    "type": "integer"
                },
                "lost": {
                    "type": "integer"
                },
                "overdueAmount": {
                    "type": "number"
                },
                "overdueCount": {
                    "type": "integer"
                },
                "partial": {
                    "type": "boolean"
                },
                "refundAmount": {
                    "type": "number"
                },
                "refundCount": {
                    "type": "integer"
                },
                "sales": {
                    "type": "integer"
                },
                "salesAmount": {
                    "type": "number"
                },
                "total": {
                    "type": "integer"
                },
                "totalIncome": {
                    "type": "number"
                }
            }
        },
        "domain.LoginResponse": {
            "type": "object",
            "properties": {
                "message": {
                    "type": "string"
                },
                "success": {
                    "type": "boolean"
                },
                "token": {
                    "type": "string"
                },
                "user": {
                    "$ref": "#/definitions/domain.LoginUser"
                }
            }
        },
        "domain.LoginUser": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                }
            }
        },
        "domain.MarketingBreakdown": {
            "type": "object",
            "properties": {
                "business": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.NamedValue"
                    }
                },
                "employees": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.NamedValue"
                    }
                },
                "partial": {
                    "type": "boolean"
                },
                "regions": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.NamedValue"
                    }
                },
                "sources": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.NamedValue"
                    }
                },
                "tarifs": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.NamedValue"
                    }
                }
            }
        },
        "domain.NamedValue": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "value": {
                    "type": "integer"
                }
            }
        },
        "domain.PlanStatus": {
            "type": "object",
            "properties": {
                "actual_amount": {
                    "type": "number"
                },
                "actual_deals": {
                    "type": "integer"
                },
                "actual_people": {
                    "type": "integer"
                },
                "end_date": {
                    "type": "string"
                },
                "manager_id": {
                    "type": "string"
                },
                "minimalka": {
                    "type": "number"
                },
                "partial": {
                    "type": "boolean"
                },
                "pipeline_id": {
                    "type": "integer"
                },
                "progress_deals": {
                    "type": "string"
                },
                "start_date": {
                    "type": "string"
                },
                "target_amount": {
                    "type": "number"
                },
                "target_deals": {
                    "type": "number"
                },
                "target_people": {
                    "type": "number"
                },
                "target_premium": {
                    "type": "number"
                },
                "target_standart": {
                    "type": "number"
                },
                "target_standart_plus": {
                    "type": "number"
                },
                "target_vip": {
                    "type": "number"
                },
                "tarif_stats": {
                    "$ref": "#/definitions/domain.TariffStats"
                },
                "total_remainder": {
                    "type": "number"
                },
                "type": {
                    "type": "string"
                }
            }
        },
        "domain.Reference": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "name": {
                    "type": "string"
                }
            }
        },
        "domain.SavePlanRequest": {
            "type": "object",
            "required": [
                "manager_id",
                "pipeline_id",
                "start_date"
            ],
            "properties": {
                "end_date": {
                    "type": "string"
                },
                "manager_id": {
                    "type": "string"
                },
                "minimalka": {
                    "type": "number"
                },
                "pipeline_id": {
                    "type": "integer"
                },
                "start_date": {
                    "type": "string"
                },
                "target_amount": {
                    "type": "number"
                },
                "target_deals": {
                    "type": "number"
                },
                "target_people": {
                    "type": "number"
                },
                "target_premium": {
                    "type": "number"
                },
                "target_standart": {
                    "type": "number"
                },
                "target_standart_plus": {
                    "type": "number"
                },
                "target_vip": {
                    "type": "number"
                },
                "type": {
                    "type": "string",
                    "enum": [
                        "general",
                        "manager"
                    ]
                }
            }
        },
        "domain.SuccessResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string"
                },
                "success": {
                    "type": "boolean"
                }
            }
        },
        "domain.TariffStats": {
            "type": "object",
            "properties": {
                "premium": {
                    "$ref": "#/definitions/domain.TariffTally"
                },
                "standart": {
                    "$ref": "#/definitions/domain.TariffTally"
                },
                "standart_plus": {
                    "$ref": "#/definitions/domain.TariffTally"
                },
                "vip": {
                    "$ref": "#/definitions/domain.TariffTally"
                }
            }
        },
        "domain.TariffTally": {
            "type": "object",
            "properties": {
                "full": {
                    "type": "integer"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "amoCRM Analytics API",
	Description:      "KPI, marketing, funnel and plan analytics over amoCRM leads",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
