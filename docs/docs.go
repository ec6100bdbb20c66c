// Package docs 관리 API의 Swagger 문서를 등록합니다. swag init으로 생성된 파일입니다.
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
        "/api/v1/sync": {
            "get": {
                "description": "동기화 진행 여부와 가장 최근 실행의 리포트를 반환합니다.",
                "produces": ["application/json"],
                "tags": ["Sync"],
                "summary": "동기화 실행 상태 조회",
                "parameters": [
                    {"type": "string", "description": "관리 API 키", "name": "X-App-Key", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "실행 상태", "schema": {"$ref": "#/definitions/model.SyncStatusResponse"}},
                    "401": {"description": "인증 실패", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            },
            "post": {
                "description": "공급사 카탈로그 전체 동기화를 백그라운드에서 시작합니다.\n이미 동기화가 진행 중이면 409를 반환합니다. 결과는 GET /api/v1/sync 또는 운영자 알림으로 확인합니다.",
                "produces": ["application/json"],
                "tags": ["Sync"],
                "summary": "전체 카탈로그 동기화 시작",
                "parameters": [
                    {"type": "string", "description": "관리 API 키", "name": "X-App-Key", "in": "header", "required": true}
                ],
                "responses": {
                    "202": {"description": "동기화 시작", "schema": {"$ref": "#/definitions/model.SyncAcceptedResponse"}},
                    "401": {"description": "인증 실패", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "409": {"description": "이미 실행 중", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/api/v1/sync/{id}": {
            "post": {
                "description": "공급사 상품 하나를 즉시 동기화하고 저장된 카탈로그 상품을 반환합니다.",
                "produces": ["application/json"],
                "tags": ["Sync"],
                "summary": "단일 상품 동기화",
                "parameters": [
                    {"type": "string", "description": "관리 API 키", "name": "X-App-Key", "in": "header", "required": true},
                    {"type": "integer", "description": "공급사 상품 ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "동기화된 상품", "schema": {"$ref": "#/definitions/model.SyncProductResponse"}},
                    "400": {"description": "잘못된 상품 ID", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "404": {"description": "공급사에 상품 없음", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "500": {"description": "저장 실패", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "502": {"description": "공급사 API 장애", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "서버와 카탈로그 저장소의 상태, 동기화 실행 여부를 확인합니다.\n인증 없이 호출 가능하며, 모니터링 시스템에서 사용됩니다.",
                "produces": ["application/json"],
                "tags": ["System"],
                "summary": "서버 헬스체크",
                "responses": {
                    "200": {"description": "헬스체크 결과", "schema": {"$ref": "#/definitions/system.HealthResponse"}}
                }
            }
        },
        "/version": {
            "get": {
                "description": "서버의 버전, Git 커밋 해시, 빌드 날짜, 빌드 번호, Go 버전을 반환합니다.",
                "produces": ["application/json"],
                "tags": ["System"],
                "summary": "서버 버전 정보",
                "responses": {
                    "200": {"description": "버전 정보", "schema": {"$ref": "#/definitions/system.VersionResponse"}}
                }
            }
        }
    },
    "definitions": {
        "catalog.Image": {
            "type": "object",
            "properties": {
                "alt": {"type": "string"},
                "id": {"type": "string"},
                "product_id": {"type": "string"},
                "sort_order": {"type": "integer"},
                "source_url": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "catalog.Product": {
            "type": "object",
            "properties": {
                "brand": {"type": "string"},
                "category": {"type": "string"},
                "created_at": {"type": "string"},
                "description": {"type": "string"},
                "estimated_cost": {"type": "number"},
                "estimated_profit": {"type": "number"},
                "external_id": {"type": "string"},
                "id": {"type": "string"},
                "image_alt": {"type": "string"},
                "image_src": {"type": "string"},
                "images": {"type": "array", "items": {"$ref": "#/definitions/catalog.Image"}},
                "in_stock": {"type": "boolean"},
                "is_active": {"type": "boolean"},
                "name": {"type": "string"},
                "price": {"type": "number"},
                "profit": {"type": "number"},
                "sku": {"type": "string"},
                "stock_count": {"type": "integer"},
                "subcategory": {"type": "string"},
                "supplier_cost": {"type": "number"},
                "supplier_earnings": {"type": "number"},
                "updated_at": {"type": "string"},
                "variants": {"type": "array", "items": {"$ref": "#/definitions/catalog.Variant"}}
            }
        },
        "catalog.Variant": {
            "type": "object",
            "properties": {
                "color": {"type": "string"},
                "external_id": {"type": "string"},
                "id": {"type": "string"},
                "in_stock": {"type": "boolean"},
                "price": {"type": "number"},
                "product_id": {"type": "string"},
                "profit": {"type": "number"},
                "sort_order": {"type": "integer"},
                "supplier_cost": {"type": "number"},
                "type": {"type": "string"},
                "value": {"type": "string"}
            }
        },
        "model.SyncAcceptedResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "전체 동기화를 시작했습니다"},
                "result_code": {"type": "integer", "example": 0}
            }
        },
        "model.SyncProductResponse": {
            "type": "object",
            "properties": {
                "product": {"$ref": "#/definitions/catalog.Product"},
                "result_code": {"type": "integer", "example": 0}
            }
        },
        "model.SyncStatusResponse": {
            "type": "object",
            "properties": {
                "last_report": {"$ref": "#/definitions/reconciler.Report"},
                "running": {"type": "boolean", "example": false}
            }
        },
        "reconciler.ProductError": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "product_ref": {"type": "string"},
                "step": {"type": "string"},
                "supplier_id": {"type": "integer"},
                "type": {"type": "string"}
            }
        },
        "reconciler.Report": {
            "type": "object",
            "properties": {
                "canceled": {"type": "boolean"},
                "catalog_value": {"type": "number"},
                "created_count": {"type": "integer"},
                "error": {"type": "string"},
                "error_type": {"type": "string"},
                "errors": {"type": "array", "items": {"$ref": "#/definitions/reconciler.ProductError"}},
                "finished_at": {"type": "string"},
                "image_failures": {"type": "integer"},
                "run_id": {"type": "string"},
                "skipped_count": {"type": "integer"},
                "started_at": {"type": "string"},
                "synced_count": {"type": "integer"},
                "total_count": {"type": "integer"},
                "updated_count": {"type": "integer"}
            }
        },
        "response.ErrorResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "이미 전체 동기화가 진행 중입니다"},
                "result_code": {"type": "integer", "example": 409}
            }
        },
        "system.DependencyStatus": {
            "type": "object",
            "properties": {
                "latency_ms": {"type": "integer", "example": 5},
                "message": {"type": "string", "example": "정상 작동 중"},
                "status": {"type": "string", "example": "healthy"}
            }
        },
        "system.HealthResponse": {
            "type": "object",
            "properties": {
                "dependencies": {"type": "object", "additionalProperties": {"$ref": "#/definitions/system.DependencyStatus"}},
                "status": {"type": "string", "example": "healthy"},
                "uptime": {"type": "integer", "example": 3600}
            }
        },
        "system.VersionResponse": {
            "type": "object",
            "properties": {
                "build_date": {"type": "string", "example": "2026-10-01T14:00:00Z"},
                "build_number": {"type": "string", "example": "100"},
                "commit": {"type": "string", "example": "abc1234"},
                "go_version": {"type": "string", "example": "go1.24.0"},
                "version": {"type": "string", "example": "1.0.0"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Catalog Sync Admin API",
	Description:      "공급사 카탈로그 동기화를 수동으로 실행하고 실행 상태를 조회하는 관리용 API입니다.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
