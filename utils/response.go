package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Business codes carried in the envelope next to the HTTP status.
const (
	CodeOK              = 0
	CodeBadRequest      = 40000
	CodeMediaLimit      = 40001
	CodeEmptyComment    = 40002
	CodeUnauthorized    = 40100
	CodeTokenRevoked    = 40101
	CodeForbidden       = 40300
	CodeNotInstructor   = 40301
	CodeNotFound        = 40400
	CodePostNotFound    = 40401
	CodeCommentNotFound = 40402
	CodeConflict        = 40900
	CodeTooLarge        = 41300
	CodeTooManyRequests = 42900
	CodeInternal        = 50000
)

// JSONResponse defines the uniform structure for API responses.
type JSONResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Respond writes a JSON response with the given status code.
func Respond(ctx *gin.Context, status int, code int, message string, data interface{}) {
	ctx.JSON(status, JSONResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Success returns a standard success response.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, http.StatusOK, CodeOK, "success", data)
}

// Created answers 201 with the standard envelope.
func Created(ctx *gin.Context, data interface{}) {
	Respond(ctx, http.StatusCreated, CodeOK, "created", data)
}

// Error returns a standard error response.
func Error(ctx *gin.Context, status int, code int, message string) {
	Respond(ctx, status, code, message, nil)
}

// Abort writes an error response and stops the handler chain.
func Abort(ctx *gin.Context, status int, code int, message string) {
	ctx.AbortWithStatusJSON(status, JSONResponse{Code: code, Message: message})
}
