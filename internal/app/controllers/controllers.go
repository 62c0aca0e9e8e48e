// Package controllers handles HTTP request handling
package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolhub/internal/middleware"
	"github.com/yigit/schoolhub/internal/pkg/auth"
)

// pathID parses a positive int64 path parameter, answering 400 when it is not one
func pathID(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		middleware.BadRequest(ctx, name, "ID must be a positive number")
		return 0, false
	}
	return id, true
}

// queryID parses a required positive int64 query parameter
func queryID(ctx *gin.Context, name string) (int64, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		middleware.BadRequest(ctx, name, name+" is required")
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		middleware.BadRequest(ctx, name, name+" must be a positive number")
		return 0, false
	}
	return id, true
}

// optionalQueryID parses an optional positive int64 query parameter
func optionalQueryID(ctx *gin.Context, name string) (*int64, bool) {
	if ctx.Query(name) == "" {
		return nil, true
	}
	id, ok := queryID(ctx, name)
	if !ok {
		return nil, false
	}
	return &id, true
}

// identity returns the caller set by the session middleware
func identity(ctx *gin.Context) *auth.Identity {
	return middleware.CurrentIdentity(ctx)
}
