package handler

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-backoffice/internal/middleware"
	"github.com/iliyamo/hotel-backoffice/internal/service"
)

const requestTimeout = 5 * time.Second

// maxPageIndex keeps page*size far from int overflow.
const maxPageIndex = math.MaxInt32

// requestCtx bounds the work of one request.
func requestCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, newValidationError("id", "must be a UUID")
	}
	return id, nil
}

// pageRequest reads the zero-based page and size query parameters.
func pageRequest(c echo.Context) (service.PageRequest, error) {
	var pr service.PageRequest
	if raw := c.QueryParam("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > maxPageIndex {
			return pr, newValidationError("page", "must be a non-negative integer")
		}
		pr.Page = n
	}
	if raw := c.QueryParam("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return pr, newValidationError("size", "must be a positive integer")
		}
		pr.Size = n
	}
	return pr, nil
}

// actor is the authenticated staff member performing the request.
func actor(c echo.Context) uuid.UUID { return middleware.UserID(c) }

type idResp struct {
	ID uuid.UUID `json:"id"`
}

// mapPage converts the content of a page, keeping its counters.
func mapPage[T, V any](p service.Page[T], f func(T) V) service.Page[V] {
	out := service.Page[V]{Page: p.Page, Size: p.Size, TotalElements: p.TotalElements, TotalPages: p.TotalPages}
	out.Content = make([]V, 0, len(p.Content))
	for _, item := range p.Content {
		out.Content = append(out.Content, f(item))
	}
	return out
}
