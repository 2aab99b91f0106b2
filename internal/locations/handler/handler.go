package handler

import (
	"net/http"

	"pinmap/internal/locations/service"
	"pinmap/internal/locations/transport"
	"pinmap/platform/httpkit"
	"pinmap/platform/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) List(c *gin.Context) {
	var req transport.ListLocationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, service.MsgInvalidPayload, nil)
		return
	}

	locations, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, locations)
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, service.MsgInvalidPayload, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, service.MsgInvalidPayload, nil)
		return
	}

	location, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, location)
}
