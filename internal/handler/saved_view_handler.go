package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/clinicbill/internal/model"
	"github.com/xxxsen/clinicbill/internal/notify"
	"github.com/xxxsen/clinicbill/internal/pkg/errcode"
	appErr "github.com/xxxsen/clinicbill/internal/pkg/errors"
	"github.com/xxxsen/clinicbill/internal/pkg/response"
	"github.com/xxxsen/clinicbill/internal/service"
)

type SavedViewHandler struct {
	service *service.SavedViewService
}

func NewSavedViewHandler(service *service.SavedViewService) *SavedViewHandler {
	return &SavedViewHandler{service: service}
}

type savedViewCreateRequest struct {
	Name    string            `json:"name"`
	Profile string            `json:"profile"`
	Filters model.ViewFilters `json:"filters"`
}

type savedViewListResponse struct {
	Items   []model.SavedView `json:"items"`
	Notices []notify.Notice   `json:"notices"`
}

type savedViewResponse struct {
	View    *model.SavedView `json:"view"`
	Notices []notify.Notice  `json:"notices"`
}

type savedViewFiltersResponse struct {
	Filters *model.ViewFilters `json:"filters"`
	Notices []notify.Notice    `json:"notices"`
}

// List answers with an empty list and a warning when the slot is unreadable.
func (h *SavedViewHandler) List(c *gin.Context) {
	ctx, rec := notify.WithCollector(c.Request.Context())
	items, err := h.service.List(ctx)
	if err != nil && !appErr.IsCorrupted(err) {
		handleError(c, err)
		return
	}
	response.Success(c, savedViewListResponse{Items: items, Notices: rec.Notices()})
}

func (h *SavedViewHandler) Create(c *gin.Context) {
	var req savedViewCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	ctx, rec := notify.WithCollector(c.Request.Context())
	item, err := h.service.Save(ctx, service.SavedViewCreateInput{
		Name:    req.Name,
		Profile: model.Profile(req.Profile),
		Filters: req.Filters,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, savedViewResponse{View: item, Notices: rec.Notices()})
}

func (h *SavedViewHandler) Load(c *gin.Context) {
	ctx, rec := notify.WithCollector(c.Request.Context())
	filters, err := h.service.LoadByID(ctx, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, savedViewFiltersResponse{Filters: filters, Notices: rec.Notices()})
}

func (h *SavedViewHandler) Delete(c *gin.Context) {
	ctx, rec := notify.WithCollector(c.Request.Context())
	item, err := h.service.Remove(ctx, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, savedViewResponse{View: item, Notices: rec.Notices()})
}
