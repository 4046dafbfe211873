package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/clinicbill/internal/pkg/response"
	"github.com/xxxsen/clinicbill/internal/report"
)

type OptionsHandler struct {
	catalog report.FilterCatalog
}

func NewOptionsHandler() *OptionsHandler {
	return &OptionsHandler{catalog: report.Catalog()}
}

func (h *OptionsHandler) Get(c *gin.Context) {
	response.Success(c, h.catalog)
}
