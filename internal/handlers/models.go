package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/geniehq/genie-backend/internal/services"
)

type ModelsHandler struct {
	catalog *services.ModelCatalog
}

func NewModelsHandler(catalog *services.ModelCatalog) *ModelsHandler {
	return &ModelsHandler{catalog: catalog}
}

func (h *ModelsHandler) List(c *gin.Context) {
	RespondOK(c, h.catalog)
}
