package handler

import (
	"net/http"

	"anoa.com/habitloop/internal/dto"
	"anoa.com/habitloop/internal/service"
	"anoa.com/habitloop/pkg/response"
	"anoa.com/habitloop/pkg/validator"
	"github.com/gin-gonic/gin"
)

type ConfigHandler struct {
	service service.UserConfigService
}

func NewConfigHandler(service service.UserConfigService) *ConfigHandler {
	return &ConfigHandler{service: service}
}

func (h *ConfigHandler) GetConfig(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	resp, err := h.service.GetConfig(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ConfigHandler) UpdateConfig(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.service.UpdateConfig(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
