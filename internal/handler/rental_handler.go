package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"gamerent/internal/model"
	"gamerent/internal/repository"
	"gamerent/internal/service/rental"
	"gamerent/pkg/utils"
)

// RentalHandler rental order handler
type RentalHandler struct {
	rentalService rental.RentalService
}

// NewRentalHandler creates a rental handler
func NewRentalHandler(rentalService rental.RentalService) *RentalHandler {
	return &RentalHandler{rentalService: rentalService}
}

// SubmitRental creates a rental order
func (h *RentalHandler) SubmitRental(c *gin.Context) {
	var req rental.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.CodeInvalidParam, utils.FormatBindingError(err))
		return
	}

	created, err := h.rentalService.Submit(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, repository.ErrGamesUnavailable) {
			utils.Error(c, utils.CodeConflict, "one or more games are not available")
			return
		}
		utils.Error(c, utils.CodeInternalError, "Failed to create rental")
		return
	}

	utils.CreatedResponse(c, created)
}

// GetRental gets a rental by ID
func (h *RentalHandler) GetRental(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.Error(c, utils.CodeInvalidParam, "Invalid rental ID")
		return
	}

	r, err := h.rentalService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrRentalNotFound) {
			utils.Error(c, utils.CodeNotFound, "Rental not found")
			return
		}
		utils.Error(c, utils.CodeInternalError, "Failed to load rental")
		return
	}

	utils.SuccessResponse(c, r)
}

// ListRentals lists rentals, newest first
func (h *RentalHandler) ListRentals(c *gin.Context) {
	rentals, err := h.rentalService.List(c.Request.Context())
	if err != nil {
		utils.Error(c, utils.CodeInternalError, "Failed to list rentals")
		return
	}

	utils.SuccessResponse(c, rentals)
}

// UpdateRentalStatus moves a rental to a new status
func (h *RentalHandler) UpdateRentalStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.Error(c, utils.CodeInvalidParam, "Invalid rental ID")
		return
	}

	var req rental.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.CodeInvalidParam, utils.FormatBindingError(err))
		return
	}

	status := model.RentalStatus(req.Status)
	if !status.IsValid() {
		utils.Error(c, utils.CodeInvalidParam, "Invalid status")
		return
	}

	updated, err := h.rentalService.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		if errors.Is(err, repository.ErrRentalNotFound) {
			utils.Error(c, utils.CodeNotFound, "Rental not found")
			return
		}
		utils.Error(c, utils.CodeInternalError, "Failed to update rental status")
		return
	}

	utils.SuccessResponse(c, updated)
}
