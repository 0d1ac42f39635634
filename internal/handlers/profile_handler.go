package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/liftledger/liftledger/internal/dto"
	"github.com/liftledger/liftledger/internal/identity"
	"github.com/liftledger/liftledger/internal/services"
	"github.com/liftledger/liftledger/remote"
)

type ProfileHandler struct {
	profileService *services.ProfileService
}

func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Get returns the caller's profile. A missing row is a coded 404 so clients
// can tell "create one" apart from a real failure.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Code: remote.CodeUnauthorized, Message: "Unauthorized",
		})
	}

	profile, err := h.profileService.Get(userID)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Code: remote.CodeNotFound, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch profile",
		})
	}

	return c.JSON(profile)
}

func (h *ProfileHandler) Create(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Code: remote.CodeUnauthorized, Message: "Unauthorized",
		})
	}

	var req dto.UpsertProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Code: remote.CodeInvalidRequest, Message: "Invalid request body",
		})
	}

	profile, err := h.profileService.Create(userID, req)
	if err != nil {
		if errors.Is(err, services.ErrDisplayNameRequired) || errors.Is(err, services.ErrDisplayNameTooLong) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Code: remote.CodeInvalidRequest, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create profile",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(profile)
}

func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Code: remote.CodeUnauthorized, Message: "Unauthorized",
		})
	}

	var req dto.UpsertProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Code: remote.CodeInvalidRequest, Message: "Invalid request body",
		})
	}

	profile, err := h.profileService.Update(userID, req)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Code: remote.CodeNotFound, Message: err.Error(),
			})
		}
		if errors.Is(err, services.ErrDisplayNameRequired) || errors.Is(err, services.ErrDisplayNameTooLong) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Code: remote.CodeInvalidRequest, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update profile",
		})
	}

	return c.JSON(profile)
}
