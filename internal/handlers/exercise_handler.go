package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/liftledger/liftledger/internal/dto"
	"github.com/liftledger/liftledger/internal/identity"
	"github.com/liftledger/liftledger/internal/services"
	"github.com/liftledger/liftledger/remote"
)

type ExerciseHandler struct {
	exerciseService *services.ExerciseService
}

func NewExerciseHandler(exerciseService *services.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

func (h *ExerciseHandler) List(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Code: remote.CodeUnauthorized, Message: "Unauthorized",
		})
	}

	exercises, err := h.exerciseService.ListActive(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch exercises",
		})
	}

	return c.JSON(exercises)
}

func (h *ExerciseHandler) Create(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Code: remote.CodeUnauthorized, Message: "Unauthorized",
		})
	}

	var req dto.CreateExerciseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Code: remote.CodeInvalidRequest, Message: "Invalid request body",
		})
	}

	exercise, err := h.exerciseService.Create(userID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrExerciseNameTaken):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Code: remote.CodeDuplicateName, Message: err.Error(),
			})
		case errors.Is(err, services.ErrExerciseNameRequired),
			errors.Is(err, services.ErrExerciseNameTooLong),
			errors.Is(err, services.ErrNotesTooLong):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Code: remote.CodeInvalidRequest, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create exercise",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(exercise)
}

// Archive tombstones an exercise. History referencing it keeps resolving; the
// name becomes available for a fresh exercise.
func (h *ExerciseHandler) Archive(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Code: remote.CodeUnauthorized, Message: "Unauthorized",
		})
	}

	exerciseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Code: remote.CodeInvalidRequest, Message: "Invalid exercise ID",
		})
	}

	if err := h.exerciseService.Archive(userID, exerciseID); err != nil {
		if errors.Is(err, services.ErrExerciseNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Code: remote.CodeNotFound, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to archive exercise",
		})
	}

	return c.JSON(fiber.Map{"message": "Exercise archived successfully"})
}
