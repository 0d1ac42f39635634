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

type WorkoutHandler struct {
	workoutService *services.WorkoutService
}

func NewWorkoutHandler(workoutService *services.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// ByDate looks up the workout logged on a calendar day. Absence is a coded
// 404; clients treat it as "nothing logged yet", not an error.
func (h *WorkoutHandler) ByDate(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Code: remote.CodeUnauthorized, Message: "Unauthorized",
		})
	}

	workout, err := h.workoutService.ByDate(userID, c.Params("date"))
	if err != nil {
		if errors.Is(err, services.ErrWorkoutNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Code: remote.CodeNotFound, Message: err.Error(),
			})
		}
		if errors.Is(err, services.ErrInvalidDate) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Code: remote.CodeInvalidRequest, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch workout",
		})
	}

	return c.JSON(workout)
}

// Create inserts the day's workout. A racing duplicate gets a coded 409 so
// the loser can fetch the winning row instead of failing.
func (h *WorkoutHandler) Create(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Code: remote.CodeUnauthorized, Message: "Unauthorized",
		})
	}

	var req dto.CreateWorkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Code: remote.CodeInvalidRequest, Message: "Invalid request body",
		})
	}

	workout, err := h.workoutService.Create(userID, req)
	if err != nil {
		if errors.Is(err, services.ErrWorkoutExists) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Code: remote.CodeDuplicateDate, Message: err.Error(),
			})
		}
		if errors.Is(err, services.ErrInvalidDate) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Code: remote.CodeInvalidRequest, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create workout",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(workout)
}

func (h *WorkoutHandler) Between(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Code: remote.CodeUnauthorized, Message: "Unauthorized",
		})
	}

	workouts, err := h.workoutService.Between(userID, c.Query("start"), c.Query("end"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidDate) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Code: remote.CodeInvalidRequest, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch workouts",
		})
	}

	return c.JSON(workouts)
}

func (h *WorkoutHandler) Sets(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Code: remote.CodeUnauthorized, Message: "Unauthorized",
		})
	}

	workoutID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Code: remote.CodeInvalidRequest, Message: "Invalid workout ID",
		})
	}

	sets, err := h.workoutService.Sets(userID, workoutID)
	if err != nil {
		if errors.Is(err, services.ErrWorkoutNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Code: remote.CodeNotFound, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch sets",
		})
	}

	return c.JSON(sets)
}

func (h *WorkoutHandler) CreateSet(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Code: remote.CodeUnauthorized, Message: "Unauthorized",
		})
	}

	var req dto.CreateSetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Code: remote.CodeInvalidRequest, Message: "Invalid request body",
		})
	}

	set, err := h.workoutService.CreateSet(userID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrWorkoutNotFound), errors.Is(err, services.ErrExerciseNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Code: remote.CodeNotFound, Message: err.Error(),
			})
		case errors.Is(err, services.ErrInvalidReps), errors.Is(err, services.ErrInvalidWeight):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Code: remote.CodeInvalidRequest, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create set",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(set)
}

func (h *WorkoutHandler) UpdateSet(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Code: remote.CodeUnauthorized, Message: "Unauthorized",
		})
	}

	setID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Code: remote.CodeInvalidRequest, Message: "Invalid set ID",
		})
	}

	var req dto.UpdateSetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Code: remote.CodeInvalidRequest, Message: "Invalid request body",
		})
	}

	set, err := h.workoutService.UpdateSet(userID, setID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSetNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Code: remote.CodeNotFound, Message: err.Error(),
			})
		case errors.Is(err, services.ErrInvalidReps), errors.Is(err, services.ErrInvalidWeight):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Code: remote.CodeInvalidRequest, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update set",
		})
	}

	return c.JSON(set)
}

func (h *WorkoutHandler) DeleteSet(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Code: remote.CodeUnauthorized, Message: "Unauthorized",
		})
	}

	setID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Code: remote.CodeInvalidRequest, Message: "Invalid set ID",
		})
	}

	if err := h.workoutService.DeleteSet(userID, setID); err != nil {
		if errors.Is(err, services.ErrSetNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Code: remote.CodeNotFound, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete set",
		})
	}

	return c.JSON(fiber.Map{"message": "Set deleted successfully"})
}

// Export returns the caller's full history, newest workout first, for
// client-side CSV rendering.
func (h *WorkoutHandler) Export(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Code: remote.CodeUnauthorized, Message: "Unauthorized",
		})
	}

	history, err := h.workoutService.AllWithSets(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to export workouts",
		})
	}

	return c.JSON(history)
}
