package properties

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"ooya-dx/internal/domain/calc"
	"ooya-dx/internal/domain/properties"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type SimulationInput struct {
	Kind       string          `json:"kind" binding:"required"`
	Title      string          `json:"title" binding:"max=200"`
	PropertyID *uint           `json:"property_id"`
	Input      json.RawMessage `json:"input" binding:"required"`
}

// ListSimulations serves GET /api/simulations, optionally filtered by
// ?property_id=.
func (h *Handler) ListSimulations(c *gin.Context) {
	var propertyID *uint
	if raw := c.Query("property_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property_id"})
			return
		}
		v := uint(id)
		propertyID = &v
	}

	list, err := h.store.ListSimulations(c.Request.Context(), c.GetString("user_id"), propertyID)
	if err != nil {
		h.fail(c, err, "Failed to load simulations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"simulations": list})
}

// CreateSimulation runs the named calculator and stores input and result.
func (h *Handler) CreateSimulation(c *gin.Context) {
	var in SimulationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		return
	}

	result, err := calc.Run(in.Kind, in.Input)
	if errors.Is(err, calc.ErrUnknownKind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown calculator kind"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid calculator input", "details": err.Error()})
		return
	}
	encoded, err := json.Marshal(result)
	if err != nil {
		h.fail(c, err, "Failed to encode result")
		return
	}

	sim := &properties.Simulation{
		UserID:     c.GetString("user_id"),
		PropertyID: in.PropertyID,
		Kind:       in.Kind,
		Title:      in.Title,
		Input:      datatypes.JSON(in.Input),
		Result:     datatypes.JSON(encoded),
	}
	if err := h.store.CreateSimulation(c.Request.Context(), sim); err != nil {
		if errors.Is(err, properties.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown property_id"})
			return
		}
		h.fail(c, err, "Failed to save simulation")
		return
	}
	c.JSON(http.StatusCreated, sim)
}

func (h *Handler) DeleteSimulation(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteSimulation(c.Request.Context(), c.GetString("user_id"), id); err != nil {
		h.fail(c, err, "Failed to delete simulation")
		return
	}
	c.Status(http.StatusNoContent)
}
