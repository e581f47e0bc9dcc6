package properties

import (
	"errors"
	"net/http"
	"strconv"

	"ooya-dx/internal/domain/calc"
	"ooya-dx/internal/domain/properties"
	"ooya-dx/internal/infra/zipcode"
	"ooya-dx/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	store *properties.Store
	log   *zap.Logger
}

func NewHandler(store *properties.Store, log *zap.Logger) *Handler {
	if log == nil {
		log = logger.L()
	}
	return &Handler{store: store, log: log.Named("properties")}
}

type PropertyInput struct {
	Name              string `json:"name" binding:"required,max=200"`
	Zipcode           string `json:"zipcode"`
	Address           string `json:"address" binding:"max=500"`
	Structure         string `json:"structure"`
	BuiltYear         int    `json:"built_year" binding:"omitempty,min=1868,max=2200"`
	Price             int64  `json:"price" binding:"min=0"`
	BuildingCost      int64  `json:"building_cost" binding:"min=0"`
	AnnualRent        int64  `json:"annual_rent" binding:"min=0"`
	OperatingExpenses int64  `json:"operating_expenses" binding:"min=0"`
	Memo              string `json:"memo" binding:"max=5000"`
}

// property validates in and builds the row; on failure it has already
// written the 400.
func (in PropertyInput) property(c *gin.Context, userID string) (*properties.Property, bool) {
	zip := ""
	if in.Zipcode != "" {
		var err error
		if zip, err = zipcode.Normalize(in.Zipcode); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return nil, false
		}
	}
	if in.Structure != "" && !calc.Structure(in.Structure).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown structure"})
		return nil, false
	}
	return &properties.Property{
		UserID:            userID,
		Name:              in.Name,
		Zipcode:           zip,
		Address:           in.Address,
		Structure:         in.Structure,
		BuiltYear:         in.BuiltYear,
		Price:             in.Price,
		BuildingCost:      in.BuildingCost,
		AnnualRent:        in.AnnualRent,
		OperatingExpenses: in.OperatingExpenses,
		Memo:              in.Memo,
	}, true
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) fail(c *gin.Context, err error, msg string) {
	if errors.Is(err, properties.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	h.log.Error(msg, zap.String("user_id", c.GetString("user_id")), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

func (h *Handler) ListProperties(c *gin.Context) {
	list, err := h.store.ListProperties(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		h.fail(c, err, "Failed to load properties")
		return
	}
	c.JSON(http.StatusOK, gin.H{"properties": list})
}

func (h *Handler) GetProperty(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	p, err := h.store.GetProperty(c.Request.Context(), c.GetString("user_id"), id)
	if err != nil {
		h.fail(c, err, "Failed to load property")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) CreateProperty(c *gin.Context) {
	var in PropertyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		return
	}
	p, ok := in.property(c, c.GetString("user_id"))
	if !ok {
		return
	}
	if err := h.store.CreateProperty(c.Request.Context(), p); err != nil {
		h.fail(c, err, "Failed to create property")
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) UpdateProperty(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in PropertyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		return
	}
	userID := c.GetString("user_id")
	p, ok := in.property(c, userID)
	if !ok {
		return
	}
	p.ID = id

	ctx := c.Request.Context()
	if err := h.store.UpdateProperty(ctx, p); err != nil {
		h.fail(c, err, "Failed to update property")
		return
	}
	updated, err := h.store.GetProperty(ctx, userID, id)
	if err != nil {
		h.fail(c, err, "Failed to load property")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteProperty(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteProperty(c.Request.Context(), c.GetString("user_id"), id); err != nil {
		h.fail(c, err, "Failed to delete property")
		return
	}
	c.Status(http.StatusNoContent)
}
