package address

import (
	"context"
	"errors"
	"net/http"

	"ooya-dx/internal/infra/zipcode"
	"ooya-dx/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Lookuper interface {
	Lookup(ctx context.Context, code string) ([]zipcode.Address, error)
}

type Handler struct {
	zip Lookuper
	log *zap.Logger
}

func NewHandler(zip Lookuper, log *zap.Logger) *Handler {
	if log == nil {
		log = logger.L()
	}
	return &Handler{zip: zip, log: log.Named("address")}
}

// Search serves GET /api/address?zipcode=1000001.
func (h *Handler) Search(c *gin.Context) {
	raw := c.Query("zipcode")
	code, err := zipcode.Normalize(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": zipcode.ErrInvalidZipcode.Error()})
		return
	}

	addresses, err := h.zip.Lookup(c.Request.Context(), code)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"zipcode": code, "addresses": addresses})
	case errors.Is(err, zipcode.ErrInvalidZipcode):
		c.JSON(http.StatusBadRequest, gin.H{"error": zipcode.ErrInvalidZipcode.Error()})
	case errors.Is(err, zipcode.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "該当する住所が見つかりませんでした"})
	default:
		h.log.Warn("zipcode lookup failed", zap.String("zipcode", code), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "住所検索サービスに接続できませんでした"})
	}
}
