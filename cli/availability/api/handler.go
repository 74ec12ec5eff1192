package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/daniil11ru/availability/cli/availability/domain"
	"github.com/daniil11ru/availability/cli/availability/source"
	"github.com/daniil11ru/availability/cli/availability/types"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type VehiclesRepository interface {
	GetAll(ctx context.Context) ([]types.Vehicle, error)
	GetByID(ctx context.Context, id string) (types.Vehicle, error)
}

type SummaryJournal interface {
	Last() (domain.Summary, bool)
}

type Handler struct {
	Repository VehiclesRepository
	Journal    SummaryJournal
}

func NewHandler(repository VehiclesRepository, journal SummaryJournal) *Handler {
	return &Handler{Repository: repository, Journal: journal}
}

func (h *Handler) GetVehicles(c *gin.Context) {
	vehicles, err := h.Repository.GetAll(c.Request.Context())
	if err != nil {
		log.WithField("err", err).Error("Не удалось получить список транспорта")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if vehicles == nil {
		vehicles = []types.Vehicle{}
	}

	c.JSON(http.StatusOK, vehicles)
}

func (h *Handler) GetVehicle(c *gin.Context) {
	vehicle, err := h.Repository.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, source.ErrVehicleNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		log.WithField("err", err).Error("Не удалось получить транспорт")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

func (h *Handler) GetSummary(c *gin.Context) {
	summary, ok := h.Journal.Last()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "ни один цикл ещё не завершён"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
