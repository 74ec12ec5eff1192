package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Controller struct {
	Handler *Handler
	router  *gin.Engine
	server  *http.Server
}

func NewController(handler *Handler, gatherer prometheus.Gatherer, port int32) (*Controller, error) {
	if handler == nil {
		return nil, fmt.Errorf("некорректная ссылка на обработчик")
	}

	router := gin.New()
	router.Use(gin.Recovery())

	vehicles := router.Group("/vehicles")
	{
		vehicles.GET("", handler.GetVehicles)
		vehicles.GET("/:id", handler.GetVehicle)
	}
	router.GET("/summary", handler.GetSummary)
	router.GET("/health", handler.Health)
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	return &Controller{
		Handler: handler,
		router:  router,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

func (c *Controller) Router() http.Handler {
	return c.router
}

func (c *Controller) Addr() string {
	return c.server.Addr
}

// Run блокируется до остановки сервера через Shutdown
func (c *Controller) Run() error {
	if err := c.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown можно вызывать до Run, тогда Run сразу вернётся
func (c *Controller) Shutdown(ctx context.Context) error {
	return c.server.Shutdown(ctx)
}
