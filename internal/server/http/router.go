// Package http exposes the data-access gateway over REST/JSON. It is one
// of the transports a station can sit behind; the services layer carries
// all domain rules.
package http

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/anshthakare16/sai-sillicon-valley/internal/logging"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/models"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/services"
)

// Router wires the HTTP handlers to the service layer.
type Router struct {
	flats     *services.FlatService
	residents *services.ResidentService
	requests  *services.RequestService
	photos    *services.PhotoService
	reports   *services.ReportService
	logger    logging.Logger
}

func NewRouter(fs *services.FlatService, rs *services.ResidentService,
	qs *services.RequestService, ps *services.PhotoService,
	reps *services.ReportService, logger logging.Logger) *Router {
	return &Router{
		flats:     fs,
		residents: rs,
		requests:  qs,
		photos:    ps,
		reports:   reps,
		logger:    logger.With("module", "http"),
	}
}

// flatCodeValidator accepts codes like "B203" on binding level; existence
// is still decided by the directory lookup.
func flatCodeValidator(fl validator.FieldLevel) bool {
	_, _, err := models.ParseFlatCode(fl.Field().String())
	return err == nil
}

// Engine builds the gin engine with all routes registered.
func (r *Router) Engine() *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("flatcode", flatCodeValidator)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), r.requestLogger())

	api := engine.Group("/api")
	{
		api.GET("/health", r.health)

		api.GET("/flats", r.listFlats)
		api.GET("/flats/:flatID", r.getFlat)

		api.POST("/auth/resident", r.authenticateResident)
		api.POST("/auth/refresh", r.refreshToken)
		api.POST("/auth/admin", r.adminLogin)

		// Guard endpoints are unauthenticated: the guard station is not
		// individually authenticated in this system.
		api.POST("/requests", r.createRequest)
		api.GET("/requests/pending", r.listPending)
		api.POST("/requests/:id/entry", r.allowEntry)
		api.POST("/photos/presign", r.presignPhoto)

		resident := api.Group("", r.requireRole(roleResident))
		{
			resident.GET("/residents/:id", r.getResident)
			resident.GET("/flats/:flatID/requests/pending", r.listPendingForFlat)
			resident.GET("/flats/:flatID/requests/history", r.listHistoryForFlat)
			resident.PATCH("/requests/:id/status", r.updateRequestStatus)
			resident.POST("/auth/logout", r.logout)
		}

		admin := api.Group("", r.requireRole(roleAdmin))
		{
			admin.GET("/requests", r.listAllRequests)
			admin.GET("/stats", r.stats)
			admin.GET("/reports/requests.xlsx", r.exportRequests)
		}
	}

	return engine
}
