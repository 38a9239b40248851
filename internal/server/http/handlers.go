package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anshthakare16/sai-sillicon-valley/internal/api"
	"github.com/anshthakare16/sai-sillicon-valley/internal/common"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/models"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/services"
)

func (r *Router) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// abortError maps domain sentinels to HTTP statuses. Validation failures
// are 400, unknown entities 404, ordering violations 409, authorization
// failures 403; everything else is an opaque 500.
func (r *Router) abortError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrInvalidTransition):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrorUnauthorized):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrRefreshTokenExpired), errors.Is(err, common.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: err.Error()})
	default:
		r.logger.Error(c.Request.Context(), "internal error", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
	}
}

func flatToWire(f *models.Flat) api.Flat {
	return api.Flat{ID: f.ID, Wing: f.Wing, Number: f.Number, Code: f.Code()}
}

func residentToWire(res *models.Resident) api.Resident {
	return api.Resident{
		ID:        res.ID,
		Phone:     res.Phone,
		Email:     res.Email,
		FlatID:    res.FlatID,
		LastLogin: res.LastLogin,
		Active:    res.Active,
	}
}

func requestsToWire(rs []models.VisitorRequest) []api.VisitorRequest {
	out := make([]api.VisitorRequest, 0, len(rs))
	for i := range rs {
		out = append(out, services.ToWire(&rs[i]))
	}
	return out
}

func (r *Router) listFlats(c *gin.Context) {
	flats, err := r.flats.List(c.Request.Context())
	if err != nil {
		r.abortError(c, err)
		return
	}
	out := make([]api.Flat, 0, len(flats))
	for i := range flats {
		out = append(out, flatToWire(&flats[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (r *Router) getFlat(c *gin.Context) {
	flat, err := r.flats.ResolveCode(c.Request.Context(), c.Param("flatID"))
	if err != nil {
		r.abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, flatToWire(flat))
}

func (r *Router) authenticateResident(c *gin.Context) {
	var req api.AuthenticateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	resident, pair, err := r.residents.Authenticate(c.Request.Context(), req.Phone, req.Email, req.FlatCode)
	if err != nil {
		r.abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.AuthenticateResponse{
		Resident: residentToWire(resident),
		Tokens:   api.TokenPair{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken},
	})
}

func (r *Router) refreshToken(c *gin.Context) {
	var req api.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	pair, err := r.residents.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		r.abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.TokenPair{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (r *Router) adminLogin(c *gin.Context) {
	var req api.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	token, err := r.residents.AdminLogin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		// A uniform 401 keeps unknown-user and wrong-password responses
		// indistinguishable.
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": token})
}

func (r *Router) logout(c *gin.Context) {
	claims := claimsFrom(c)
	if err := r.residents.Logout(c.Request.Context(), claims.SubjectID); err != nil {
		r.abortError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (r *Router) getResident(c *gin.Context) {
	resident, err := r.residents.GetResident(c.Request.Context(), c.Param("id"))
	if err != nil {
		r.abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, residentToWire(resident))
}

func (r *Router) createRequest(c *gin.Context) {
	var payload api.CreateRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	req, err := r.requests.Submit(c.Request.Context(), services.Submission{
		ID:            payload.ID,
		VisitorName:   payload.VisitorName,
		VehicleType:   payload.VehicleType,
		VehicleNumber: payload.VehicleNumber,
		Purpose:       payload.Purpose,
		FlatCode:      payload.FlatCode,
		PhotoURL:      payload.PhotoURL,
		GuardID:       payload.GuardID,
	})
	if err != nil {
		r.abortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, services.ToWire(req))
}

func (r *Router) listPending(c *gin.Context) {
	reqs, err := r.requests.ListPending(c.Request.Context())
	if err != nil {
		r.abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, requestsToWire(reqs))
}

func (r *Router) listPendingForFlat(c *gin.Context) {
	reqs, err := r.requests.ListPendingForFlat(c.Request.Context(), c.Param("flatID"))
	if err != nil {
		r.abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, requestsToWire(reqs))
}

func (r *Router) listHistoryForFlat(c *gin.Context) {
	reqs, err := r.requests.ListHistoryForFlat(c.Request.Context(), c.Param("flatID"))
	if err != nil {
		r.abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, requestsToWire(reqs))
}

func (r *Router) updateRequestStatus(c *gin.Context) {
	var req api.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	claims := claimsFrom(c)

	var (
		updated *models.VisitorRequest
		err     error
	)
	switch req.Status {
	case string(models.StatusApproved):
		updated, err = r.requests.Approve(c.Request.Context(), c.Param("id"), claims.SubjectID)
	case string(models.StatusDenied):
		updated, err = r.requests.Deny(c.Request.Context(), c.Param("id"), claims.SubjectID)
	}
	if err != nil {
		r.abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.ToWire(updated))
}

func (r *Router) allowEntry(c *gin.Context) {
	updated, err := r.requests.AllowEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		r.abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.ToWire(updated))
}

// parseFilter reads the optional wing and date query parameters of the
// admin listing and export endpoints.
func parseFilter(c *gin.Context) (models.RequestFilter, error) {
	filter := models.RequestFilter{Wing: c.Query("wing")}
	if raw := c.Query("date"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, err
		}
		filter.Date = &day
	}
	return filter, nil
}

func (r *Router) listAllRequests(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "date must be YYYY-MM-DD"})
		return
	}
	reqs, err := r.requests.ListAll(c.Request.Context(), filter)
	if err != nil {
		r.abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, requestsToWire(reqs))
}

func (r *Router) stats(c *gin.Context) {
	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "date must be YYYY-MM-DD"})
			return
		}
		day = parsed
	}
	stats, err := r.requests.Stats(c.Request.Context(), day)
	if err != nil {
		r.abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.Stats{
		TodayVisitors:    stats.TodayVisitors,
		PendingApprovals: stats.PendingApprovals,
		ApprovedToday:    stats.ApprovedToday,
		DeniedToday:      stats.DeniedToday,
	})
}

func (r *Router) exportRequests(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "date must be YYYY-MM-DD"})
		return
	}
	book, err := r.reports.RequestsWorkbook(c.Request.Context(), filter)
	if err != nil {
		r.abortError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="visitor_requests.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", book)
}

func (r *Router) presignPhoto(c *gin.Context) {
	key, putURL, getURL, err := r.photos.PresignedPutURL(c.Request.Context())
	if err != nil {
		r.abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.PresignResponse{Key: key, PutURL: putURL, GetURL: getURL})
}
