package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/freightops-trips/internal/controller"
	"github.com/nurpe/freightops-trips/internal/http/middleware"
	"github.com/nurpe/freightops-trips/internal/model"
	"github.com/nurpe/freightops-trips/internal/service"
	"github.com/nurpe/freightops-trips/internal/validation"
)

type Handler struct {
	trips *service.TripService
	log   zerolog.Logger
}

func NewHandler(trips *service.TripService, log zerolog.Logger) *Handler {
	return &Handler{trips: trips, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.GET("/state", h.state)
	protected.GET("/trips/:id", h.trip)
	protected.POST("/trips/:id/loads", h.attachLoad)
	protected.PUT("/trips/:id/driver", h.changeDriver)
	protected.PUT("/trips/:id/vehicle", h.changeVehicle)
	protected.POST("/trips/:id/status", h.advanceTrip)
	protected.POST("/trips/:id/manifest", h.issueManifest)
	protected.GET("/trips/:id/deliveries/:deliveryId/hierarchy", h.deliveryHierarchy)
	protected.POST("/trips/:id/export", h.exportExcel)
	protected.POST("/trips/:id/export/pdf", h.exportPDF)
	protected.POST("/loads/:id/waybill", h.emitWaybill)
	protected.DELETE("/loads/:id/waybill", h.cancelWaybill)
	protected.POST("/documents/reconcile", h.reconcileDocuments)
}

func (h *Handler) state(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	c.JSON(http.StatusOK, h.trips.Snapshot(principal))
}

func (h *Handler) trip(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trip id"})
		return
	}
	trip, err := h.trips.Trip(principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

type documentRequest struct {
	Type            string   `json:"type" binding:"required"`
	Number          string   `json:"number"`
	CoveringWaybill string   `json:"covering_waybill"`
	AccessKey       string   `json:"access_key"`
	ReferencedKeys  []string `json:"referenced_keys"`
	Subcontracted   bool     `json:"subcontracted"`
	Value           float64  `json:"value"`
	WeightKg        float64  `json:"weight_kg"`
}

func (r documentRequest) toModel() model.Document {
	return model.Document{
		Type:            model.DocumentType(strings.ToUpper(strings.TrimSpace(r.Type))),
		Number:          strings.TrimSpace(r.Number),
		CoveringWaybill: strings.TrimSpace(r.CoveringWaybill),
		AccessKey:       strings.TrimSpace(r.AccessKey),
		ReferencedKeys:  r.ReferencedKeys,
		Subcontracted:   r.Subcontracted,
		Value:           r.Value,
		WeightKg:        r.WeightKg,
	}
}

type attachLoadRequest struct {
	LoadID    string            `json:"load_id" binding:"required"`
	Mode      string            `json:"mode" binding:"required"`
	Confirmed bool              `json:"confirmed"`
	Recipient string            `json:"recipient"`
	Address   string            `json:"address"`
	Documents []documentRequest `json:"documents"`
}

func (h *Handler) attachLoad(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	tripID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trip id"})
		return
	}

	var req attachLoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loadID, err := uuid.Parse(strings.TrimSpace(req.LoadID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid load_id"})
		return
	}

	mode, err := parseMode(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mode"})
		return
	}

	documents := make([]model.Document, 0, len(req.Documents))
	for _, doc := range req.Documents {
		documents = append(documents, doc.toModel())
	}

	outcome, err := h.trips.AttachLoad(principal, controller.AttachInput{
		TripID:    tripID,
		LoadID:    loadID,
		Mode:      mode,
		Confirmed: req.Confirmed,
		Recipient: req.Recipient,
		Address:   req.Address,
		Documents: documents,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(outcomeStatus(outcome.Applied, outcome.Report.Valid), outcome)
}

func (h *Handler) emitWaybill(c *gin.Context) {
	h.loadMutation(c, func(principal model.Principal, loadID uuid.UUID) (controller.SingleOutcome, error) {
		return h.trips.EmitWaybill(principal, loadID)
	})
}

func (h *Handler) cancelWaybill(c *gin.Context) {
	h.loadMutation(c, func(principal model.Principal, loadID uuid.UUID) (controller.SingleOutcome, error) {
		return h.trips.CancelWaybill(principal, loadID)
	})
}

func (h *Handler) loadMutation(c *gin.Context, op func(model.Principal, uuid.UUID) (controller.SingleOutcome, error)) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	loadID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid load id"})
		return
	}
	outcome, err := op(principal, loadID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(outcomeStatus(outcome.Applied, outcome.Result.Valid), outcome)
}

type changeDriverRequest struct {
	Driver string `json:"driver" binding:"required"`
}

func (h *Handler) changeDriver(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	tripID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trip id"})
		return
	}
	var req changeDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	outcome, err := h.trips.ChangeDriver(principal, tripID, req.Driver)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(outcomeStatus(outcome.Applied, outcome.Result.Valid), outcome)
}

type changeVehicleRequest struct {
	VehicleID string `json:"vehicle_id" binding:"required"`
}

func (h *Handler) changeVehicle(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	tripID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trip id"})
		return
	}
	var req changeVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	vehicleID, err := uuid.Parse(strings.TrimSpace(req.VehicleID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle_id"})
		return
	}
	outcome, err := h.trips.ChangeVehicle(principal, tripID, vehicleID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(outcomeStatus(outcome.Applied, outcome.Result.Valid), outcome)
}

type advanceTripRequest struct {
	Status          string `json:"status" binding:"required"`
	ProofOfDelivery string `json:"proof_of_delivery"`
}

func (h *Handler) advanceTrip(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	tripID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trip id"})
		return
	}
	var req advanceTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, err := parseTripStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}
	outcome, err := h.trips.AdvanceTrip(principal, controller.AdvanceInput{
		TripID:          tripID,
		Next:            status,
		ProofOfDelivery: req.ProofOfDelivery,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(outcomeStatus(outcome.Applied, outcome.Result.Valid), outcome)
}

func (h *Handler) issueManifest(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	tripID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trip id"})
		return
	}
	outcome, err := h.trips.IssueManifest(principal, tripID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(outcomeStatus(outcome.Applied, outcome.Result.Valid), outcome)
}

func (h *Handler) deliveryHierarchy(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	tripID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trip id"})
		return
	}
	deliveryID, err := uuid.Parse(strings.TrimSpace(c.Param("deliveryId")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid delivery id"})
		return
	}
	hierarchy, err := h.trips.DeliveryHierarchy(principal, tripID, deliveryID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, hierarchy)
}

type reconcileRequest struct {
	Documents []documentRequest `json:"documents" binding:"required"`
}

func (h *Handler) reconcileDocuments(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	var req reconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	documents := make([]model.Document, 0, len(req.Documents))
	for _, doc := range req.Documents {
		documents = append(documents, doc.toModel())
	}
	c.JSON(http.StatusOK, h.trips.ReconcileDocuments(principal, documents))
}

func (h *Handler) exportExcel(c *gin.Context) {
	h.export(c, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", func(principal model.Principal, tripID uuid.UUID) (*service.ExportResult, error) {
		return h.trips.ExportTripExcel(principal, tripID)
	})
}

func (h *Handler) exportPDF(c *gin.Context) {
	h.export(c, "application/pdf", func(principal model.Principal, tripID uuid.UUID) (*service.ExportResult, error) {
		return h.trips.ExportTripPDF(principal, tripID)
	})
}

func (h *Handler) export(c *gin.Context, contentType string, op func(model.Principal, uuid.UUID) (*service.ExportResult, error)) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	tripID, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trip id"})
		return
	}
	result, err := op(principal, tripID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentType, result.Content)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// outcomeStatus keeps rule rejections visible in the status line: hard
// blocks map to 422, a warning held for confirmation to 409, applied
// mutations to 200.
func outcomeStatus(applied, valid bool) int {
	if applied {
		return http.StatusOK
	}
	if !valid {
		return http.StatusUnprocessableEntity
	}
	return http.StatusConflict
}

func parseID(c *gin.Context, param string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(c.Param(param)))
}

func parseMode(raw string) (validation.AssignmentMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "complement":
		return validation.ModeComplement, nil
	case "return":
		return validation.ModeReturn, nil
	default:
		return "", service.ErrInvalidInput
	}
}

func parseTripStatus(raw string) (model.TripStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "PICKING_UP":
		return model.TripStatusPickingUp, nil
	case "IN_TRANSIT":
		return model.TripStatusInTransit, nil
	case "COMPLETED":
		return model.TripStatusCompleted, nil
	case "DELAYED":
		return model.TripStatusDelayed, nil
	default:
		return "", service.ErrInvalidInput
	}
}
