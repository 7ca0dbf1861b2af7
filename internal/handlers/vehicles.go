package handlers

import (
	"errors"
	"net/http"

	"car_chronicle/internal/models"
	"car_chronicle/internal/service"

	"github.com/gin-gonic/gin"
)

const errInvalidBodyPref = "invalid body: "

// domainStatus maps recoverable ledger/insurance errors to HTTP codes.
// Unknown errors fall through to 500.
func domainStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrCarNotFound),
		errors.Is(err, service.ErrOwnerNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrCarAlreadyRegistered),
		errors.Is(err, service.ErrAlreadyHasInsurance):
		return http.StatusConflict
	case errors.Is(err, service.ErrNoInsurance),
		errors.Is(err, service.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNoLogsProvided),
		errors.Is(err, service.ErrUnknownCommand),
		errors.Is(err, service.ErrNoPremiumProvided):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondDomainError logs server-side failures and writes the mapped JSON error.
func (h *Handler) respondDomainError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	code := domainStatus(err)
	if h.log != nil && code == http.StatusInternalServerError {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(code, gin.H{"error": err.Error()})
}

// logEntryRequest is the wire form of one diagnostic entry.
type logEntryRequest struct {
	Command     string `json:"command" binding:"required"` // ENGINE_LOAD | THROTTLE_POSITION | DISTANCE_WITH_MIL
	Value       string `json:"value"`
	Desc        string `json:"desc,omitempty"`
	CommandCode string `json:"command_code,omitempty"`
	ECU         uint8  `json:"ecu"`
	Timestamp   uint64 `json:"timestamp"`
}

func toLogEntries(in []logEntryRequest) []models.LogEntry {
	out := make([]models.LogEntry, 0, len(in))
	for _, e := range in {
		out = append(out, models.LogEntry{
			Command:     models.CarCommand(e.Command),
			Value:       e.Value,
			Desc:        e.Desc,
			CommandCode: e.CommandCode,
			ECU:         e.ECU,
			Timestamp:   e.Timestamp,
		})
	}
	return out
}

// RegisterVehicleRequest is the exported model for Swagger docs of the
// registration payload.
type RegisterVehicleRequest struct {
	Model string            `json:"model" example:"Toyota"`
	VIN   string            `json:"vin" example:"WVWZZZ1JZXW000001"`
	Logs  []logEntryRequest `json:"logs"`
}

type registerRequest struct {
	Model string            `json:"model" binding:"required"`
	VIN   string            `json:"vin" binding:"required"`
	Logs  []logEntryRequest `json:"logs"`
}

type appendLogsRequest struct {
	Logs []logEntryRequest `json:"logs" binding:"required"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary      Register a vehicle
// @Description  Caller must hold active insurance coverage. At least one diagnostic log entry is required.
// @Tags         cars
// @Accept       json
// @Produce      json
// @Param        body  body   RegisterVehicleRequest  true  "Vehicle payload"
// @Success      201   {object}  models.VehicleRecord
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/cars [post]
// @Security     BearerAuth
func (h *Handler) registerVehicle(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	rec, err := h.services.Ledger.RegisterVehicle(c.Request.Context(), caller(c), service.RegisterParams{
		Model: req.Model,
		VIN:   req.VIN,
		Logs:  toLogEntries(req.Logs),
	})
	if err != nil {
		h.respondDomainError(c, "register_vehicle_failed", err, "vin", req.VIN)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// @Summary      Append diagnostic logs
// @Tags         cars
// @Accept       json
// @Produce      json
// @Param        vin   path   string             true  "VIN"
// @Param        body  body   object             true  "Log entries"
// @Success      200   {object}  models.VehicleRecord
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/cars/{vin}/logs [post]
// @Security     BearerAuth
func (h *Handler) appendLogs(c *gin.Context) {
	var req appendLogsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	vin := c.Param("vin")
	rec, err := h.services.Ledger.AppendLogs(c.Request.Context(), caller(c), vin, toLogEntries(req.Logs))
	if err != nil {
		h.respondDomainError(c, "append_logs_failed", err, "vin", vin)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// @Summary      Get a vehicle record
// @Tags         cars
// @Produce      json
// @Param        vin  path   string  true  "VIN"
// @Success      200  {object}  models.VehicleRecord
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/cars/{vin} [get]
// @Security     BearerAuth
func (h *Handler) getRecord(c *gin.Context) {
	vin := c.Param("vin")
	rec, err := h.services.Ledger.GetRecord(c.Request.Context(), vin)
	if err != nil {
		h.respondDomainError(c, "get_record_failed", err, "vin", vin)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// @Summary      Get a vehicle's diagnostic log
// @Tags         cars
// @Produce      json
// @Param        vin  path   string  true  "VIN"
// @Success      200  {object}  map[string]interface{}  "count, logs"
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/cars/{vin}/logs [get]
// @Security     BearerAuth
func (h *Handler) getLogs(c *gin.Context) {
	vin := c.Param("vin")
	logs, err := h.services.Ledger.GetLogs(c.Request.Context(), vin)
	if err != nil {
		h.respondDomainError(c, "get_logs_failed", err, "vin", vin)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(logs), "logs": logs})
}

// @Summary      List VINs registered by an owner
// @Tags         cars
// @Produce      json
// @Param        owner  path   string  true  "Owner account"
// @Success      200    {object}  map[string]interface{}  "owner, vins"
// @Failure      404    {object}  map[string]string
// @Router       /api/v1/owners/{owner}/cars [get]
// @Security     BearerAuth
func (h *Handler) recordsByOwner(c *gin.Context) {
	owner := c.Param("owner")
	vins, err := h.services.Ledger.RecordsByOwner(c.Request.Context(), owner)
	if err != nil {
		h.respondDomainError(c, "records_by_owner_failed", err, "owner", owner)
		return
	}
	c.JSON(http.StatusOK, gin.H{"owner": owner, "vins": vins})
}

// @Summary      List all vehicle records
// @Tags         cars
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, cars"
// @Router       /api/v1/cars [get]
// @Security     BearerAuth
func (h *Handler) listAllRecords(c *gin.Context) {
	recs, err := h.services.Ledger.ListAll(c.Request.Context())
	if err != nil {
		h.respondDomainError(c, "list_all_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(recs), "cars": recs})
}

// @Summary      Vehicle health rating
// @Tags         cars
// @Produce      json
// @Param        vin  path   string  true  "VIN"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/cars/{vin}/health [get]
// @Security     BearerAuth
func (h *Handler) classify(c *gin.Context) {
	vin := c.Param("vin")
	health, err := h.services.Health.Classify(c.Request.Context(), vin)
	if err != nil {
		h.respondDomainError(c, "classify_failed", err, "vin", vin)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vin": vin, "health": health})
}

// @Summary      Vehicle market-value estimate
// @Tags         cars
// @Produce      json
// @Param        vin  path   string  true  "VIN"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/cars/{vin}/value [get]
// @Security     BearerAuth
func (h *Handler) marketValue(c *gin.Context) {
	vin := c.Param("vin")
	value, err := h.services.Health.MarketValue(c.Request.Context(), vin)
	if err != nil {
		h.respondDomainError(c, "market_value_failed", err, "vin", vin)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vin": vin, "value": value})
}
