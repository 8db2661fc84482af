package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/sweets9/SOC-ThreatViz/internal/config"
	dbmodels "github.com/sweets9/SOC-ThreatViz/internal/database/models"
	"github.com/sweets9/SOC-ThreatViz/internal/middleware"
	"github.com/sweets9/SOC-ThreatViz/internal/models"
	"github.com/sweets9/SOC-ThreatViz/internal/util"
	"github.com/sweets9/SOC-ThreatViz/pkg/version"
)

const appName = "SOC Global Threat Visualiser"

// threatsHandler serves GET /api/threats: the store filtered down to the
// requested timeframe. Ordering is left as stored (newest first on disk);
// the client re-sorts for display.
func (s *Server) threatsHandler(c *fiber.Ctx) error {
	timeframe := c.Query("timeframe", config.DefaultTimeframe)
	mode := c.Query("mode", config.ModeTest)

	threats, err := s.storeFor(mode).Read(s.cfg.Data.Timeframe(timeframe))
	if err != nil {
		util.PrintError("Error retrieving threats: " + err.Error())
		return internalError(c, "Failed to retrieve threat data")
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"count":     len(threats),
		"timeframe": timeframe,
		"mode":      mode,
		"version":   version.Version(),
		"threats":   threats,
	})
}

// statsHandler serves GET /api/stats: aggregate counts over the full store
func (s *Server) statsHandler(c *fiber.Ctx) error {
	mode := c.Query("mode", config.ModeTest)
	st := s.storeFor(mode)

	threats, err := st.Load()
	if err != nil {
		util.PrintError("Error retrieving stats: " + err.Error())
		return internalError(c, "Failed to retrieve statistics")
	}
	fileStats, err := st.Stats()
	if err != nil {
		return internalError(c, "Failed to retrieve statistics")
	}

	blocked := 0
	bySeverity := map[string]int{"low": 0, "medium": 0, "high": 0, "critical": 0}
	byCategory := map[string]int{}
	for _, cat := range models.Categories {
		byCategory[cat] = 0
	}

	for _, t := range threats {
		if t.Blocked {
			blocked++
		}
		sev := strings.ToLower(t.Severity)
		if _, ok := bySeverity[sev]; ok {
			bySeverity[sev]++
		}
		if _, ok := byCategory[t.Category]; ok {
			byCategory[t.Category]++
		}
	}

	if s.metrics != nil {
		s.metrics.SetStoreStats(modeLabel(mode), fileStats.Entries, fileStats.SizeBytes)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats": fiber.Map{
			"total":      len(threats),
			"blocked":    blocked,
			"allowed":    len(threats) - blocked,
			"bySeverity": bySeverity,
			"byCategory": byCategory,
			"csv": fiber.Map{
				"entries":      fileStats.Entries,
				"sizeBytes":    fileStats.SizeBytes,
				"lastModified": fileStats.LastModified,
			},
			"mode":    mode,
			"version": version.Version(),
		},
	})
}

// infoHandler serves GET /api/info: build and store file details
func (s *Server) infoHandler(c *fiber.Ctx) error {
	mode := c.Query("mode", config.ModeTest)
	st := s.storeFor(mode)

	fileStats, err := st.Stats()
	if err != nil {
		util.PrintError("Error retrieving info: " + err.Error())
		return internalError(c, "Failed to retrieve application info")
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"appName":     appName,
		"version":     version.Version(),
		"commit":      version.Commit(),
		"versionFull": version.Full(),
		"mode":        mode,
		"csv": fiber.Map{
			"path":          st.Path(),
			"entries":       fileStats.Entries,
			"sizeBytes":     fileStats.SizeBytes,
			"sizeFormatted": util.FormatBytes(fileStats.SizeBytes),
			"lastModified":  fileStats.LastModified,
		},
	})
}

func (s *Server) healthHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success":   true,
		"status":    "healthy",
		"timestamp": util.ISOTimestamp(),
		"version":   version.Version(),
	})
}

// webhookUpdateHandler serves POST /api/webhook/update: a single threat
// record. Webhook writes always target the live store.
func (s *Server) webhookUpdateHandler(c *fiber.Ctx) error {
	var payload map[string]any
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "Invalid request body")
	}

	candidate := models.ApplyDefaults(payload)
	if !models.IsValid(candidate) {
		if s.metrics != nil {
			s.metrics.RejectedTotal.WithLabelValues(config.ModeLive).Inc()
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Bad Request",
			"message": "Invalid threat data format",
			"threat":  payload,
		})
	}

	threat := models.FromMap(candidate)
	result, err := s.liveStore().Append(threat)
	if err != nil {
		util.PrintError("Error updating threat data: " + err.Error())
		return internalError(c, "Failed to update threat data")
	}

	s.recordIngest(c, config.ModeLive, result.Added, 0, result.Pruned)
	s.hub.Broadcast(threat)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Threat data updated successfully",
		"threat":  threat,
	})
}

type bulkRequest struct {
	Events []map[string]any `json:"events"`
}

// webhookBulkHandler serves POST /api/webhook/bulk. One bad record never
// fails the batch: invalid inputs are reported back in their original,
// undefaulted form and the rest proceed.
func (s *Server) webhookBulkHandler(c *fiber.Ctx) error {
	var req bulkRequest
	if err := c.BodyParser(&req); err != nil || req.Events == nil {
		return badRequest(c, `Expected "events" array in request body`)
	}

	valid := []models.Threat{}
	invalid := []map[string]any{}
	for _, event := range req.Events {
		candidate := models.ApplyDefaults(event)
		if models.IsValid(candidate) {
			valid = append(valid, models.FromMap(candidate))
		} else {
			invalid = append(invalid, event)
		}
	}

	pruned := 0
	if len(valid) > 0 {
		result, err := s.liveStore().AppendBatch(valid)
		if err != nil {
			util.PrintError("Error bulk updating threat data: " + err.Error())
			return internalError(c, "Failed to bulk update threat data")
		}
		pruned = result.Pruned
	}

	s.recordIngest(c, config.ModeLive, len(valid), len(invalid), pruned)
	for _, t := range valid {
		s.hub.Broadcast(t)
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"message":        fmt.Sprintf("Processed %d events", len(req.Events)),
		"added":          len(valid),
		"rejected":       len(invalid),
		"invalidThreats": invalid,
	})
}

// authTokenHandler exchanges the static API token for a short-lived JWT
func (s *Server) authTokenHandler(c *fiber.Ctx) error {
	token, expiresAt, err := middleware.GenerateJWTToken(c.IP(), s.cfg.Security.JWTSecret, time.Now())
	if err != nil {
		util.PrintError("Error issuing token: " + err.Error())
		return internalError(c, "Failed to issue token")
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"token":     token,
		"expiresAt": expiresAt.UTC().Format(time.RFC3339),
	})
}

// recordIngest writes the audit row and bumps the ingest counters for one
// webhook write. Audit failures only warn; the write itself already happened.
func (s *Server) recordIngest(c *fiber.Ctx, mode string, added, rejected, pruned int) {
	// pruned is counted by the store's own OnPrune hook; here it only goes
	// into the audit row
	if s.metrics != nil {
		s.metrics.IngestedTotal.WithLabelValues(mode).Add(float64(added))
		s.metrics.RejectedTotal.WithLabelValues(mode).Add(float64(rejected))
	}
	if s.audit == nil {
		return
	}
	err := s.audit.Insert(dbmodels.IngestAudit{
		BatchID:    uuid.NewString(),
		Mode:       mode,
		RemoteAddr: c.IP(),
		Added:      added,
		Rejected:   rejected,
		Pruned:     pruned,
	})
	if err != nil {
		util.PrintWarning("Failed to write ingest audit row: " + err.Error())
	}
}

func modeLabel(mode string) string {
	if mode == "" {
		return "default"
	}
	return mode
}

func internalError(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "Internal Server Error",
		"message": msg,
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "Bad Request",
		"message": msg,
	})
}
