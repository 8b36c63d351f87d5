package handlers

import (
	"context"
	"log"
	"net/http"

	"regaudit-backend/models"
	"regaudit-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditHandler handles HTTP requests for compliance audits
type AuditHandler struct {
	auditService *service.AuditService
	pipeline     *service.Pipeline
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditService *service.AuditService, pipeline *service.Pipeline) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
		pipeline:     pipeline,
	}
}

// CreateAuditRequest represents the request body for a batch audit
type CreateAuditRequest struct {
	Scenarios     []models.Scenario `json:"scenarios" binding:"required"`
	Iterative     bool              `json:"iterative"`
	MaxIterations int               `json:"max_iterations"`
}

// CreateAudit handles POST /api/audits
func (h *AuditHandler) CreateAudit(c *gin.Context) {
	var req CreateAuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	serviceReq := service.CreateAuditJobRequest{
		Scenarios:     req.Scenarios,
		Iterative:     req.Iterative,
		MaxIterations: req.MaxIterations,
	}

	// Create job (synchronous, fast)
	result, err := h.auditService.CreateAuditJob(c.Request.Context(), serviceReq)
	if err != nil {
		status := http.StatusInternalServerError
		code := "CREATE_FAILED"
		if err == service.ErrNoScenarios {
			status = http.StatusBadRequest
			code = "EMPTY_BATCH"
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	// Spawn background goroutine for actual processing
	// Use background context (not request context) to avoid cancellation
	scenarios := req.Scenarios
	go func() {
		bgCtx := context.Background()
		if err := h.auditService.ProcessAudit(bgCtx, result.JobID, scenarios); err != nil {
			// Error is logged and stored in job.ErrorMessage
			// No need to return to HTTP client (they'll poll status)
			log.Printf("Audit job %s failed: %v", result.JobID, err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"data": gin.H{
			"job_id":  result.JobID,
			"status":  "pending",
			"message": "Audit job created. Poll /api/jobs/:id for updates.",
		},
	})
}

// GetJobStatus handles GET /api/jobs/:id
func (h *AuditHandler) GetJobStatus(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid job ID format",
			},
		})
		return
	}

	job, err := h.auditService.GetJob(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Audit job not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    job,
	})
}

// GetAuditChains handles GET /api/audits/:id
func (h *AuditHandler) GetAuditChains(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid job ID format",
			},
		})
		return
	}

	chains, err := h.auditService.GetJobChains(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RETRIEVAL_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    chains,
	})
}

// AuditScenarioRequest represents the request body for a single audit
type AuditScenarioRequest struct {
	Scenario models.Scenario `json:"scenario" binding:"required"`
}

// AuditScenario handles POST /api/scenarios/audit. Runs one synchronous
// oversight pass and returns the chain with its intermediate signals.
func (h *AuditHandler) AuditScenario(c *gin.Context) {
	var req AuditScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	if req.Scenario.ScenarioID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_SCENARIO_ID",
				"message": "scenario_id is required",
			},
		})
		return
	}

	pass := h.pipeline.Audit(c.Request.Context(), req.Scenario)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"chain":      pass.Chain,
			"retrieval":  pass.Retrieval.Meta(),
			"hard":       pass.Hard,
			"soft":       pass.Soft,
			"escalation": pass.Escalation,
		},
	})
}

// RefineScenarioRequest represents the request body for refinement
type RefineScenarioRequest struct {
	Scenario      models.Scenario `json:"scenario" binding:"required"`
	MaxIterations int             `json:"max_iterations"`
}

// RefineScenario handles POST /api/scenarios/refine. Runs the bounded
// iterative loop and returns the full refinement trail.
func (h *AuditHandler) RefineScenario(c *gin.Context) {
	var req RefineScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	if req.Scenario.ScenarioID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_SCENARIO_ID",
				"message": "scenario_id is required",
			},
		})
		return
	}

	controller := service.NewRefinementController(h.pipeline, req.MaxIterations)
	trail := controller.Run(c.Request.Context(), req.Scenario)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"iterations": len(trail),
			"trail":      trail,
		},
	})
}
