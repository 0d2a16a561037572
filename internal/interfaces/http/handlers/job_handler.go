package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"leadmarket.backend/internal/domain/entities"
	domainerrors "leadmarket.backend/internal/domain/errors"
	"leadmarket.backend/internal/interfaces/http/middleware"
	"leadmarket.backend/internal/interfaces/http/response"
	"leadmarket.backend/internal/usecases"
	"leadmarket.backend/pkg/utils"
)

// JobHandler handles job lifecycle endpoints
type JobHandler struct {
	jobs        *usecases.JobLifecycleUsecase
	contractors *usecases.ContractorUsecase
}

// NewJobHandler creates a new job handler
func NewJobHandler(jobs *usecases.JobLifecycleUsecase, contractors *usecases.ContractorUsecase) *JobHandler {
	return &JobHandler{jobs: jobs, contractors: contractors}
}

// CreateJob handles job creation
// POST /api/v1/jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	var input entities.CreateJobInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "ERR_VALIDATION", err.Error())
		return
	}

	customerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return
	}

	job, err := h.jobs.CreateJob(c.Request.Context(), customerID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, job)
}

// PostJob publishes a draft job
// POST /api/v1/jobs/:id/post
func (h *JobHandler) PostJob(c *gin.Context) {
	jobID, customerID, ok := h.jobAndUser(c)
	if !ok {
		return
	}
	if err := h.jobs.PostJob(c.Request.Context(), jobID, customerID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": entities.JobStatusPosted})
}

// GetJob gets a job by ID
// GET /api/v1/jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "ERR_VALIDATION", "invalid job id")
		return
	}
	job, err := h.jobs.GetJob(c.Request.Context(), jobID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, job)
}

// ListOpenJobs lists jobs open for lead purchase
// GET /api/v1/jobs
func (h *JobHandler) ListOpenJobs(c *gin.Context) {
	params := paginationFromQuery(c)
	jobs, total, err := h.jobs.ListOpenJobs(c.Request.Context(), params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"items": jobs,
		"meta":  utils.CalculateMeta(int64(total), params.Page, params.Limit),
	})
}

// ListMyJobs lists the authenticated customer's jobs
// GET /api/v1/jobs/mine
func (h *JobHandler) ListMyJobs(c *gin.Context) {
	customerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return
	}
	params := paginationFromQuery(c)
	jobs, total, err := h.jobs.ListCustomerJobs(c.Request.Context(), customerID, params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"items": jobs,
		"meta":  utils.CalculateMeta(int64(total), params.Page, params.Limit),
	})
}

type applyRequest struct {
	ProposedRateCents int64  `json:"proposedRateCents" binding:"required,gt=0"`
	Message           string `json:"message"`
}

// Apply submits a contractor's application to a job
// POST /api/v1/jobs/:id/applications
func (h *JobHandler) Apply(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "ERR_VALIDATION", "invalid job id")
		return
	}

	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "ERR_VALIDATION", err.Error())
		return
	}

	contractor, ok := h.currentContractor(c)
	if !ok {
		return
	}

	application, err := h.jobs.Apply(c.Request.Context(), jobID, contractor.ID, req.ProposedRateCents, req.Message)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, application)
}

// ListApplications lists applications on the customer's job
// GET /api/v1/jobs/:id/applications
func (h *JobHandler) ListApplications(c *gin.Context) {
	jobID, customerID, ok := h.jobAndUser(c)
	if !ok {
		return
	}
	applications, err := h.jobs.ListApplications(c.Request.Context(), jobID, customerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": applications})
}

type selectWinnerRequest struct {
	ContractorID uuid.UUID `json:"contractorId" binding:"required"`
}

// SelectWinner picks the winning contractor for a job
// POST /api/v1/jobs/:id/winner
func (h *JobHandler) SelectWinner(c *gin.Context) {
	jobID, customerID, ok := h.jobAndUser(c)
	if !ok {
		return
	}

	var req selectWinnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "ERR_VALIDATION", err.Error())
		return
	}

	if err := h.jobs.SelectWinner(c.Request.Context(), jobID, customerID, req.ContractorID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"wonByContractorId": req.ContractorID})
}

// ConfirmWorkStart moves the job to IN_PROGRESS
// POST /api/v1/jobs/:id/start
func (h *JobHandler) ConfirmWorkStart(c *gin.Context) {
	jobID, customerID, ok := h.jobAndUser(c)
	if !ok {
		return
	}
	if err := h.jobs.ConfirmWorkStart(c.Request.Context(), jobID, customerID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": entities.JobStatusInProgress})
}

type markCompletedRequest struct {
	FinalAmountCents int64 `json:"finalAmountCents"`
}

// MarkCompleted records the winning contractor finishing the work
// POST /api/v1/jobs/:id/complete
func (h *JobHandler) MarkCompleted(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "ERR_VALIDATION", "invalid job id")
		return
	}

	var req markCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "ERR_VALIDATION", err.Error())
		return
	}

	contractor, ok := h.currentContractor(c)
	if !ok {
		return
	}

	if err := h.jobs.MarkCompleted(c.Request.Context(), jobID, contractor.ID, req.FinalAmountCents); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": entities.JobStatusCompleted})
}

// CancelJob cancels a job
// POST /api/v1/jobs/:id/cancel
func (h *JobHandler) CancelJob(c *gin.Context) {
	jobID, customerID, ok := h.jobAndUser(c)
	if !ok {
		return
	}
	if err := h.jobs.CancelJob(c.Request.Context(), jobID, customerID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": entities.JobStatusCancelled})
}

func (h *JobHandler) jobAndUser(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "ERR_VALIDATION", "invalid job id")
		return uuid.Nil, uuid.Nil, false
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return uuid.Nil, uuid.Nil, false
	}
	return jobID, userID, true
}

func (h *JobHandler) currentContractor(c *gin.Context) (*entities.Contractor, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return nil, false
	}
	contractor, err := h.contractors.GetByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return contractor, true
}

func paginationFromQuery(c *gin.Context) utils.PaginationParams {
	var params utils.PaginationParams
	_ = c.ShouldBindQuery(&params)
	return utils.GetPaginationParams(params.Page, params.Limit)
}
