package payroll

import (
	"net/http"

	"go-ems/internal/shared/apperror"
	"go-ems/internal/shared/contextutil"
	"go-ems/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("payroll.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	if httpErr.Status >= http.StatusInternalServerError {
		contextutil.GetLogger(c.Request.Context(), h.logger).Error("payroll request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func invalidInput(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
}

func (h *Handler) Generate(c *gin.Context) {
	var req GenerateSalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	resp, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) UpdateAmounts(c *gin.Context) {
	var req UpdateSalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	resp, err := h.service.UpdateAmounts(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByEmployee(c *gin.Context) {
	resp, err := h.service.GetByEmployee(c.Request.Context(), c.Param("employeeId"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByEmployeeAndPeriod(c *gin.Context) {
	var p PeriodParams
	if err := c.ShouldBindUri(&p); err != nil {
		invalidInput(c, err)
		return
	}

	resp, err := h.service.GetByEmployeeAndPeriod(c.Request.Context(), c.Param("employeeId"), p.Month, p.Year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByPeriod(c *gin.Context) {
	var p PeriodParams
	if err := c.ShouldBindUri(&p); err != nil {
		invalidInput(c, err)
		return
	}

	resp, err := h.service.GetByPeriod(c.Request.Context(), p.Month, p.Year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadPayslip serves the payslip as an attachment.
func (h *Handler) DownloadPayslip(c *gin.Context) {
	h.payslip(c, false)
}

// ViewPayslip serves the payslip inline.
func (h *Handler) ViewPayslip(c *gin.Context) {
	h.payslip(c, true)
}

func (h *Handler) payslip(c *gin.Context, inline bool) {
	var p PeriodParams
	if err := c.ShouldBindUri(&p); err != nil {
		invalidInput(c, err)
		return
	}

	doc, err := h.service.RenderPayslip(c.Request.Context(), c.Param("employeeId"), p.Month, p.Year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.File(c, doc.ContentType, doc.Filename, doc.Content, inline)
}
