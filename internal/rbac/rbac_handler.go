package rbac

import (
	"net/http"
	"strings"

	"go-ems/internal/shared/apperror"
	"go-ems/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("rbac.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.handler")
	}
	return &Handler{service: service, logger: l}
}

// Decide lets clients ask whether the current caller may perform an
// operation, e.g. to hide buttons they cannot use.
func (h *Handler) Decide(c *gin.Context) {
	principal, ok := PrincipalFrom(c)
	if !ok {
		writeError(c, apperror.ErrUnauthorized)
		return
	}

	var req DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	op := Operation{
		Resource: strings.TrimSpace(req.Resource),
		Action:   strings.TrimSpace(req.Action),
	}

	decision, err := h.service.Decide(c.Request.Context(), principal, op, Resource{
		EmployeeID: strings.TrimSpace(req.EmployeeID),
	})
	if err != nil {
		h.logger.Error("rbac decide failed", zap.Error(err))
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, DecideResponse{
		Allowed:   decision.Allowed(),
		Operation: op.String(),
	}, nil)
}

func writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}
