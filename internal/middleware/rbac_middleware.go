package middleware

import (
	"context"

	autherrors "go-ems/internal/auth/errors"
	"go-ems/internal/rbac"
	"go-ems/internal/shared/apperror"
	"go-ems/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Decider is the slice of rbac.Service the middleware needs.
type Decider interface {
	Decide(ctx context.Context, principal rbac.Principal, op rbac.Operation, res rbac.Resource) (rbac.Decision, error)
}

// ResourceFunc extracts the record attributes of the request, e.g. the
// employee id from the path.
type ResourceFunc func(c *gin.Context) rbac.Resource

// EmployeeParam reads the employee id from the named path parameter.
func EmployeeParam(name string) ResourceFunc {
	return func(c *gin.Context) rbac.Resource {
		return rbac.Resource{EmployeeID: c.Param(name)}
	}
}

// Authorize consults the access policy before the handler runs. A nil
// resourceFn means the rule does not depend on the record.
func Authorize(decider Decider, op rbac.Operation, resourceFn ResourceFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := rbac.PrincipalFrom(c)
		if !ok {
			abortWith(c, apperror.ErrUnauthorized)
			return
		}

		var res rbac.Resource
		if resourceFn != nil {
			res = resourceFn(c)
		}

		decision, err := decider.Decide(c.Request.Context(), principal, op, res)
		if err != nil {
			contextutil.GetLogger(c.Request.Context(), zap.L()).Error("authorize failed",
				zap.String("operation", op.String()), zap.Error(err))
			abortWith(c, apperror.ErrInternal)
			return
		}

		if !decision.Allowed() {
			abortWith(c, autherrors.ErrForbidden)
			return
		}

		c.Next()
	}
}
