package rbac_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-ems/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	DecideFn func(ctx context.Context, p rbac.Principal, op rbac.Operation, res rbac.Resource) (rbac.Decision, error)
}

func (f *fakeService) Decide(ctx context.Context, p rbac.Principal, op rbac.Operation, res rbac.Resource) (rbac.Decision, error) {
	return f.DecideFn(ctx, p, op, res)
}

type envelope struct {
	Ok   bool                `json:"ok"`
	Data rbac.DecideResponse `json:"data"`
}

func TestHandler_Decide(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var gotOp rbac.Operation
	var gotRes rbac.Resource
	svc := &fakeService{DecideFn: func(_ context.Context, _ rbac.Principal, op rbac.Operation, res rbac.Resource) (rbac.Decision, error) {
		gotOp, gotRes = op, res
		return rbac.Allow, nil
	}}
	handler := rbac.NewHandler(svc)

	router := gin.New()
	router.POST("/rbac/decide", func(c *gin.Context) {
		rbac.SetPrincipal(c, rbac.Principal{IdentityID: "u-1", Role: rbac.RoleEmployee, EmployeeID: "7"})
	}, handler.Decide)

	body, _ := json.Marshal(rbac.DecideRequest{Resource: "employee", Action: "read", EmployeeID: "7"})
	req := httptest.NewRequest(http.MethodPost, "/rbac/decide", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp envelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Ok)
	assert.True(t, resp.Data.Allowed)
	assert.Equal(t, "employee:read", resp.Data.Operation)
	assert.Equal(t, rbac.EmployeeRead, gotOp)
	assert.Equal(t, "7", gotRes.EmployeeID)
}

func TestHandler_Decide_RequiresPrincipal(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := rbac.NewHandler(&fakeService{})
	router := gin.New()
	router.POST("/rbac/decide", handler.Decide)

	req := httptest.NewRequest(http.MethodPost, "/rbac/decide", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
