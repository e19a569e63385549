package payroll_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-ems/internal/payroll"
	payrollerrors "go-ems/internal/payroll/errors"
	payrollMock "go-ems/internal/payroll/mock"
	"go-ems/internal/payslip"
	"go-ems/internal/rbac"
	"go-ems/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func mustDecodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestPayrollHandler_Generate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := payrollMock.NewMockService(ctrl)
		id := uuid.NewString()
		svc.EXPECT().
			Generate(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, req payroll.GenerateSalaryRequest) (payroll.SalaryResponse, error) {
				assert.Equal(t, id, req.EmployeeID)
				assert.Equal(t, "500", req.Allowances.String())
				assert.Nil(t, req.Deductions)
				return payroll.SalaryResponse{ID: uuid.NewString(), EmployeeID: id}, nil
			})

		h := payroll.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"employee_id":"` + id + `","month":1,"year":2024,"allowances":"500"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/salary/generate", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Generate(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, mustDecodeEnvelope(t, w).Ok)
	})

	t.Run("month out of range is rejected at binding", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := payrollMock.NewMockService(ctrl)
		svc.EXPECT().Generate(gomock.Any(), gomock.Any()).Times(0)

		h := payroll.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"employee_id":"` + uuid.NewString() + `","month":13,"year":2024}`
		c.Request = httptest.NewRequest(http.MethodPost, "/salary/generate", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Generate(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", mustDecodeEnvelope(t, w).Error.Code)
	})

	t.Run("service error is mapped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := payrollMock.NewMockService(ctrl)
		svc.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(payroll.SalaryResponse{}, payrollerrors.ErrNegativeAmount)

		h := payroll.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"employee_id":"` + uuid.NewString() + `","month":1,"year":2024,"deductions":"-5"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/salary/generate", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Generate(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperror.CodeInvalidInput, mustDecodeEnvelope(t, w).Error.Code)
	})
}

func TestPayrollHandler_GetByEmployeeAndPeriod(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	svc := payrollMock.NewMockService(ctrl)
	id := uuid.NewString()
	svc.EXPECT().GetByEmployeeAndPeriod(gomock.Any(), id, 2, 2024).Return(payroll.SalaryResponse{}, payrollerrors.ErrSalaryNotFound)

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{
		{Key: "employeeId", Value: id},
		{Key: "month", Value: "2"},
		{Key: "year", Value: "2024"},
	}
	c.Request = httptest.NewRequest(http.MethodGet, "/salary/employee/"+id+"/month/2/year/2024", nil)

	h.GetByEmployeeAndPeriod(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPayrollHandler_Payslip(t *testing.T) {
	gin.SetMode(gin.TestMode)

	doc := payslip.Document{
		Filename:    "payslip_Ada_Lovelace_1_2024.pdf",
		ContentType: "application/pdf",
		Content:     []byte("%PDF-1.3"),
	}

	cases := []struct {
		name        string
		call        func(h *payroll.Handler, c *gin.Context)
		disposition string
	}{
		{"download", (*payroll.Handler).DownloadPayslip, `attachment; filename="payslip_Ada_Lovelace_1_2024.pdf"`},
		{"view", (*payroll.Handler).ViewPayslip, `inline; filename="payslip_Ada_Lovelace_1_2024.pdf"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := payrollMock.NewMockService(ctrl)
			id := uuid.NewString()
			svc.EXPECT().RenderPayslip(gomock.Any(), id, 1, 2024).Return(doc, nil)

			h := payroll.NewHandler(svc)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Params = gin.Params{
				{Key: "employeeId", Value: id},
				{Key: "month", Value: "1"},
				{Key: "year", Value: "2024"},
			}
			c.Request = httptest.NewRequest(http.MethodGet, "/payslips", nil)

			tc.call(h, c)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
			assert.Equal(t, tc.disposition, w.Header().Get("Content-Disposition"))
			assert.Equal(t, doc.Content, w.Body.Bytes())
		})
	}

	t.Run("rendering failure is a bad gateway", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := payrollMock.NewMockService(ctrl)
		svc.EXPECT().
			RenderPayslip(gomock.Any(), gomock.Any(), 1, 2024).
			Return(payslip.Document{}, apperror.WithCause(apperror.ErrRenderingFailure, errors.New("font")))

		h := payroll.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{
			{Key: "employeeId", Value: uuid.NewString()},
			{Key: "month", Value: "1"},
			{Key: "year", Value: "2024"},
		}
		c.Request = httptest.NewRequest(http.MethodGet, "/payslips", nil)

		h.DownloadPayslip(c)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, apperror.CodeRenderingFailure, mustDecodeEnvelope(t, w).Error.Code)
	})
}

func TestPayrollRoutes_Policy(t *testing.T) {
	gin.SetMode(gin.TestMode)

	policy, err := rbac.NewService()
	assert.NoError(t, err)

	newRouter := func(t *testing.T, p rbac.Principal) (*gin.Engine, *payrollMock.MockService) {
		ctrl := gomock.NewController(t)
		svc := payrollMock.NewMockService(ctrl)

		r := gin.New()
		api := r.Group("/api/v1")
		api.Use(func(c *gin.Context) {
			rbac.SetPrincipal(c, p)
			c.Next()
		})
		payroll.RegisterRoutes(api, payroll.NewHandler(svc), policy, nil)
		return r, svc
	}

	t.Run("employee cannot list salaries", func(t *testing.T) {
		r, _ := newRouter(t, rbac.Principal{IdentityID: uuid.NewString(), Role: rbac.RoleEmployee})
		w := httptest.NewRecorder()

		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/salary", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("employee may download a payslip", func(t *testing.T) {
		r, svc := newRouter(t, rbac.Principal{IdentityID: uuid.NewString(), Role: rbac.RoleEmployee})
		id := uuid.NewString()
		svc.EXPECT().RenderPayslip(gomock.Any(), id, 1, 2024).Return(payslip.Document{
			Filename: "p.pdf", ContentType: "application/pdf", Content: []byte("x"),
		}, nil)
		w := httptest.NewRecorder()

		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/payslips/download/"+id+"/1/2024", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("hr cannot delete salary", func(t *testing.T) {
		r, _ := newRouter(t, rbac.Principal{IdentityID: uuid.NewString(), Role: rbac.RoleHR})
		w := httptest.NewRecorder()

		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/salary/"+uuid.NewString(), nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin deletes salary", func(t *testing.T) {
		r, svc := newRouter(t, rbac.Principal{IdentityID: uuid.NewString(), Role: rbac.RoleAdmin})
		id := uuid.NewString()
		svc.EXPECT().Delete(gomock.Any(), id).Return(nil)
		w := httptest.NewRecorder()

		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/salary/"+id, nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
