package rbac

type DecideRequest struct {
	Resource   string `json:"resource" binding:"required"`
	Action     string `json:"action" binding:"required"`
	EmployeeID string `json:"employee_id"`
}

type DecideResponse struct {
	Allowed   bool   `json:"allowed"`
	Operation string `json:"operation"`
}
