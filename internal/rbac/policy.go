package rbac

// Operation names a protected action on a resource kind.
type Operation struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

func (o Operation) String() string {
	return o.Resource + ":" + o.Action
}

// Resource carries the record attributes a rule may look at.
type Resource struct {
	EmployeeID string `json:"employee_id,omitempty"`
}

var (
	EmployeeList   = Operation{"employee", "list"}
	EmployeeRead   = Operation{"employee", "read"}
	EmployeeCreate = Operation{"employee", "create"}
	EmployeeUpdate = Operation{"employee", "update"}
	EmployeeDelete = Operation{"employee", "delete"}

	DepartmentRead   = Operation{"department", "read"}
	DepartmentCreate = Operation{"department", "create"}
	DepartmentUpdate = Operation{"department", "update"}
	DepartmentDelete = Operation{"department", "delete"}

	AttendanceList         = Operation{"attendance", "list"}
	AttendanceReadEmployee = Operation{"attendance", "read_employee"}
	AttendanceMark         = Operation{"attendance", "mark"}
	AttendanceDelete       = Operation{"attendance", "delete"}

	SalaryList         = Operation{"salary", "list"}
	SalaryReadEmployee = Operation{"salary", "read_employee"}
	SalaryGenerate     = Operation{"salary", "generate"}
	SalaryUpdate       = Operation{"salary", "update"}
	SalaryDelete       = Operation{"salary", "delete"}

	PayslipRead = Operation{"payslip", "read"}

	IdentityRegister = Operation{"identity", "register"}

	DashboardRead = Operation{"dashboard", "read"}
)

const (
	scopeAny  = "any"
	scopeSelf = "self"
	scopeAll  = "*"
)

const modelText = `[request_definition]
r = role, obj, act, scope

[policy_definition]
p = role, obj, act, scope

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.role == p.role && r.obj == p.obj && r.act == p.act && (p.scope == "*" || r.scope == p.scope)
`

// Every rule grants; anything not listed is denied.
var policyRows = buildPolicyRows()

func buildPolicyRows() [][]string {
	var rows [][]string
	grant := func(op Operation, scope string, roles ...string) {
		for _, role := range roles {
			rows = append(rows, []string{role, op.Resource, op.Action, scope})
		}
	}

	staff := []string{RoleAdmin, RoleHR}
	everyone := []string{RoleAdmin, RoleHR, RoleEmployee}

	grant(EmployeeList, scopeAll, staff...)
	grant(EmployeeRead, scopeAll, staff...)
	grant(EmployeeRead, scopeSelf, RoleEmployee)
	grant(EmployeeCreate, scopeAll, staff...)
	grant(EmployeeUpdate, scopeAll, staff...)
	grant(EmployeeDelete, scopeAll, RoleAdmin)

	grant(DepartmentRead, scopeAll, staff...)
	grant(DepartmentCreate, scopeAll, staff...)
	grant(DepartmentUpdate, scopeAll, staff...)
	grant(DepartmentDelete, scopeAll, RoleAdmin)

	grant(AttendanceList, scopeAll, staff...)
	grant(AttendanceDelete, scopeAll, staff...)
	// Per-employee reads and marking carry no ownership check.
	grant(AttendanceReadEmployee, scopeAll, everyone...)
	grant(AttendanceMark, scopeAll, everyone...)

	grant(SalaryList, scopeAll, staff...)
	grant(SalaryGenerate, scopeAll, staff...)
	grant(SalaryUpdate, scopeAll, staff...)
	grant(SalaryDelete, scopeAll, RoleAdmin)
	grant(SalaryReadEmployee, scopeAll, everyone...)

	grant(PayslipRead, scopeAll, everyone...)

	grant(IdentityRegister, scopeAll, RoleAdmin)

	grant(DashboardRead, scopeAll, staff...)

	return rows
}
