// Package payslip renders salary records into documents and archives them.
package payslip

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

var monthNames = [...]string{
	"", "January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// View is the read-only input of a renderer.
type View struct {
	EmployeeID    string
	EmployeeName  string
	Department    string
	Designation   string
	Month         int
	Year          int
	BasicPay      decimal.Decimal
	Allowances    decimal.Decimal
	Deductions    decimal.Decimal
	NetPay        decimal.Decimal
	GeneratedDate time.Time
}

// PeriodLabel returns e.g. "January 2024".
func (v View) PeriodLabel() string {
	if v.Month < 1 || v.Month > 12 {
		return fmt.Sprintf("%d/%d", v.Month, v.Year)
	}
	return fmt.Sprintf("%s %d", monthNames[v.Month], v.Year)
}

func (v View) GrossPay() decimal.Decimal {
	return v.BasicPay.Add(v.Allowances)
}

// Line is one label/value row of the rendered payslip.
type Line struct {
	Label string
	Value string
}

// Section groups the rows under a heading such as EARNINGS.
type Section struct {
	Heading string
	Lines   []Line
}

// Sections lays the view out in printing order. Amounts carry the
// currency prefix and two decimals.
func (v View) Sections(currencyPrefix string) []Section {
	money := func(d decimal.Decimal) string {
		return currencyPrefix + d.StringFixed(2)
	}
	generated := ""
	if !v.GeneratedDate.IsZero() {
		generated = v.GeneratedDate.Format("02/01/2006")
	}

	return []Section{
		{
			Lines: []Line{
				{Label: "Employee Name", Value: v.EmployeeName},
				{Label: "Employee ID", Value: v.EmployeeID},
				{Label: "Department", Value: v.Department},
				{Label: "Designation", Value: v.Designation},
				{Label: "Pay Period", Value: v.PeriodLabel()},
				{Label: "Generated Date", Value: generated},
			},
		},
		{
			Heading: "EARNINGS",
			Lines: []Line{
				{Label: "Basic Pay", Value: money(v.BasicPay)},
				{Label: "Allowances", Value: money(v.Allowances)},
				{Label: "Gross Pay", Value: money(v.GrossPay())},
			},
		},
		{
			Heading: "DEDUCTIONS",
			Lines: []Line{
				{Label: "Total Deductions", Value: money(v.Deductions)},
			},
		},
		{
			Heading: "NET PAY",
			Lines: []Line{
				{Label: "Net Pay", Value: money(v.NetPay)},
			},
		},
	}
}

// Filename follows payslip_<name_with_underscores>_<month>_<year>.<ext>.
// Anything other than letters, digits, '-' and '.' becomes '_', so the
// result is a single path segment that is safe in a header.
func Filename(employeeName string, month, year int, ext string) string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.' {
			return r
		}
		return '_'
	}, strings.TrimSpace(employeeName))
	return fmt.Sprintf("payslip_%s_%d_%d.%s", name, month, year, strings.TrimPrefix(ext, "."))
}

// Document is a rendered payslip ready to serve or archive.
type Document struct {
	Filename    string
	ContentType string
	Content     []byte
}
