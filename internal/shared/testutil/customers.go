package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"churnlens/pkg/contracts/domain"
)

// CustomerHeader is the column layout of the bank churn dataset
var CustomerHeader = []string{
	"Year", "RowNumber", "CustomerId", "Surname", "CreditScore", "Geography", "Gender",
	"Age", "Tenure", "Balance", "NumOfProducts", "HasCrCard", "IsActiveMember",
	"EstimatedSalary", "Exited",
}

// CustomerBuilder builds a domain.CustomerRecord with sensible defaults
type CustomerBuilder struct {
	rec domain.CustomerRecord
}

// NewCustomer starts a builder for a retained, active French customer
func NewCustomer(id string) *CustomerBuilder {
	return &CustomerBuilder{rec: domain.CustomerRecord{
		CustomerID:      id,
		Surname:         "Smith",
		CreditScore:     650,
		Geography:       domain.GeographyFrance,
		Gender:          "Female",
		Age:             40,
		Tenure:          5,
		NumProducts:     1,
		HasCreditCard:   true,
		IsActive:        true,
		EstimatedSalary: 50000,
	}}
}

func (b *CustomerBuilder) In(g domain.Geography) *CustomerBuilder { b.rec.Geography = g; return b }
func (b *CustomerBuilder) Balance(v float64) *CustomerBuilder     { b.rec.Balance = v; return b }
func (b *CustomerBuilder) Age(v int) *CustomerBuilder             { b.rec.Age = v; return b }
func (b *CustomerBuilder) Gender(v string) *CustomerBuilder       { b.rec.Gender = v; return b }
func (b *CustomerBuilder) Products(n int) *CustomerBuilder        { b.rec.NumProducts = n; return b }
func (b *CustomerBuilder) Inactive() *CustomerBuilder             { b.rec.IsActive = false; return b }
func (b *CustomerBuilder) Churned() *CustomerBuilder              { b.rec.HasChurned = true; return b }

// Build returns the record
func (b *CustomerBuilder) Build() domain.CustomerRecord {
	return b.rec
}

// SampleCustomers returns a small mixed population.
// France: 3 customers, 1 churned. Germany: 2 customers, 2 churned. Spain: 1 retained.
func SampleCustomers() []domain.CustomerRecord {
	return []domain.CustomerRecord{
		NewCustomer("15600001").Balance(0).Age(25).Build(),
		NewCustomer("15600002").Balance(80000).Age(35).Gender("Male").Products(2).Build(),
		NewCustomer("15600003").Balance(120000).Age(50).Inactive().Churned().Build(),
		NewCustomer("15600004").In(domain.GeographyGermany).Balance(150000).Age(62).Gender("Male").Inactive().Churned().Build(),
		NewCustomer("15600005").In(domain.GeographyGermany).Balance(40000).Age(45).Products(3).Churned().Build(),
		NewCustomer("15600006").In(domain.GeographySpain).Balance(60000).Age(29).Gender("Male").Inactive().Build(),
	}
}

// CustomerRow renders rec in CustomerHeader order
func CustomerRow(rec domain.CustomerRecord) []string {
	return []string{
		"2025",
		"1",
		rec.CustomerID,
		rec.Surname,
		strconv.Itoa(rec.CreditScore),
		string(rec.Geography),
		rec.Gender,
		strconv.Itoa(rec.Age),
		strconv.Itoa(rec.Tenure),
		strconv.FormatFloat(rec.Balance, 'f', 2, 64),
		strconv.Itoa(rec.NumProducts),
		boolFlag(rec.HasCreditCard),
		boolFlag(rec.IsActive),
		strconv.FormatFloat(rec.EstimatedSalary, 'f', 2, 64),
		boolFlag(rec.HasChurned),
	}
}

// WriteCustomerCSV writes records as a dataset CSV under dir and returns its path
func WriteCustomerCSV(t *testing.T, dir string, records []domain.CustomerRecord) string {
	t.Helper()
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, CustomerHeader)
	for _, rec := range records {
		rows = append(rows, CustomerRow(rec))
	}
	return WriteRawCSV(t, dir, "customers.csv", rows)
}

// WriteRawCSV writes rows verbatim to dir/name and returns the path
func WriteRawCSV(t *testing.T, dir, name string, rows [][]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := csv.NewWriter(f)
	require.NoError(t, w.WriteAll(rows))
	return path
}

func boolFlag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
