package dataset

import (
	"strings"
)

// Column names of the customer table
const (
	ColCustomerID      = "CustomerId"
	ColSurname         = "Surname"
	ColCreditScore     = "CreditScore"
	ColGeography       = "Geography"
	ColGender          = "Gender"
	ColAge             = "Age"
	ColTenure          = "Tenure"
	ColBalance         = "Balance"
	ColNumProducts     = "NumOfProducts"
	ColHasCreditCard   = "HasCrCard"
	ColIsActive        = "IsActiveMember"
	ColEstimatedSalary = "EstimatedSalary"
	ColExited          = "Exited"
)

// RequiredColumns must be present in the header
var RequiredColumns = []string{
	ColCustomerID,
	ColGeography,
	ColBalance,
	ColNumProducts,
	ColIsActive,
	ColExited,
}

// OptionalColumns are read when present and left at their zero value otherwise
var OptionalColumns = []string{
	ColSurname,
	ColCreditScore,
	ColGender,
	ColAge,
	ColTenure,
	ColHasCreditCard,
	ColEstimatedSalary,
}

const utf8BOM = "\ufeff"

// columnIndex maps column names to their position in the header
type columnIndex map[string]int

// indexHeader builds the column index and reports required columns that are absent.
// Header cells are matched case-insensitively after trimming.
func indexHeader(header []string) (columnIndex, []string) {
	byFold := make(map[string]int, len(header))
	for i, cell := range header {
		if i == 0 {
			cell = strings.TrimPrefix(cell, utf8BOM)
		}
		name := strings.ToLower(strings.TrimSpace(cell))
		if name == "" {
			continue
		}
		if _, dup := byFold[name]; !dup {
			byFold[name] = i
		}
	}

	idx := make(columnIndex)
	var missing []string
	for _, col := range RequiredColumns {
		if i, ok := byFold[strings.ToLower(col)]; ok {
			idx[col] = i
		} else {
			missing = append(missing, col)
		}
	}
	for _, col := range OptionalColumns {
		if i, ok := byFold[strings.ToLower(col)]; ok {
			idx[col] = i
		}
	}
	return idx, missing
}

// cell returns the trimmed value of col in row and whether the column exists
func (c columnIndex) cell(row []string, col string) (string, bool) {
	i, ok := c[col]
	if !ok {
		return "", false
	}
	if i >= len(row) {
		return "", true
	}
	return strings.TrimSpace(row[i]), true
}
