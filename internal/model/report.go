package model

// Table is an ordered set of string rows. Header names the columns.
type Table struct {
	Header []string
	Rows   [][]string
}

// Empty reports whether the table has neither a header nor rows.
func (t Table) Empty() bool {
	return len(t.Header) == 0 && len(t.Rows) == 0
}

// RenewablesReport is one parsed Daily Renewables Watch report.
//
// Breakdown is the hourly breakdown of renewable resources (first section),
// GenByResource the hourly generation by resource type (second section).
type RenewablesReport struct {
	Date          string
	Breakdown     Table
	GenByResource Table
	Warnings      []string
}
