// Package dataset loads the customer table into immutable domain records.
//
// CSV files are read with encoding/csv, tolerating a UTF-8 byte order mark;
// .xlsx workbooks are read with excelize from the configured sheet or the first
// one. The loader performs type coercion only:
//
//   - a geography outside France/Spain/Germany becomes domain.GeographyUnknown
//     and is logged at warn level with the row's CustomerId
//   - any other coercion failure, a negative balance, a product count below one
//     or a repeated CustomerId rejects the whole dataset with a *ParseError
//     carrying the offending rows
//   - a missing or unreadable file yields a *LoadError
package dataset
