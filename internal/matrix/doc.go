// Package matrix loads the CSV variant matrix and validates it into an
// ordered sequence of variant requests.
//
// Validation is collect-all, not fail-fast: every bad row is recorded with
// its row number and excluded from the returned sequence, while the valid
// rows are kept in CSV order. Whether any row error aborts the run is the
// caller's decision (validate-only and strict mode abort; a normal run
// logs and continues with the valid rows).
package matrix
