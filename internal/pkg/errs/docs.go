// Package errs provides standardized error types for the order service.
//
// The package includes:
//   - ObjectNotFoundError: a lookup by identifier found nothing
//   - ValueIsInvalidError: a value failed validation
//   - ValueIsRequiredError: a mandatory value is missing
//   - VersionConflictError: an optimistic-locking write lost against a concurrent writer
//
// Each error type pairs a sentinel (e.g. ErrObjectNotFound) with a struct carrying the
// details. Unwrap returns the sentinel so callers classify failures with errors.Is and
// extract details with errors.As.
package errs
