// Package errs provides standardized error types for the fulfillment service.
// It implements a consistent pattern for error creation, formatting, and
// unwrapping that is used throughout the application.
//
// Each error type follows the same shape:
//   - a sentinel error variable (e.g. ErrValueIsRequired)
//   - a struct type with fields for error details
//   - constructor functions with and without a cause
//   - Error() for formatting and Unwrap() so errors.Is classification works
//
// Domain-specific conflicts (insufficient stock, already-claimed deliveries,
// closed edit windows) are plain sentinel errors declared next to the code
// that raises them; this package only covers the generic validation and
// lookup failures shared by all layers.
package errs
