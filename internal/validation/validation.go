// Package validation binds request data and validates it.
//
// Rules live in struct tags (validator v10). Failures are turned into a 400
// errs.HTTPError with one FieldError per offending field.
package validation
