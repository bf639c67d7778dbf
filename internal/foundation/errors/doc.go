// Package errors provides classified error primitives shared by the CLI and
// the HTTP servers.
//
// A ClassifiedError carries a category (config, content, render, ...), a
// severity and a retry strategy. Adapters turn them into exit codes or JSON
// responses.
//
//	err := errors.ContentError("dangling nav link").
//		WithContext("target", "esl-phonics").
//		Build()
package errors
