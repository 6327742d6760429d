package fmtt

import "github.com/davecgh/go-spew/spew"

// Sdump renders v with go-spew, for attaching a session's full state to
// a 5xx error log.
func Sdump(v any) string {
	return spew.Sdump(v)
}
