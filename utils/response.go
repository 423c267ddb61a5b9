package utils

import (
	"github.com/kataras/iris/v12"
)

const errorMessageKey = "error.message"

// RenderError stops the request with the given status code; the
// registered error-code handler picks up the message and renders the
// error page.
func RenderError(ctx iris.Context, status int, message string) {
	ctx.Values().Set(errorMessageKey, message)
	ctx.StopWithStatus(status)
}

// ErrorMessage returns the message set by RenderError, or "" when the
// error was raised without one (e.g. an unmatched route).
func ErrorMessage(ctx iris.Context) string {
	return ctx.Values().GetString(errorMessageKey)
}
