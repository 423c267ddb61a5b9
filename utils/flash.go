package utils

import (
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/sessions"
)

// Flash appends a message to the named one-shot queue ("success" or
// "error"). The queue survives exactly one redirect: the next render
// consumes it.
func Flash(ctx iris.Context, category, message string) {
	sess := sessions.Get(ctx)
	sess.SetFlash(category, append(flashStrings(sess.PeekFlash(category)), message))
}

// ConsumeFlash returns the named queue and clears it.
func ConsumeFlash(ctx iris.Context, category string) []string {
	return flashStrings(sessions.Get(ctx).GetFlash(category))
}

// A session database round-trips []string through its transcoder as
// []interface{}, so both shapes are accepted.
func flashStrings(v interface{}) []string {
	switch q := v.(type) {
	case []string:
		return q
	case []interface{}:
		out := make([]string, 0, len(q))
		for _, m := range q {
			if s, ok := m.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
