package view

import (
	"log/slog"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	flashSessionName = "flash-session"
	flashKeySuccess  = "success"
	flashKeyError    = "error"
	formKeyPrefix    = "form_"
)

// FlashData holds the one-time messages shown at the top of a page.
type FlashData struct {
	Success []string
	Error   []string
}

// Empty reports whether there is nothing to show.
func (f FlashData) Empty() bool {
	return len(f.Success) == 0 && len(f.Error) == 0
}

// setFlash sets a flash message in the session.
func setFlash(c echo.Context, key, message string) {
	sess, err := session.Get(flashSessionName, c)
	if err != nil {
		slog.Warn("Flash session unavailable", "error", err)
		return
	}
	sess.AddFlash(message, key)
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		slog.Error("Failed to save flash session", "error", err)
	}
}

// SetFlashSuccess sets a success flash message.
func SetFlashSuccess(c echo.Context, message string) {
	setFlash(c, flashKeySuccess, message)
}

// SetFlashError sets an error flash message.
func SetFlashError(c echo.Context, message string) {
	setFlash(c, flashKeyError, message)
}

// GetFlashData retrieves and clears the flash messages from the session.
func GetFlashData(c echo.Context) FlashData {
	var data FlashData

	sess, err := session.Get(flashSessionName, c)
	if err != nil {
		return data
	}

	// Flashes() clears what it returns, so the session is saved afterwards.
	successFlashes := sess.Flashes(flashKeySuccess)
	errorFlashes := sess.Flashes(flashKeyError)

	data.Success = toStrings(successFlashes)
	data.Error = toStrings(errorFlashes)

	if len(successFlashes) > 0 || len(errorFlashes) > 0 {
		_ = sess.Save(c.Request(), c.Response())
	}
	return data
}

// SetFormValues keeps submitted field values for the next render of a form
// after a redirect. Empty values are skipped.
func SetFormValues(c echo.Context, values map[string]string) {
	sess, err := session.Get(flashSessionName, c)
	if err != nil {
		slog.Warn("Flash session unavailable", "error", err)
		return
	}
	for field, v := range values {
		if v != "" {
			sess.AddFlash(v, formKeyPrefix+field)
		}
	}
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		slog.Error("Failed to save flash session", "error", err)
	}
}

// TakeFormValues returns and clears the values stored by SetFormValues.
func TakeFormValues(c echo.Context, fields ...string) map[string]string {
	values := make(map[string]string, len(fields))

	sess, err := session.Get(flashSessionName, c)
	if err != nil {
		return values
	}

	found := false
	for _, field := range fields {
		flashes := sess.Flashes(formKeyPrefix + field)
		if len(flashes) == 0 {
			continue
		}
		found = true
		if v, ok := flashes[0].(string); ok {
			values[field] = v
		}
	}
	if found {
		_ = sess.Save(c.Request(), c.Response())
	}
	return values
}

func toStrings(flashes []interface{}) []string {
	if len(flashes) == 0 {
		return nil
	}
	out := make([]string, 0, len(flashes))
	for _, f := range flashes {
		if s, ok := f.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
