package rendering

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Renderer is the echo.Renderer for component based views. Handlers pass
// the component as the data argument of c.Render; the template name is
// ignored.
type Renderer struct{}

// New creates a Renderer.
func New() *Renderer {
	return &Renderer{}
}

// node is satisfied by gomponents.Node.
type node interface {
	Render(w io.Writer) error
}

func render(ctx context.Context, component interface{}, w io.Writer) error {
	switch v := component.(type) {
	case templ.Component:
		return v.Render(ctx, w)
	case node:
		return v.Render(w)
	default:
		return fmt.Errorf("unsupported component type %T", component)
	}
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, _ string, data interface{}, c echo.Context) error {
	if c.Response().Header().Get(echo.HeaderContentType) == "" {
		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	}
	return render(c.Request().Context(), data, w)
}
