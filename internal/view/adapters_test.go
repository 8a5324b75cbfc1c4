package view_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/a-h/templ"
	"github.com/nfrund/signup/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"
)

type ctxKey struct{}

func TestAdapters(t *testing.T) {
	ctx := context.WithValue(context.Background(), ctxKey{}, "from-context")

	inner := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, ctx.Value(ctxKey{}).(string))
		return err
	})

	node := html.Div(html.ID("outer"), view.Node(ctx, inner))
	component := view.Component(node)

	var buf bytes.Buffer
	require.NoError(t, component.Render(context.Background(), &buf))
	assert.Equal(t, `<div id="outer">from-context</div>`, buf.String())

	buf.Reset()
	require.NoError(t, view.Component(g.Text("<b>")).Render(ctx, &buf))
	assert.Equal(t, "&lt;b&gt;", buf.String())
}
