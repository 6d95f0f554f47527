package output

import (
	"fmt"
	"io"

	"github.com/packlist/packlist/pkg/style"
)

// textRenderer provides human-readable output. Styling is controlled
// globally through style.Enable, so the same renderer serves terminals
// and pipes.
type textRenderer struct {
	w io.Writer
}

func (r *textRenderer) RenderResult(result interface{}) error {
	if tr, ok := result.(TextRenderable); ok {
		return tr.RenderText(r.w)
	}
	// Unknown types get a generic dump
	_, err := fmt.Fprintf(r.w, "%+v\n", result)
	return err
}

func (r *textRenderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.w, "%s %v\n", style.ErrorStyle.Render("Error:"), err)
	return werr
}

func (r *textRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.w, msg)
	return err
}
