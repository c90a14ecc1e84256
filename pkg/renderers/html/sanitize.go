package html

import (
	stdhtml "html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-inferform/pkg/render"
)

var strictPolicy = bluemonday.StrictPolicy()

// plainText strips every tag from s. The policy escapes entities, which the
// template engine escapes again, so they are decoded here.
func plainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(stdhtml.UnescapeString(strictPolicy.Sanitize(s)))
}

func sanitizeNotice(n render.Notice) render.Notice {
	n.Text = plainText(n.Text)
	return n
}

// sanitizePage returns a copy of page whose user-facing messages carry no
// markup. Result values and CSV cells are left to template autoescaping.
func sanitizePage(page render.Page) render.Page {
	page.ConfigError = plainText(page.ConfigError)
	if page.Output != nil {
		out := *page.Output
		out.Notice = sanitizeNotice(out.Notice)
		page.Output = &out
	}
	if page.Batch != nil {
		batch := *page.Batch
		batch.Notice = sanitizeNotice(batch.Notice)
		page.Batch = &batch
	}
	return page
}
