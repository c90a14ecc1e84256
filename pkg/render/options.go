package render

// Fragment names a partial region of the page. The zero value renders the
// full document.
type Fragment string

const (
	FragmentNone   Fragment = ""
	FragmentOutput Fragment = "output"
	FragmentBatch  Fragment = "batch"
)

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching the page model.
type RenderOptions struct {
	// Fragment limits the output to a region of the page. HTML renderers
	// return only the markup that replaces that region.
	Fragment Fragment
	// ThemeVariant selects a theme variant by name. Unknown variants fall
	// back to the base theme.
	ThemeVariant string
}
