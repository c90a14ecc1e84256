package html_test

import (
	"io/fs"

	"github.com/goliatone/go-inferform/pkg/renderers/html"
)

func fsReadFile(name string) ([]byte, error) {
	return fs.ReadFile(html.AssetsFS(), name)
}
