package tui

import "os"

// Theme captures optional prefixes applied to printed status lines.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithFileReader replaces os.ReadFile for image path prompts.
func WithFileReader(read func(string) ([]byte, error)) Option {
	return func(r *Renderer) {
		if read != nil {
			r.readFile = read
		}
	}
}

func defaultReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
