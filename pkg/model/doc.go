// Package model defines the form model consumed by renderers. A FormModel is
// built from a schema.Config and carries everything a renderer needs: the
// layout mode, one Field per input feature with its widget kind and DOM ids,
// and the column lists advertised by the batch section. Building is
// deterministic, so the same Config always yields the same markup.
package model
