package render

import (
	"errors"

	"github.com/goliatone/go-inferform/pkg/collect"
	"github.com/goliatone/go-inferform/pkg/inference"
)

// Message maps an error kind to the text shown to the user.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var (
		missing   *collect.MissingImageInputError
		server    *inference.ServerError
		network   *inference.NetworkError
		configErr *inference.ConfigError
	)
	switch {
	case errors.As(err, &missing):
		return missing.Error()
	case errors.As(err, &configErr):
		return "Failed to load configuration: " + Message(configErr.Err)
	case errors.Is(err, inference.ErrConfigLoad):
		return "Failed to load configuration: " + err.Error()
	case errors.As(err, &server):
		return server.Detail
	case errors.As(err, &network):
		return "Network error: " + network.Err.Error()
	default:
		return err.Error()
	}
}

// ErrorNotice wraps Message in an error notice. Server details carry the
// "Error: " prefix.
func ErrorNotice(err error) Notice {
	notice := Notice{Status: StatusError, Text: Message(err)}
	var server *inference.ServerError
	if errors.As(err, &server) {
		notice.Prefix = "Error: "
	}
	return notice
}
