package app

import (
	"context"
	"fmt"

	"github.com/w3c-validators/w3c-validators/internal/client"
	"github.com/w3c-validators/w3c-validators/internal/config"
	"github.com/w3c-validators/w3c-validators/internal/input"
	"github.com/w3c-validators/w3c-validators/internal/util"
)

// RunSetEndpoint stores the validator URI for kind in the .env file at
// envPath, or in the default one when envPath is empty.
func RunSetEndpoint(_ context.Context, envPath string, kind input.Kind, uri string) error {
	if _, err := client.ParseEndpoint(uri); err != nil {
		return err
	}
	key := config.MarkupURIEnv
	switch kind {
	case input.KindMarkup:
	case input.KindCSS:
		key = config.CSSURIEnv
	default:
		return fmt.Errorf("unknown validator %q", kind)
	}
	if envPath == "" {
		p, err := util.DefaultEnvPath()
		if err != nil {
			return err
		}
		envPath = p
	}
	return config.SaveEnvValue(envPath, key, uri)
}
