package api

import (
	"errors"

	"github.com/topicline/research-service/internal/config"
)

func missingLabel(err error) string {
	var missing *config.MissingError
	if errors.As(err, &missing) {
		return "Missing " + missing.Label
	}
	return err.Error()
}
