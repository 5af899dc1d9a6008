package domain

import (
	appErrors "greetcard/internal/errors"
)

func invalidPayloadError(reason string, err error) error {
	return appErrors.New(appErrors.CodeInvalidPayload, reason, err)
}
