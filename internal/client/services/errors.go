package services

import "errors"

var (
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrDefaultPrompt   = errors.New("the default prompt cannot be deleted")
)
