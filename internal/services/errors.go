package services

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidFaxNumber     = errors.New("invalid fax number")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrEmptyFile            = errors.New("file is empty")
	ErrNoDocuments          = errors.New("broadcast needs at least one document")
	ErrNoRecipients         = errors.New("broadcast needs at least one recipient")
	ErrAllRecipientsBlocked = errors.New("every recipient is on the block list")
	ErrDuplicateDocument    = errors.New("document listed more than once")
	ErrNotCancellable       = errors.New("broadcast can no longer be cancelled")
)
