package service

import "errors"

// Error taxonomy. Handlers map these onto HTTP codes; the processing
// pipeline converts them into stored job status and message.
var (
	ErrNotFound      = errors.New("not found")
	ErrAuth          = errors.New("invalid credentials")
	ErrValidation    = errors.New("invalid request")
	ErrAlreadyExists = errors.New("already exists")
	ErrDecryption    = errors.New("decryption failed")
	ErrConversion    = errors.New("audio conversion failed")
	ErrTranscription = errors.New("transcription failed")
	ErrFormat        = errors.New("malformed collaborator response")
	ErrUpstream      = errors.New("upstream collaborator error")
)
