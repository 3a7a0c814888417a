// Package services defines the business logic for accounts, documents,
// chats, quizzes, and dashboard statistics. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer;
// translation into user-facing messages or HTTP status codes is performed
// at the handler layer.
package services

import "errors"

// Account-related errors.
var (
	// ErrMissingFields is returned when a registration request omits the
	// name, email, or password.
	ErrMissingFields = errors.New("missing fields")

	// ErrEmailExists is returned when registering with an email that is
	// already taken.
	ErrEmailExists = errors.New("email exists")

	// ErrInvalidCredentials is returned for unknown emails and password
	// mismatches alike, so the two are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Document-related errors.
var (
	// ErrPdfNotFound indicates the requested document does not exist.
	ErrPdfNotFound = errors.New("pdf not found")

	// ErrPdfForbidden indicates the document exists but is neither a
	// default document nor owned by the caller.
	ErrPdfForbidden = errors.New("access denied")

	// ErrNotPDF is returned when an upload is not a PDF.
	ErrNotPDF = errors.New("only PDFs allowed")

	// ErrNoFile is returned when an upload request carries no file.
	ErrNoFile = errors.New("no file")
)

// Chat-related errors.
var (
	// ErrChatNotFound indicates that the requested chat does not exist or
	// is not accessible to the current user.
	ErrChatNotFound = errors.New("chat not found")

	// ErrEmptyQuestion is returned when a message request contains no
	// question text.
	ErrEmptyQuestion = errors.New("no question")
)

// Quiz-related errors.
var (
	// ErrNoQuestions is returned when a quiz submission carries no
	// gradable questions.
	ErrNoQuestions = errors.New("no questions submitted")
)
