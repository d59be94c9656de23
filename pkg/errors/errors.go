package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors. User-facing messages are in French, matching the
// platform's public contract.
var (
	ErrUnauthorized        = New("UNAUTHORIZED", http.StatusUnauthorized, "Token manquant")
	ErrInvalidToken        = New("INVALID_TOKEN", http.StatusUnauthorized, "Token invalide")
	ErrInvalidCredentials  = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "Email ou mot de passe incorrect")
	ErrPendingVerification = New("PENDING_VERIFICATION", http.StatusForbidden, "Votre compte est en attente de vérification par l'administration de votre institut. Vous recevrez un email dès que votre identité sera confirmée.")
	ErrForbidden           = New("FORBIDDEN", http.StatusForbidden, "Accès refusé")
	ErrNotFound            = New("NOT_FOUND", http.StatusNotFound, "Ressource non trouvée")
	// Uniqueness violations surface as 400 in this API, not 409.
	ErrConflict    = New("CONFLICT", http.StatusBadRequest, "Cette ressource existe déjà")
	ErrValidation  = New("VALIDATION_ERROR", http.StatusBadRequest, "Données invalides")
	ErrRateLimited = New("RATE_LIMITED", http.StatusTooManyRequests, "Trop de tentatives, veuillez réessayer dans quelques minutes.")
	ErrInternal    = New("INTERNAL_ERROR", http.StatusInternalServerError, "Erreur serveur")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
