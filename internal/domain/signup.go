package domain

import "strings"

// ValidationError describe una violacion de las reglas de registro.
// El mensaje es parte del contrato externo y debe coincidir exactamente.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

const (
	passwordMinLen = 8
	passwordMaxLen = 65
)

// SignupCredentials es el value object que entra al flujo de registro.
type SignupCredentials struct {
	Email    string
	Password string
}

// Validate aplica las reglas de presencia, espacios y longitud.
// Devuelve nil cuando las credenciales son aceptables.
func (c SignupCredentials) Validate() *ValidationError {
	if c.Email == "" || c.Password == "" {
		return &ValidationError{Message: "Missing field"}
	}
	for _, field := range []string{c.Email, c.Password} {
		if field != strings.TrimSpace(field) {
			return &ValidationError{Message: "Cannot start or end with whitespace"}
		}
	}
	if len(c.Password) < passwordMinLen {
		return &ValidationError{Message: "Must be at least 8 characters long"}
	}
	if len(c.Password) > passwordMaxLen {
		return &ValidationError{Message: "Must be at most 65 characters long"}
	}
	return nil
}
