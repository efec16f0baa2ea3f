package apperror

import (
	"fmt"
	"net/http"
)

var (
	ErrNotFound = New(
		CodeNotFound,
		"Recurso não encontrado",
		http.StatusNotFound,
	)

	ErrForbidden = New(
		CodeForbidden,
		"Você não tem permissão para executar esta ação",
		http.StatusForbidden,
	)

	ErrUnauthorized = New(
		CodeUnauthorized,
		"Autenticação necessária",
		http.StatusUnauthorized,
	)

	ErrInvalidInput = New(
		CodeInvalidInput,
		"Entrada inválida",
		http.StatusBadRequest,
	)

	ErrInternal = New(
		CodeInternalError,
		"Ocorreu um erro inesperado",
		http.StatusInternalServerError,
	)

	ErrUnavailable = New(
		CodeServiceUnavailable,
		"Serviço temporariamente indisponível",
		http.StatusServiceUnavailable,
	)
)

// RequiredField builds the validation error for a missing field.
func RequiredField(field string) *AppError {
	return New(
		CodeInvalidInput,
		fmt.Sprintf("%s é obrigatório", field),
		http.StatusBadRequest,
	)
}

// InvalidField builds the validation error for a malformed field.
func InvalidField(field string) *AppError {
	return New(
		CodeInvalidInput,
		fmt.Sprintf("%s é inválido", field),
		http.StatusBadRequest,
	)
}
