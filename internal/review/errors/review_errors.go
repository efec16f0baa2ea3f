package reviewerrors

import (
	"net/http"

	"github.com/iworck/class-chronicle-sub001/internal/shared/apperror"
)

var (
	ErrInvalidReviewerID = apperror.New(
		apperror.CodeInvalidInput,
		"identificador do revisor inválido",
		http.StatusBadRequest,
	)
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"registro de presença não encontrado",
		http.StatusNotFound,
	)
	ErrRecordNotFlagged = apperror.New(
		apperror.CodeInvalidState,
		"o registro não está marcado para revisão",
		http.StatusBadRequest,
	)
)
