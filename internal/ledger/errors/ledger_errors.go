package ledgererrors

import (
	"net/http"

	"github.com/iworck/class-chronicle-sub001/internal/shared/apperror"
)

var (
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"identificador do usuário inválido",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"status de presença inválido",
		http.StatusBadRequest,
	)
	ErrNoChangesStaged = apperror.New(
		apperror.CodeInvalidInput,
		"nenhuma alteração para gravar",
		http.StatusBadRequest,
	)
	ErrStudentNotEnrolled = apperror.New(
		apperror.CodeInvalidInput,
		"aluno não está matriculado nesta turma",
		http.StatusBadRequest,
	)
	ErrSessionFinalized = apperror.New(
		apperror.CodeInvalidState,
		"a chamada foi finalizada em auditoria e não aceita lançamentos",
		http.StatusBadRequest,
	)
)
