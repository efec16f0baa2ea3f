package sessionerrors

import (
	"net/http"

	"github.com/iworck/class-chronicle-sub001/internal/shared/apperror"
)

var (
	ErrInvalidClassContext = apperror.New(
		apperror.CodeInvalidInput,
		"turma ou disciplina não pôde ser resolvida",
		http.StatusBadRequest,
	)
	ErrInvalidProfessorID = apperror.New(
		apperror.CodeInvalidInput,
		"identificador do professor inválido",
		http.StatusBadRequest,
	)
	ErrGeoCoordinatesRequired = apperror.New(
		apperror.CodeInvalidInput,
		"coordenadas são obrigatórias quando a cerca geográfica está ativada",
		http.StatusBadRequest,
	)
	ErrSessionNotFound = apperror.New(
		apperror.CodeNotFound,
		"chamada não encontrada",
		http.StatusNotFound,
	)
	ErrSessionAlreadyOpen = apperror.New(
		apperror.CodeConflict,
		"o professor já possui uma chamada aberta",
		http.StatusConflict,
	)
	ErrSessionNotOpen = apperror.New(
		apperror.CodeInvalidState,
		"a chamada não está aberta",
		http.StatusBadRequest,
	)
	ErrSessionFinalized = apperror.New(
		apperror.CodeInvalidState,
		"a chamada foi finalizada em auditoria e não pode ser alterada",
		http.StatusBadRequest,
	)
	ErrNotSessionOwner = apperror.New(
		apperror.CodeForbidden,
		"apenas o professor responsável pode alterar esta chamada",
		http.StatusForbidden,
	)
)
