package session

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	sessionerrors "github.com/iworck/class-chronicle-sub001/internal/session/errors"
)

// uqOpenSessionPerProfessor is the partial unique index on
// attendance_sessions(professor_user_id) WHERE status = 'ABERTA'. It is the
// storage-level backstop for the one-open-session rule: the service pre-check
// can race between two tabs, the index cannot.
const uqOpenSessionPerProfessor = "uq_attendance_sessions_open_professor"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sessionerrors.ErrSessionNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == uqOpenSessionPerProfessor {
			return sessionerrors.ErrSessionAlreadyOpen
		}
	}

	if strings.Contains(strings.ToLower(err.Error()), uqOpenSessionPerProfessor) {
		return sessionerrors.ErrSessionAlreadyOpen
	}

	return err
}
