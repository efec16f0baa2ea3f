package record

// Status is the final attendance status of a student for one session.
// A closed type so invalid states are unrepresentable in service code; the
// stored values keep the legacy Portuguese wire names.
type Status string

const (
	StatusPresent Status = "PRESENTE"
	StatusAbsent  Status = "FALTA"
	StatusExcused Status = "JUSTIFICADO"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusExcused:
		return true
	default:
		return false
	}
}

// Source says which actor produced a record.
type Source string

const (
	SourceAutoStudent       Source = "AUTO_ALUNO"
	SourceManualProfessor   Source = "MANUAL_PROF"
	SourceManualCoordinator Source = "MANUAL_COORD"
)

func (s Source) Valid() bool {
	switch s {
	case SourceAutoStudent, SourceManualProfessor, SourceManualCoordinator:
		return true
	default:
		return false
	}
}

// ActorRole is the role a reviewer held at the time of a change.
type ActorRole string

const (
	RoleProfessor   ActorRole = "PROFESSOR"
	RoleCoordinator ActorRole = "COORDENADOR"
	RoleAdmin       ActorRole = "ADMIN"
)

func (r ActorRole) Valid() bool {
	switch r {
	case RoleProfessor, RoleCoordinator, RoleAdmin:
		return true
	default:
		return false
	}
}

// ManualSource maps a reviewer role to the capture source recorded on
// first-time manual entries.
func ManualSource(role ActorRole) Source {
	if role == RoleCoordinator {
		return SourceManualCoordinator
	}
	return SourceManualProfessor
}
