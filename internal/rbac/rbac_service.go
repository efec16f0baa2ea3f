package rbac

import (
	"sync"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"

	"github.com/iworck/class-chronicle-sub001/internal/domain"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadInstitutionPolicy(institutionID string) error
	Enforce(req domain.EnforceRequest) (bool, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	logger   *zap.Logger
	mu       sync.Mutex
}

func NewService(repo Repository, enforcer *casbin.Enforcer) Service {
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   zap.L().Named("rbac.service"),
	}
}

func (s *service) LoadInstitutionPolicy(institutionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadInstitutionPolicyUnlocked(institutionID)
}

func (s *service) loadInstitutionPolicyUnlocked(institutionID string) error {
	s.enforcer.ClearPolicy()

	userRoles, err := s.repo.GetUserRoles(institutionID)
	if err != nil {
		return err
	}

	for _, ur := range userRoles {
		if _, err := s.enforcer.AddGroupingPolicy(ur.UserID, ur.RoleID, institutionID); err != nil {
			return err
		}
	}

	rolePerms, err := s.repo.GetRolePermissions(institutionID)
	if err != nil {
		return err
	}

	for _, rp := range rolePerms {
		if _, err := s.enforcer.AddPolicy(rp.RoleID, institutionID, rp.Resource, rp.Action); err != nil {
			return err
		}
	}

	s.logger.Debug("policy loaded",
		zap.String("institution_id", institutionID),
		zap.Int("user_roles", len(userRoles)),
		zap.Int("role_permissions", len(rolePerms)),
	)
	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadInstitutionPolicyUnlocked(req.InstitutionID); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(req.UserID, req.InstitutionID, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("enforce failed",
			zap.String("user_id", req.UserID),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("enforce result",
		zap.String("user_id", req.UserID),
		zap.String("institution_id", req.InstitutionID),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}
