package service

import (
	"context"
	"strconv"

	"github.com/pocketledger/ledger-backend/internal/auth"
	"github.com/pocketledger/ledger-backend/internal/domain"
)

// AuthService is the Identity Resolver (C2). It satisfies
// middleware.IdentityResolver without the middleware package importing the
// service package directly.
type AuthService struct {
	userRepo domain.UserRepository
}

func NewAuthService(userRepo domain.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// ResolvePrincipal maps a verified auth.Principal to the internal user id.
// On the ES256 path lookup is by external subject; on the legacy path the
// subject claim carries the internal numeric id directly (spec §4.2). A
// missing or inactive user is always unauthenticated, never a 5xx.
func (s *AuthService) ResolvePrincipal(ctx context.Context, p *auth.Principal) (int64, bool, error) {
	var user *domain.User
	var err error

	if p.Legacy {
		id, parseErr := strconv.ParseInt(p.ExternalSubject, 10, 64)
		if parseErr != nil {
			return 0, false, domain.ErrAuthInvalid
		}
		user, err = s.userRepo.GetByID(id)
	} else {
		user, err = s.userRepo.GetByExternalSubject(p.ExternalSubject)
	}
	if err != nil {
		return 0, false, domain.ErrAuthInvalid
	}
	if !user.Active {
		return 0, false, domain.ErrUserInactive
	}

	return user.ID, user.Role == domain.RoleAdmin, nil
}

// Me returns the authenticated principal's own user record.
func (s *AuthService) Me(userID int64) (*domain.User, error) {
	return s.userRepo.GetByID(userID)
}
