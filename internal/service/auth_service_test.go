package service

import (
	"context"
	"testing"

	"github.com/pocketledger/ledger-backend/internal/auth"
	"github.com/pocketledger/ledger-backend/internal/domain"
	"github.com/pocketledger/ledger-backend/internal/testutil"
)

func TestResolvePrincipal_ES256LooksUpByExternalSubject(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	subject := "auth0|abc123"
	userRepo.AddUser(&domain.User{ExternalSubject: &subject, Email: "a@example.com", Active: true, Role: domain.RoleUser})

	svc := NewAuthService(userRepo)
	id, isAdmin, err := svc.ResolvePrincipal(context.Background(), &auth.Principal{ExternalSubject: subject})
	if err != nil {
		t.Fatalf("ResolvePrincipal: %v", err)
	}
	if id != 1 || isAdmin {
		t.Errorf("id=%d isAdmin=%v, want id=1 isAdmin=false", id, isAdmin)
	}
}

func TestResolvePrincipal_LegacyLooksUpByNumericID(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	userRepo.AddUser(&domain.User{Email: "b@example.com", Active: true, Role: domain.RoleAdmin})

	svc := NewAuthService(userRepo)
	id, isAdmin, err := svc.ResolvePrincipal(context.Background(), &auth.Principal{ExternalSubject: "1", Legacy: true})
	if err != nil {
		t.Fatalf("ResolvePrincipal: %v", err)
	}
	if id != 1 || !isAdmin {
		t.Errorf("id=%d isAdmin=%v, want id=1 isAdmin=true", id, isAdmin)
	}
}

func TestResolvePrincipal_InactiveUserRejected(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	subject := "auth0|xyz"
	userRepo.AddUser(&domain.User{ExternalSubject: &subject, Email: "c@example.com", Active: false, Role: domain.RoleUser})

	svc := NewAuthService(userRepo)
	_, _, err := svc.ResolvePrincipal(context.Background(), &auth.Principal{ExternalSubject: subject})
	if err != domain.ErrUserInactive {
		t.Fatalf("err = %v, want ErrUserInactive", err)
	}
}

func TestResolvePrincipal_UnknownSubjectIsAuthInvalid(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	svc := NewAuthService(userRepo)

	_, _, err := svc.ResolvePrincipal(context.Background(), &auth.Principal{ExternalSubject: "nope"})
	if err != domain.ErrAuthInvalid {
		t.Fatalf("err = %v, want ErrAuthInvalid", err)
	}
}

func TestResolvePrincipal_LegacyNonNumericSubjectIsAuthInvalid(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	svc := NewAuthService(userRepo)

	_, _, err := svc.ResolvePrincipal(context.Background(), &auth.Principal{ExternalSubject: "not-a-number", Legacy: true})
	if err != domain.ErrAuthInvalid {
		t.Fatalf("err = %v, want ErrAuthInvalid", err)
	}
}
