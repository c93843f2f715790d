package authz

import (
	"errors"
	"testing"

	"github.com/pocketledger/ledger-backend/internal/domain"
)

func TestOwns(t *testing.T) {
	tests := []struct {
		name      string
		ownerID   int64
		principal int64
		isAdmin   bool
		wantErr   error
	}{
		{"owner matches", 1, 1, false, nil},
		{"owner mismatch", 1, 2, false, domain.ErrForbidden},
		{"admin bypasses mismatch", 1, 2, true, nil},
		{"admin with matching owner", 1, 1, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Owns(tt.ownerID, tt.principal, tt.isAdmin)
			if !errors.Is(err, tt.wantErr) && err != tt.wantErr {
				t.Errorf("Owns(%d, %d, %v) = %v, want %v", tt.ownerID, tt.principal, tt.isAdmin, err, tt.wantErr)
			}
		})
	}
}
