package memory

import (
	"context"
	"testing"

	"github.com/catalogd/backend/domain"
)

func TestSupplierDirectoryRoundTrip(t *testing.T) {
	dir := NewSupplierDirectory()
	ctx := context.Background()

	created, err := dir.Create(ctx, &domain.Supplier{Name: "Acme Supplies", Email: "orders@acme.test"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("Create assigned zero id")
	}
	if created.CreatedAt.IsZero() {
		t.Error("Create left CreatedAt zero")
	}

	got, err := dir.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Acme Supplies" {
		t.Errorf("Name = %q, want %q", got.Name, "Acme Supplies")
	}
}

func TestSupplierDirectoryIDsIncrease(t *testing.T) {
	dir := NewSupplierDirectory()
	ctx := context.Background()

	first, err := dir.Create(ctx, &domain.Supplier{Name: "First"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := dir.Create(ctx, &domain.Supplier{Name: "Second"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if second.ID <= first.ID {
		t.Errorf("second id %d not greater than first %d", second.ID, first.ID)
	}
}

func TestSupplierDirectoryNotFound(t *testing.T) {
	dir := NewSupplierDirectory()

	_, err := dir.GetByID(context.Background(), 42)
	if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestSupplierDirectoryRejectsBlankName(t *testing.T) {
	dir := NewSupplierDirectory()

	_, err := dir.Create(context.Background(), &domain.Supplier{Name: "  "})
	if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Errorf("error = %v, want INVALID", err)
	}
}
