package docstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jacentio/pawtrail/docstore"
	ptestutil "github.com/jacentio/pawtrail/internal/testutil"
)

func TestEnsureTable_Creates(t *testing.T) {
	ctx := context.Background()
	fake := ptestutil.NewFakeDynamo()

	created, err := docstore.EnsureTable(ctx, fake, "walkers", time.Minute)
	if err != nil {
		t.Fatalf("EnsureTable failed: %v", err)
	}
	if !created {
		t.Error("expected table to be created")
	}
	if fake.Calls("CreateTable") != 1 {
		t.Errorf("expected 1 CreateTable call, got %d", fake.Calls("CreateTable"))
	}
}

func TestEnsureTable_Existing(t *testing.T) {
	ctx := context.Background()
	fake := ptestutil.NewFakeDynamo()

	if _, err := docstore.EnsureTable(ctx, fake, "walkers", time.Minute); err != nil {
		t.Fatalf("first EnsureTable failed: %v", err)
	}
	created, err := docstore.EnsureTable(ctx, fake, "walkers", time.Minute)
	if err != nil {
		t.Fatalf("second EnsureTable failed: %v", err)
	}
	if created {
		t.Error("expected existing table to be left alone")
	}
	if fake.Calls("CreateTable") != 1 {
		t.Errorf("expected 1 CreateTable call, got %d", fake.Calls("CreateTable"))
	}
}

func TestEnsureTable_DescribeFailure(t *testing.T) {
	fake := ptestutil.NewFakeDynamo()
	fake.Fail = ptestutil.FailOn("DescribeTable", errors.New("access denied"))

	_, err := docstore.EnsureTable(context.Background(), fake, "walkers", time.Minute)
	if err == nil {
		t.Fatal("expected error")
	}
	if fake.Calls("CreateTable") != 0 {
		t.Error("expected no CreateTable call after describe failure")
	}
}
