package store

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"

	apperrors "macrolog/internal/errors"
	"macrolog/internal/models"
	"macrolog/internal/pagination"
)

// dryRunDB builds SQL without a live database so the generated clauses can
// be inspected.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	if err != nil {
		t.Fatalf("open dry-run session: %v", err)
	}
	return db
}

func TestOwnerFirstOrdering(t *testing.T) {
	db := dryRunDB(t)
	caller := uuid.New()
	p := pagination.Params{}.Normalized("created_at", "title")

	var rows []models.Product
	stmt := db.Scopes(ownerFirst(caller, p)).Find(&rows).Statement

	sql := stmt.SQL.String()
	if !strings.Contains(sql, "(user_id <> ?) ASC, created_at DESC, id DESC") {
		t.Fatalf("owner-first ordering missing from SQL: %s", sql)
	}
	if strings.Contains(sql, caller.String()) {
		t.Fatalf("caller id embedded as a literal: %s", sql)
	}
	if !containsVar(stmt.Vars, caller) {
		t.Fatalf("caller id not bound as parameter: %v", stmt.Vars)
	}
}

func TestOwnerFirstRespectsSortField(t *testing.T) {
	db := dryRunDB(t)
	caller := uuid.New()
	p := pagination.Params{SortField: "title", SortOrder: "asc"}.Normalized("created_at", "title")

	var rows []models.Recipe
	stmt := db.Scopes(ownerFirst(caller, p)).Find(&rows).Statement

	if sql := stmt.SQL.String(); !strings.Contains(sql, "(user_id <> ?) ASC, title ASC, id DESC") {
		t.Fatalf("sort field not applied inside owner partitions: %s", sql)
	}
}

func TestTitleSearch(t *testing.T) {
	db := dryRunDB(t)

	var rows []models.Product
	stmt := db.Scopes(titleSearch("Milk")).Find(&rows).Statement

	if sql := stmt.SQL.String(); !strings.Contains(sql, "title ILIKE ?") {
		t.Fatalf("case-insensitive search missing: %s", sql)
	}
	if !containsVar(stmt.Vars, "%Milk%") {
		t.Fatalf("search pattern not unanchored: %v", stmt.Vars)
	}
}

func TestTitleSearchEmptyIsNoop(t *testing.T) {
	db := dryRunDB(t)

	var rows []models.Product
	stmt := db.Scopes(titleSearch("")).Find(&rows).Statement

	if sql := stmt.SQL.String(); strings.Contains(sql, "ILIKE") {
		t.Fatalf("empty search still filtered: %s", sql)
	}
}

func TestOwnedScope(t *testing.T) {
	db := dryRunDB(t)
	caller := uuid.New()
	id := uuid.New()

	var row models.Product
	stmt := db.Scopes(owned(caller, id)).Find(&row).Statement

	sql := stmt.SQL.String()
	if !strings.Contains(sql, "id = ? AND user_id = ?") {
		t.Fatalf("owner scoping missing: %s", sql)
	}
	if !containsVar(stmt.Vars, id) || !containsVar(stmt.Vars, caller) {
		t.Fatalf("scoping vars missing: %v", stmt.Vars)
	}
}

func TestCursorBoundComparesFullPosition(t *testing.T) {
	db := dryRunDB(t)
	s := New(db)
	caller := uuid.New()
	cursor := uuid.New()

	p := pagination.Params{Cursor: cursor.String()}.Normalized("created_at", "title")
	bound, err := s.cursorBound(context.Background(), "products", caller, p)
	if err != nil {
		t.Fatalf("cursorBound() error: %v", err)
	}

	var rows []models.Product
	stmt := db.Scopes(bound).Find(&rows).Statement

	sql := stmt.SQL.String()
	for _, fragment := range []string{
		"(user_id <> ?) > ?",
		"created_at < ?",
		"created_at = ? AND id < ?",
	} {
		if !strings.Contains(sql, fragment) {
			t.Fatalf("cursor bound missing %q: %s", fragment, sql)
		}
	}
}

func TestCursorBoundRejectsMalformedCursor(t *testing.T) {
	db := dryRunDB(t)
	s := New(db)

	p := pagination.Params{Cursor: "not-a-uuid"}.Normalized("created_at")
	_, err := s.cursorBound(context.Background(), "products", uuid.New(), p)
	if !apperrors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("malformed cursor not rejected as validation error: %v", err)
	}
}

func TestRecipesByProductRejectsMalformedCursor(t *testing.T) {
	db := dryRunDB(t)
	s := New(db)

	p := pagination.Params{Cursor: "not-a-uuid"}
	_, _, err := s.RecipesByProduct(context.Background(), uuid.New(), uuid.New(), p)
	if !apperrors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("malformed cursor not rejected as validation error: %v", err)
	}
}

func TestCursorBoundEmptyCursorIsNoop(t *testing.T) {
	db := dryRunDB(t)
	s := New(db)

	bound, err := s.cursorBound(context.Background(), "products", uuid.New(), pagination.Params{}.Normalized())
	if err != nil {
		t.Fatalf("cursorBound() error: %v", err)
	}

	var rows []models.Product
	stmt := db.Scopes(bound).Find(&rows).Statement

	if sql := stmt.SQL.String(); strings.Contains(sql, "WHERE") {
		t.Fatalf("no-cursor query still bounded: %s", sql)
	}
}

func containsVar(vars []any, want any) bool {
	for _, v := range vars {
		if v == want {
			return true
		}
	}
	return false
}
