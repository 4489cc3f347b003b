package rnfi

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *ContactStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "contact.db")
	s, err := NewContactStore(path)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testMessage(id string, at time.Time) ContactMessage {
	return ContactMessage{
		ID:        id,
		FirstName: "Anna",
		LastName:  "Aalto",
		Email:     "anna@example.com",
		Message:   "Could Wolt host meetup 43?",
		RemoteIP:  "203.0.113.7",
		CreatedAt: at,
	}
}

func TestNewContactStore(t *testing.T) {
	s := setupTestStore(t)
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
	n, err := s.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Count = %d, want 0", n)
	}
}

func TestSaveAndListMessages(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 10, 17, 30, 0, 0, time.UTC)

	for i, id := range []string{"first", "second", "third"} {
		if err := s.Save(ctx, testMessage(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Save(%s) failed: %v", id, err)
		}
	}

	got, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(List) = %d, want 2", len(got))
	}
	if got[0].ID != "third" || got[1].ID != "second" {
		t.Errorf("List order = [%s %s], want [third second]", got[0].ID, got[1].ID)
	}
	if got[0].Email != "anna@example.com" {
		t.Errorf("Email = %q, want %q", got[0].Email, "anna@example.com")
	}
	if got[0].RemoteIP != "203.0.113.7" {
		t.Errorf("RemoteIP = %q, want %q", got[0].RemoteIP, "203.0.113.7")
	}
	if want := base.Add(2 * time.Minute); !got[0].CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", got[0].CreatedAt, want)
	}

	all, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List(0) failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len(List(0)) = %d, want 3", len(all))
	}
}

func TestSaveDuplicateID(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	m := testMessage("dup", time.Now())
	if err := s.Save(ctx, m); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	if err := s.Save(ctx, m); err == nil {
		t.Fatal("second Save with the same id should fail")
	}
}

func TestContactStoreQueries(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 1, 10, 17, 30, 0, 0, time.UTC)
	columns := []string{"id", "first_name", "last_name", "email", "message", "remote_ip", "created_at"}

	tests := []struct {
		name    string
		run     func(t *testing.T, s *ContactStore) error
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
	}{
		{
			name: "save inserts every column",
			run: func(t *testing.T, s *ContactStore) error {
				return s.Save(ctx, testMessage("id-1", at))
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO contact_messages \(id,first_name,last_name,email,message,remote_ip,created_at\) VALUES \(\?,\?,\?,\?,\?,\?,\?\)`).
					WithArgs("id-1", "Anna", "Aalto", "anna@example.com", "Could Wolt host meetup 43?", "203.0.113.7", "2025-01-10T17:30:00Z").
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
		},
		{
			name: "save db error",
			run: func(t *testing.T, s *ContactStore) error {
				return s.Save(ctx, testMessage("id-2", at))
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO contact_messages`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
		{
			name: "list orders newest first with limit",
			run: func(t *testing.T, s *ContactStore) error {
				msgs, err := s.List(ctx, 5)
				if err != nil {
					return err
				}
				require.Len(t, msgs, 1)
				require.Equal(t, "id-1", msgs[0].ID)
				return nil
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, first_name, last_name, email, message, remote_ip, created_at FROM contact_messages ORDER BY created_at DESC LIMIT 5`).
					WillReturnRows(sqlmock.NewRows(columns).
						AddRow("id-1", "Anna", "Aalto", "anna@example.com", "Hi", "203.0.113.7", "2025-01-10T17:30:00Z"))
			},
		},
		{
			name: "list rejects a corrupt timestamp",
			run: func(t *testing.T, s *ContactStore) error {
				_, err := s.List(ctx, 0)
				return err
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .* FROM contact_messages ORDER BY created_at DESC$`).
					WillReturnRows(sqlmock.NewRows(columns).
						AddRow("id-1", "Anna", "Aalto", "anna@example.com", "Hi", "203.0.113.7", "yesterday"))
			},
			wantErr: true,
		},
		{
			name: "count",
			run: func(t *testing.T, s *ContactStore) error {
				n, err := s.Count(ctx)
				require.Equal(t, 3, n)
				return err
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT COUNT\(\*\) FROM contact_messages`).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = tt.run(t, newContactStore(db))
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
