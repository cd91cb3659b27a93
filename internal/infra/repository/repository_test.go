package repository

import (
	"context"
	"testing"

	"mvee-store/internal/domain/model"
	repo "mvee-store/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// sqlmockを下に敷いたgorm.DBを作る
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqlDB,
	}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

// =====================
// Product
// =====================

func TestProductGormRepository_FindBySlug(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewProductGormRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "slug", "price", "is_active"}).
		AddRow(int64(2), "Basic Tee", "basic-tee", int64(150), true)

	mock.ExpectQuery(`SELECT \* FROM "products" WHERE slug = \$1`).
		WithArgs("basic-tee", 1).
		WillReturnRows(rows)

	p, err := r.FindBySlug(context.Background(), "basic-tee")
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.ID)
	assert.Equal(t, "basic-tee", p.Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductGormRepository_FindBySlug_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewProductGormRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := r.FindBySlug(context.Background(), "nope")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestProductGormRepository_ListActive_FiltersByFlag(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewProductGormRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "is_active"}).
		AddRow(int64(1), "Zip Hoodie", true).
		AddRow(int64(2), "Basic Tee", true)

	mock.ExpectQuery(`SELECT \* FROM "products" WHERE is_active = \$1`).
		WithArgs(true).
		WillReturnRows(rows)

	products, err := r.ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductGormRepository_Update_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewProductGormRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "products"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := r.Update(context.Background(), model.Product{
		ID:       99,
		Name:     "Basic Tee",
		Slug:     "basic-tee",
		Price:    150,
		Category: "men",
	})
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

// =====================
// CartSnapshot
// =====================

func TestCartSnapshotGormRepository_Load(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewCartSnapshotGormRepository(db)

	rows := sqlmock.NewRows([]string{"session_key", "payload"}).
		AddRow("sess-1", `[{"id":"l1","quantity":2}]`)

	mock.ExpectQuery(`SELECT \* FROM "cart_snapshots" WHERE session_key = \$1`).
		WithArgs("sess-1", 1).
		WillReturnRows(rows)

	payload, err := r.Load(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"l1","quantity":2}]`, payload)
}

func TestCartSnapshotGormRepository_Load_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewCartSnapshotGormRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "cart_snapshots"`).
		WillReturnRows(sqlmock.NewRows([]string{"session_key"}))

	_, err := r.Load(context.Background(), "sess-1")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestCartSnapshotGormRepository_Save_Upserts(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewCartSnapshotGormRepository(db)

	mock.ExpectBegin()
	//同じキーへの保存はON CONFLICTで上書き
	mock.ExpectExec(`INSERT INTO "cart_snapshots" .* ON CONFLICT \("session_key"\) DO UPDATE`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := r.Save(context.Background(), "sess-1", "[]")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// =====================
// User
// =====================

func TestUserGormRepository_IncrementTokenVersion(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewUserGormRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET "token_version"=token_version \+ 1 WHERE id = \$1`).
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := r.IncrementTokenVersion(context.Background(), 10)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGormRepository_IncrementTokenVersion_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewUserGormRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := r.IncrementTokenVersion(context.Background(), 99)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestUserGormRepository_FindByEmail_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewUserGormRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := r.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}
