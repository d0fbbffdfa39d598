package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanhng/workchat/internal/model"
)

func newMemberRepoWithMock(t *testing.T) (*MemberRepo, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewMemberRepo(db), mock, db
}

func TestMemberCreateBulk(t *testing.T) {
	repo, mock, db := newMemberRepoWithMock(t)
	defer db.Close()

	q := regexp.QuoteMeta("INSERT INTO members (user_id, workspace_id, role) VALUES (?,?,?),(?,?,?)")
	mock.ExpectExec(q).
		WithArgs(uint64(11), uint64(1), model.RoleMember, uint64(12), uint64(1), model.RoleMember).
		WillReturnResult(sqlmock.NewResult(5, 2))

	require.NoError(t, repo.CreateBulk(context.Background(), 1, []uint64{11, 12}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberCountByWorkspaceAndIDs(t *testing.T) {
	repo, mock, db := newMemberRepoWithMock(t)
	defer db.Close()

	q := regexp.QuoteMeta("SELECT COUNT(*) FROM members WHERE workspace_id=? AND id IN (?,?)")
	mock.ExpectQuery(q).
		WithArgs(uint64(1), uint64(2), uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := repo.CountByWorkspaceAndIDs(context.Background(), 1, []uint64{2, 3})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Empty input never touches the database.
	n, err = repo.CountByWorkspaceAndIDs(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

// Both role updates run inside one transaction; when the second touches
// no row everything rolls back.
func TestMemberTransferRole(t *testing.T) {
	repo, mock, db := newMemberRepoWithMock(t)
	defer db.Close()

	q := regexp.QuoteMeta("UPDATE members SET role=? WHERE id=?")

	mock.ExpectBegin()
	mock.ExpectExec(q).WithArgs(model.RoleMember, uint64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs(model.RoleAdmin, uint64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.TransferRole(context.Background(), 1, 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberTransferRole_MissingTargetRollsBack(t *testing.T) {
	repo, mock, db := newMemberRepoWithMock(t)
	defer db.Close()

	q := regexp.QuoteMeta("UPDATE members SET role=? WHERE id=?")

	mock.ExpectBegin()
	mock.ExpectExec(q).WithArgs(model.RoleMember, uint64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs(model.RoleAdmin, uint64(99)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.TransferRole(context.Background(), 1, 99)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

const (
	guardRoleQ  = "SELECT role FROM members WHERE id=? AND workspace_id=? FOR UPDATE"
	guardCountQ = "SELECT COUNT(*) FROM (SELECT id FROM members WHERE workspace_id=? AND role=? FOR UPDATE) t"
	guardDelQ   = "DELETE FROM members WHERE id=?"
)

func TestMemberDeleteGuardingLastAdmin(t *testing.T) {
	repo, mock, db := newMemberRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(guardRoleQ)).WithArgs(uint64(1), uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow(model.RoleAdmin))
	mock.ExpectQuery(regexp.QuoteMeta(guardCountQ)).WithArgs(uint64(7), model.RoleAdmin).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(2))
	mock.ExpectExec(regexp.QuoteMeta(guardDelQ)).WithArgs(uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteGuardingLastAdmin(context.Background(), 1, 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberDeleteGuardingLastAdmin_SoleAdminRollsBack(t *testing.T) {
	repo, mock, db := newMemberRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(guardRoleQ)).WithArgs(uint64(1), uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow(model.RoleAdmin))
	mock.ExpectQuery(regexp.QuoteMeta(guardCountQ)).WithArgs(uint64(7), model.RoleAdmin).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(1))
	mock.ExpectRollback()

	err := repo.DeleteGuardingLastAdmin(context.Background(), 1, 7)
	assert.ErrorIs(t, err, ErrLastAdmin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberDeleteGuardingLastAdmin_MemberSkipsCount(t *testing.T) {
	repo, mock, db := newMemberRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(guardRoleQ)).WithArgs(uint64(2), uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow(model.RoleMember))
	mock.ExpectExec(regexp.QuoteMeta(guardDelQ)).WithArgs(uint64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteGuardingLastAdmin(context.Background(), 2, 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberGetByUserAndWorkspace_NotFound(t *testing.T) {
	repo, mock, db := newMemberRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+memberColumns+" FROM members WHERE user_id=? AND workspace_id=? LIMIT 1")).
		WithArgs(uint64(10), uint64(1)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUserAndWorkspace(context.Background(), 10, 1)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
