package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dimitrije/taskhive-api/internal/apperr"
	"github.com/dimitrije/taskhive-api/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMemberService(t *testing.T) (*MemberService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewMemberService(db), mock
}

func TestMemberService_GetMemberRoleInWorkspace(t *testing.T) {
	userID, workspaceID := uuid.New(), uuid.New()
	admin := "ADMIN"

	tests := []struct {
		name     string
		setup    func(mock pgxmock.PgxPoolIface)
		wantRole string
		wantKind apperr.Kind
		wantErr  bool
	}{
		{
			name: "member",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT r.name\s+FROM workspaces w`).
					WithArgs(workspaceID, userID).
					WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow(&admin))
			},
			wantRole: "ADMIN",
		},
		{
			name: "workspace missing",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT r.name\s+FROM workspaces w`).
					WithArgs(workspaceID, userID).
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr:  true,
			wantKind: apperr.KindNotFound,
		},
		{
			name: "not a member",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT r.name\s+FROM workspaces w`).
					WithArgs(workspaceID, userID).
					WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow((*string)(nil)))
			},
			wantErr:  true,
			wantKind: apperr.KindUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mock := setupMemberService(t)
			tt.setup(mock)

			role, err := svc.GetMemberRoleInWorkspace(context.Background(), userID, workspaceID)

			if tt.wantErr {
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantRole, role)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMemberService_JoinWorkspaceByInvite(t *testing.T) {
	svc, mock := setupMemberService(t)
	userID, workspaceID, roleID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM workspaces WHERE invite_code`).
		WithArgs("ab12cd34").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(workspaceID))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM members`).
		WithArgs(userID, workspaceID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`SELECT .+ FROM roles WHERE name`).
		WithArgs("MEMBER").
		WillReturnRows(roleRows(roleID, "MEMBER", []string{"VIEW_ONLY"}))
	mock.ExpectExec(`INSERT INTO members`).
		WithArgs(userID, workspaceID, roleID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	gotWorkspace, role, err := svc.JoinWorkspaceByInvite(context.Background(), userID, "ab12cd34")

	require.NoError(t, err)
	assert.Equal(t, workspaceID, gotWorkspace)
	assert.Equal(t, "MEMBER", role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberService_JoinWorkspaceByInvite_UnknownCode(t *testing.T) {
	svc, mock := setupMemberService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM workspaces WHERE invite_code`).
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, _, err := svc.JoinWorkspaceByInvite(context.Background(), uuid.New(), "nope")

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberService_JoinWorkspaceByInvite_AlreadyMember(t *testing.T) {
	svc, mock := setupMemberService(t)
	userID, workspaceID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM workspaces WHERE invite_code`).
		WithArgs("ab12cd34").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(workspaceID))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM members`).
		WithArgs(userID, workspaceID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, _, err := svc.JoinWorkspaceByInvite(context.Background(), userID, "ab12cd34")

	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberService_JoinWorkspaceByInvite_ConcurrentJoinHitsConstraint(t *testing.T) {
	svc, mock := setupMemberService(t)
	userID, workspaceID, roleID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM workspaces WHERE invite_code`).
		WithArgs("ab12cd34").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(workspaceID))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM members`).
		WithArgs(userID, workspaceID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`SELECT .+ FROM roles WHERE name`).
		WithArgs("MEMBER").
		WillReturnRows(roleRows(roleID, "MEMBER", nil))
	mock.ExpectExec(`INSERT INTO members`).
		WithArgs(userID, workspaceID, roleID).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	_, _, err := svc.JoinWorkspaceByInvite(context.Background(), userID, "ab12cd34")

	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberService_RemoveMember(t *testing.T) {
	svc, mock := setupMemberService(t)
	workspaceID, ownerID, memberID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT owner_id FROM workspaces`).
		WithArgs(workspaceID).
		WillReturnRows(pgxmock.NewRows([]string{"owner_id"}).AddRow(ownerID))
	mock.ExpectExec(`DELETE FROM members WHERE user_id`).
		WithArgs(memberID, workspaceID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`UPDATE users SET current_workspace_id = NULL`).
		WithArgs(memberID, workspaceID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectCommit()

	err := svc.RemoveMember(context.Background(), workspaceID, memberID)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberService_RemoveMember_Owner(t *testing.T) {
	svc, mock := setupMemberService(t)
	workspaceID, ownerID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT owner_id FROM workspaces`).
		WithArgs(workspaceID).
		WillReturnRows(pgxmock.NewRows([]string{"owner_id"}).AddRow(ownerID))
	mock.ExpectRollback()

	err := svc.RemoveMember(context.Background(), workspaceID, ownerID)

	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberService_RemoveMember_NotAMember(t *testing.T) {
	svc, mock := setupMemberService(t)
	workspaceID, memberID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT owner_id FROM workspaces`).
		WithArgs(workspaceID).
		WillReturnRows(pgxmock.NewRows([]string{"owner_id"}).AddRow(uuid.New()))
	mock.ExpectExec(`DELETE FROM members WHERE user_id`).
		WithArgs(memberID, workspaceID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	err := svc.RemoveMember(context.Background(), workspaceID, memberID)

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberService_IsMember_StoreError(t *testing.T) {
	svc, mock := setupMemberService(t)

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM members`).
		WillReturnError(errors.New("conn closed"))

	_, err := svc.IsMember(context.Background(), uuid.New(), uuid.New())

	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}
