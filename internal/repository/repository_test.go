package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/fnutaifi/custody-sheets/internal/models"
	"github.com/fnutaifi/custody-sheets/pkg/database"
)

// RepositoryTestSuite runs the repositories against an in-memory sqlite
// database with the real migrations applied.
type RepositoryTestSuite struct {
	suite.Suite
	db     *database.DB
	users  *UserRepository
	sheets *SheetRepository
}

func (s *RepositoryTestSuite) SetupTest() {
	logger := zap.NewNop()

	db, err := database.New(database.Config{Path: ":memory:"}, logger)
	require.NoError(s.T(), err, "failed to open test database")

	require.NoError(s.T(), database.NewMigrator(db, logger).RunMigrations("../../migrations"))

	s.db = db
	s.users = NewUserRepository(db.DB, logger)
	s.sheets = NewSheetRepository(db, logger)
}

func (s *RepositoryTestSuite) TearDownTest() {
	if s.db != nil {
		s.db.Close()
	}
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func (s *RepositoryTestSuite) createUser(email, role string) *models.User {
	user := &models.User{
		Email:        email,
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         role,
	}
	require.NoError(s.T(), s.users.Create(user))
	return user
}

func testSheet(id, employeeID string) *models.Sheet {
	return &models.Sheet{
		ID:            id,
		CustodyNumber: "CU-" + id,
		CustodyAmount: 1000,
		EmployeeID:    employeeID,
		Status:        models.SheetStatusOpen,
		CreatedAt:     "2026-08-01T10:00:00Z",
		LastModified:  "2026-08-01T10:00:00Z",
		Lines: []models.ExpenseLine{
			{
				ID:          id + "-l1",
				SheetID:     id,
				Date:        "2026-08-02",
				Company:     "شركة التوريدات",
				Description: "قرطاسية",
				Reason:      models.ReasonAdministration,
				Amount:      200,
				BankFees:    10,
				CreatedAt:   "2026-08-02T09:00:00Z",
			},
			{
				ID:          id + "-l2",
				SheetID:     id,
				Date:        "2026-08-03",
				Company:     "مطعم",
				Description: "غداء عمل",
				Reason:      models.ReasonFood,
				Amount:      300,
				CreatedAt:   "2026-08-03T09:00:00Z",
			},
		},
	}
}

// --- users ---

func (s *RepositoryTestSuite) TestCreateUserGeneratesIDAndDefaults() {
	user := &models.User{Email: "a@example.com", PasswordHash: "h", Name: "A"}
	require.NoError(s.T(), s.users.Create(user))

	assert.NotEmpty(s.T(), user.ID)
	assert.Equal(s.T(), models.RoleEmployee, user.Role)
	assert.False(s.T(), user.CreatedAt.IsZero())
}

func (s *RepositoryTestSuite) TestDuplicateEmailConflict() {
	s.createUser("dup@example.com", models.RoleEmployee)

	err := s.users.Create(&models.User{Email: "dup@example.com", PasswordHash: "h", Name: "B"})
	assert.ErrorIs(s.T(), err, ErrEmailTaken)

	// First account unaffected
	existing, err := s.users.GetByEmail("dup@example.com")
	require.NoError(s.T(), err)
	require.NotNil(s.T(), existing)
	assert.Equal(s.T(), "Test User", existing.Name)
}

func (s *RepositoryTestSuite) TestGetByEmailAbsent() {
	user, err := s.users.GetByEmail("nobody@example.com")
	require.NoError(s.T(), err)
	assert.Nil(s.T(), user)
}

func (s *RepositoryTestSuite) TestUpdatePreservesHashWhenEmpty() {
	user := s.createUser("u@example.com", models.RoleEmployee)

	require.NoError(s.T(), s.users.Update(user.ID, "New Name", "u@example.com", models.RoleTeamLead, ""))

	got, err := s.users.GetByID(user.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "New Name", got.Name)
	assert.Equal(s.T(), models.RoleTeamLead, got.Role)
	assert.Equal(s.T(), "hash", got.PasswordHash)

	require.NoError(s.T(), s.users.Update(user.ID, "New Name", "u@example.com", models.RoleTeamLead, "newhash"))
	got, err = s.users.GetByID(user.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "newhash", got.PasswordHash)
}

func (s *RepositoryTestSuite) TestUpdateRole() {
	user := s.createUser("r@example.com", models.RoleEmployee)

	require.NoError(s.T(), s.users.UpdateRole(user.ID, models.RoleAdmin))

	got, err := s.users.GetByID(user.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.RoleAdmin, got.Role)

	assert.ErrorIs(s.T(), s.users.UpdateRole("missing", models.RoleAdmin), ErrUserNotFound)
}

func (s *RepositoryTestSuite) TestDeleteUser() {
	user := s.createUser("d@example.com", models.RoleEmployee)

	require.NoError(s.T(), s.users.Delete(user.ID))

	got, err := s.users.GetByID(user.ID)
	require.NoError(s.T(), err)
	assert.Nil(s.T(), got)

	assert.ErrorIs(s.T(), s.users.Delete(user.ID), ErrUserNotFound)
}

func (s *RepositoryTestSuite) TestListExcludesHash() {
	s.createUser("l@example.com", models.RoleEmployee)

	users, err := s.users.List()
	require.NoError(s.T(), err)
	require.Len(s.T(), users, 1)
	assert.Empty(s.T(), users[0].PasswordHash)
}

// --- sheets ---

func (s *RepositoryTestSuite) TestUpsertRoundTrip() {
	sheet := testSheet("sh-1", "emp-1")
	require.NoError(s.T(), s.sheets.Upsert(sheet))

	got, err := s.sheets.GetByID("sh-1")
	require.NoError(s.T(), err)
	require.NotNil(s.T(), got)

	assert.Equal(s.T(), sheet.CustodyNumber, got.CustodyNumber)
	assert.Equal(s.T(), 1000.0, got.CustodyAmount)
	require.Len(s.T(), got.Lines, 2)
	assert.Equal(s.T(), "2026-08-02", got.Lines[0].Date)
	assert.Equal(s.T(), 200.0, got.Lines[0].Amount)
	assert.Equal(s.T(), 10.0, got.Lines[0].BankFees)
	assert.Equal(s.T(), models.ReasonFood, got.Lines[1].Reason)
}

func (s *RepositoryTestSuite) TestUpsertIdempotent() {
	sheet := testSheet("sh-1", "emp-1")
	require.NoError(s.T(), s.sheets.Upsert(sheet))
	require.NoError(s.T(), s.sheets.Upsert(sheet))

	got, err := s.sheets.GetByID("sh-1")
	require.NoError(s.T(), err)
	require.Len(s.T(), got.Lines, 2)

	var count int
	require.NoError(s.T(), s.db.QueryRow("SELECT COUNT(*) FROM expense_lines").Scan(&count))
	assert.Equal(s.T(), 2, count)
}

func (s *RepositoryTestSuite) TestUpsertReplacesLines() {
	sheet := testSheet("sh-1", "emp-1")
	require.NoError(s.T(), s.sheets.Upsert(sheet))

	sheet.Lines = sheet.Lines[:1]
	sheet.Lines[0].Amount = 999
	require.NoError(s.T(), s.sheets.Upsert(sheet))

	got, err := s.sheets.GetByID("sh-1")
	require.NoError(s.T(), err)
	require.Len(s.T(), got.Lines, 1)
	assert.Equal(s.T(), 999.0, got.Lines[0].Amount)
}

func (s *RepositoryTestSuite) TestUpsertRollsBackOnBadLine() {
	sheet := testSheet("sh-1", "emp-1")
	require.NoError(s.T(), s.sheets.Upsert(sheet))

	bad := testSheet("sh-1", "emp-1")
	bad.CustodyAmount = 2000
	// Duplicate line id violates the primary key and must abort the save
	bad.Lines = append(bad.Lines, bad.Lines[0])
	require.Error(s.T(), s.sheets.Upsert(bad))

	// Prior state fully intact: sheet fields and lines
	got, err := s.sheets.GetByID("sh-1")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1000.0, got.CustodyAmount)
	assert.Len(s.T(), got.Lines, 2)
}

func (s *RepositoryTestSuite) TestListRoleScoping() {
	require.NoError(s.T(), s.sheets.Upsert(testSheet("sh-1", "emp-1")))
	require.NoError(s.T(), s.sheets.Upsert(testSheet("sh-2", "emp-2")))

	all, err := s.sheets.List("anyone", models.RoleAdmin)
	require.NoError(s.T(), err)
	assert.Len(s.T(), all, 2)

	lead, err := s.sheets.List("anyone", models.RoleTeamLead)
	require.NoError(s.T(), err)
	assert.Len(s.T(), lead, 2)

	own, err := s.sheets.List("emp-1", models.RoleEmployee)
	require.NoError(s.T(), err)
	require.Len(s.T(), own, 1)
	assert.Equal(s.T(), "emp-1", own[0].EmployeeID)
	assert.Len(s.T(), own[0].Lines, 2)
}

func (s *RepositoryTestSuite) TestListOrderedByLastModifiedDesc() {
	older := testSheet("sh-old", "emp-1")
	older.LastModified = "2026-07-01T10:00:00Z"
	newer := testSheet("sh-new", "emp-1")
	newer.LastModified = "2026-08-20T10:00:00Z"

	require.NoError(s.T(), s.sheets.Upsert(older))
	require.NoError(s.T(), s.sheets.Upsert(newer))

	sheets, err := s.sheets.List("emp-1", models.RoleEmployee)
	require.NoError(s.T(), err)
	require.Len(s.T(), sheets, 2)
	assert.Equal(s.T(), "sh-new", sheets[0].ID)
}

func (s *RepositoryTestSuite) TestDeleteCascadesToLines() {
	require.NoError(s.T(), s.sheets.Upsert(testSheet("sh-1", "emp-1")))

	require.NoError(s.T(), s.sheets.Delete("sh-1"))

	var count int
	require.NoError(s.T(), s.db.QueryRow("SELECT COUNT(*) FROM expense_lines").Scan(&count))
	assert.Equal(s.T(), 0, count)

	assert.ErrorIs(s.T(), s.sheets.Delete("sh-1"), ErrSheetNotFound)
}

func (s *RepositoryTestSuite) TestLineDateNormalized() {
	sheet := testSheet("sh-1", "emp-1")
	sheet.Lines = sheet.Lines[:1]
	sheet.Lines[0].Date = "2026-08-02T00:00:00.000Z"
	require.NoError(s.T(), s.sheets.Upsert(sheet))

	got, err := s.sheets.GetByID("sh-1")
	require.NoError(s.T(), err)
	require.Len(s.T(), got.Lines, 1)
	assert.Equal(s.T(), "2026-08-02", got.Lines[0].Date)
}
