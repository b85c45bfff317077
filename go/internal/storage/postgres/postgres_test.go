package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcdev12/matchbook/go/internal/storage"
)

type SlotTestSuite struct {
	suite.Suite
	db   *sqlx.DB
	mock sqlmock.Sqlmock
	slot *Slot
}

// jsonArg matches a driver value holding the expected JSON document
type jsonArg string

func (a jsonArg) Match(v driver.Value) bool {
	var raw []byte
	switch val := v.(type) {
	case []byte:
		raw = val
	case json.RawMessage:
		raw = val
	case string:
		raw = []byte(val)
	default:
		return false
	}
	return string(raw) == string(a)
}

func (s *SlotTestSuite) SetupTest() {
	mockDB, mock, err := sqlmock.New()
	require.NoError(s.T(), err)

	s.db = sqlx.NewDb(mockDB, "sqlmock")
	s.mock = mock
	s.slot = New(s.db)
}

func (s *SlotTestSuite) TearDownTest() {
	s.db.Close()
}

func (s *SlotTestSuite) TestGet_ReturnsStoredValue() {
	s.mock.ExpectQuery(`SELECT value FROM match_slots WHERE key = \$1`).
		WithArgs("matches").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`[{"id":"a"}]`)))

	value, err := s.slot.Get(context.Background(), "matches")

	require.NoError(s.T(), err)
	assert.JSONEq(s.T(), `[{"id":"a"}]`, string(value))
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func (s *SlotTestSuite) TestGet_MissingKey() {
	s.mock.ExpectQuery(`SELECT value FROM match_slots`).
		WithArgs("matches").
		WillReturnError(sql.ErrNoRows)

	_, err := s.slot.Get(context.Background(), "matches")

	assert.ErrorIs(s.T(), err, storage.ErrNotFound)
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func (s *SlotTestSuite) TestGet_NullValue() {
	s.mock.ExpectQuery(`SELECT value FROM match_slots`).
		WithArgs("matches").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(nil))

	_, err := s.slot.Get(context.Background(), "matches")

	assert.ErrorIs(s.T(), err, storage.ErrNotFound)
}

func (s *SlotTestSuite) TestGet_DatabaseError() {
	s.mock.ExpectQuery(`SELECT value FROM match_slots`).
		WithArgs("matches").
		WillReturnError(errors.New("connection reset"))

	_, err := s.slot.Get(context.Background(), "matches")

	require.Error(s.T(), err)
	assert.NotErrorIs(s.T(), err, storage.ErrNotFound)
	assert.Contains(s.T(), err.Error(), "connection reset")
}

func (s *SlotTestSuite) TestPut_Upserts() {
	s.mock.ExpectExec(`INSERT INTO match_slots \(key, value, updated_at\)`).
		WithArgs("matches", jsonArg(`[{"id":"a"}]`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.slot.Put(context.Background(), "matches", []byte(`[{"id":"a"}]`))

	require.NoError(s.T(), err)
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func (s *SlotTestSuite) TestPut_Error() {
	s.mock.ExpectExec(`INSERT INTO match_slots`).
		WillReturnError(errors.New("disk full"))

	err := s.slot.Put(context.Background(), "matches", []byte(`[]`))

	require.Error(s.T(), err)
	assert.Contains(s.T(), err.Error(), "disk full")
}

func (s *SlotTestSuite) TestDelete() {
	s.mock.ExpectExec(`DELETE FROM match_slots WHERE key = \$1`).
		WithArgs("matches").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.slot.Delete(context.Background(), "matches")

	require.NoError(s.T(), err)
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func TestSlotTestSuite(t *testing.T) {
	suite.Run(t, new(SlotTestSuite))
}

func TestMigrationsAreEmbedded(t *testing.T) {
	up, err := migrationsFS.ReadFile("migrations/000001_create_match_slots.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), "CREATE TABLE IF NOT EXISTS match_slots")
}
