package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

func TestTimetablePlacementRepositoryInsertBatchInTx(t *testing.T) {
	db, mock, cleanup := newSQLMock(t)
	defer cleanup()
	repo := NewTimetablePlacementRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_placements")).
		WithArgs(sqlmock.AnyArg(), "run-1", 1, 1, "math", "10A", "t-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_placements")).
		WithArgs(sqlmock.AnyArg(), "run-1", 1, 2, "lab", "10A", "t-2", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)
	placements := []models.TimetablePlacement{
		{RunID: "run-1", Day: 1, Period: 1, LessonID: "math", ClassID: "10A", TeacherID: "t-1"},
		{RunID: "run-1", Day: 1, Period: 2, LessonID: "lab", ClassID: "10A", TeacherID: "t-2", RoomIDs: []string{"lab-1", "lab-2"}},
	}
	require.NoError(t, repo.InsertBatch(context.Background(), tx, placements))
	require.NoError(t, tx.Commit())

	assert.NotEmpty(t, placements[0].ID)
	assert.NotNil(t, placements[0].RoomIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetablePlacementRepositoryInsertBatchEmpty(t *testing.T) {
	db, mock, cleanup := newSQLMock(t)
	defer cleanup()

	require.NoError(t, NewTimetablePlacementRepository(db).InsertBatch(context.Background(), nil, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetablePlacementRepositoryListByRun(t *testing.T) {
	db, mock, cleanup := newSQLMock(t)
	defer cleanup()
	repo := NewTimetablePlacementRepository(db)

	rows := sqlmock.NewRows([]string{"id", "run_id", "day", "period", "lesson_id", "lesson_name", "class_id", "teacher_id", "room_ids"}).
		AddRow("p-1", "run-1", 1, 1, "lab", "Lab work", "10A", "t-2", "{lab-1,lab-2}").
		AddRow("p-2", "run-1", 1, 2, "math", "Mathematics", "10A", "t-1", "{}")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.run_id = $1 ORDER BY p.day ASC, p.period ASC, p.teacher_id ASC")).
		WithArgs("run-1").
		WillReturnRows(rows)

	placements, err := repo.ListByRun(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, placements, 2)
	assert.Equal(t, []string{"lab-1", "lab-2"}, []string(placements[0].RoomIDs))
	assert.Equal(t, "Lab work", placements[0].LessonName)
	assert.Empty(t, placements[1].RoomIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetablePlacementRepositoryDeleteByRun(t *testing.T) {
	db, mock, cleanup := newSQLMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM timetable_placements WHERE run_id = $1")).
		WithArgs("run-1").
		WillReturnResult(sqlmock.NewResult(0, 12))

	require.NoError(t, NewTimetablePlacementRepository(db).DeleteByRun(context.Background(), nil, "run-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
