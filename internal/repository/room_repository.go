package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// RoomRepository reads rooms and room types.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository constructs the repository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// ListByBranch returns the rooms of a branch.
func (r *RoomRepository) ListByBranch(ctx context.Context, branchID string) ([]models.Room, error) {
	const query = `SELECT id, branch_id, name, room_type_id, capacity FROM rooms WHERE branch_id = $1 ORDER BY id ASC`
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query, branchID); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// ListTypes returns every room type.
func (r *RoomRepository) ListTypes(ctx context.Context) ([]models.RoomType, error) {
	const query = `SELECT id, name FROM room_types ORDER BY id ASC`
	var roomTypes []models.RoomType
	if err := r.db.SelectContext(ctx, &roomTypes, query); err != nil {
		return nil, fmt.Errorf("list room types: %w", err)
	}
	return roomTypes, nil
}
