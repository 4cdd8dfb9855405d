package models

// Room is a physical teaching space.
type Room struct {
	ID         string `db:"id" json:"id"`
	BranchID   string `db:"branch_id" json:"branch_id"`
	Name       string `db:"name" json:"name"`
	RoomTypeID string `db:"room_type_id" json:"room_type_id"`
	Capacity   int    `db:"capacity" json:"capacity"`
}

// RoomType classifies rooms (classroom, laboratory, gym).
type RoomType struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
