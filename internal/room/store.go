package room

// Store is keyed storage for live rooms plus the player→room reverse index.
// Both indexes live behind one lock: there is never an observable state
// where a player is bound to a room the forward map does not hold, or a
// deleted room still claims its players. No business validation here.
type Store interface {
	Get(code string) (*Room, bool)
	// Create inserts the room and binds its creator in one step, all under
	// the write lock: it fails with ErrCapacityExceeded once maxRooms rooms
	// are live, and with ErrCodeTaken when the code is already in use, so
	// neither decision can race a concurrent insert.
	Create(r *Room, creatorID string, maxRooms int) error
	// Delete removes the room and every reverse-index entry pointing at it.
	Delete(code string)

	// Bind records that playerID is seated in the room with the given code.
	Bind(playerID, code string)
	Unbind(playerID string)
	RoomFor(playerID string) (string, bool)

	Count() int
	// Rooms returns a point-in-time copy of the live room set.
	Rooms() []*Room
}
