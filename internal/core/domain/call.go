package domain

// CallInvite describes an incoming call for out-of-band delivery to a
// recipient who may not hold an open connection.
type CallInvite struct {
	RoomID     RoomID `json:"room_id"`
	CallerName string `json:"caller_name"`
}
