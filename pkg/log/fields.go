package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Collaboration
	FieldRoomID = "room_id"
	FieldUserID = "user_id"
	FieldConnID = "conn_id"
	FieldMember = "member"

	// Service
	FieldService = "service"
)
