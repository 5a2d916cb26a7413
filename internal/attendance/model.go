package attendance

import "time"

const (
	MethodSelf = "self"
	MethodQR   = "qr"
)

type Attendance struct {
	ID          int       `db:"id" json:"id"`
	MemberID    int       `db:"member_id" json:"memberId"`
	CheckInDate string    `db:"check_in_date" json:"checkInDate"`
	CheckedInAt time.Time `db:"checked_in_at" json:"checkedInAt"`
	CheckedInBy *int      `db:"checked_in_by" json:"checkedInBy,omitempty"`
	Method      string    `db:"method" json:"method"`
}

type QRCheckInRequest struct {
	QRCode string `json:"qrCode" binding:"required,max=64"`
}

type CheckInResponse struct {
	Attendance    *Attendance `json:"attendance"`
	CheckInsToday int         `json:"checkInsToday"`
}
