package meetings

import "time"

type createMeetingRequest struct {
	Instructor string `json:"instructor"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	User       string `json:"user"`
}

type meetingResponse struct {
	ID         string    `json:"id"`
	Instructor string    `json:"instructor"`
	Date       string    `json:"date"`
	Time       string    `json:"time"`
	User       string    `json:"user"`
	Status     string    `json:"status"`
	RoomID     string    `json:"roomId"`
	CreatedAt  time.Time `json:"createdAt"`
}
