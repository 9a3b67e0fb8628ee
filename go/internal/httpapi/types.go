package httpapi

import "github.com/maticef/huddle/go/internal/models"

// Actions accepted by the join endpoint.
const (
	ActionCreate = "create"
	ActionJoin   = "join"
)

type joinGroupRequest struct {
	Name      string `json:"name"`
	GroupCode string `json:"groupCode,omitempty"`
	Action    string `json:"action"`
	// Calibration is only honored on create; groups keep the calibration
	// they were created with.
	Calibration *models.VenueCalibration `json:"calibration,omitempty"`
	// UserID lets a returning client keep its identity across reloads and
	// group resurrections. A fresh id is minted when absent.
	UserID string `json:"userId,omitempty"`
}

type joinGroupResponse struct {
	User  models.User  `json:"user"`
	Group models.Group `json:"group"`
}

type groupSnapshotResponse struct {
	Group   models.Group  `json:"group"`
	Members []models.User `json:"members"`
}

// locationRequest uses pointer coordinates so that an absent field is
// distinguishable from a legitimate zero value.
type locationRequest struct {
	UserID string   `json:"userId"`
	Lat    *float64 `json:"lat"`
	Lng    *float64 `json:"lng"`
}

type locationResponse struct {
	Success bool        `json:"success"`
	User    models.User `json:"user"`
}

type chatRequest struct {
	GroupID  string `json:"groupId"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Text     string `json:"text"`
}

type chatResponse struct {
	Success bool               `json:"success"`
	Message models.ChatMessage `json:"message"`
}

type betRequest struct {
	GroupID    string `json:"groupId"`
	UserID     string `json:"userId"`
	UserName   string `json:"userName"`
	FightID    string `json:"fightId"`
	Prediction string `json:"prediction"`
}

type betResponse struct {
	Success bool       `json:"success"`
	Bet     models.Bet `json:"bet"`
}

type errorResponse struct {
	Error string `json:"error"`
}
