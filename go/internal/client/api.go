package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/maticef/huddle/go/internal/models"
)

// ErrGroupNotFound is the one definitive failure a poll tick can see: the
// registry no longer knows the group. Everything else is transient.
var ErrGroupNotFound = errors.New("group not found")

// ErrUserNotFound means the registry lost (or never had) our user record,
// typically after a restart. Non-fatal; a re-join repairs it.
var ErrUserNotFound = errors.New("user not found")

// API is the HTTP client for the registry's polling endpoints.
type API struct {
	baseURL string
	http    *http.Client
}

// NewAPI creates a client for a registry at baseURL, e.g.
// "http://localhost:8080".
func NewAPI(baseURL string) *API {
	return &API{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Snapshot is one poll response: the group plus its members with
// server-derived liveness.
type Snapshot struct {
	Group   models.Group  `json:"group"`
	Members []models.User `json:"members"`
}

// JoinRequest mirrors the join endpoint body. Action "create" with a
// GroupCode is the resurrection path.
type JoinRequest struct {
	Name        string                   `json:"name"`
	GroupCode   string                   `json:"groupCode,omitempty"`
	Action      string                   `json:"action"`
	Calibration *models.VenueCalibration `json:"calibration,omitempty"`
	UserID      string                   `json:"userId,omitempty"`
}

// JoinResult is the join endpoint response.
type JoinResult struct {
	User  models.User  `json:"user"`
	Group models.Group `json:"group"`
}

// JoinGroup joins or creates a group.
func (a *API) JoinGroup(ctx context.Context, req JoinRequest) (JoinResult, error) {
	var out JoinResult
	err := a.post(ctx, "/groups/join", req, &out)
	return out, err
}

// FetchGroup retrieves the group snapshot for one poll tick.
func (a *API) FetchGroup(ctx context.Context, code string) (Snapshot, error) {
	var out Snapshot
	err := a.get(ctx, "/groups/"+code, &out)
	return out, err
}

// PushLocation reports a GPS fix for the user.
func (a *API) PushLocation(ctx context.Context, userID string, coord models.Coordinates) error {
	body := struct {
		UserID string  `json:"userId"`
		Lat    float64 `json:"lat"`
		Lng    float64 `json:"lng"`
	}{userID, coord.Lat, coord.Lng}
	return a.post(ctx, "/location", body, nil)
}

// SendMessage posts a chat message and returns the authoritative copy.
func (a *API) SendMessage(ctx context.Context, groupID, userID, userName, text string) (models.ChatMessage, error) {
	body := struct {
		GroupID  string `json:"groupId"`
		UserID   string `json:"userId"`
		UserName string `json:"userName"`
		Text     string `json:"text"`
	}{groupID, userID, userName, text}
	var out struct {
		Message models.ChatMessage `json:"message"`
	}
	err := a.post(ctx, "/chat", body, &out)
	return out.Message, err
}

// CastBet records (or replaces) the user's vote for a fight.
func (a *API) CastBet(ctx context.Context, groupID, userID, userName, fightID, prediction string) (models.Bet, error) {
	body := struct {
		GroupID    string `json:"groupId"`
		UserID     string `json:"userId"`
		UserName   string `json:"userName"`
		FightID    string `json:"fightId"`
		Prediction string `json:"prediction"`
	}{groupID, userID, userName, fightID, prediction}
	var out struct {
		Bet models.Bet `json:"bet"`
	}
	err := a.post(ctx, "/bets", body, &out)
	return out.Bet, err
}

func (a *API) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return err
	}
	return a.do(req, out)
}

func (a *API) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return a.do(req, out)
}

func (a *API) do(req *http.Request, out any) error {
	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error == "User not found" {
			return ErrUserNotFound
		}
		return ErrGroupNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s: status %d", req.Method, req.URL.Path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
