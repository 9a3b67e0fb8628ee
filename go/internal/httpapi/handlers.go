package httpapi

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/maticef/huddle/go/internal/models"
	"github.com/maticef/huddle/go/internal/registry"
)

// handleJoinGroup joins or creates a group. Creating with a group code is
// the resurrection path: the code is honored if free, and a racer that
// finds the code already recreated simply attaches to the existing group
// instead of spawning a duplicate.
func (s *Service) handleJoinGroup(w http.ResponseWriter, r *http.Request) {
	var req joinGroupRequest
	if !decode(w, r, &req) {
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	var group models.Group
	switch req.Action {
	case ActionCreate:
		code := registry.NormalizeCode(req.GroupCode)
		if code != "" {
			if existing, err := s.registry.GetGroup(code); err == nil {
				group = existing
				break
			}
		}
		group = s.registry.CreateGroup(req.Name+"'s Group", req.Calibration, code)
		s.metrics.GroupsCreated.Inc()
	default:
		if req.GroupCode == "" {
			writeError(w, http.StatusBadRequest, "Group code required")
			return
		}
		existing, err := s.registry.GetGroup(req.GroupCode)
		if err != nil {
			writeError(w, http.StatusNotFound, "Group not found")
			return
		}
		group = existing
	}

	userID := req.UserID
	if userID == "" {
		userID = uuid.NewString()
	}

	user, err := s.registry.JoinGroup(group.ID, userID, req.Name)
	if err != nil {
		writeError(w, http.StatusNotFound, "Group not found")
		return
	}
	s.metrics.Joins.Inc()

	// Re-read so the echoed group reflects the join.
	if fresh, err := s.registry.GetGroup(group.ID); err == nil {
		group = fresh
	}

	writeJSON(w, http.StatusOK, joinGroupResponse{User: user, Group: group})
}

// handleGetGroup serves the poll tick: the group snapshot plus members
// with liveness derived at read time.
func (s *Service) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	group, err := s.registry.GetGroup(code)
	if err != nil {
		writeError(w, http.StatusNotFound, "Group not found")
		return
	}

	members, err := s.registry.ListMembers(code)
	if err != nil {
		writeError(w, http.StatusNotFound, "Group not found")
		return
	}
	s.metrics.Polls.Inc()

	writeJSON(w, http.StatusOK, groupSnapshotResponse{Group: group, Members: members})
}

func (s *Service) handleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if !decode(w, r, &req) {
		return
	}

	if req.UserID == "" || req.Lat == nil || req.Lng == nil {
		writeError(w, http.StatusBadRequest, "Missing fields")
		return
	}

	user, err := s.registry.UpdateLocation(req.UserID, *req.Lat, *req.Lng)
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	s.metrics.LocationUpdates.Inc()

	writeJSON(w, http.StatusOK, locationResponse{Success: true, User: user})
}

func (s *Service) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decode(w, r, &req) {
		return
	}

	if req.GroupID == "" || req.UserID == "" || req.Text == "" {
		writeError(w, http.StatusBadRequest, "Missing fields")
		return
	}

	msg, err := s.registry.AddMessage(req.GroupID, req.UserID, req.UserName, req.Text)
	if err != nil {
		writeError(w, http.StatusNotFound, "Group not found")
		return
	}
	s.metrics.Messages.Inc()

	writeJSON(w, http.StatusOK, chatResponse{Success: true, Message: msg})
}

func (s *Service) handleCastBet(w http.ResponseWriter, r *http.Request) {
	var req betRequest
	if !decode(w, r, &req) {
		return
	}

	if req.GroupID == "" || req.UserID == "" || req.FightID == "" || req.Prediction == "" {
		writeError(w, http.StatusBadRequest, "Missing fields")
		return
	}

	bet, err := s.registry.AddBet(req.GroupID, req.UserID, req.UserName, req.FightID, req.Prediction)
	if err != nil {
		if errors.Is(err, registry.ErrGroupNotFound) {
			writeError(w, http.StatusNotFound, "Group not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	s.metrics.Bets.Inc()

	writeJSON(w, http.StatusOK, betResponse{Success: true, Bet: bet})
}
