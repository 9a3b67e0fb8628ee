package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maticef/huddle/go/internal/metrics"
	"github.com/maticef/huddle/go/internal/models"
	"github.com/maticef/huddle/go/internal/registry"
)

func setupTestServer(t *testing.T) (*httptest.Server, *registry.Registry) {
	t.Helper()

	reg := registry.New(registry.Config{}, clockwork.NewFakeClock())
	svc := NewService(reg, metrics.New(prometheus.NewRegistry()))

	mux := http.NewServeMux()
	svc.Register(mux)

	server := httptest.NewServer(WithRecovery(mux))
	t.Cleanup(server.Close)
	return server, reg
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestJoinCreateGroup(t *testing.T) {
	server, _ := setupTestServer(t)

	resp := postJSON(t, server.URL+"/groups/join", map[string]any{
		"name":   "Alice",
		"action": "create",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeBody[joinGroupResponse](t, resp)
	assert.Equal(t, "Alice's Group", out.Group.Name)
	assert.Len(t, out.Group.ID, 4)
	assert.Equal(t, "Alice", out.User.Name)
	assert.NotEmpty(t, out.User.ID)
	assert.Contains(t, out.Group.Members, out.User.ID)
}

func TestJoinValidation(t *testing.T) {
	server, _ := setupTestServer(t)

	resp := postJSON(t, server.URL+"/groups/join", map[string]any{"action": "create"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Name is required", decodeBody[errorResponse](t, resp).Error)

	resp = postJSON(t, server.URL+"/groups/join", map[string]any{"name": "Bob", "action": "join"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Group code required", decodeBody[errorResponse](t, resp).Error)

	resp = postJSON(t, server.URL+"/groups/join", map[string]any{"name": "Bob", "action": "join", "groupCode": "NOPE"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestJoinExistingGroupNormalizesCode(t *testing.T) {
	server, reg := setupTestServer(t)
	group := reg.CreateGroup("G", nil, "AB12")

	resp := postJSON(t, server.URL+"/groups/join", map[string]any{
		"name":      "Bob",
		"action":    "join",
		"groupCode": "ab12",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeBody[joinGroupResponse](t, resp)
	assert.Equal(t, group.ID, out.Group.ID)
	assert.Equal(t, group.ID, out.User.GroupID)
}

func TestJoinKeepsSuppliedUserID(t *testing.T) {
	server, reg := setupTestServer(t)
	reg.CreateGroup("G", nil, "AB12")

	resp := postJSON(t, server.URL+"/groups/join", map[string]any{
		"name":      "Bob",
		"action":    "join",
		"groupCode": "AB12",
		"userId":    "u-stable",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeBody[joinGroupResponse](t, resp)
	assert.Equal(t, "u-stable", out.User.ID)
}

func TestCreateWithCodeResurrectsOrAttaches(t *testing.T) {
	server, reg := setupTestServer(t)

	// Code is free: honored verbatim (the resurrection path).
	resp := postJSON(t, server.URL+"/groups/join", map[string]any{
		"name":      "Alice",
		"action":    "create",
		"groupCode": "ZZZZ",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeBody[joinGroupResponse](t, resp)
	assert.Equal(t, "ZZZZ", out.Group.ID)

	// Code already recreated: a racer attaches instead of duplicating.
	resp = postJSON(t, server.URL+"/groups/join", map[string]any{
		"name":      "Bob",
		"action":    "create",
		"groupCode": "ZZZZ",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out = decodeBody[joinGroupResponse](t, resp)
	assert.Equal(t, "ZZZZ", out.Group.ID)
	assert.Equal(t, "Alice's Group", out.Group.Name)

	members, err := reg.ListMembers("ZZZZ")
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestGetGroupSnapshot(t *testing.T) {
	server, reg := setupTestServer(t)
	group := reg.CreateGroup("G", nil, "")
	_, err := reg.JoinGroup(group.ID, "u1", "Alice")
	require.NoError(t, err)

	resp, err := http.Get(fmt.Sprintf("%s/groups/%s", server.URL, group.ID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeBody[groupSnapshotResponse](t, resp)
	assert.Equal(t, group.ID, out.Group.ID)
	require.Len(t, out.Members, 1)
	assert.True(t, out.Members[0].IsOnline)
}

func TestGetGroupNotFound(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := http.Get(server.URL + "/groups/NOPE")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Group not found", decodeBody[errorResponse](t, resp).Error)
}

func TestUpdateLocation(t *testing.T) {
	server, reg := setupTestServer(t)
	group := reg.CreateGroup("G", nil, "")
	_, err := reg.JoinGroup(group.ID, "u1", "Alice")
	require.NoError(t, err)

	resp := postJSON(t, server.URL+"/location", map[string]any{
		"userId": "u1", "lat": -34.64, "lng": -58.39,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeBody[locationResponse](t, resp)
	assert.True(t, out.Success)
	require.NotNil(t, out.User.LastLocation)
	assert.Equal(t, -34.64, out.User.LastLocation.Lat)
}

func TestUpdateLocationValidation(t *testing.T) {
	server, _ := setupTestServer(t)

	// A missing coordinate is not the same as zero.
	resp := postJSON(t, server.URL+"/location", map[string]any{"userId": "u1", "lat": -34.64})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/location", map[string]any{"userId": "ghost", "lat": 1.0, "lng": 2.0})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found", decodeBody[errorResponse](t, resp).Error)
}

func TestSendMessage(t *testing.T) {
	server, reg := setupTestServer(t)
	group := reg.CreateGroup("G", nil, "")

	resp := postJSON(t, server.URL+"/chat", map[string]any{
		"groupId": group.ID, "userId": "u1", "userName": "Alice", "text": "hola",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeBody[chatResponse](t, resp)
	assert.True(t, out.Success)
	assert.Equal(t, "hola", out.Message.Text)
	assert.NotEmpty(t, out.Message.ID)

	resp = postJSON(t, server.URL+"/chat", map[string]any{"groupId": group.ID, "userId": "u1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestCastBet(t *testing.T) {
	server, reg := setupTestServer(t)
	group := reg.CreateGroup("G", nil, "")

	resp := postJSON(t, server.URL+"/bets", map[string]any{
		"groupId": group.ID, "userId": "u1", "userName": "Alice",
		"fightId": "f1", "prediction": models.PredictionA,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeBody[betResponse](t, resp)
	assert.True(t, out.Success)
	assert.Equal(t, "f1", out.Bet.FightID)

	resp = postJSON(t, server.URL+"/bets", map[string]any{
		"groupId": "NOPE", "userId": "u1", "userName": "Alice",
		"fightId": "f1", "prediction": models.PredictionA,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/bets", map[string]any{"groupId": group.ID, "userId": "u1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
