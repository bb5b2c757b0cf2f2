package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/heroiclabs/nakama-common/rtapi"
	"github.com/heroiclabs/nakama-go/v2"
)

const (
	ServerKey = "defaultkey"
	Host      = "127.0.0.1"
	Port      = 7350
)

type TestClient struct {
	Client  *nakama.Client
	Session *nakama.Session
	Socket  *nakama.Socket
	UserID  string
}

type roomResponse struct {
	MatchID string `json:"match_id"`
	Code    string `json:"code"`
}

func NewTestClient(t *testing.T) *TestClient {
	client := nakama.NewClient(ServerKey, Host, Port, false)

	deviceID := fmt.Sprintf("test_device_%d", time.Now().UnixNano())

	session, err := client.AuthenticateDevice(context.Background(), deviceID, true, "")
	if err != nil {
		t.Fatalf("Failed to authenticate: %v", err)
	}

	socket := client.NewSocket()
	if err := socket.Connect(context.Background(), session, true); err != nil {
		t.Fatalf("Failed to connect socket: %v", err)
	}

	return &TestClient{
		Client:  client,
		Session: session,
		Socket:  socket,
		UserID:  session.UserId,
	}
}

func (tc *TestClient) Close() {
	if tc.Socket != nil {
		tc.Socket.Close()
	}
}

// CreateRoom calls the room_create RPC and joins the new match.
func (tc *TestClient) CreateRoom(t *testing.T) roomResponse {
	rpc, err := tc.Client.RpcFunc(context.Background(), tc.Session, "room_create", "{}")
	if err != nil {
		t.Fatalf("RPC room_create failed: %v", err)
	}

	var room roomResponse
	if err := json.Unmarshal([]byte(rpc.Payload), &room); err != nil {
		t.Fatalf("room_create returned bad payload %q: %v", rpc.Payload, err)
	}
	if room.MatchID == "" || len(room.Code) != 6 {
		t.Fatalf("room_create returned %+v", room)
	}

	if _, err := tc.Socket.JoinMatch(context.Background(), nil, room.MatchID, nil); err != nil {
		t.Fatalf("Failed to join match %s: %v", room.MatchID, err)
	}
	return room
}

// JoinRoomByCode resolves a room code via room_join and joins the match.
func (tc *TestClient) JoinRoomByCode(t *testing.T, code string) string {
	payload, _ := json.Marshal(map[string]string{"code": code})
	rpc, err := tc.Client.RpcFunc(context.Background(), tc.Session, "room_join", string(payload))
	if err != nil {
		t.Fatalf("RPC room_join failed: %v", err)
	}

	var room roomResponse
	if err := json.Unmarshal([]byte(rpc.Payload), &room); err != nil {
		t.Fatalf("room_join returned bad payload %q: %v", rpc.Payload, err)
	}

	if _, err := tc.Socket.JoinMatch(context.Background(), nil, room.MatchID, nil); err != nil {
		t.Fatalf("Failed to join match %s: %v", room.MatchID, err)
	}
	return room.MatchID
}

// Send marshals a payload and sends it as a match message.
func (tc *TestClient) Send(t *testing.T, matchID string, opCode int64, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Failed to marshal payload for op %d: %v", opCode, err)
	}
	if _, err := tc.Socket.SendMatchState(context.Background(), matchID, opCode, data, nil); err != nil {
		t.Fatalf("Failed to send op %d: %v", opCode, err)
	}
}

// WaitForMatchState waits for a specific opcode from the socket.
func (tc *TestClient) WaitForMatchState(t *testing.T, opCode int64, timeout time.Duration) *rtapi.MatchData {
	ch := make(chan *rtapi.MatchData)

	originalHandler := tc.Socket.OnMatchData
	tc.Socket.OnMatchData = func(data *rtapi.MatchData) {
		if data.OpCode == opCode {
			ch <- data
		}
		if originalHandler != nil {
			originalHandler(data)
		}
	}

	select {
	case data := <-ch:
		return data
	case <-time.After(timeout):
		t.Fatalf("Timeout waiting for OpCode %d", opCode)
		return nil
	}
}
