package nakama

const (
	// MatchNamePiratwhist is the authoritative match handler name registered
	// with Nakama.
	MatchNamePiratwhist = "piratwhist_match"

	// RPC ids exposed to clients.
	RpcRoomCreate   = "room_create"
	RpcRoomJoin     = "room_join"
	RpcQuickMatch   = "quick_match"
	RpcAskAssistant = "ask_assistant"
	RpcFeedback     = "submit_feedback"
	RpcAdminLogin   = "admin_login"
	RpcAdminStats   = "admin_stats"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame   int64 = 1
	OpSubmitBid   int64 = 2
	OpPlayCard    int64 = 3
	OpAdvance     int64 = 4
	OpAddBot      int64 = 5
	OpUpdateLobby int64 = 6

	// Server -> Client events
	OpSnapshot        int64 = 100
	OpPlayerJoined    int64 = 101
	OpPlayerLeft      int64 = 102
	OpGameStarted     int64 = 103
	OpRoundStarted    int64 = 104
	OpHandDealt       int64 = 105 // send privately
	OpBidSubmitted    int64 = 106
	OpBiddingFinished int64 = 107
	OpCardPlayed      int64 = 108
	OpTrickFinished   int64 = 109
	OpTrickStarted    int64 = 110
	OpRoundFinished   int64 = 111
	OpGameFinished    int64 = 112
	OpGameError       int64 = 199
)
