package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"time"

	"piratwhist/internal/app"
	"piratwhist/internal/app/telemetry"
	"piratwhist/internal/bot"
	"piratwhist/internal/config"
	"piratwhist/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchLabel is the queryable match metadata. Code lets clients join a
// specific room; Open and Phase drive quick-match queries.
type MatchLabel struct {
	Game  string `json:"game"`
	Code  string `json:"code"`
	Open  int    `json:"open"`
	Phase string `json:"phase"`
}

// MatchState holds the authoritative runtime state for one room.
type MatchState struct {
	Code      string
	Tick      int64
	Presences map[string]runtime.Presence
	Table     *app.Table
	App       *app.Service
	Bots      map[int]*bot.Agent // seat index -> agent
	Rng       *rand.Rand
	Cfg       config.GameConfig

	BotActAt   int64 // tick when the next waiting bot acts; 0 means unscheduled
	AdvanceAt  int64 // tick when a trick/round pause auto-advances
	EmptySince int64 // tick when the last presence disconnected
}

type submitBidRequest struct {
	Bid int `json:"bid"`
}

type playCardRequest struct {
	Card domain.Card `json:"card"`
}

type addBotRequest struct {
	Level string `json:"level"`
}

type updateLobbyRequest struct {
	Name string `json:"name,omitempty"`
	Bots *int   `json:"bots,omitempty"`
}

type gameErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newMatchHandler(tel *telemetry.Service) *matchHandler {
	return &matchHandler{telemetry: tel}
}

type matchHandler struct {
	telemetry *telemetry.Service
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}

	cfg := config.GetGameConfig()
	state := &MatchState{
		Presences: make(map[string]runtime.Presence),
		Table:     app.NewTable(),
		App:       app.NewService(nil),
		Bots:      make(map[int]*bot.Agent),
		Rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		Cfg:       cfg,
	}

	if code, ok := params["code"].(string); ok {
		state.Code = code
	} else {
		state.Code = GenerateCode(state.Rng)
	}
	logger.Info("MatchInit: Room %s created.", state.Code)

	labelBytes, err := json.Marshal(mh.label(state))
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := cfg.TickRate
	if tickRate <= 0 {
		tickRate = 2
	}
	return state, tickRate, string(labelBytes)
}

func (mh *matchHandler) label(state *MatchState) MatchLabel {
	phase := string(domain.PhaseLobby)
	open := domain.MaxSeats - len(state.Table.Seats)
	if state.Table.Started() {
		phase = string(state.Table.Game.Phase)
		open = 0
	}
	return MatchLabel{Game: "piratwhist", Code: state.Code, Open: open, Phase: phase}
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}
	if matchState.Table.Started() {
		return state, false, "game already started"
	}
	if len(matchState.Table.Seats) >= domain.MaxSeats {
		return state, false, "room full"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p
		seat, err := matchState.Table.Join(p.GetUserId(), p.GetUsername())
		if err != nil {
			logger.Warn("MatchJoin: User %s could not be seated: %v", p.GetUserId(), err)
			continue
		}
		logger.Debug("MatchJoin: User %s took seat %d in room %s.", p.GetUserId(), seat, matchState.Code)
		mh.dispatchEvents(ctx, matchState, dispatcher, logger, []app.Event{{
			Kind: app.EventPlayerJoined,
			Payload: app.PlayerJoinedPayload{
				Seat:   seat,
				Name:   p.GetUsername(),
				UserID: p.GetUserId(),
			},
		}})
	}
	matchState.EmptySince = 0

	mh.updateLabel(matchState, dispatcher, logger)
	mh.sendSnapshots(matchState, dispatcher, logger)
	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())

		seat, replaced, err := matchState.Table.Leave(p.GetUserId())
		if err != nil {
			continue
		}
		if replaced {
			// The seat plays on as a bot so the remaining humans can
			// finish the round.
			matchState.Table.Seats[seat].Name = bot.Name(seat)
			brain, _ := bot.NewBrain(bot.BotLevelHeuristic, nil)
			matchState.Bots[seat] = &bot.Agent{Name: matchState.Table.Seats[seat].Name, Strategy: brain}
			logger.Info("MatchLeave: Seat %d handed to bot %s.", seat, matchState.Table.Seats[seat].Name)
		}
		mh.dispatchEvents(ctx, matchState, dispatcher, logger, []app.Event{{
			Kind: app.EventPlayerLeft,
			Payload: app.PlayerLeftPayload{
				Seat:          seat,
				UserID:        p.GetUserId(),
				ReplacedByBot: replaced,
			},
		}})
	}

	if matchState.Table.HumanCount() == 0 {
		logger.Info("MatchLeave: Terminating room %s with no humans.", matchState.Code)
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.sendSnapshots(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}
	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpSubmitBid:
			mh.handleSubmitBid(ctx, matchState, dispatcher, logger, msg)
		case OpPlayCard:
			mh.handlePlayCard(ctx, matchState, dispatcher, logger, msg)
		case OpAdvance:
			mh.handleAdvance(ctx, matchState, dispatcher, logger, msg)
		case OpAddBot:
			mh.handleAddBot(ctx, matchState, dispatcher, logger, msg)
		case OpUpdateLobby:
			mh.handleUpdateLobby(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	mh.processAutoAdvance(ctx, matchState, dispatcher, logger)
	mh.processBots(ctx, matchState, dispatcher, logger)

	// A room nobody is connected to winds down after a timeout.
	if len(matchState.Presences) == 0 {
		if matchState.EmptySince == 0 {
			matchState.EmptySince = tick
		}
		timeout := int64(matchState.Cfg.EmptyMatchTimeoutTicks)
		if timeout > 0 && tick-matchState.EmptySince >= timeout {
			logger.Info("MatchLoop: Terminating idle empty room %s.", matchState.Code)
			return nil
		}
	} else {
		matchState.EmptySince = 0
	}

	return matchState
}

func (mh *matchHandler) seatOfSender(state *MatchState, msg runtime.MatchData) (int, bool) {
	return state.Table.SeatOf(msg.GetUserId())
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if _, ok := mh.seatOfSender(state, msg); !ok {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 403, "not seated at this table")
		return
	}

	events, err := state.App.Start(state.Table)
	if err != nil {
		logger.Warn("StartGame: User %s could not start: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, err.Error())
		return
	}
	logger.Info("StartGame: Room %s started with %d seats.", state.Code, len(state.Table.Seats))
	mh.afterAction(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handleSubmitBid(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	seat, ok := mh.seatOfSender(state, msg)
	if !ok {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 403, "not seated at this table")
		return
	}
	var req submitBidRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, "malformed bid request")
		return
	}

	events, err := state.App.SubmitBid(state.Table, seat, req.Bid)
	if err != nil {
		logger.Debug("SubmitBid: seat %d rejected: %v", seat, err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, err.Error())
		return
	}
	mh.afterAction(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handlePlayCard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	seat, ok := mh.seatOfSender(state, msg)
	if !ok {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 403, "not seated at this table")
		return
	}
	var req playCardRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, "malformed play request")
		return
	}

	events, err := state.App.PlayCard(state.Table, seat, req.Card)
	if err != nil {
		logger.Debug("PlayCard: seat %d rejected %s: %v", seat, req.Card, err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, err.Error())
		return
	}
	mh.afterAction(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handleAdvance(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if _, ok := mh.seatOfSender(state, msg); !ok {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 403, "not seated at this table")
		return
	}

	events, err := state.App.Advance(state.Table)
	if err != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, err.Error())
		return
	}
	mh.afterAction(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handleAddBot(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if _, ok := mh.seatOfSender(state, msg); !ok {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 403, "not seated at this table")
		return
	}
	var req addBotRequest
	if len(msg.GetData()) > 0 {
		if err := json.Unmarshal(msg.GetData(), &req); err != nil {
			mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, "malformed add bot request")
			return
		}
	}
	brain, err := bot.NewBrain(bot.BotLevel(req.Level), state.Rng)
	if err != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, err.Error())
		return
	}

	name := bot.Name(len(state.Table.Seats))
	seat, err := state.Table.AddBot(name)
	if err != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, err.Error())
		return
	}
	state.Bots[seat] = &bot.Agent{Name: name, Strategy: brain}
	logger.Info("AddBot: Bot %s took seat %d in room %s.", name, seat, state.Code)

	mh.afterAction(ctx, state, dispatcher, logger, []app.Event{{
		Kind:    app.EventPlayerJoined,
		Payload: app.PlayerJoinedPayload{Seat: seat, Name: name, Bot: true},
	}})
}

// handleUpdateLobby renames the sender's seat and/or adjusts the bot count
// toward a target. Lobby only.
func (mh *matchHandler) handleUpdateLobby(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if _, ok := mh.seatOfSender(state, msg); !ok {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 403, "not seated at this table")
		return
	}
	if state.Table.Started() {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, app.ErrGameInProgress.Error())
		return
	}
	var req updateLobbyRequest
	if len(msg.GetData()) > 0 {
		if err := json.Unmarshal(msg.GetData(), &req); err != nil {
			mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, "malformed lobby update request")
			return
		}
	}

	var events []app.Event
	if req.Name != "" {
		if _, err := state.Table.Rename(msg.GetUserId(), req.Name); err != nil {
			mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, err.Error())
			return
		}
	}
	if req.Bots != nil {
		target := *req.Bots
		if target < 0 {
			mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, "bot count cannot be negative")
			return
		}
		for state.Table.BotCount() > target {
			seat, err := state.Table.RemoveBot()
			if err != nil {
				break
			}
			delete(state.Bots, seat)
			events = append(events, app.Event{
				Kind:    app.EventPlayerLeft,
				Payload: app.PlayerLeftPayload{Seat: seat},
			})
		}
		for state.Table.BotCount() < target {
			name := bot.Name(len(state.Table.Seats))
			seat, err := state.Table.AddBot(name)
			if err != nil {
				mh.sendError(state, dispatcher, logger, msg.GetUserId(), 400, err.Error())
				break
			}
			brain, _ := bot.NewBrain(bot.BotLevelHeuristic, nil)
			state.Bots[seat] = &bot.Agent{Name: name, Strategy: brain}
			events = append(events, app.Event{
				Kind:    app.EventPlayerJoined,
				Payload: app.PlayerJoinedPayload{Seat: seat, Name: name, Bot: true},
			})
		}
	}
	mh.afterAction(ctx, state, dispatcher, logger, events)
}

// afterAction dispatches events, refreshes the label and snapshots, and
// schedules any pause that the new phase calls for.
func (mh *matchHandler) afterAction(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
	mh.updateLabel(state, dispatcher, logger)
	mh.sendSnapshots(state, dispatcher, logger)
	mh.schedulePause(state)
}

func (mh *matchHandler) schedulePause(state *MatchState) {
	if !state.Table.Started() {
		state.AdvanceAt = 0
		return
	}
	switch state.Table.Game.Phase {
	case domain.PhaseBetweenTricks:
		state.AdvanceAt = state.Tick + int64(state.Cfg.TrickPauseTicks)
	case domain.PhaseRoundFinished:
		state.AdvanceAt = state.Tick + int64(state.Cfg.RoundPauseTicks)
	default:
		state.AdvanceAt = 0
	}
}

func (mh *matchHandler) processAutoAdvance(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.AdvanceAt == 0 || state.Tick < state.AdvanceAt {
		return
	}
	state.AdvanceAt = 0
	events, err := state.App.Advance(state.Table)
	if err != nil {
		// A client advanced manually before the timer fired.
		return
	}
	mh.afterAction(ctx, state, dispatcher, logger, events)
}

// processBots lets at most one waiting bot act per delay window.
func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if !state.Table.Started() || state.Table.Game.Finished() {
		return
	}
	seat, agent := mh.nextBotToAct(state)
	if seat < 0 {
		state.BotActAt = 0
		return
	}
	if state.BotActAt == 0 {
		state.BotActAt = state.Tick + int64(state.Cfg.BotActDelayTicks)
		return
	}
	if state.Tick < state.BotActAt {
		return
	}
	state.BotActAt = 0

	action, ok := agent.Act(state.Table.Game, seat)
	if !ok {
		return
	}
	var (
		events []app.Event
		err    error
	)
	switch {
	case action.Bid != nil:
		events, err = state.App.SubmitBid(state.Table, seat, *action.Bid)
	case action.Card != nil:
		events, err = state.App.PlayCard(state.Table, seat, *action.Card)
	default:
		return
	}
	if err != nil {
		logger.Error("processBots: Bot %s (seat %d) action rejected: %v", agent.Name, seat, err)
		return
	}
	mh.afterAction(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) nextBotToAct(state *MatchState) (int, *bot.Agent) {
	game := state.Table.Game
	switch game.Phase {
	case domain.PhaseBidding:
		for seat, s := range state.Table.Seats {
			if s.Bot && game.Bids[seat] == nil {
				return seat, mh.agentFor(state, seat)
			}
		}
	case domain.PhasePlaying:
		if state.Table.Seats[game.Turn].Bot {
			return game.Turn, mh.agentFor(state, game.Turn)
		}
	}
	return -1, nil
}

func (mh *matchHandler) agentFor(state *MatchState, seat int) *bot.Agent {
	if agent, ok := state.Bots[seat]; ok {
		return agent
	}
	brain, _ := bot.NewBrain(bot.BotLevelHeuristic, nil)
	agent := &bot.Agent{Name: state.Table.Seats[seat].Name, Strategy: brain}
	state.Bots[seat] = agent
	return agent
}

// opCodeFor maps app event kinds to wire opcodes.
func opCodeFor(kind app.EventKind) (int64, bool) {
	switch kind {
	case app.EventPlayerJoined:
		return OpPlayerJoined, true
	case app.EventPlayerLeft:
		return OpPlayerLeft, true
	case app.EventGameStarted:
		return OpGameStarted, true
	case app.EventRoundStarted:
		return OpRoundStarted, true
	case app.EventHandDealt:
		return OpHandDealt, true
	case app.EventBidSubmitted:
		return OpBidSubmitted, true
	case app.EventBiddingFinished:
		return OpBiddingFinished, true
	case app.EventCardPlayed:
		return OpCardPlayed, true
	case app.EventTrickFinished:
		return OpTrickFinished, true
	case app.EventTrickStarted:
		return OpTrickStarted, true
	case app.EventRoundFinished:
		return OpRoundFinished, true
	case app.EventGameFinished:
		return OpGameFinished, true
	default:
		return 0, false
	}
}

// dispatchEvents converts app events to wire messages.
func (mh *matchHandler) dispatchEvents(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		opCode, ok := opCodeFor(ev.Kind)
		if !ok {
			logger.Warn("Unknown event kind: %v", ev.Kind)
			continue
		}

		data, err := json.Marshal(ev.Payload)
		if err != nil {
			logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
			continue
		}

		// Targeted events go only to their connected recipients. If none
		// of the intended recipients are connected the message must not
		// fall back to a broadcast.
		var recipients []runtime.Presence
		if len(ev.Recipients) > 0 {
			for _, uid := range ev.Recipients {
				if p, ok := state.Presences[uid]; ok {
					recipients = append(recipients, p)
				}
			}
			if len(recipients) == 0 {
				continue
			}
		}
		dispatcher.BroadcastMessage(opCode, data, recipients, nil, true)

		if ev.Kind == app.EventRoundFinished && mh.telemetry != nil && state.Table.Started() {
			game := state.Table.Game
			if err := mh.telemetry.RecordRound(ctx, state.Code, game.RoundIndex, game.Seats); err != nil {
				logger.Warn("Failed to record round telemetry: %v", err)
			}
		}
	}
}

// sendSnapshots sends every connected presence its own redacted view.
func (mh *matchHandler) sendSnapshots(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	for uid, p := range state.Presences {
		seat, ok := state.Table.SeatOf(uid)
		if !ok {
			seat = -1
		}
		data, err := json.Marshal(app.Snapshot(state.Table, seat))
		if err != nil {
			logger.Error("Failed to marshal snapshot: %v", err)
			return
		}
		dispatcher.BroadcastMessage(OpSnapshot, data, []runtime.Presence{p}, nil, true)
	}
}

// sendError sends an error event to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	data, err := json.Marshal(gameErrorPayload{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal error payload: %v", err)
		return
	}
	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: presence not found", userID)
		return
	}
	dispatcher.BroadcastMessage(OpGameError, data, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	labelBytes, err := json.Marshal(mh.label(state))
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
