package rpc

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ninja0404/saros-go-sdk/pkg/config"
)

// AccountUpdate is one accountNotification.
type AccountUpdate struct {
	Account solana.PublicKey
	Slot    uint64
	Data    []byte
}

// AccountHandler receives updates on the watcher's read goroutine.
type AccountHandler func(AccountUpdate)

type wsRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type wsResponse struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type wsNotification struct {
	Method string `json:"method"`
	Params struct {
		Subscription uint64 `json:"subscription"`
		Result       struct {
			Context struct {
				Slot uint64 `json:"slot"`
			} `json:"context"`
			Value struct {
				Data []string `json:"data"` // [payload, encoding]
			} `json:"value"`
		} `json:"result"`
	} `json:"params"`
}

type subscription struct {
	reqID   uint64
	subID   uint64
	account solana.PublicKey
	handler AccountHandler
}

// AccountWatcher streams account changes over the pubsub websocket
// (accountSubscribe). Subscriptions survive reconnects.
type AccountWatcher struct {
	url            string
	commitment     string
	reconnectDelay time.Duration
	log            zerolog.Logger

	mu     sync.Mutex
	conn   *websocket.Conn
	nextID uint64
	subs   map[uint64]*subscription // by request id
	active map[uint64]*subscription // by server subscription id
}

// NewAccountWatcher targets cfg's websocket endpoint.
func NewAccountWatcher(cfg config.RPCConfig) *AccountWatcher {
	log := cfg.Logger
	if log.GetLevel() == zerolog.NoLevel {
		log = zerolog.Nop()
	}
	commitment := cfg.Commitment
	if commitment == "" {
		commitment = "confirmed"
	}
	return &AccountWatcher{
		url:            cfg.ResolveWSURL(),
		commitment:     commitment,
		reconnectDelay: 5 * time.Second,
		log:            log,
		nextID:         1,
		subs:           make(map[uint64]*subscription),
		active:         make(map[uint64]*subscription),
	}
}

// Subscribe registers handler for account. It may be called before or after Run.
func (w *AccountWatcher) Subscribe(account solana.PublicKey, handler AccountHandler) error {
	w.mu.Lock()
	sub := &subscription{reqID: w.nextID, account: account, handler: handler}
	w.nextID++
	w.subs[sub.reqID] = sub
	conn := w.conn
	w.mu.Unlock()

	if conn == nil {
		return nil
	}
	return w.send(conn, w.subscribeRequest(sub))
}

// Run connects and dispatches notifications until ctx is done,
// reconnecting after read errors.
func (w *AccountWatcher) Run(ctx context.Context) error {
	for {
		err := w.runOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		w.log.Warn().Err(err).Str("url", w.url).Dur("retry_in", w.reconnectDelay).Msg("websocket disconnected")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.reconnectDelay):
		}
	}
}

func (w *AccountWatcher) runOnce(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, w.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", w.url, err)
	}
	defer conn.Close()

	w.mu.Lock()
	w.conn = conn
	w.active = make(map[uint64]*subscription)
	pending := make([]*subscription, 0, len(w.subs))
	for _, s := range w.subs {
		s.subID = 0
		pending = append(pending, s)
	}
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.conn = nil
		w.mu.Unlock()
	}()

	w.log.Debug().Str("url", w.url).Int("subscriptions", len(pending)).Msg("websocket connected")
	for _, s := range pending {
		if err := w.send(conn, w.subscribeRequest(s)); err != nil {
			return err
		}
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-stop:
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		w.handleMessage(msg)
	}
}

// Close drops the current connection; Run reconnects unless its context is done.
func (w *AccountWatcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn == nil {
		return nil
	}
	return w.conn.Close()
}

func (w *AccountWatcher) subscribeRequest(s *subscription) wsRequest {
	return wsRequest{
		JSONRPC: "2.0",
		ID:      s.reqID,
		Method:  "accountSubscribe",
		Params: []interface{}{
			s.account.String(),
			map[string]interface{}{
				"encoding":   "base64",
				"commitment": w.commitment,
			},
		},
	}
}

func (w *AccountWatcher) send(conn *websocket.Conn, req wsRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (w *AccountWatcher) handleMessage(msg []byte) {
	var note wsNotification
	if err := json.Unmarshal(msg, &note); err == nil && note.Method == "accountNotification" {
		w.handleNotification(note)
		return
	}

	var resp wsResponse
	if err := json.Unmarshal(msg, &resp); err != nil {
		w.log.Debug().Err(err).Msg("websocket: unparseable message")
		return
	}
	if resp.Error != nil {
		w.log.Warn().Uint64("id", resp.ID).Int("code", resp.Error.Code).Str("msg", resp.Error.Message).Msg("websocket rpc error")
		return
	}
	var subID uint64
	if err := json.Unmarshal(resp.Result, &subID); err != nil {
		return
	}
	w.mu.Lock()
	if s, ok := w.subs[resp.ID]; ok {
		s.subID = subID
		w.active[subID] = s
	}
	w.mu.Unlock()
}

func (w *AccountWatcher) handleNotification(note wsNotification) {
	w.mu.Lock()
	s, ok := w.active[note.Params.Subscription]
	w.mu.Unlock()
	if !ok {
		return
	}
	data, err := decodeAccountData(note.Params.Result.Value.Data)
	if err != nil {
		w.log.Debug().Err(err).Str("account", s.account.String()).Msg("websocket: bad account data")
		return
	}
	s.handler(AccountUpdate{
		Account: s.account,
		Slot:    note.Params.Result.Context.Slot,
		Data:    data,
	})
}

func decodeAccountData(pair []string) ([]byte, error) {
	if len(pair) == 0 {
		return nil, errors.New("empty data")
	}
	if len(pair) > 1 && pair[1] != "base64" {
		return nil, fmt.Errorf("unsupported encoding %q", pair[1])
	}
	return base64.StdEncoding.DecodeString(pair[0])
}
