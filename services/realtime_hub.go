package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

type WSClient struct {
	UserID uint
	Conn   *websocket.Conn
}

// RealtimeHub fans risk-update events out to the owning user's
// websocket connections.
type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[uint]map[*WSClient]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[uint]map[*WSClient]struct{})}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*WSClient]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	h.mu.Unlock()
}

func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.UserID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

// ClientCount reports how many connections the user currently holds.
func (h *RealtimeHub) ClientCount(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// BroadcastRiskUpdate is called after the allergy mutation committed;
// it never participates in the transaction.
func (h *RealtimeHub) BroadcastRiskUpdate(userID, mealID uint, risk float64) {
	h.broadcast(userID, map[string]any{
		"kind":         "meal.risk_updated",
		"meal_id":      mealID,
		"allergy_risk": risk,
	})
}

func (h *RealtimeHub) broadcast(userID uint, payload any) {
	msg, err := json.Marshal(payload)
	if err != nil {
		return
	}

	h.mu.RLock()
	var dead []*WSClient
	for c := range h.clients[userID] {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			dead = append(dead, c)
		}
	}
	h.mu.RUnlock()

	// A failed write means the peer is gone; Unregister takes the write
	// lock, so eviction happens outside the read-locked walk.
	for _, c := range dead {
		h.Unregister(c)
	}
}
