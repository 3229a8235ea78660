package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// client embrulha a conexão com um mutex de escrita: o broadcast (goroutine
// do subscriber Redis) e as respostas de ping (goroutine de leitura) escrevem
// na mesma conexão, e o gorilla exige um escritor por vez.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

func (c *client) sendJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.send(b)
}

// Hub gerencia conexões WebSocket e assinaturas por jogo
type Hub struct {
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	// gameID -> clientes inscritos
	subs map[string]map[*client]struct{}
}

// NewHub cria um Hub com política customizada de origem (CORS)
func NewHub(allowOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		subs:     make(map[string]map[*client]struct{}),
	}
}

// HandleWS gerencia o ciclo de vida de uma conexão WebSocket.
// Cada cliente pode se inscrever em múltiplos gameIDs; ao desconectar todas
// as assinaturas são removidas.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn}
	defer h.drop(c)
	defer conn.Close()

	for {
		var msg ClientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		switch msg.Type {
		case "subscribe":
			h.subscribe(c, msg.GameID)
		case "unsubscribe":
			h.unsubscribe(c, msg.GameID)
		case "ping":
			_ = c.sendJSON(map[string]string{"type": "pong"})
		}
	}
}

func (h *Hub) subscribe(c *client, gameID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[gameID]; !ok {
		h.subs[gameID] = make(map[*client]struct{})
	}
	h.subs[gameID][c] = struct{}{}
}

func (h *Hub) unsubscribe(c *client, gameID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[gameID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.subs, gameID)
		}
	}
}

// drop remove o cliente de todas as assinaturas
func (h *Hub) drop(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for gameID, set := range h.subs {
		delete(set, c)
		if len(set) == 0 {
			delete(h.subs, gameID)
		}
	}
}

// Broadcast envia um snapshot pra todos os clientes inscritos no jogo.
// Cliente com escrita falhando é ignorado aqui; a leitura dele vai falhar em
// seguida e o HandleWS remove a conexão.
func (h *Hub) Broadcast(update SnapshotUpdate) {
	h.mu.RLock()
	set := h.subs[update.GameID]
	clients := make([]*client, 0, len(set))
	for c := range set {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	if len(clients) == 0 {
		return
	}

	b, err := json.Marshal(update)
	if err != nil {
		return
	}
	for _, c := range clients {
		_ = c.send(b)
	}
}
