package ws

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: subscribe | unsubscribe | ping
// GameID: obrigatório para subscribe/unsubscribe
type ClientMsg struct {
	Type   string `json:"type"`   // subscribe | unsubscribe | ping
	GameID string `json:"gameId"` // requerido em subscribe/unsubscribe
}

// SnapshotUpdate representa um snapshot de odds enviado para clientes WebSocket
type SnapshotUpdate struct {
	GameID  string      `json:"gameId"`
	Payload interface{} `json:"payload"`
}
