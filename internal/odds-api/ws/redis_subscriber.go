package ws

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StartRedisSubscriber inicia uma goroutine que escuta o canal Redis Pub/Sub
// e repassa os snapshots recebidos para os clientes WebSocket inscritos via Hub
//
// Funcionamento:
// - Recebe mensagens JSON do canal Redis
// - Desserializa para SnapshotUpdate
// - Chama hub.Broadcast para enviar aos clientes inscritos no jogo
func StartRedisSubscriber(ctx context.Context, r *redis.Client, hub *Hub, channel string, log *zap.Logger) {
	sub := r.Subscribe(ctx, channel)
	ch := sub.Channel()
	go func() {
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close() // encerra a inscrição ao finalizar o contexto
				return
			case msg := <-ch:
				if msg == nil {
					continue
				}
				var upd SnapshotUpdate
				if err := json.Unmarshal([]byte(msg.Payload), &upd); err != nil {
					log.Warn("ws subscriber unmarshal error", zap.Error(err))
					continue
				}
				hub.Broadcast(upd) // envia o snapshot para os clientes inscritos
			}
		}
	}()
}
