package ws

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radieske/picks-league-platform/pkg/contracts/events"
)

// PubSubChannel define o canal Redis Pub/Sub usado para avisos de leaderboard
const PubSubChannel = "leaderboard_updates_broadcast"

// StartRedisSubscriber inicia uma goroutine que escuta o canal Redis Pub/Sub
// e repassa os avisos de leaderboard para os clientes WebSocket via Hub
func StartRedisSubscriber(ctx context.Context, log *zap.Logger, r *redis.Client, hub *Hub) {
	sub := r.Subscribe(ctx, PubSubChannel)
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
				var upd events.LeaderboardUpdated
				if err := json.Unmarshal([]byte(msg.Payload), &upd); err != nil {
					log.Warn("ws subscriber unmarshal", zap.Error(err))
					continue
				}
				update := BoardUpdate{RoundID: upd.RoundID, Reason: upd.Reason}
				hub.Broadcast(update)
				// inscritos no escopo geral também recebem
				if upd.RoundID != "" {
					hub.BroadcastTo("", update)
				}
			}
		}
	}()
}
