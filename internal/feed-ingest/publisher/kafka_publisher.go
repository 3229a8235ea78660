package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/nba-odds-feed/pkg/contracts/events"
)

// KafkaPublisher publica snapshots de jogos no tópico de odds.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

// NewKafkaPublisher cria o publisher do tópico. Em env local/dev o tópico é
// criado via controller do cluster; em prod a topologia é provisionada fora.
func NewKafkaPublisher(brokers []string, topic, env string, log *zap.Logger) *KafkaPublisher {
	if len(brokers) == 0 {
		log.Fatal("kafka brokers not provided")
	}

	if env == "local" || env == "dev" {
		if err := ensureTopic(brokers[0], topic); err != nil {
			log.Warn("failed to create kafka topic", zap.String("topic", topic), zap.Error(err))
		}
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		ReadTimeout:            10 * time.Second,
		WriteTimeout:           10 * time.Second,
	}

	return &KafkaPublisher{writer: writer, log: log}
}

// ensureTopic cria o tópico com particionamento single-broker, via controller
// do cluster. Tópico já existente não é erro.
func ensureTopic(broker, topic string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := kafka.DialContext(ctx, "tcp", broker)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("find controller: %w", err)
	}

	cconn, err := kafka.DialContext(ctx, "tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	if err != nil {
		return fmt.Errorf("dial controller: %w", err)
	}
	defer cconn.Close()

	cfg := kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}
	if err := cconn.CreateTopics(cfg); err != nil && !strings.Contains(err.Error(), "already exists") {
		return fmt.Errorf("create topic: %w", err)
	}
	return nil
}

// Publish serializa o snapshot e envia com o GameID como chave, mantendo os
// updates de um mesmo jogo na mesma partição (ordem preservada).
func (p *KafkaPublisher) Publish(ctx context.Context, g events.GameSnapshot) error {
	value, err := json.Marshal(g)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(g.GameID),
		Value: value,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("failed to publish game snapshot", zap.Error(err))
		return err
	}

	p.log.Debug("published game snapshot", zap.String("game_id", g.GameID))
	return nil
}

// Close finaliza o writer e libera recursos associados.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
