package redis

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"video-insight/internal/domain/ports/repository"
)

const jobEventsChannel = "analysis:events"

var _ repository.JobEventFeed = (*ChangeFeed)(nil)

// ChangeFeed publishes job status transitions over Redis pub/sub. This is
// what makes completions observable to the notification collaborator without
// the orchestrator calling it directly.
type ChangeFeed struct {
	client *Client
	log    *zerolog.Logger
}

func NewChangeFeed(client *Client, logger *zerolog.Logger) *ChangeFeed {
	return &ChangeFeed{client: client, log: logger}
}

func (f *ChangeFeed) Publish(ctx context.Context, ev repository.JobEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return f.client.Publish(ctx, jobEventsChannel, b)
}

func (f *ChangeFeed) Subscribe(ctx context.Context) (<-chan repository.JobEvent, error) {
	sub := f.client.Subscribe(ctx, jobEventsChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	out := make(chan repository.JobEvent)
	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev repository.JobEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					f.log.Warn().Err(err).Msg("malformed job event dropped")
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
