package sink

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/itexoft/procvd/internal/procmodel"
)

// RedisSink publishes lines and events to per-group Redis Streams so an
// external consumer (a log shipper, a dashboard) can tail supervised
// output without linking against this process. Adapted from the
// teacher's redis-backed repositories, substituting XAdd for the
// key/value writes they used against channel records.
type RedisSink struct {
	client     *redis.Client
	log        *zap.Logger
	streamTTL  time.Duration
	maxEntries int64
}

// NewRedisSink creates a RedisSink. maxEntries caps each stream with
// MAXLEN ~ trimming (0 disables trimming).
func NewRedisSink(client *redis.Client, log *zap.Logger, maxEntries int64) *RedisSink {
	return &RedisSink{client: client, log: log.Named("redis_sink"), maxEntries: maxEntries}
}

func streamKey(group string) string {
	return "procvd:output:" + group
}

func eventStreamKey(group string) string {
	return "procvd:events:" + group
}

func (s *RedisSink) Write(line procmodel.OutputLine) {
	values := map[string]interface{}{
		"process":   line.Key.Process,
		"path":      line.DisplayPath,
		"stream":    line.Stream.String(),
		"line":      line.Line,
		"timestamp": line.Timestamp.Format(time.RFC3339Nano),
	}
	s.publish(streamKey(line.Key.Group), values)
}

func (s *RedisSink) WriteEvent(event procmodel.OutputEvent) {
	values := map[string]interface{}{
		"process":   event.Key.Process,
		"path":      event.DisplayPath,
		"kind":      event.Kind.String(),
		"message":   event.Message,
		"timestamp": event.Timestamp.Format(time.RFC3339Nano),
	}
	if event.ExitCode != nil {
		values["exit_code"] = strconv.Itoa(*event.ExitCode)
	}
	s.publish(eventStreamKey(event.Key.Group), values)
}

func (s *RedisSink) publish(key string, values map[string]interface{}) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	args := &redis.XAddArgs{Stream: key, Values: values}
	if s.maxEntries > 0 {
		args.MaxLen = s.maxEntries
		args.Approx = true
	}
	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		s.log.Warn("xadd failed", zap.String("stream", key), zap.Error(err))
	}
}
