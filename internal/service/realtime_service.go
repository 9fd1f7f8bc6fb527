package service

import (
	"context"
	"sync"

	"github.com/Ryan-Dia/friendly-anon-pulse/pkg/logger"
	"github.com/Ryan-Dia/friendly-anon-pulse/pkg/redis"
)

// Table names carried on the change feed
const (
	TableProfiles      = "profiles"
	TableQuestions     = "questions"
	TableVotes         = "votes"
	TableNotifications = "notifications"
	TableBoardPosts    = "board_posts"
)

// ChangeHandler receives "something changed, re-read" signals. The table name
// is the whole payload; subscribers re-fetch through the normal read path.
type ChangeHandler func(table string)

// RealtimeService fans table change signals out to subscribers. With Redis
// configured the signal crosses instances over pub/sub; without it the fan-out
// is process-local, which is enough for a single-instance deployment.
type RealtimeService struct {
	redis *redis.Client // may be nil
	log   *logger.Logger

	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]ChangeHandler
	remote map[string]func() // per-table pub/sub teardown
}

func NewRealtimeService(redisClient *redis.Client, log *logger.Logger) *RealtimeService {
	return &RealtimeService{
		redis:  redisClient,
		log:    log,
		subs:   make(map[string]map[int]ChangeHandler),
		remote: make(map[string]func()),
	}
}

// Publish signals that rows of the given table changed. Best-effort: a lost
// signal only delays a re-fetch until the next one.
func (s *RealtimeService) Publish(ctx context.Context, table string) {
	if s.redis != nil {
		channel := s.redis.KeyBuilder.ChannelTable(table)
		if err := s.redis.Publish(ctx, channel, table); err != nil {
			s.log.WithError(err).WithField("table", table).Warn("Change signal publish failed")
		}
		return
	}
	s.dispatch(table)
}

// Subscribe registers a handler for change signals on a table and returns the
// disposer that unregisters it. Handlers run on the dispatch goroutine and
// must not block.
func (s *RealtimeService) Subscribe(table string, handler ChangeHandler) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	if s.subs[table] == nil {
		s.subs[table] = make(map[int]ChangeHandler)
	}
	s.subs[table][id] = handler

	if s.redis != nil && s.remote[table] == nil {
		s.startRemote(table)
	}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		delete(s.subs[table], id)
		if len(s.subs[table]) == 0 {
			delete(s.subs, table)
			if stop := s.remote[table]; stop != nil {
				delete(s.remote, table)
				stop()
			}
		}
	}
}

// startRemote opens the Redis subscription for a table. Caller holds s.mu.
func (s *RealtimeService) startRemote(table string) {
	ctx, cancel := context.WithCancel(context.Background())
	pubsub := s.redis.Subscribe(ctx, s.redis.KeyBuilder.ChannelTable(table))

	go func() {
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				_ = msg
				s.dispatch(table)
			}
		}
	}()

	s.remote[table] = func() {
		cancel()
		_ = pubsub.Close()
	}
}

func (s *RealtimeService) dispatch(table string) {
	s.mu.Lock()
	handlers := make([]ChangeHandler, 0, len(s.subs[table]))
	for _, h := range s.subs[table] {
		handlers = append(handlers, h)
	}
	s.mu.Unlock()

	for _, h := range handlers {
		h(table)
	}
}

// Close tears down every remote subscription.
func (s *RealtimeService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for table, stop := range s.remote {
		delete(s.remote, table)
		stop()
	}
}
