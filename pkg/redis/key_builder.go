package redis

import "fmt"

// Cache key templates
const (
	keyActiveQuestion = "question:active"
	keySeedLock       = "question:seed:lock"
	keyUserVoted      = "vote:user:%s:date:%s"
	keyUnreadCount    = "notification:user:%s:unread"
	keyTableChannel   = "rt:%s"
)

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" || environment == "test" {
		prefix = "staging"
	}

	return &KeyBuilder{prefix: prefix}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// KeyActiveQuestion is the cache key for the currently active question.
func (kb *KeyBuilder) KeyActiveQuestion() string {
	return kb.BuildKey(keyActiveQuestion)
}

// KeySeedLock guards the default-question seeding so only one instance of a
// freshly deployed fleet runs it.
func (kb *KeyBuilder) KeySeedLock() string {
	return kb.BuildKey(keySeedLock)
}

// KeyUserVoted is the per-day voted flag for a voter. The date is part of the
// key, so yesterday's flag simply never matches today's lookup.
func (kb *KeyBuilder) KeyUserVoted(profileID, date string) string {
	return kb.BuildKey(fmt.Sprintf(keyUserVoted, profileID, date))
}

// KeyUnreadCount is the cached unread notification count for a recipient.
func (kb *KeyBuilder) KeyUnreadCount(profileID string) string {
	return kb.BuildKey(fmt.Sprintf(keyUnreadCount, profileID))
}

// ChannelTable is the pub/sub channel carrying change signals for a table.
func (kb *KeyBuilder) ChannelTable(table string) string {
	return kb.BuildKey(fmt.Sprintf(keyTableChannel, table))
}
