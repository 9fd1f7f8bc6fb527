package repository

// Schema is the ordered DDL for the application tables. cmd/migrate applies
// it; keeping it next to the repositories keeps the SQL and the column names
// in one package.
var Schema = []string{
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`,

	`CREATE TABLE IF NOT EXISTS accounts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS profiles (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		account_id UUID NOT NULL UNIQUE REFERENCES accounts(id) ON DELETE CASCADE,
		email TEXT NOT NULL,
		nickname TEXT NOT NULL UNIQUE,
		affiliation TEXT NOT NULL DEFAULT '',
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS questions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		content TEXT NOT NULL,
		order_index INTEGER NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	// At most one active question at any time
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_questions_single_active
		ON questions (is_active) WHERE is_active`,

	`CREATE INDEX IF NOT EXISTS idx_questions_order ON questions (order_index)`,

	`CREATE TABLE IF NOT EXISTS votes (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		voter_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		candidate_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		question_id UUID NOT NULL REFERENCES questions(id),
		question_content TEXT NOT NULL,
		vote_date DATE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT votes_no_self_vote CHECK (voter_id <> candidate_id),
		CONSTRAINT votes_one_per_day UNIQUE (voter_id, vote_date)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_votes_candidate ON votes (candidate_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_votes_date ON votes (vote_date)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		recipient_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		type TEXT NOT NULL,
		message TEXT NOT NULL,
		metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_notifications_recipient
		ON notifications (recipient_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_unread
		ON notifications (recipient_id) WHERE NOT is_read`,

	`CREATE TABLE IF NOT EXISTS board_posts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		author_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		post_type TEXT NOT NULL CHECK (post_type IN ('question', 'improvement')),
		content TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_board_posts_created ON board_posts (created_at DESC)`,
}

// DropSchema removes every application table, children first.
var DropSchema = []string{
	`DROP TABLE IF EXISTS board_posts CASCADE`,
	`DROP TABLE IF EXISTS notifications CASCADE`,
	`DROP TABLE IF EXISTS votes CASCADE`,
	`DROP TABLE IF EXISTS questions CASCADE`,
	`DROP TABLE IF EXISTS profiles CASCADE`,
	`DROP TABLE IF EXISTS accounts CASCADE`,
}
