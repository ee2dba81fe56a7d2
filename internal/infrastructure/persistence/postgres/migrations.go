// Package postgres implements the PostgreSQL persistence layer for the
// Scholarship Review Hub.
package postgres

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_applicants",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_review",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
		{
			Version: 3,
			Name:    "create_board",
			UpSQL:   migration003Up,
			DownSQL: migration003Down,
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE APPLICANTS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create applicants and video submissions
-- Version: 001

CREATE TABLE IF NOT EXISTS applicants (
    id TEXT PRIMARY KEY,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    email TEXT NOT NULL,
    phone TEXT NOT NULL DEFAULT '',
    address TEXT NOT NULL DEFAULT '',
    city TEXT NOT NULL DEFAULT '',
    state TEXT NOT NULL DEFAULT '',
    zip_code TEXT NOT NULL DEFAULT '',
    country TEXT NOT NULL DEFAULT '',
    about_yourself TEXT NOT NULL DEFAULT '',
    why_apply TEXT NOT NULL DEFAULT '',
    challenge_or_obstacle TEXT NOT NULL DEFAULT '',
    inspiration TEXT NOT NULL DEFAULT '',
    wish_for_yourself TEXT NOT NULL DEFAULT '',
    anything_else TEXT NOT NULL DEFAULT '',
    contact_preference TEXT NOT NULL DEFAULT '',
    how_did_you_hear TEXT NOT NULL DEFAULT '',
    how_did_you_hear_other TEXT NOT NULL DEFAULT '',
    date_applied TEXT NOT NULL DEFAULT '',
    application_url TEXT NOT NULL DEFAULT '',
    status VARCHAR(20) NOT NULL DEFAULT 'submitted',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_status CHECK (status IN ('pending', 'submitted', 'finalist'))
);

CREATE INDEX IF NOT EXISTS idx_applicants_email ON applicants(lower(email));
CREATE INDEX IF NOT EXISTS idx_applicants_status ON applicants(status);

CREATE TABLE IF NOT EXISTS video_submissions (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL,
    name TEXT NOT NULL DEFAULT '',
    video_url TEXT NOT NULL,
    message TEXT NOT NULL DEFAULT '',
    storage_key TEXT NOT NULL DEFAULT '',
    uploaded_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_video_submissions_email ON video_submissions(lower(email));
`

const migration001Down = `
DROP TABLE IF EXISTS video_submissions;
DROP TABLE IF EXISTS applicants;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE REVIEW (VOTES AND NOTES)
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create votes and notes
-- Version: 002

-- One vote per (applicant, member) pair: the pair is the primary key, so
-- an upsert can overwrite the score but never duplicate the row.
CREATE TABLE IF NOT EXISTS votes (
    applicant_id TEXT NOT NULL REFERENCES applicants(id) ON DELETE CASCADE,
    board_member_email TEXT NOT NULL,
    board_member_name TEXT NOT NULL DEFAULT '',
    score SMALLINT NOT NULL,
    voted_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    PRIMARY KEY (applicant_id, board_member_email),
    CONSTRAINT valid_score CHECK (score >= 0 AND score <= 10)
);

CREATE INDEX IF NOT EXISTS idx_votes_member ON votes(board_member_email);

CREATE TABLE IF NOT EXISTS notes (
    id TEXT PRIMARY KEY,
    applicant_id TEXT NOT NULL REFERENCES applicants(id) ON DELETE CASCADE,
    board_member_email TEXT NOT NULL,
    board_member_name TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_notes_applicant ON notes(applicant_id, created_at);
`

const migration002Down = `
DROP TABLE IF EXISTS notes;
DROP TABLE IF EXISTS votes;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE BOARD (MEMBERS AND ACCOUNTS)
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create board members and sign-in accounts
-- Version: 003

CREATE TABLE IF NOT EXISTS board_members (
    email TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    is_admin BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

-- Accounts are kept separate from the member record: removing a member
-- deletes both, but an account can also be reset independently.
CREATE TABLE IF NOT EXISTS accounts (
    email TEXT PRIMARY KEY,
    password_hash BYTEA NOT NULL,
    temporary BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
`

const migration003Down = `
DROP TABLE IF EXISTS accounts;
DROP TABLE IF EXISTS board_members;
`
