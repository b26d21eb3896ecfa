package database

// Schema is the idempotent base schema. Every domain table carries the
// owning user id and a creation timestamp; reads and writes are always
// scoped by user_id in the repositories.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	email TEXT NOT NULL,
	provider_id TEXT UNIQUE,
	name TEXT,
	email_verified BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS contacts (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id),
	name TEXT NOT NULL,
	email TEXT,
	phone TEXT,
	company TEXT,
	status TEXT NOT NULL DEFAULT 'lead',
	notes TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_contacts_user ON contacts(user_id);

CREATE TABLE IF NOT EXISTS transactions (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id),
	description TEXT NOT NULL,
	amount NUMERIC(12,2) NOT NULL,
	category TEXT NOT NULL DEFAULT 'other',
	occurred_on DATE NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions(user_id);

CREATE TABLE IF NOT EXISTS budgets (
	user_id UUID NOT NULL REFERENCES users(id),
	category TEXT NOT NULL,
	month TEXT NOT NULL,
	amount NUMERIC(12,2) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (user_id, category, month)
);

CREATE TABLE IF NOT EXISTS workouts (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id),
	name TEXT NOT NULL,
	activity TEXT NOT NULL,
	duration_minutes INTEGER NOT NULL DEFAULT 0,
	occurred_on DATE NOT NULL,
	notes TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_workouts_user ON workouts(user_id);

CREATE TABLE IF NOT EXISTS meals (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id),
	name TEXT NOT NULL,
	meal_type TEXT NOT NULL,
	calories INTEGER,
	eaten_on DATE NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_meals_user ON meals(user_id);

CREATE TABLE IF NOT EXISTS habits (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id),
	name TEXT NOT NULL,
	frequency TEXT NOT NULL DEFAULT 'daily',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_habits_user ON habits(user_id);

CREATE TABLE IF NOT EXISTS habit_completions (
	habit_id UUID NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
	user_id UUID NOT NULL REFERENCES users(id),
	completed_on DATE NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (habit_id, completed_on)
);

CREATE TABLE IF NOT EXISTS mood_entries (
	user_id UUID NOT NULL REFERENCES users(id),
	entry_date DATE NOT NULL,
	mood INTEGER NOT NULL,
	energy INTEGER NOT NULL,
	notes TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (user_id, entry_date)
);

CREATE TABLE IF NOT EXISTS trips (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id),
	destination TEXT NOT NULL,
	start_date DATE,
	end_date DATE,
	status TEXT NOT NULL DEFAULT 'planning',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_trips_user ON trips(user_id);

CREATE TABLE IF NOT EXISTS trip_activities (
	id UUID PRIMARY KEY,
	trip_id UUID NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
	user_id UUID NOT NULL REFERENCES users(id),
	name TEXT NOT NULL,
	scheduled_on DATE,
	notes TEXT,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_trip_activities_trip ON trip_activities(trip_id);

CREATE TABLE IF NOT EXISTS trip_expenses (
	id UUID PRIMARY KEY,
	trip_id UUID NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
	user_id UUID NOT NULL REFERENCES users(id),
	description TEXT NOT NULL,
	amount NUMERIC(12,2) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_trip_expenses_trip ON trip_expenses(trip_id);

CREATE TABLE IF NOT EXISTS tasks (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id),
	title TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'open',
	due_date DATE,
	contact_id UUID REFERENCES contacts(id) ON DELETE SET NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id);

CREATE TABLE IF NOT EXISTS projects (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id),
	name TEXT NOT NULL,
	description TEXT,
	status TEXT NOT NULL DEFAULT 'active',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_projects_user ON projects(user_id);

CREATE TABLE IF NOT EXISTS oidc_config (
	id UUID PRIMARY KEY,
	provider TEXT UNIQUE NOT NULL,
	issuer TEXT NOT NULL,
	domain TEXT,
	client_id TEXT NOT NULL,
	client_secret TEXT,
	redirect_uri TEXT NOT NULL,
	jwks_url TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS cors_config (
	config_key TEXT PRIMARY KEY,
	allowed_origins TEXT NOT NULL,
	allow_credentials BOOLEAN NOT NULL DEFAULT TRUE,
	max_age INTEGER NOT NULL DEFAULT 86400,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS ratelimit_config (
	config_key TEXT PRIMARY KEY,
	rate TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS user_activity (
	user_id UUID PRIMARY KEY REFERENCES users(id),
	last_api_interaction TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
`

// SchemaVector holds the saved_items table, applied only when pgvector is
// available. The vector width must match the embedding model output
// (EMBEDDING_DIMENSIONS, default 1536 for text-embedding-3-small).
const SchemaVector = `
CREATE TABLE IF NOT EXISTS saved_items (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id),
	raw_text TEXT NOT NULL,
	title TEXT NOT NULL,
	summary TEXT NOT NULL,
	category TEXT NOT NULL,
	tags TEXT[] NOT NULL DEFAULT '{}',
	metadata JSONB NOT NULL DEFAULT '{}',
	embedding vector(1536) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_saved_items_user ON saved_items(user_id);
`
