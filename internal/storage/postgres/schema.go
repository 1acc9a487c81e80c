package postgres

// schema is the idempotent DDL applied at startup. The UNIQUE constraint on
// users.email is what makes CreateUser safe against concurrent signups.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
	token      TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS greenhouses (
	id       TEXT PRIMARY KEY,
	name     TEXT NOT NULL,
	location TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS plant_types (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS plants (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	greenhouse_id TEXT NOT NULL REFERENCES greenhouses(id),
	price         DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS plant_type_links (
	plant_id TEXT NOT NULL REFERENCES plants(id) ON DELETE CASCADE,
	type_id  TEXT NOT NULL REFERENCES plant_types(id),
	PRIMARY KEY (plant_id, type_id)
);

CREATE TABLE IF NOT EXISTS plant_instances (
	id       TEXT PRIMARY KEY,
	plant_id TEXT NOT NULL REFERENCES plants(id),
	imprint  TEXT NOT NULL,
	status   TEXT NOT NULL
);
`
