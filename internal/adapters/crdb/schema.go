package crdb

const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id STRING PRIMARY KEY,
	email STRING NOT NULL UNIQUE,
	name STRING NOT NULL,
	role STRING NOT NULL DEFAULT 'customer',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS bookings (
	id UUID PRIMARY KEY,
	user_id STRING NOT NULL,
	room_id STRING NOT NULL,
	room_name STRING NOT NULL,
	room_image STRING NOT NULL DEFAULT '',
	check_in TIMESTAMPTZ NOT NULL,
	check_out TIMESTAMPTZ NOT NULL,
	guests INT NOT NULL CHECK (guests > 0),
	total_price FLOAT8 NOT NULL,
	status STRING NOT NULL CHECK (status IN ('confirmed', 'pending', 'cancelled', 'completed')),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CHECK (check_out > check_in),
	INDEX bookings_user_idx (user_id, created_at DESC),
	INDEX bookings_checkout_idx (status, check_out)
);

CREATE TABLE IF NOT EXISTS outbox (
	id UUID PRIMARY KEY,
	aggregate_type STRING NOT NULL,
	aggregate_id UUID NOT NULL,
	event_type STRING NOT NULL,
	payload_json JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	published_at TIMESTAMPTZ,
	status STRING NOT NULL CHECK (status IN ('NEW', 'PUBLISHED', 'FAILED')),
	dedupe_key STRING NOT NULL UNIQUE,
	claimed_until TIMESTAMPTZ,
	INDEX outbox_status_idx (status, created_at)
);

ALTER TABLE outbox ADD COLUMN IF NOT EXISTS claimed_until TIMESTAMPTZ;
`
