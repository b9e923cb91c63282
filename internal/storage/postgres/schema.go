package postgres

var schema = `
CREATE EXTENSION IF NOT EXISTS btree_gist;

CREATE TABLE IF NOT EXISTS customers (
	customer_id BIGSERIAL PRIMARY KEY,
	email VARCHAR(255) NOT NULL,
	password BYTEA NOT NULL,
	role VARCHAR(16) NOT NULL DEFAULT 'Customer'
		CHECK (role IN ('Customer', 'Organizer', 'Admin'))
);
CREATE UNIQUE INDEX IF NOT EXISTS customers_email_key ON customers (lower(email));

CREATE TABLE IF NOT EXISTS venues (
	venue_id BIGSERIAL PRIMARY KEY,
	venue_name VARCHAR(255) NOT NULL,
	location VARCHAR(255) NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS events (
	event_id BIGSERIAL PRIMARY KEY,
	event_name VARCHAR(255) NOT NULL,
	venue_id BIGINT NOT NULL REFERENCES venues (venue_id),
	event_start TIMESTAMPTZ NOT NULL,
	event_end TIMESTAMPTZ NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	event_type VARCHAR(64) NOT NULL DEFAULT '',
	organizer_id BIGINT NOT NULL,
	CHECK (event_start < event_end),
	CONSTRAINT events_venue_no_overlap EXCLUDE USING gist (
		venue_id WITH =,
		tstzrange(event_start, event_end, '[)') WITH &&
	)
);

CREATE TABLE IF NOT EXISTS tickets (
	event_id BIGINT NOT NULL REFERENCES events (event_id) ON DELETE CASCADE,
	ticket_type VARCHAR(64) NOT NULL,
	price NUMERIC(10, 2) NOT NULL CHECK (price >= 0),
	availability INT NOT NULL CHECK (availability >= 0),
	PRIMARY KEY (event_id, ticket_type)
);

CREATE TABLE IF NOT EXISTS bookings (
	booking_id BIGSERIAL PRIMARY KEY,
	customer_id BIGINT NOT NULL,
	event_id BIGINT NOT NULL,
	ticket_type VARCHAR(64) NOT NULL,
	number_of_tickets INT NOT NULL CHECK (number_of_tickets > 0),
	total_price NUMERIC(12, 2) NOT NULL,
	booking_status VARCHAR(16) NOT NULL DEFAULT 'Pending',
	payment_status VARCHAR(16) NOT NULL DEFAULT 'Unpaid',
	confirmation_code VARCHAR(32) NOT NULL UNIQUE,
	booking_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	payment_date TIMESTAMPTZ,
	payment_method VARCHAR(32),
	FOREIGN KEY (event_id, ticket_type) REFERENCES tickets (event_id, ticket_type)
		ON DELETE CASCADE ON UPDATE CASCADE
);
CREATE INDEX IF NOT EXISTS bookings_customer_idx ON bookings (customer_id);
CREATE INDEX IF NOT EXISTS bookings_event_idx ON bookings (event_id);
CREATE INDEX IF NOT EXISTS bookings_stale_idx ON bookings (booking_date)
	WHERE booking_status = 'Pending' AND payment_status = 'Unpaid';

CREATE TABLE IF NOT EXISTS payments (
	payment_id BIGSERIAL PRIMARY KEY,
	booking_id BIGINT NOT NULL REFERENCES bookings (booking_id) ON DELETE CASCADE,
	payment_method VARCHAR(32) NOT NULL,
	amount NUMERIC(12, 2) NOT NULL,
	payment_status VARCHAR(16) NOT NULL,
	payment_date TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS payments_booking_idx ON payments (booking_id);
`
