package db

import (
	"strconv"

	"parking/entities"
)

var schema = `
CREATE TABLE IF NOT EXISTS tickets (
	ticket_id BIGSERIAL PRIMARY KEY,
	plate_number VARCHAR(` + strconv.Itoa(entities.MaxPlateLength) + `) NOT NULL,
	check_in_time TIMESTAMPTZ NOT NULL,
	check_out_time TIMESTAMPTZ,
	total_price BIGINT CHECK (total_price >= 0),
	status VARCHAR(16) NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS tickets_one_active_per_plate
	ON tickets (plate_number)
	WHERE status = 'ACTIVE';

CREATE TABLE IF NOT EXISTS events (
    event_id UUID PRIMARY KEY,
    published_at TIMESTAMPTZ NOT NULL,
    event_name VARCHAR(255) NOT NULL,
    event_payload JSONB NOT NULL
);
`
