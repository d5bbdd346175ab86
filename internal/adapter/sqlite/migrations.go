package sqlite

// SchemaVersion is the schema version produced by the last migration.
const SchemaVersion = 5

type migration struct {
	version int
	name    string
	stmts   []string
}

// migrations run in order; each one moves the schema forward by exactly one
// version. Never edit a released step, append a new one.
var migrations = []migration{
	{
		version: 1,
		name:    "settings",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS settings (
				key   TEXT PRIMARY KEY NOT NULL,
				value TEXT
			)`,
		},
	},
	{
		version: 2,
		name:    "addresses",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS addresses (
				id         INTEGER PRIMARY KEY AUTOINCREMENT,
				title      TEXT,
				name       TEXT,
				area_name  TEXT,
				parcel_id  INTEGER,
				place_id   TEXT,
				service_id INTEGER,
				area_id    INTEGER,
				type       TEXT,
				created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
				updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
			)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS ux_addresses_place_id ON addresses(place_id)`,
			`CREATE INDEX IF NOT EXISTS idx_addresses_title ON addresses(title)`,
			`CREATE INDEX IF NOT EXISTS idx_addresses_area_name ON addresses(area_name)`,
			`CREATE TRIGGER IF NOT EXISTS trg_addresses_updated
			AFTER UPDATE ON addresses
			FOR EACH ROW BEGIN
				UPDATE addresses SET updated_at = strftime('%Y-%m-%dT%H:%M:%fZ','now') WHERE id = NEW.id;
			END`,
		},
	},
	{
		version: 3,
		name:    "events",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS events (
				id                 INTEGER PRIMARY KEY,
				place_id           TEXT NOT NULL,
				day                TEXT NOT NULL,
				zone_id            INTEGER,
				custom_message     TEXT,
				custom_subject     TEXT,
				is_week_long       INTEGER,
				event_type         TEXT,
				short_text_message TEXT,
				name               TEXT,
				plain_text_message TEXT,
				area_name          TEXT,
				service_name       TEXT,
				subject            TEXT,
				created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
				updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
			)`,
			`CREATE INDEX IF NOT EXISTS idx_events_place_day ON events(place_id, day)`,
			`CREATE INDEX IF NOT EXISTS idx_events_zone ON events(zone_id)`,
			`CREATE TRIGGER IF NOT EXISTS trg_events_updated
			AFTER UPDATE ON events
			FOR EACH ROW BEGIN
				UPDATE events SET updated_at = strftime('%Y-%m-%dT%H:%M:%fZ','now') WHERE id = NEW.id;
			END`,
		},
	},
	{
		version: 4,
		name:    "reminders",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS reminders (
				id           INTEGER PRIMARY KEY AUTOINCREMENT,
				event_id     INTEGER NOT NULL,
				place_id     TEXT NOT NULL,
				event_date   TEXT NOT NULL,
				note         TEXT,
				place_title  TEXT,
				event_title  TEXT,
				service_name TEXT,
				event_type   TEXT,
				created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
				updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
				FOREIGN KEY(event_id) REFERENCES events(id) ON DELETE CASCADE
			)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS ux_reminders_event_place ON reminders(event_id, place_id)`,
			`CREATE INDEX IF NOT EXISTS idx_reminders_event ON reminders(event_id)`,
			`CREATE INDEX IF NOT EXISTS idx_reminders_place_eventdate ON reminders(place_id, event_date)`,
			`CREATE TRIGGER IF NOT EXISTS trg_reminders_updated
			AFTER UPDATE ON reminders
			FOR EACH ROW BEGIN
				UPDATE reminders SET updated_at = strftime('%Y-%m-%dT%H:%M:%fZ','now') WHERE id = NEW.id;
			END`,
		},
	},
	{
		version: 5,
		name:    "reminders_remind_date",
		stmts: []string{
			`ALTER TABLE reminders ADD COLUMN remind_date TEXT`,
			`CREATE INDEX IF NOT EXISTS idx_reminders_place_reminddate ON reminders(place_id, remind_date)`,
		},
	},
}
