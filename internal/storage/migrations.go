package storage

var schemaVersion = len(migrations)

// Order is important. Add new migrations at the end of the list.
var migrations = []string{
	`
CREATE TABLE schema_version (
  version integer not null
);
INSERT INTO schema_version (version) VALUES (0);

CREATE TABLE sessions (
  id text not null,
  data jsonb not null,
  created_at timestamp with time zone not null default now(),
  updated_at timestamp with time zone not null default now(),
  primary key (id)
);
CREATE INDEX sessions_created_at_idx ON sessions (created_at);`,

	`
CREATE TABLE acme_cache (
  key varchar(400) not null primary key,
  data bytea not null,
  updated_at timestamptz not null
);`,
}
