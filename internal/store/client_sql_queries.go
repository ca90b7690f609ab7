// SPDX-License-Identifier: Apache-2.0

package store

const (
	createClientSchema = `
		CREATE TABLE IF NOT EXISTS documents (
			id                 TEXT PRIMARY KEY,
			revision_id        TEXT NOT NULL,
			conflict_revisions TEXT NOT NULL DEFAULT '[]',
			tier               TEXT NOT NULL,
			pinned             INTEGER NOT NULL DEFAULT 0,
			size_bytes         INTEGER NOT NULL DEFAULT 0,
			last_accessed_at   INTEGER NOT NULL,
			deleted            INTEGER NOT NULL DEFAULT 0,
			owner_id           INTEGER NOT NULL DEFAULT 0,
			kind               TEXT NOT NULL DEFAULT '',
			state              TEXT NOT NULL DEFAULT '',
			due_at             INTEGER,
			payload            BLOB,
			updated_at         INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_documents_tier
			ON documents (tier, last_accessed_at);

		CREATE TABLE IF NOT EXISTS sync_checkpoint (
			id  INTEGER PRIMARY KEY CHECK (id = 1),
			seq INTEGER NOT NULL
		);`

	documentColumns = `
		id, revision_id, conflict_revisions, tier, pinned, size_bytes,
		last_accessed_at, deleted, owner_id, kind, state, due_at,
		payload, updated_at`

	upsertDocument = `
		INSERT INTO documents (
			id, revision_id, conflict_revisions, tier, pinned, size_bytes,
			last_accessed_at, deleted, owner_id, kind, state, due_at,
			payload, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			revision_id        = excluded.revision_id,
			conflict_revisions = excluded.conflict_revisions,
			tier               = excluded.tier,
			pinned             = excluded.pinned,
			size_bytes         = excluded.size_bytes,
			last_accessed_at   = excluded.last_accessed_at,
			deleted            = excluded.deleted,
			owner_id           = excluded.owner_id,
			kind               = excluded.kind,
			state              = excluded.state,
			due_at             = excluded.due_at,
			payload            = excluded.payload,
			updated_at         = excluded.updated_at;`

	getDocument = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE id = ?;`

	deleteDocument = `
		DELETE FROM documents
		WHERE id = ?;`

	touchDocument = `
		UPDATE documents
		SET last_accessed_at = ?
		WHERE id = ?;`

	setDocumentTier = `
		UPDATE documents
		SET tier = ?
		WHERE id = ?;`

	setDocumentPinned = `
		UPDATE documents
		SET pinned = ?
		WHERE id = ?;`

	setDocumentConflicts = `
		UPDATE documents
		SET conflict_revisions = ?
		WHERE id = ?;`

	listDocumentsByTier = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE tier = ? AND deleted = 0
		ORDER BY last_accessed_at DESC;`

	listAllDocuments = `
		SELECT ` + documentColumns + `
		FROM documents
		ORDER BY id;`

	listEvictionCandidates = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE tier = ?
		  AND deleted = 0
		  AND pinned = 0
		  AND conflict_revisions = '[]'
		ORDER BY last_accessed_at ASC;`

	usageByTier = `
		SELECT tier, COALESCE(SUM(size_bytes), 0)
		FROM documents
		GROUP BY tier;`

	getCheckpoint = `
		SELECT seq
		FROM sync_checkpoint
		WHERE id = 1;`

	setCheckpoint = `
		INSERT INTO sync_checkpoint (id, seq)
		VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET seq = excluded.seq;`
)
