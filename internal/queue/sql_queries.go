// SPDX-License-Identifier: Apache-2.0

package queue

const (
	createQueueTable = `
		CREATE TABLE IF NOT EXISTS mutation_queue (
			id                 TEXT PRIMARY KEY,
			target_document_id TEXT NOT NULL,
			operation          TEXT NOT NULL,
			payload            BLOB,
			base_revision_id   TEXT NOT NULL DEFAULT '',
			written_at         INTEGER NOT NULL DEFAULT 0,
			enqueued_at        INTEGER NOT NULL,
			status             TEXT NOT NULL DEFAULT 'pending',
			attempts           INTEGER NOT NULL DEFAULT 0,
			next_attempt_at    INTEGER NOT NULL,
			siblings           TEXT NOT NULL DEFAULT '[]',
			last_error         TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_queue_document
			ON mutation_queue (target_document_id, enqueued_at);`

	// Entries stranded in_flight by a crash are retransmitted.
	recoverInFlight = `
		UPDATE mutation_queue
		SET status = 'pending'
		WHERE status = 'in_flight';`

	insertEntry = `
		INSERT INTO mutation_queue (
			id,
			target_document_id,
			operation,
			payload,
			base_revision_id,
			written_at,
			enqueued_at,
			status,
			next_attempt_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`

	// An entry is eligible when it is pending, due, and no earlier
	// entry for the same document is still non-terminal. Because the
	// earliest active entry per document is the only eligible one, the
	// batch never holds two entries for one document.
	selectNextBatch = `
		SELECT
			id, target_document_id, operation, payload, base_revision_id,
			written_at, enqueued_at, status, attempts, next_attempt_at, siblings, last_error
		FROM mutation_queue q
		WHERE q.status = 'pending'
		  AND q.next_attempt_at <= ?
		  AND NOT EXISTS (
			SELECT 1 FROM mutation_queue p
			WHERE p.target_document_id = q.target_document_id
			  AND p.status IN ('pending', 'in_flight')
			  AND (p.enqueued_at < q.enqueued_at
			       OR (p.enqueued_at = q.enqueued_at AND p.rowid < q.rowid))
		  )
		ORDER BY q.enqueued_at, q.rowid
		LIMIT ?;`

	markInFlight = `
		UPDATE mutation_queue
		SET status = 'in_flight'
		WHERE id = ?;`

	deleteEntry = `
		DELETE FROM mutation_queue
		WHERE id = ?;`

	markConflicted = `
		UPDATE mutation_queue
		SET status = 'conflicted', siblings = ?
		WHERE id = ? AND status IN ('pending', 'in_flight');`

	markFailedTerminal = `
		UPDATE mutation_queue
		SET status = 'failed', attempts = ?, last_error = ?
		WHERE id = ?;`

	markFailedRetry = `
		UPDATE mutation_queue
		SET status = 'pending', attempts = ?, last_error = ?, next_attempt_at = ?
		WHERE id = ?;`

	selectEntry = `
		SELECT
			id, target_document_id, operation, payload, base_revision_id,
			written_at, enqueued_at, status, attempts, next_attempt_at, siblings, last_error
		FROM mutation_queue
		WHERE id = ?;`

	selectByStatus = `
		SELECT
			id, target_document_id, operation, payload, base_revision_id,
			written_at, enqueued_at, status, attempts, next_attempt_at, siblings, last_error
		FROM mutation_queue
		WHERE status = ?
		ORDER BY enqueued_at, rowid;`

	countActiveForDocument = `
		SELECT COUNT(*)
		FROM mutation_queue
		WHERE target_document_id = ?
		  AND status IN ('pending', 'in_flight');`

	// The oldest active entry carries the revision the whole unsynced
	// chain was forked from.
	selectOldestActiveBase = `
		SELECT base_revision_id
		FROM mutation_queue
		WHERE target_document_id = ?
		  AND status IN ('pending', 'in_flight')
		ORDER BY enqueued_at, rowid
		LIMIT 1;`
)
