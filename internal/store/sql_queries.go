// SPDX-License-Identifier: Apache-2.0

package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/mpetrenko/fieldstore/models"
)

const (
	createUser = `INSERT INTO users (login, password_hash, name)
    VALUES ($1, $2, $3)
    RETURNING user_id, login, password_hash, name, created_at;`

	findUserByLogin = `SELECT user_id, login, password_hash, name, created_at
    FROM users
    WHERE login = $1;`

	insertDocument = `INSERT INTO documents (
			id,
			owner_id,
			kind,
			state,
			due_at,
			deleted,
			payload,
			revision_id,
			updated_at,
			seq
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, nextval('documents_seq'))
		RETURNING seq;`

	getRemoteDocument = `SELECT
			id, owner_id, kind, state, due_at, deleted, payload,
			revision_id, updated_at, seq
		FROM documents
		WHERE id = $1;`
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// buildChangesQuery builds the changes-feed SELECT: documents owned by
// the user whose cursor lies strictly past since, oldest first.
func buildChangesQuery(userID int64, since int64, limit int) (string, []any, error) {
	return psql.
		Select("id", "owner_id", "kind", "state", "due_at", "deleted",
			"payload", "revision_id", "updated_at", "seq").
		From("documents").
		Where(sq.Eq{"owner_id": userID}).
		Where(sq.Gt{"seq": since}).
		OrderBy("seq ASC").
		Limit(uint64(limit)).
		ToSql()
}

// buildGuardedUpdateQuery builds the optimistic UPDATE: the row is
// rewritten only while its stored revision still equals baseRevision,
// and the change cursor advances in the same statement.
func buildGuardedUpdateQuery(doc models.RemoteDocument, baseRevision string) (string, []any, error) {
	return psql.
		Update("documents").
		Set("kind", doc.Kind).
		Set("state", string(doc.State)).
		Set("due_at", doc.DueAt).
		Set("deleted", doc.Deleted).
		Set("payload", []byte(doc.Payload)).
		Set("revision_id", doc.RevisionID).
		Set("updated_at", doc.UpdatedAt).
		Set("seq", sq.Expr("nextval('documents_seq')")).
		Where(sq.Eq{"id": doc.ID, "revision_id": baseRevision}).
		Suffix("RETURNING seq").
		ToSql()
}
