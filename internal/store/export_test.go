package store

import "context"

// setRawPayload overwrites a row's payload verbatim so tests can store
// malformed documents.
func (s *SQLiteStore) setRawPayload(ctx context.Context, roundID, payload string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE round_insights SET payload = ? WHERE round_id = ?`, payload, roundID)
	return err
}
