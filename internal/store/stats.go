package store

import "context"

// Stats holds conversation counts.
type Stats struct {
	TotalMessages     int `json:"total_messages"`
	UserMessages      int `json:"user_messages"`
	AssistantMessages int `json:"assistant_messages"`
}

// Stats returns message counts by role.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{}

	rows, err := s.db.QueryContext(ctx, `SELECT role, COUNT(*) FROM messages GROUP BY role`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var role string
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return st, err
		}
		switch role {
		case "user":
			st.UserMessages = n
		case "assistant":
			st.AssistantMessages = n
		}
		st.TotalMessages += n
	}
	return st, rows.Err()
}
