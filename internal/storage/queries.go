package storage

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type TransactionRow struct {
	ID        string
	Position  int64
	Title     string
	Date      string
	Direction string
	Amount    int64
}

type SeriesPointRow struct {
	RangeName  string
	Position   int64
	Label      string
	Elektronik int64
	Dokumen    int64
	Perhiasan  int64
}

type MetricRow struct {
	Position int64
	Label    string
	Value    int64
}

type ReminderRow struct {
	Position int64
	Title    string
	Type     string
}

const listTransactions = `SELECT id, position, title, date, direction, amount
FROM transactions
ORDER BY position, id`

func (q *Queries) ListTransactions(ctx context.Context) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TransactionRow
	for rows.Next() {
		var i TransactionRow
		if err := rows.Scan(&i.ID, &i.Position, &i.Title, &i.Date, &i.Direction, &i.Amount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertTransaction = `INSERT INTO transactions (id, position, title, date, direction, amount)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    position = excluded.position,
    title = excluded.title,
    date = excluded.date,
    direction = excluded.direction,
    amount = excluded.amount`

func (q *Queries) UpsertTransaction(ctx context.Context, arg TransactionRow) error {
	_, err := q.db.ExecContext(ctx, upsertTransaction,
		arg.ID, arg.Position, arg.Title, arg.Date, arg.Direction, arg.Amount)
	return err
}

const deleteTransactions = `DELETE FROM transactions`

func (q *Queries) DeleteTransactions(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteTransactions)
	return err
}

const listSeriesPoints = `SELECT range_name, position, label, elektronik, dokumen, perhiasan
FROM series_points
WHERE range_name = ?
ORDER BY position`

func (q *Queries) ListSeriesPoints(ctx context.Context, rangeName string) ([]SeriesPointRow, error) {
	rows, err := q.db.QueryContext(ctx, listSeriesPoints, rangeName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SeriesPointRow
	for rows.Next() {
		var i SeriesPointRow
		if err := rows.Scan(&i.RangeName, &i.Position, &i.Label, &i.Elektronik, &i.Dokumen, &i.Perhiasan); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listMetrics = `SELECT position, label, value FROM metrics ORDER BY position`

func (q *Queries) ListMetrics(ctx context.Context) ([]MetricRow, error) {
	rows, err := q.db.QueryContext(ctx, listMetrics)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MetricRow
	for rows.Next() {
		var i MetricRow
		if err := rows.Scan(&i.Position, &i.Label, &i.Value); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listReminders = `SELECT position, title, type FROM reminders ORDER BY position`

func (q *Queries) ListReminders(ctx context.Context) ([]ReminderRow, error) {
	rows, err := q.db.QueryContext(ctx, listReminders)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ReminderRow
	for rows.Next() {
		var i ReminderRow
		if err := rows.Scan(&i.Position, &i.Title, &i.Type); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type LoginEventRow struct {
	ID         string
	Email      string
	RemoteAddr string
	UserAgent  string
	RequestID  string
	Success    bool
	OccurredAt time.Time
}

const insertLoginEvent = `INSERT OR IGNORE INTO login_events (id, email, remote_addr, user_agent, request_id, success, occurred_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertLoginEvent(ctx context.Context, arg LoginEventRow) (int64, error) {
	res, err := q.db.ExecContext(ctx, insertLoginEvent,
		arg.ID, arg.Email, arg.RemoteAddr, arg.UserAgent, arg.RequestID, arg.Success, arg.OccurredAt)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listRecentLoginEvents = `SELECT id, email, remote_addr, user_agent, request_id, success, occurred_at
FROM login_events
ORDER BY occurred_at DESC, id
LIMIT ?`

func (q *Queries) ListRecentLoginEvents(ctx context.Context, limit int64) ([]LoginEventRow, error) {
	rows, err := q.db.QueryContext(ctx, listRecentLoginEvents, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []LoginEventRow
	for rows.Next() {
		var i LoginEventRow
		if err := rows.Scan(&i.ID, &i.Email, &i.RemoteAddr, &i.UserAgent, &i.RequestID, &i.Success, &i.OccurredAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
