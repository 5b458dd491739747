package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

// AuditRecord mirrors the audit_log table.  Rows are append-only; they
// are written by the audit consumer and read by the admin viewer, never
// updated or deleted.
type AuditRecord struct {
	ID         int64          `json:"id"`
	ActorID    *int64         `json:"actor_id"` // nil = system/customer action
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Payload    map[string]any `json:"payload,omitempty"`
	IP         string         `json:"ip,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// AuditRepo appends to and reads from the audit log.
type AuditRepo struct {
	db *sql.DB
}

// NewAuditRepo returns an AuditRepo bound to the given database.
func NewAuditRepo(db *sql.DB) *AuditRepo { return &AuditRepo{db: db} }

// Insert appends one audit row.  Called by the queue consumer, not by
// request handlers; the primary operation has already committed by the
// time this runs.
func (r *AuditRepo) Insert(ctx context.Context, rec *AuditRecord) error {
	payload, err := json.Marshal(rec.Payload)
	if err != nil {
		return err
	}
	var actor any
	if rec.ActorID != nil {
		actor = *rec.ActorID
	}
	const q = `INSERT INTO audit_log (actor_id, action, entity_type, entity_id, payload, ip, user_agent, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, q, actor, rec.Action, rec.EntityType, rec.EntityID, string(payload), rec.IP, rec.UserAgent, rec.CreatedAt)
	return err
}

// ListRecent returns the newest limit entries for the admin audit
// viewer.
func (r *AuditRepo) ListRecent(ctx context.Context, limit int) ([]AuditRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	const q = `SELECT id, actor_id, action, entity_type, entity_id, payload, ip, user_agent, created_at
	           FROM audit_log ORDER BY created_at DESC, id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]AuditRecord, 0, limit)
	for rows.Next() {
		var rec AuditRecord
		var actor sql.NullInt64
		var payload []byte
		if err := rows.Scan(&rec.ID, &actor, &rec.Action, &rec.EntityType, &rec.EntityID, &payload, &rec.IP, &rec.UserAgent, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if actor.Valid {
			v := actor.Int64
			rec.ActorID = &v
		}
		if len(payload) > 0 {
			_ = json.Unmarshal(payload, &rec.Payload)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
