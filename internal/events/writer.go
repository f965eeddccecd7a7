package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Project lifecycle event types.
const (
	ProjectCreated    = "project.created"
	ProjectSwitched   = "project.switched"
	ProjectDuplicated = "project.duplicated"
	ProjectRenamed    = "project.renamed"
	ProjectDeleted    = "project.deleted"
	ProjectImported   = "project.imported"
)

type Writer struct {
	Now func() time.Time
}

type Payload map[string]any

// Append records one event inside tx, so it commits or rolls back with the write it describes.
func (w Writer) Append(ctx context.Context, tx *sql.Tx, evtType, projectID, entityID, actorID string, payload Payload) error {
	now := w.Now
	if now == nil {
		now = time.Now
	}
	if payload == nil {
		payload = Payload{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO events(ts,type,project_id,entity_kind,entity_id,actor_id,payload_json) VALUES (?,?,?,?,?,?,?)`,
		now().UTC().Format(time.RFC3339), evtType, nullable(projectID), "project", nullable(entityID), actorID, string(data))
	if err != nil {
		return fmt.Errorf("append %s: %w", evtType, err)
	}
	return nil
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
