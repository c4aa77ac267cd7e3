package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lotas/tabwarden/internal/types"
)

// AppendCommand inserts a command into the queue. The command's own id is
// the primary key.
func AppendCommand(db *sql.DB, cmd types.Command) error {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("marshal command: %w", err)
	}
	if _, err := db.Exec(
		"INSERT INTO commands (id, action, payload, status) VALUES (?, ?, ?, ?)",
		cmd.ID, string(cmd.Action), string(payload), cmd.Status,
	); err != nil {
		return fmt.Errorf("insert command: %w", err)
	}
	return nil
}

// PendingCommands returns queued commands that have not been executed,
// oldest first.
func PendingCommands(db *sql.DB) ([]types.Command, error) {
	rows, err := db.Query(
		"SELECT payload FROM commands WHERE status = ? ORDER BY id", types.StatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("query commands: %w", err)
	}
	defer rows.Close()

	var out []types.Command
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan command: %w", err)
		}
		var cmd types.Command
		if err := json.Unmarshal([]byte(payload), &cmd); err != nil {
			return nil, fmt.Errorf("decode command payload: %w", err)
		}
		out = append(out, cmd)
	}
	return out, rows.Err()
}

// MarkCommandsDone transitions the given command ids to done. The executor
// calls this through the bridge after applying them in the browser.
func MarkCommandsDone(db *sql.DB, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	args := []any{types.StatusDone}
	marks := make([]string, len(ids))
	for i, id := range ids {
		args = append(args, id)
		marks[i] = "?"
	}
	_, err := db.Exec(
		fmt.Sprintf("UPDATE commands SET status = ? WHERE id IN (%s)", strings.Join(marks, ",")),
		args...,
	)
	if err != nil {
		return fmt.Errorf("mark commands done: %w", err)
	}
	return nil
}

// ClearCommands empties the queue.
func ClearCommands(db *sql.DB) error {
	if _, err := db.Exec("DELETE FROM commands"); err != nil {
		return fmt.Errorf("clear commands: %w", err)
	}
	return nil
}

// ClearDoneCommands removes only executed commands, leaving pending ones.
func ClearDoneCommands(db *sql.DB) error {
	if _, err := db.Exec("DELETE FROM commands WHERE status = ?", types.StatusDone); err != nil {
		return fmt.Errorf("clear done commands: %w", err)
	}
	return nil
}

// Queue adapts the database to the planner's command sink interface.
type Queue struct {
	DB *sql.DB
}

func (q Queue) Append(cmd types.Command) error    { return AppendCommand(q.DB, cmd) }
func (q Queue) Pending() ([]types.Command, error) { return PendingCommands(q.DB) }
func (q Queue) Clear() error                      { return ClearCommands(q.DB) }
