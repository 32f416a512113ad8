// Package prompts implements the prompt registry: parameterized message
// templates, persisted in a local SQLite database, with {{variable}}
// substitution performed at prompts/get time.
package prompts

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/richard-senior/mcp-runtime/internal/logger"
	"github.com/richard-senior/mcp-runtime/pkg/protocol"
)

const schema = `
CREATE TABLE IF NOT EXISTS prompts (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT,
	content     TEXT NOT NULL,
	tags        TEXT,
	variables   TEXT,
	metadata    TEXT
);
`

// Registry manages storage and retrieval of prompts, backed by a local
// SQLite file rather than the one-file-per-prompt layout this replaced:
// a single database file gives ListPrompts one query instead of a
// directory walk, and SavePrompt an atomic write instead of a bare
// os.WriteFile.
type Registry struct {
	db *sql.DB
}

// NewRegistry opens (creating if necessary) the SQLite database at path
// and ensures its schema exists. path's parent directory is created if
// missing.
func NewRegistry(path string) (*Registry, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("prompts: create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("prompts: open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("prompts: create schema: %w", err)
	}

	r := &Registry{db: db}
	r.ensureSamplePrompts()
	return r, nil
}

// Close releases the underlying database handle.
func (r *Registry) Close() error {
	return r.db.Close()
}

// validateID rejects ids that look like a path traversal attempt, the
// same defense the original file-per-prompt layout needed against a
// caller trying to read or write outside baseDir.
func validateID(id string) error {
	if id == "" || strings.Contains(id, "..") || strings.Contains(id, "/") || strings.Contains(id, "\\") {
		return fmt.Errorf("invalid prompt id: %q", id)
	}
	return nil
}

// GetPrompt retrieves a prompt by id.
func (r *Registry) GetPrompt(id string) (*protocol.Prompt, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	row := r.db.QueryRow(
		`SELECT id, name, description, content, tags, variables, metadata FROM prompts WHERE id = ?`, id,
	)

	p, err := scanPrompt(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("prompt not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("prompts: read %s: %w", id, err)
	}
	return p, nil
}

// ListPrompts returns every stored prompt.
func (r *Registry) ListPrompts() ([]protocol.Prompt, error) {
	rows, err := r.db.Query(`SELECT id, name, description, content, tags, variables, metadata FROM prompts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("prompts: list: %w", err)
	}
	defer rows.Close()

	var out []protocol.Prompt
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("prompts: scan row: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrompt(row rowScanner) (*protocol.Prompt, error) {
	var p protocol.Prompt
	var tags, variables, metadata sql.NullString

	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Content, &tags, &variables, &metadata); err != nil {
		return nil, err
	}

	if tags.Valid && tags.String != "" {
		if err := json.Unmarshal([]byte(tags.String), &p.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}
	if variables.Valid && variables.String != "" {
		if err := json.Unmarshal([]byte(variables.String), &p.Variables); err != nil {
			return nil, fmt.Errorf("decode variables: %w", err)
		}
	}
	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &p.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}

	return &p, nil
}

// SavePrompt inserts or replaces a prompt.
func (r *Registry) SavePrompt(p *protocol.Prompt) error {
	if err := validateID(p.ID); err != nil {
		return err
	}

	tags, err := json.Marshal(p.Tags)
	if err != nil {
		return fmt.Errorf("prompts: encode tags: %w", err)
	}
	variables, err := json.Marshal(p.Variables)
	if err != nil {
		return fmt.Errorf("prompts: encode variables: %w", err)
	}
	metadata, err := json.Marshal(p.Metadata)
	if err != nil {
		return fmt.Errorf("prompts: encode metadata: %w", err)
	}

	_, err = r.db.Exec(
		`INSERT INTO prompts (id, name, description, content, tags, variables, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, description=excluded.description, content=excluded.content,
			tags=excluded.tags, variables=excluded.variables, metadata=excluded.metadata`,
		p.ID, p.Name, p.Description, p.Content, string(tags), string(variables), string(metadata),
	)
	if err != nil {
		return fmt.Errorf("prompts: save %s: %w", p.ID, err)
	}
	return nil
}

// DeletePrompt removes a prompt by id.
func (r *Registry) DeletePrompt(id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	res, err := r.db.Exec(`DELETE FROM prompts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("prompts: delete %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("prompt not found: %s", id)
	}
	return nil
}

// ensureSamplePrompts seeds the four example prompts this server ships
// with, skipping any id that already exists.
func (r *Registry) ensureSamplePrompts() {
	for _, p := range samplePrompts() {
		if _, err := r.GetPrompt(p.ID); err == nil {
			continue
		}
		if err := r.SavePrompt(p); err != nil {
			logger.Warn("failed to seed sample prompt %s: %v", p.ID, err)
		} else {
			logger.Info("seeded sample prompt %s", p.ID)
		}
	}
}

func samplePrompts() []*protocol.Prompt {
	return []*protocol.Prompt{
		{
			ID:          "code-review",
			Name:        "Code Review",
			Description: "Review code for best practices, bugs, and improvements",
			Content:     "Please review the following {{language}} code for:\n- Best practices\n- Potential bugs\n- Performance improvements\n- Security issues\n\nCode:\n```{{language}}\n{{code}}\n```",
			Tags:        []string{"development", "review", "code-quality"},
			Variables: map[string]protocol.PromptArgument{
				"language": {Description: "Programming language of the code", Required: true},
				"code":     {Description: "The code to review", Required: true},
			},
			Metadata: map[string]any{"category": "development"},
		},
		{
			ID:          "explain-concept",
			Name:        "Explain Technical Concept",
			Description: "Explain a technical concept in simple terms",
			Content:     "Please explain {{concept}} in simple terms that a {{audience}} would understand. Include:\n- What it is\n- Why it's important\n- How it works\n- Real-world examples",
			Tags:        []string{"education", "explanation", "technical"},
			Variables: map[string]protocol.PromptArgument{
				"concept":  {Description: "The technical concept to explain", Required: true},
				"audience": {Description: "Target audience (e.g., beginner, intermediate, expert)", Required: false},
			},
			Metadata: map[string]any{"category": "education"},
		},
		{
			ID:          "aws-architecture",
			Name:        "AWS Architecture Review",
			Description: "Review and suggest improvements for AWS architecture",
			Content:     "Please review this AWS architecture for {{use_case}}:\n\n{{architecture_description}}\n\nProvide feedback on cost, security, scalability, reliability, and performance.",
			Tags:        []string{"aws", "architecture", "cloud", "review"},
			Variables: map[string]protocol.PromptArgument{
				"use_case":                 {Description: "The use case or application type", Required: true},
				"architecture_description": {Description: "Description of the current architecture", Required: true},
			},
			Metadata: map[string]any{"category": "aws"},
		},
		{
			ID:          "sample",
			Name:        "Sample Prompt",
			Description: "A sample prompt for testing",
			Content:     "This is a sample prompt with {{variable1}} and {{variable2}}.",
			Tags:        []string{"sample", "test"},
			Variables: map[string]protocol.PromptArgument{
				"variable1": {Description: "First variable", Required: true},
				"variable2": {Description: "Second variable", Required: false},
			},
		},
	}
}
