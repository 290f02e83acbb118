package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/caseconsulting/job-apply/internal/domain"
	"github.com/caseconsulting/job-apply/internal/repository"

	pkgneo4j "github.com/caseconsulting/job-apply/pkg/neo4j"
)

// Ensure ApplicationRepository implements repository.ApplicationRepository
var _ repository.ApplicationRepository = (*ApplicationRepository)(nil)

// ApplicationRepository stores each application as a :JobApplication node
// whose properties are the flattened record
type ApplicationRepository struct {
	client *pkgneo4j.Client
}

// NewApplicationRepository creates an ApplicationRepository with a Neo4j client
func NewApplicationRepository(client *pkgneo4j.Client) *ApplicationRepository {
	return &ApplicationRepository{client: client}
}

const (
	constraintQuery = `CREATE CONSTRAINT job_application_id IF NOT EXISTS
		FOR (a:JobApplication) REQUIRE a.id IS UNIQUE`

	// SET a = $props replaces every property, so a replay with the same id
	// leaves exactly the replayed record.
	putQuery = `
		MERGE (a:JobApplication {id: $id})
		SET a = $props
	`

	getQuery = `
		MATCH (a:JobApplication {id: $id})
		RETURN a
		LIMIT 1
	`
)

// EnsureSchema creates the uniqueness constraint on application ids
func (r *ApplicationRepository) EnsureSchema(ctx context.Context) error {
	session := r.client.WriteSession(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, constraintQuery, nil)
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})
	if err != nil {
		return fmt.Errorf("neo4j: ensure schema: %w", err)
	}
	return nil
}

// Put upserts the record under id
func (r *ApplicationRepository) Put(ctx context.Context, id string, rec domain.Record) error {
	session := r.client.WriteSession(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, putQuery, map[string]any{
			"id":    id,
			"props": recordToProps(id, rec),
		})
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})
	if err != nil {
		return fmt.Errorf("neo4j: put application %s: %w", id, err)
	}
	return nil
}

// Get loads the record stored under id
func (r *ApplicationRepository) Get(ctx context.Context, id string) (domain.Record, error) {
	session := r.client.ReadSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, getQuery, map[string]any{"id": id})
		if err != nil {
			return nil, err
		}
		if !result.Next(ctx) {
			return nil, result.Err()
		}
		node, ok := result.Record().Values[0].(neo4j.Node)
		if !ok {
			return nil, fmt.Errorf("unexpected value %T", result.Record().Values[0])
		}
		return propsToRecord(node.Props), nil
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j: get application %s: %w", id, err)
	}
	if out == nil {
		return nil, repository.ErrNotFound
	}
	return out.(domain.Record), nil
}

func recordToProps(id string, rec domain.Record) map[string]any {
	props := make(map[string]any, len(rec)+1)
	for k, v := range rec {
		props[k] = v
	}
	props[domain.FieldID] = id
	return props
}

func propsToRecord(props map[string]any) domain.Record {
	rec := make(domain.Record, len(props))
	for k, v := range props {
		switch val := v.(type) {
		case string:
			if val != "" {
				rec[k] = val
			}
		case nil:
		default:
			rec[k] = fmt.Sprint(val)
		}
	}
	return rec
}
