package graph

import (
	"context"
	"fmt"
	"strings"

	"ai-assistant-be/pkg/ai/facts"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Store is the long-term fact store backed by Neo4j. Every write uses MERGE
// so replaying the same graph leaves the database unchanged.
type Store struct {
	driver neo4j.DriverWithContext
}

func NewStore(ctx context.Context, uri, user, password string) (*Store, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}
	return &Store{driver: driver}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// MergeUser ensures the User node exists.
func (s *Store) MergeUser(ctx context.Context, userId string) error {
	_, err := neo4j.ExecuteQuery(ctx, s.driver,
		"MERGE (u:User {id: $user_id}) RETURN u",
		map[string]any{"user_id": userId},
		neo4j.EagerResultTransformer,
	)
	if err != nil {
		return fmt.Errorf("merge user %s: %w", userId, err)
	}
	return nil
}

// MergeFacts writes a FactGraph into the store. Entities are keyed by
// (name, label) and relationships by (source, target, type), so repeated
// merges of the same tuples are no-ops.
func (s *Store) MergeFacts(ctx context.Context, graph facts.FactGraph) error {
	if graph.IsEmpty() {
		return nil
	}

	for _, entity := range graph.Entities {
		_, err := neo4j.ExecuteQuery(ctx, s.driver,
			"MERGE (e:Entity {name: $name, label: $label}) RETURN e",
			map[string]any{"name": entity.Name, "label": entity.Label},
			neo4j.EagerResultTransformer,
		)
		if err != nil {
			return fmt.Errorf("merge entity %s: %w", entity.Name, err)
		}
	}

	for _, rel := range graph.Relationships {
		// Relationship types cannot be parameterized in Cypher, so the
		// type is sanitized before interpolation.
		query := fmt.Sprintf(`
			MATCH (a:Entity {name: $source})
			MATCH (b:Entity {name: $target})
			MERGE (a)-[r:%s]->(b)
			RETURN r`, sanitizeRelType(rel.Type))
		_, err := neo4j.ExecuteQuery(ctx, s.driver,
			query,
			map[string]any{"source": rel.Source, "target": rel.Target},
			neo4j.EagerResultTransformer,
		)
		if err != nil {
			return fmt.Errorf("merge relationship %s-[%s]->%s: %w", rel.Source, rel.Type, rel.Target, err)
		}
	}

	return nil
}

// GetFactsForUser renders the user's outgoing relationships as plain text
// lines ready to be dropped into a prompt.
func (s *Store) GetFactsForUser(ctx context.Context, userId string) (string, error) {
	result, err := neo4j.ExecuteQuery(ctx, s.driver,
		`MATCH (e:Entity {name: $user_node})-[r]->(t:Entity)
		 RETURN e.name AS source, type(r) AS relation, t.name AS target`,
		map[string]any{"user_node": fmt.Sprintf("User_%s", userId)},
		neo4j.EagerResultTransformer,
	)
	if err != nil {
		return "", fmt.Errorf("get facts for user %s: %w", userId, err)
	}

	var lines []string
	for _, record := range result.Records {
		source, _ := record.Get("source")
		relation, _ := record.Get("relation")
		target, _ := record.Get("target")
		lines = append(lines, fmt.Sprintf("(%v)-[%v]->(%v)", source, relation, target))
	}

	return strings.Join(lines, "\n"), nil
}

// sanitizeRelType restricts a relationship type to a safe Cypher identifier.
func sanitizeRelType(relType string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(relType) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "RELATED_TO"
	}
	return b.String()
}
