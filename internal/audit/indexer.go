// Package audit keeps a searchable history of document validation decisions.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"

	"admission-workers/internal/models"
)

const DefaultIndex = "document-decisions"

// DecisionIndexer writes decisions to an Elasticsearch index.
type DecisionIndexer struct {
	es    *elasticsearch.Client
	index string
	now   func() time.Time
}

func NewDecisionIndexer(es *elasticsearch.Client, index string) *DecisionIndexer {
	if index == "" {
		index = DefaultIndex
	}
	return &DecisionIndexer{es: es, index: index, now: time.Now}
}

func (d *DecisionIndexer) Index() string { return d.index }

// Record stores the decision, assigning an id and timestamp when absent, and
// returns the stored document.
func (d *DecisionIndexer) Record(ctx context.Context, decision models.DocumentDecision) (*models.DocumentDecision, error) {
	if decision.ID == "" {
		decision.ID = uuid.NewString()
	}
	if decision.DecidedAt == "" {
		decision.DecidedAt = d.now().UTC().Format(time.RFC3339)
	}

	body, err := json.Marshal(decision)
	if err != nil {
		return nil, fmt.Errorf("encode decision: %w", err)
	}

	res, err := d.es.Index(
		d.index,
		bytes.NewReader(body),
		d.es.Index.WithContext(ctx),
		d.es.Index.WithDocumentID(decision.ID),
	)
	if err != nil {
		return nil, fmt.Errorf("index decision: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("index decision: %s", res.Status())
	}
	return &decision, nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source models.DocumentDecision `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// History returns the application's decisions, newest first.
func (d *DecisionIndexer) History(ctx context.Context, applicationID string, size int) ([]models.DocumentDecision, error) {
	if size <= 0 {
		size = 50
	}
	query := map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"term": map[string]interface{}{"applicationId.keyword": applicationID},
		},
		"sort": []interface{}{
			map[string]interface{}{"decidedAt": map[string]string{"order": "desc"}},
		},
	}
	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := d.es.Search(
		d.es.Search.WithContext(ctx),
		d.es.Search.WithIndex(d.index),
		d.es.Search.WithBody(strings.NewReader(string(body))),
	)
	if err != nil {
		return nil, fmt.Errorf("search decisions: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search decisions: %s", res.Status())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := make([]models.DocumentDecision, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		out = append(out, hit.Source)
	}
	return out, nil
}
