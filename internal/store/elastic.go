package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/olivere/elastic/v7"

	"github.com/aydeggy-dot/proximity/internal/geo"
	"github.com/aydeggy-dot/proximity/internal/groups"
	"github.com/aydeggy-dot/proximity/internal/logging"
)

// groupsMapping defines the index schema for the group collection. The
// location is a geo_point so the index can also serve geo queries directly.
const groupsMapping = `{
	"mappings": {
		"properties": {
			"id":           {"type": "keyword"},
			"name":         {"type": "text"},
			"description":  {"type": "text"},
			"category":     {"type": "keyword"},
			"city":         {"type": "keyword"},
			"member_count": {"type": "integer"},
			"created_at":   {"type": "date"},
			"location":     {"type": "geo_point"}
		}
	}
}`

// groupDoc is the Elasticsearch document shape for a group. Location uses
// the lat/lon object form expected by the geo_point mapping.
type groupDoc struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Category    string            `json:"category,omitempty"`
	City        string            `json:"city,omitempty"`
	MemberCount int               `json:"member_count"`
	CreatedAt   time.Time         `json:"created_at"`
	Location    *elastic.GeoPoint `json:"location,omitempty"`
}

func toDoc(g groups.Group) groupDoc {
	doc := groupDoc{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Category:    g.Category,
		City:        g.City,
		MemberCount: g.MemberCount,
		CreatedAt:   g.CreatedAt,
	}
	if g.LocationCenter != nil {
		doc.Location = elastic.GeoPointFromLatLon(g.LocationCenter.Latitude, g.LocationCenter.Longitude)
	}
	return doc
}

func (d groupDoc) toGroup() groups.Group {
	g := groups.Group{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		City:        d.City,
		MemberCount: d.MemberCount,
		CreatedAt:   d.CreatedAt,
	}
	if d.Location != nil {
		g.LocationCenter = &geo.Coordinate{Latitude: d.Location.Lat, Longitude: d.Location.Lon}
	}
	return g
}

// ElasticStore serves the group feed from an Elasticsearch index, newest
// groups first, paginated with search_after cursors.
type ElasticStore struct {
	client   *elastic.Client
	index    string
	logLevel logging.LogLevel
}

// NewElasticStore creates a store backed by the Elasticsearch node at url.
func NewElasticStore(url, index string, logLevel logging.LogLevel) (*ElasticStore, error) {
	client, err := elastic.NewClient(
		elastic.SetURL(url),
		elastic.SetSniff(false),
	)
	if err != nil {
		if logLevel <= logging.LogLevelError {
			log.Printf("Failed to create Elasticsearch client for %s: %v", url, err)
		}
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	return &ElasticStore{
		client:   client,
		index:    index,
		logLevel: logLevel,
	}, nil
}

// Close releases the underlying client's resources.
func (s *ElasticStore) Close() {
	s.client.Stop()
}

// EnsureIndex creates the groups index with its mapping if it does not exist.
func (s *ElasticStore) EnsureIndex(ctx context.Context) error {
	exists, err := s.client.IndexExists(s.index).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}

	if exists {
		if s.logLevel <= logging.LogLevelInfo {
			log.Printf("Index %s already exists", s.index)
		}
		return nil
	}

	createIndex, err := s.client.CreateIndex(s.index).BodyString(groupsMapping).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", s.index, err)
	}
	if !createIndex.Acknowledged {
		if s.logLevel <= logging.LogLevelWarning {
			log.Printf("CreateIndex %s was not acknowledged", s.index)
		}
	}

	if s.logLevel <= logging.LogLevelInfo {
		log.Printf("Created index %s", s.index)
	}
	return nil
}

// SeedGroups bulk-indexes the given groups and refreshes the index so they
// are immediately visible to FetchPage.
func (s *ElasticStore) SeedGroups(ctx context.Context, grps []groups.Group) error {
	if len(grps) == 0 {
		return nil
	}

	bulkRequest := s.client.Bulk().Index(s.index).Refresh("true")
	for _, g := range grps {
		req := elastic.NewBulkIndexRequest().Id(g.ID).Doc(toDoc(g))
		bulkRequest = bulkRequest.Add(req)
	}

	bulkResponse, err := bulkRequest.Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to bulk index groups: %w", err)
	}

	if bulkResponse != nil {
		for _, item := range bulkResponse.Items {
			for _, op := range item {
				if op.Error != nil {
					if s.logLevel <= logging.LogLevelError {
						log.Printf("Failed to index group %s: %s", op.Id, op.Error.Reason)
					}
					return fmt.Errorf("failed to index group %s: %s", op.Id, op.Error.Reason)
				}
			}
		}
	}

	if s.logLevel <= logging.LogLevelInfo {
		log.Printf("Seeded %d groups into index %s", len(grps), s.index)
	}
	return nil
}

// FetchPage implements Store. The feed is ordered by creation time descending
// with the id as tie-breaker; the cursor wraps the search_after sort values
// of the last returned document.
func (s *ElasticStore) FetchPage(ctx context.Context, pageSize int, cursor string) (Page, error) {
	if pageSize <= 0 {
		return Page{}, fmt.Errorf("page size must be positive, got %d", pageSize)
	}

	search := s.client.Search().
		Index(s.index).
		Query(elastic.NewMatchAllQuery()).
		Sort("created_at", false).
		Sort("id", true).
		Size(pageSize)

	if cursor != "" {
		sortValues, err := decodeCursor(cursor)
		if err != nil {
			return Page{}, &FetchError{Retriable: false, Err: err}
		}
		search = search.SearchAfter(sortValues...)
	}

	if s.logLevel <= logging.LogLevelDebug {
		log.Printf("Fetching page of %d groups from index %s (cursor present: %v)", pageSize, s.index, cursor != "")
	}

	searchResult, err := search.Do(ctx)
	if err != nil {
		if s.logLevel <= logging.LogLevelError {
			log.Printf("Search against index %s failed: %v", s.index, err)
		}
		return Page{}, &FetchError{Retriable: true, Err: fmt.Errorf("search failed: %w", err)}
	}

	var page Page
	var lastSort []interface{}
	for _, hit := range searchResult.Hits.Hits {
		var doc groupDoc
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			if s.logLevel <= logging.LogLevelWarning {
				log.Printf("Skipping unparseable document %s: %v", hit.Id, err)
			}
			continue
		}
		page.Groups = append(page.Groups, doc.toGroup())
		lastSort = hit.Sort
	}

	if len(lastSort) > 0 {
		next, err := encodeCursor(lastSort)
		if err != nil {
			return Page{}, &FetchError{Retriable: false, Err: err}
		}
		page.NextCursor = next
	}

	if s.logLevel <= logging.LogLevelInfo {
		log.Printf("Fetched %d groups from index %s", len(page.Groups), s.index)
	}

	return page, nil
}

// encodeCursor wraps search_after sort values in an opaque token.
func encodeCursor(sortValues []interface{}) (string, error) {
	data, err := json.Marshal(sortValues)
	if err != nil {
		return "", fmt.Errorf("failed to encode cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// decodeCursor unwraps a token produced by encodeCursor.
func decodeCursor(cursor string) ([]interface{}, error) {
	data, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadCursor, err)
	}
	var sortValues []interface{}
	if err := json.Unmarshal(data, &sortValues); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadCursor, err)
	}
	if len(sortValues) == 0 {
		return nil, fmt.Errorf("%w: empty sort values", ErrBadCursor)
	}
	return sortValues, nil
}
