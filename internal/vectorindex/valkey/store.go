// Package valkey keeps the vector index in Valkey hashes searched with FT.SEARCH KNN.
package valkey

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/DhanaAnjana/DocuMind/internal/vectorindex"
)

const (
	indexName = "documind_vectors"
	keyPrefix = "documind:vec:"
	seqKey    = "documind:vec_seq"

	fieldContent  = "content"
	fieldMetadata = "metadata"
	fieldSeq      = "seq"
	fieldVector   = "vector"
	fieldScore    = "__vector_score"
)

var _ vectorindex.Store = (*Store)(nil)

// Config holds connection parameters for a Valkey server with the search module.
type Config struct {
	Addrs    []string
	Password string
}

// Store is a vectorindex.Store backed by Valkey.
// Durability of inserted records follows the server's persistence settings.
type Store struct {
	client rueidis.Client
}

func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Password:     cfg.Password,
		DisableCache: true,
		AlwaysRESP2:  true, // FT.SEARCH replies are parsed as RESP2 arrays
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return newStore(client), nil
}

func newStore(client rueidis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Do(ctx, s.client.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	s.client.Close()
	return nil
}

// EnsureIndex creates the FT index over vectors of dims dimensions unless it already exists.
func (s *Store) EnsureIndex(ctx context.Context, dims int) error {
	if dims <= 0 {
		return fmt.Errorf("embedding dimensions must be positive, got %d", dims)
	}

	cmd := s.client.B().Arbitrary("FT.CREATE").Args(
		indexName, "ON", "HASH",
		"PREFIX", "1", keyPrefix,
		"SCHEMA",
		fieldVector, "VECTOR", "FLAT", "6",
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(dims),
		"DISTANCE_METRIC", "COSINE",
	).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return nil
		}
		return fmt.Errorf("creating index: %w", err)
	}
	return nil
}

// Insert reserves a block of sequence numbers and writes one hash per record in a single round trip.
func (s *Store) Insert(ctx context.Context, records []vectorindex.Record) error {
	if len(records) == 0 {
		return nil
	}

	last, err := s.client.Do(ctx,
		s.client.B().Incrby().Key(seqKey).Increment(int64(len(records))).Build()).AsInt64()
	if err != nil {
		return fmt.Errorf("reserving sequence: %w", err)
	}
	first := last - int64(len(records)) + 1

	cmds := make(rueidis.Commands, len(records))
	for i, r := range records {
		md, err := json.Marshal(r.Metadata)
		if err != nil {
			return fmt.Errorf("marshaling metadata: %w", err)
		}
		cmds[i] = s.client.B().Hset().Key(keyPrefix+r.ID).FieldValue().
			FieldValue(fieldContent, r.Content).
			FieldValue(fieldMetadata, string(md)).
			FieldValue(fieldSeq, strconv.FormatInt(first+int64(i), 10)).
			FieldValue(fieldVector, string(vectorindex.EncodeVector(r.Vector))).
			Build()
	}

	for i, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return fmt.Errorf("inserting record %s: %w", records[i].ID, err)
		}
	}
	return nil
}

// Nearest runs a KNN query and orders the reply by distance, then insertion order.
func (s *Store) Nearest(ctx context.Context, vector []float32, k int) ([]vectorindex.Hit, error) {
	if k <= 0 {
		return []vectorindex.Hit{}, nil
	}

	cmd := s.client.B().Arbitrary("FT.SEARCH").Args(
		indexName,
		fmt.Sprintf("*=>[KNN %d @%s $BLOB]", k, fieldVector),
		"PARAMS", "2", "BLOB", string(vectorindex.EncodeVector(vector)),
		"LIMIT", "0", strconv.Itoa(k),
		"DIALECT", "2",
	).Build()
	raw, err := s.client.Do(ctx, cmd).ToArray()
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	ranked, err := parseKNNReply(raw)
	if err != nil {
		return nil, err
	}
	return vectorindex.TopK(ranked, k), nil
}

func (s *Store) Exists(ctx context.Context, ids []string) (map[string]bool, error) {
	found := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	cmds := make(rueidis.Commands, len(ids))
	for i, id := range ids {
		cmds[i] = s.client.B().Exists().Key(keyPrefix + id).Build()
	}
	for i, res := range s.client.DoMulti(ctx, cmds...) {
		n, err := res.AsInt64()
		if err != nil {
			return nil, fmt.Errorf("checking %s: %w", ids[i], err)
		}
		if n > 0 {
			found[ids[i]] = true
		}
	}
	return found, nil
}

// parseKNNReply reads the RESP2 reply [total, key1, fields1, key2, fields2, ...].
func parseKNNReply(raw []rueidis.RedisMessage) ([]vectorindex.RankedHit, error) {
	ranked := []vectorindex.RankedHit{}
	if len(raw) == 0 {
		return ranked, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return ranked, nil
	}

	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			return nil, fmt.Errorf("parse key: %w", err)
		}
		pairs, err := raw[i+1].ToArray()
		if err != nil {
			return nil, fmt.Errorf("parse fields of %s: %w", key, err)
		}
		fields := parseFieldPairs(pairs)

		h := vectorindex.RankedHit{
			Hit: vectorindex.Hit{
				ID:       strings.TrimPrefix(key, keyPrefix),
				Content:  fields[fieldContent],
				Metadata: vectorindex.Metadata{},
				Distance: 1,
			},
		}
		if md := fields[fieldMetadata]; md != "" {
			if err := json.Unmarshal([]byte(md), &h.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshaling metadata of %s: %w", h.ID, err)
			}
		}
		if score, err := strconv.ParseFloat(fields[fieldScore], 64); err == nil {
			h.Distance = score
		}
		if seq, err := strconv.ParseInt(fields[fieldSeq], 10, 64); err == nil {
			h.Seq = seq
		}
		ranked = append(ranked, h)
	}
	return ranked, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// isRedisErr checks if err is a server error containing substr, ignoring case.
func isRedisErr(err error, substr string) bool {
	re, ok := rueidis.IsRedisErr(err)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(re.Error()), strings.ToLower(substr))
}
