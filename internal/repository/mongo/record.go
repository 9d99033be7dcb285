package mongo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Rrens/finance-copilot/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RecordRepository implements domain.RecordRepository; each tool table is a collection
type RecordRepository struct {
	db *mongo.Database
}

// NewRecordRepository creates a new record repository
func NewRecordRepository(db *DB) *RecordRepository {
	return &RecordRepository{db: db.db}
}

func (r *RecordRepository) Select(ctx context.Context, q domain.TableQuery) ([]domain.Record, error) {
	filter, opts, err := buildFind(q)
	if err != nil {
		return nil, err
	}

	cursor, err := r.db.Collection(q.Table).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", q.Table, err)
	}
	defer cursor.Close(ctx)

	records := []domain.Record{}
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode %s document: %w", q.Table, err)
		}
		rec := make(domain.Record, len(doc))
		for k, v := range doc {
			rec[k] = normalizeValue(v)
		}
		records = append(records, rec)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", q.Table, err)
	}
	return records, nil
}

func buildFind(q domain.TableQuery) (bson.D, *options.FindOptions, error) {
	if err := q.Validate(); err != nil {
		return nil, nil, err
	}

	filter := bson.D{}
	for _, f := range q.Filters {
		filter = append(filter, bson.E{Key: f.Column, Value: f.Value})
	}

	opts := options.Find()
	if q.OrderBy != "" {
		dir := 1
		if q.Descending {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.OrderBy, Value: dir}})
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	return filter, opts, nil
}

// normalizeValue converts BSON-specific types into JSON friendly values
func normalizeValue(v any) any {
	switch val := v.(type) {
	case primitive.ObjectID:
		return val.Hex()
	case primitive.DateTime:
		return val.Time().UTC()
	case primitive.Decimal128:
		return val.String()
	case bson.M:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeValue(item)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(val))
		for _, e := range val {
			out[e.Key] = normalizeValue(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}

// toBSONValue round-trips v through JSON so structs with custom JSON
// encoding (amounts, optional fields) are stored the way the API returns them
func toBSONValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
