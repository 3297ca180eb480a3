package dbclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"prism/internal/domain"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// mongoConnector implements Connector for MongoDB. The relation is a
// collection and the projection is a find with a projection document, so the
// server only ships the requested fields.
type mongoConnector struct {
	client *mongo.Client
	dbName string
}

func newMongoConnector(src *domain.DataSource, password string) (*mongoConnector, error) {
	uri := buildMongoURI(src, password)

	clientOpts := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	dbName := src.Database
	if dbName == "" {
		dbName = "test"
	}
	return &mongoConnector{client: client, dbName: dbName}, nil
}

// buildMongoURI accepts either a full connection string in Host (Atlas
// mongodb+srv:// or standard mongodb://) or a plain host to combine with
// port and credentials.
func buildMongoURI(src *domain.DataSource, password string) string {
	if strings.HasPrefix(src.Host, "mongodb+srv://") || strings.HasPrefix(src.Host, "mongodb://") {
		uri := src.Host
		// Replace <password> placeholder commonly found in Atlas connection strings
		if password != "" {
			uri = strings.ReplaceAll(uri, "<password>", password)
			uri = strings.ReplaceAll(uri, "<db_password>", password)
		}
		return uri
	}
	port := src.Port
	if port == 0 {
		port = 27017
	}
	if src.Username != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%d", src.Username, password, src.Host, port)
	}
	return fmt.Sprintf("mongodb://%s:%d", src.Host, port)
}

func (m *mongoConnector) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *mongoConnector) Select(ctx context.Context, relation string, fields []domain.Field) ([][]any, error) {
	coll := m.client.Database(m.dbName).Collection(relation)

	// Projection document: requested fields only; _id is noisy unless asked for.
	proj := bson.D{}
	wantID := false
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Name == "_id" {
			wantID = true
		}
		if !seen[f.Name] {
			seen[f.Name] = true
			proj = append(proj, bson.E{Key: f.Name, Value: 1})
		}
	}
	if !wantID {
		proj = append(proj, bson.E{Key: "_id", Value: 0})
	}

	opts := options.Find()
	opts.SetProjection(proj)

	cursor, err := coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	defer cursor.Close(ctx)

	var records [][]any
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		record := make([]any, len(fields))
		for i, f := range fields {
			record[i] = coerceValue(f.Type, normalizeBSONValue(doc[f.Name]))
		}
		records = append(records, record)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate: %w", err)
	}
	return records, nil
}

func (m *mongoConnector) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

// normalizeBSONValue maps BSON-specific values onto plain Go values.
func normalizeBSONValue(v any) any {
	switch val := v.(type) {
	case bson.DateTime:
		return val.Time().UTC()
	case bson.ObjectID:
		return val.Hex()
	case []byte:
		return string(val)
	default:
		return v
	}
}
