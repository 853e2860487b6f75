// Package qdrant implements a knowledge.Index backed by a Qdrant
// collection over gRPC.
package qdrant

import (
	"context"
	"fmt"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/jllopis/agora/pkg/knowledge"
)

// Index stores embedded knowledge keys in a single Qdrant collection.
type Index struct {
	points      pb.PointsClient
	collections pb.CollectionsClient
	collection  string
}

// New connects to a Qdrant gRPC endpoint.
func New(addr, collection string) (*Index, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("qdrant dial: %w", err)
	}
	return &Index{
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		collection:  collection,
	}, nil
}

// EnsureCollection creates the collection when it does not exist.
func (s *Index) EnsureCollection(ctx context.Context, vectorSize uint64) error {
	_, err := s.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     vectorSize,
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	return nil
}

// Upsert stores the points with their key as payload.
func (s *Index) Upsert(ctx context.Context, points []knowledge.Point) error {
	qPoints := make([]*pb.PointStruct, len(points))
	for i, p := range points {
		qPoints[i] = &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{Uuid: p.ID},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: p.Vector},
				},
			},
			Payload: map[string]*pb.Value{
				"key": {Kind: &pb.Value_StringValue{StringValue: p.Key}},
			},
		}
	}

	_, err := s.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: s.collection,
		Points:         qPoints,
	})
	if err != nil {
		return fmt.Errorf("upsert points: %w", err)
	}
	return nil
}

// Search returns the nearest keys above the score threshold.
func (s *Index) Search(ctx context.Context, vector []float32, limit int, scoreThreshold float32) ([]knowledge.Match, error) {
	resp, err := s.points.Search(ctx, &pb.SearchPoints{
		CollectionName: s.collection,
		Vector:         vector,
		Limit:          uint64(limit),
		ScoreThreshold: &scoreThreshold,
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("search points: %w", err)
	}

	matches := make([]knowledge.Match, 0, len(resp.Result))
	for _, r := range resp.Result {
		var id string
		if r.Id.GetUuid() != "" {
			id = r.Id.GetUuid()
		} else {
			id = fmt.Sprintf("%d", r.Id.GetNum())
		}
		var key string
		if v, ok := r.Payload["key"]; ok {
			key = v.GetStringValue()
		}
		matches = append(matches, knowledge.Match{ID: id, Key: key, Score: r.Score})
	}
	return matches, nil
}
