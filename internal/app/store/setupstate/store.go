// internal/app/store/setupstate/store.go
package setupstate

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Setup lifecycle phases. The store only persists terminal outcomes;
// Running exists in memory inside the orchestrator.
const (
	PhaseNotStarted = "not_started"
	PhaseCompleted  = "completed"
	PhaseFailed     = "failed"
)

// stateKey identifies the singleton state document.
const stateKey = "setup"

// Store persists the provisioning completion record.
type Store struct {
	c *mongo.Collection
}

// New creates a new setup state store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("setup_state")}
}

// State is the singleton provisioning record.
type State struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Key         string             `bson:"key"`
	Phase       string             `bson:"phase"`
	RunID       string             `bson:"run_id,omitempty"`
	CompletedAt *time.Time         `bson:"completed_at,omitempty"`
	FailedAt    *time.Time         `bson:"failed_at,omitempty"`
	LastError   string             `bson:"last_error,omitempty"`
}

// Get returns the current state, or a NotStarted state when no run has
// ever been recorded.
func (s *Store) Get(ctx context.Context) (*State, error) {
	var st State
	err := s.c.FindOne(ctx, bson.M{"key": stateKey}).Decode(&st)
	if err == mongo.ErrNoDocuments {
		return &State{Key: stateKey, Phase: PhaseNotStarted}, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// Completed reports whether a provisioning run has finished successfully.
func (s *Store) Completed(ctx context.Context) (bool, error) {
	st, err := s.Get(ctx)
	if err != nil {
		return false, err
	}
	return st.Phase == PhaseCompleted, nil
}

// Complete records a successful run.
func (s *Store) Complete(ctx context.Context, runID string) error {
	now := time.Now().UTC()
	return s.upsert(ctx, bson.M{
		"phase":        PhaseCompleted,
		"run_id":       runID,
		"completed_at": now,
		"last_error":   "",
	})
}

// RecordFailure records a failed run. An earlier successful completion
// timestamp, if any, is cleared so status reflects the latest outcome.
func (s *Store) RecordFailure(ctx context.Context, runID string, runErr error) error {
	now := time.Now().UTC()
	return s.upsert(ctx, bson.M{
		"phase":        PhaseFailed,
		"run_id":       runID,
		"failed_at":    now,
		"completed_at": nil,
		"last_error":   runErr.Error(),
	})
}

// Reset clears the recorded state so the next run starts from scratch.
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"key": stateKey})
	return err
}

func (s *Store) upsert(ctx context.Context, fields bson.M) error {
	filter := bson.M{"key": stateKey}
	update := bson.M{
		"$set": fields,
		"$setOnInsert": bson.M{
			"_id": primitive.NewObjectID(),
			"key": stateKey,
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, filter, update, opts)
	return err
}
