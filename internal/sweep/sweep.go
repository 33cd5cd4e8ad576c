// Package sweep provides a DynamoDB Streams handler that repairs
// playlist orphans. Playlist deletion removes membership rows first and
// the playlist record last, but the two steps are not atomic; a crash
// in between leaves membership rows under a playlist that no longer
// exists. The handler watches for playlist record removals and deletes
// whatever membership rows remain.
package sweep

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/charmbracelet/log"

	"github.com/tonearc/tonearc/internal/model"
)

// Store is the slice of the entity store the sweeper needs.
type Store interface {
	PlaylistSongs(ctx context.Context, playlistID string) ([]model.PlaylistSong, error)
	DeletePlaylistSong(ctx context.Context, playlistID, songID string, position int) error
}

// Handler processes DynamoDB stream events for orphan repair.
type Handler struct {
	store  Store
	logger *log.Logger
}

// NewHandler creates a new stream handler.
func NewHandler(s Store, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		store:  s,
		logger: logger,
	}
}

// HandleOrphanSweep processes DynamoDB stream events, deleting leftover
// membership rows after a playlist record removal. It is designed to be
// used as an AWS Lambda handler.
func (h *Handler) HandleOrphanSweep(ctx context.Context, event events.DynamoDBEvent) error {
	for _, record := range event.Records {
		if err := h.processRecord(ctx, record); err != nil {
			h.logger.Error("failed to process record",
				"eventID", record.EventID,
				"error", err,
			)
			return err // Will retry, eventually DLQ
		}
	}
	return nil
}

func (h *Handler) processRecord(ctx context.Context, record events.DynamoDBEventRecord) error {
	// Only playlist record removals matter here.
	if record.EventName != "REMOVE" {
		return nil
	}
	if getStringAttr(record.Change.OldImage, "entity_type") != model.TypePlaylist {
		return nil
	}

	playlistID := getStringAttr(record.Change.OldImage, "playlist_id")
	if playlistID == "" {
		return nil
	}

	// Idempotent: re-running after a partial sweep just finds fewer rows.
	orphans, err := h.store.PlaylistSongs(ctx, playlistID)
	if err != nil {
		return fmt.Errorf("list orphaned memberships: %w", err)
	}
	if len(orphans) == 0 {
		return nil
	}

	h.logger.Info("sweeping orphaned playlist memberships",
		"playlistID", playlistID,
		"count", len(orphans),
	)

	for _, orphan := range orphans {
		if err := h.store.DeletePlaylistSong(ctx, playlistID, orphan.SongID, orphan.Position); err != nil {
			h.logger.Warn("failed to delete orphaned membership",
				"playlistID", playlistID,
				"songID", orphan.SongID,
				"error", err,
			)
			// Continue - idempotent, will retry
		}
	}

	return nil
}

// getStringAttr extracts a string attribute from a DynamoDB stream image.
func getStringAttr(image map[string]events.DynamoDBAttributeValue, key string) string {
	if v, ok := image[key]; ok && v.DataType() == events.DataTypeString {
		return v.String()
	}
	return ""
}
