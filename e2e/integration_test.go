//go:build e2e

// Package e2e contains end-to-end integration tests against a real
// DynamoDB table. Run with: go test -tags=e2e -v ./e2e/...
//
// Set AWS_ENDPOINT_URL to point at DynamoDB Local, or rely on the
// ambient AWS credentials for a real table.
package e2e

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/tonearc/tonearc/internal/library"
	"github.com/tonearc/tonearc/internal/model"
	"github.com/tonearc/tonearc/internal/store"
)

const tablePrefix = "tonearc-e2e-test"

var (
	tableName string

	ddbClient *dynamodb.Client
	testStore *store.Store
	testLib   *library.Service
)

func TestMain(m *testing.M) {
	// Unique table per test run to avoid conflicts
	testID := uuid.New().String()[:8]
	tableName = fmt.Sprintf("%s-%s", tablePrefix, testID)

	fmt.Printf("Test ID: %s\n", testID)
	fmt.Printf("Table: %s\n", tableName)

	ctx := context.Background()
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		fmt.Printf("Failed to load AWS config: %v\n", err)
		os.Exit(1)
	}

	ddbClient = dynamodb.NewFromConfig(cfg)

	if err := createTable(ctx); err != nil {
		fmt.Printf("Failed to create table: %v\n", err)
		os.Exit(1)
	}

	testStore = store.New(ddbClient, store.Config{TableName: tableName})
	testLib = library.New(testStore)

	code := m.Run()

	if err := deleteTable(ctx); err != nil {
		fmt.Printf("Failed to delete table: %v\n", err)
	}

	os.Exit(code)
}

func createTable(ctx context.Context) error {
	fmt.Println("Creating test table...")

	_, err := ddbClient.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(tableName),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("PK"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("SK"), KeyType: types.KeyTypeRange},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("PK"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("SK"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("GSI1PK"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("GSI1SK"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("GSI2PK"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("GSI2SK"), AttributeType: types.ScalarAttributeTypeS},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				IndexName: aws.String("GSI1"),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String("GSI1PK"), KeyType: types.KeyTypeHash},
					{AttributeName: aws.String("GSI1SK"), KeyType: types.KeyTypeRange},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
			{
				IndexName: aws.String("GSI2"),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String("GSI2PK"), KeyType: types.KeyTypeHash},
					{AttributeName: aws.String("GSI2SK"), KeyType: types.KeyTypeRange},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		return fmt.Errorf("create table %s: %w", tableName, err)
	}

	waiter := dynamodb.NewTableExistsWaiter(ddbClient)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(tableName),
	}, 2*time.Minute); err != nil {
		return fmt.Errorf("wait for table: %w", err)
	}

	fmt.Println("Table created and active")
	return nil
}

func deleteTable(ctx context.Context) error {
	fmt.Println("Deleting test table...")
	_, err := ddbClient.DeleteTable(ctx, &dynamodb.DeleteTableInput{
		TableName: aws.String(tableName),
	})
	return err
}

func newUser(t *testing.T) string {
	t.Helper()
	userID := uuid.New().String()
	email := userID[:8] + "@example.com"
	if _, err := testStore.CreateUser(context.Background(), userID, email, "user-"+userID[:8]); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return userID
}

func TestUserLifecycle(t *testing.T) {
	ctx := context.Background()
	userID := newUser(t)

	user, err := testStore.GetUser(ctx, userID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if user.UserID != userID {
		t.Errorf("UserID = %q, want %q", user.UserID, userID)
	}

	// Duplicate registration must conflict
	if _, err := testStore.CreateUser(ctx, userID, user.Email, user.Username); !errors.Is(err, store.ErrConflict) {
		t.Errorf("duplicate CreateUser error = %v, want ErrConflict", err)
	}
}

func TestLibraryLifecycle(t *testing.T) {
	ctx := context.Background()
	userID := newUser(t)
	songID := uuid.New().String()

	rating := 5
	_, err := testStore.AddSongToCollection(ctx, userID, songID, model.SongFields{
		Title:    "Bohemian Rhapsody",
		Artist:   "Queen",
		Album:    "A Night at the Opera",
		Genre:    "Rock",
		Duration: 354,
		Rating:   &rating,
	})
	if err != nil {
		t.Fatalf("AddSongToCollection: %v", err)
	}

	if err := testStore.MarkPlayed(ctx, userID, songID); err != nil {
		t.Fatalf("MarkPlayed: %v", err)
	}

	songs, err := testLib.UserSongs(ctx, userID)
	if err != nil {
		t.Fatalf("UserSongs: %v", err)
	}
	if len(songs) != 1 {
		t.Fatalf("expected 1 library song, got %d", len(songs))
	}
	if songs[0].PlayCount != 1 {
		t.Errorf("PlayCount = %d, want 1", songs[0].PlayCount)
	}
	if songs[0].DurationDisplay != "5:54" {
		t.Errorf("DurationDisplay = %q, want 5:54", songs[0].DurationDisplay)
	}

	// Artist index sees the canonical record
	byArtist, err := testStore.SongsByArtist(ctx, "Queen")
	if err != nil {
		t.Fatalf("SongsByArtist: %v", err)
	}
	found := false
	for _, song := range byArtist {
		if song.SongID == songID {
			found = true
		}
	}
	if !found {
		t.Error("song not found via artist index")
	}

	// Removal keeps the canonical record
	if err := testStore.RemoveSongFromCollection(ctx, userID, songID); err != nil {
		t.Fatalf("RemoveSongFromCollection: %v", err)
	}
	if _, err := testStore.GetSong(ctx, songID); err != nil {
		t.Errorf("canonical song should survive removal: %v", err)
	}
}

func TestPlaylistLifecycle(t *testing.T) {
	ctx := context.Background()
	userID := newUser(t)

	songID := uuid.New().String()
	if _, err := testStore.AddSongToCollection(ctx, userID, songID, model.SongFields{
		Title: "Hotel California", Artist: "Eagles", Duration: 391,
	}); err != nil {
		t.Fatalf("AddSongToCollection: %v", err)
	}

	playlist, err := testStore.CreatePlaylist(ctx, userID, "Road Trip", "", false)
	if err != nil {
		t.Fatalf("CreatePlaylist: %v", err)
	}

	if _, err := testStore.AddSongToPlaylist(ctx, playlist.PlaylistID, songID, 1); err != nil {
		t.Fatalf("AddSongToPlaylist: %v", err)
	}

	entries, err := testLib.PlaylistSongs(ctx, playlist.PlaylistID)
	if err != nil {
		t.Fatalf("PlaylistSongs: %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "Hotel California" {
		t.Fatalf("unexpected playlist entries: %+v", entries)
	}

	summaries, err := testLib.Playlists(ctx, userID)
	if err != nil {
		t.Fatalf("Playlists: %v", err)
	}
	if len(summaries) != 1 || summaries[0].SongCount != 1 {
		t.Fatalf("unexpected playlist summaries: %+v", summaries)
	}

	// Delete cascades to membership rows
	if err := testStore.DeletePlaylist(ctx, userID, playlist.PlaylistID); err != nil {
		t.Fatalf("DeletePlaylist: %v", err)
	}
	leftover, err := testStore.PlaylistSongs(ctx, playlist.PlaylistID)
	if err != nil {
		t.Fatalf("PlaylistSongs after delete: %v", err)
	}
	if len(leftover) != 0 {
		t.Errorf("expected no membership rows after delete, got %d", len(leftover))
	}
	if _, err := testStore.GetPlaylist(ctx, userID, playlist.PlaylistID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetPlaylist after delete = %v, want ErrNotFound", err)
	}
}
