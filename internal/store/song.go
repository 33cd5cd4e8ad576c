package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/tonearc/tonearc/internal/keys"
	"github.com/tonearc/tonearc/internal/model"
)

// CreateSong writes a song's canonical metadata record, projected into
// GSI1 (artist/title) and GSI2 (genre). Songs without a genre are
// projected under "Unknown" so the genre index stays total.
//
// The put is unconditional; callers guard lazy creation with a prior
// GetSong (read-check-then-write, not atomic - a concurrent creator's
// write wins with no conflict signal).
func (s *Store) CreateSong(ctx context.Context, songID string, fields model.SongFields) (*model.Song, error) {
	song := model.Song{
		SongID:      songID,
		Title:       fields.Title,
		Artist:      fields.Artist,
		Album:       fields.Album,
		Year:        fields.Year,
		Genre:       fields.Genre,
		Duration:    fields.Duration,
		CoverArtURL: fields.CoverArtURL,
	}

	item, err := attributevalue.MarshalMap(song)
	if err != nil {
		return nil, fmt.Errorf("marshal song: %w", err)
	}

	genre := fields.Genre
	if genre == "" {
		genre = "Unknown"
	}

	item["PK"] = &types.AttributeValueMemberS{Value: keys.SongPK(songID)}
	item["SK"] = &types.AttributeValueMemberS{Value: keys.MetadataSK}
	item["entity_type"] = &types.AttributeValueMemberS{Value: model.TypeSong}
	item["GSI1PK"] = &types.AttributeValueMemberS{Value: keys.ArtistGSI1PK(fields.Artist)}
	item["GSI1SK"] = &types.AttributeValueMemberS{Value: keys.TitleGSI1SK(fields.Title)}
	item["GSI2PK"] = &types.AttributeValueMemberS{Value: keys.GenreGSI2PK(genre)}
	item["GSI2SK"] = &types.AttributeValueMemberS{Value: keys.SongGSI2SK(songID)}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.config.TableName),
		Item:      item,
	})
	if err != nil {
		return nil, err
	}

	return &song, nil
}

// GetSong retrieves a song's canonical record, returning ErrNotFound if absent.
func (s *Store) GetSong(ctx context.Context, songID string) (*model.Song, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.config.TableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: keys.SongPK(songID)},
			"SK": &types.AttributeValueMemberS{Value: keys.MetadataSK},
		},
	})
	if err != nil {
		return nil, err
	}
	if result.Item == nil {
		return nil, ErrNotFound
	}

	var song model.Song
	if err := attributevalue.UnmarshalMap(result.Item, &song); err != nil {
		return nil, fmt.Errorf("unmarshal song: %w", err)
	}
	return &song, nil
}

// SongsByArtist returns all songs with an exact artist match via GSI1.
func (s *Store) SongsByArtist(ctx context.Context, artist string) ([]model.Song, error) {
	return s.querySongsByIndex(ctx, s.config.GSI1Name, "GSI1PK", keys.ArtistGSI1PK(artist))
}

// SongsByGenre returns all songs with an exact genre match via GSI2.
func (s *Store) SongsByGenre(ctx context.Context, genre string) ([]model.Song, error) {
	return s.querySongsByIndex(ctx, s.config.GSI2Name, "GSI2PK", keys.GenreGSI2PK(genre))
}

func (s *Store) querySongsByIndex(ctx context.Context, index, keyAttr, keyValue string) ([]model.Song, error) {
	items, err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.config.TableName),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String("#pk = :pk"),
		ExpressionAttributeNames: map[string]string{
			"#pk": keyAttr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: keyValue},
		},
	})
	if err != nil {
		return nil, err
	}

	songs := make([]model.Song, 0, len(items))
	for _, item := range items {
		var song model.Song
		if err := attributevalue.UnmarshalMap(item, &song); err != nil {
			return nil, fmt.Errorf("unmarshal song: %w", err)
		}
		songs = append(songs, song)
	}
	return songs, nil
}
