package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/tonearc/tonearc/internal/keys"
	"github.com/tonearc/tonearc/internal/model"
)

// AddSongToCollection adds a song to a user's library. If no canonical
// record exists for songID, one is created first from fields; the
// create and the membership write are two independent single-record
// operations with no atomicity across them.
//
// The membership put is an unconditional overwrite: re-adding a song
// resets play_count to zero and added_at to now, discarding prior play
// history. Callers treat a re-add as a full reset.
func (s *Store) AddSongToCollection(ctx context.Context, userID, songID string, fields model.SongFields) (*model.UserSong, error) {
	if _, err := s.GetSong(ctx, songID); err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		if _, err := s.CreateSong(ctx, songID, fields); err != nil {
			return nil, fmt.Errorf("create song: %w", err)
		}
	}

	userSong := model.UserSong{
		UserID:    userID,
		SongID:    songID,
		AddedAt:   nowISO(),
		Rating:    fields.Rating,
		Notes:     fields.Notes,
		PlayCount: 0,
	}

	item, err := attributevalue.MarshalMap(userSong)
	if err != nil {
		return nil, fmt.Errorf("marshal user song: %w", err)
	}
	item["PK"] = &types.AttributeValueMemberS{Value: keys.UserPK(userID)}
	item["SK"] = &types.AttributeValueMemberS{Value: keys.UserSongSK(songID)}
	item["entity_type"] = &types.AttributeValueMemberS{Value: model.TypeUserSong}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.config.TableName),
		Item:      item,
	})
	if err != nil {
		return nil, err
	}

	return &userSong, nil
}

// UserSongs returns all library membership records for a user.
func (s *Store) UserSongs(ctx context.Context, userID string) ([]model.UserSong, error) {
	items, err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.config.TableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: keys.UserPK(userID)},
			":prefix": &types.AttributeValueMemberS{Value: keys.SongPrefix},
		},
	})
	if err != nil {
		return nil, err
	}

	songs := make([]model.UserSong, 0, len(items))
	for _, item := range items {
		var us model.UserSong
		if err := attributevalue.UnmarshalMap(item, &us); err != nil {
			return nil, fmt.Errorf("unmarshal user song: %w", err)
		}
		songs = append(songs, us)
	}
	return songs, nil
}

// UpdateUserSong applies a partial update to a library membership
// record. Nil fields in upd are left untouched. Returns ErrNotFound if
// the song is not in the user's library.
func (s *Store) UpdateUserSong(ctx context.Context, userID, songID string, upd model.UserSongUpdate) error {
	fields := map[string]types.AttributeValue{}
	if upd.Rating != nil {
		fields["rating"] = &types.AttributeValueMemberN{Value: strconv.Itoa(*upd.Rating)}
	}
	if upd.Notes != nil {
		fields["notes"] = &types.AttributeValueMemberS{Value: *upd.Notes}
	}

	return s.updateFields(ctx, map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: keys.UserPK(userID)},
		"SK": &types.AttributeValueMemberS{Value: keys.UserSongSK(songID)},
	}, fields)
}

// MarkPlayed atomically increments a library song's play counter and
// stamps last_played. Returns ErrNotFound if the song is not in the
// user's library.
func (s *Store) MarkPlayed(ctx context.Context, userID, songID string) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.config.TableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: keys.UserPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: keys.UserSongSK(songID)},
		},
		UpdateExpression:    aws.String("SET last_played = :now ADD play_count :one"),
		ConditionExpression: aws.String("attribute_exists(PK)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberS{Value: nowISO()},
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// RemoveSongFromCollection deletes the membership record only; the
// canonical song record and other users' references are unaffected.
func (s *Store) RemoveSongFromCollection(ctx context.Context, userID, songID string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.config.TableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: keys.UserPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: keys.UserSongSK(songID)},
		},
	})
	return err
}
