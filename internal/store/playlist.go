package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/tonearc/tonearc/internal/keys"
	"github.com/tonearc/tonearc/internal/model"
)

// CreatePlaylist writes a new playlist record under the owner's partition.
func (s *Store) CreatePlaylist(ctx context.Context, userID, name, description string, isPublic bool) (*model.Playlist, error) {
	playlist := model.Playlist{
		PlaylistID:  uuid.NewString(),
		UserID:      userID,
		Name:        name,
		Description: description,
		IsPublic:    isPublic,
		CreatedAt:   nowISO(),
	}

	item, err := attributevalue.MarshalMap(playlist)
	if err != nil {
		return nil, fmt.Errorf("marshal playlist: %w", err)
	}
	item["PK"] = &types.AttributeValueMemberS{Value: keys.UserPK(userID)}
	item["SK"] = &types.AttributeValueMemberS{Value: keys.PlaylistSK(playlist.PlaylistID)}
	item["entity_type"] = &types.AttributeValueMemberS{Value: model.TypePlaylist}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.config.TableName),
		Item:      item,
	})
	if err != nil {
		return nil, err
	}

	return &playlist, nil
}

// GetPlaylist retrieves a playlist owned by userID, returning
// ErrNotFound if absent.
func (s *Store) GetPlaylist(ctx context.Context, userID, playlistID string) (*model.Playlist, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.config.TableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: keys.UserPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: keys.PlaylistSK(playlistID)},
		},
	})
	if err != nil {
		return nil, err
	}
	if result.Item == nil {
		return nil, ErrNotFound
	}

	var playlist model.Playlist
	if err := attributevalue.UnmarshalMap(result.Item, &playlist); err != nil {
		return nil, fmt.Errorf("unmarshal playlist: %w", err)
	}
	return &playlist, nil
}

// UserPlaylists returns all playlist records owned by a user.
func (s *Store) UserPlaylists(ctx context.Context, userID string) ([]model.Playlist, error) {
	items, err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.config.TableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: keys.UserPK(userID)},
			":prefix": &types.AttributeValueMemberS{Value: keys.PlaylistPrefix},
		},
	})
	if err != nil {
		return nil, err
	}

	playlists := make([]model.Playlist, 0, len(items))
	for _, item := range items {
		var pl model.Playlist
		if err := attributevalue.UnmarshalMap(item, &pl); err != nil {
			return nil, fmt.Errorf("unmarshal playlist: %w", err)
		}
		playlists = append(playlists, pl)
	}
	return playlists, nil
}

// UpdatePlaylist applies a partial update to a playlist record. Nil
// fields in upd are left untouched. Returns ErrNotFound if the playlist
// doesn't exist.
func (s *Store) UpdatePlaylist(ctx context.Context, userID, playlistID string, upd model.PlaylistUpdate) error {
	fields := map[string]types.AttributeValue{}
	if upd.Name != nil {
		fields["name"] = &types.AttributeValueMemberS{Value: *upd.Name}
	}
	if upd.Description != nil {
		fields["description"] = &types.AttributeValueMemberS{Value: *upd.Description}
	}
	if upd.IsPublic != nil {
		fields["is_public"] = &types.AttributeValueMemberBOOL{Value: *upd.IsPublic}
	}

	return s.updateFields(ctx, map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: keys.UserPK(userID)},
		"SK": &types.AttributeValueMemberS{Value: keys.PlaylistSK(playlistID)},
	}, fields)
}

// DeletePlaylist deletes a playlist and all of its membership records.
// The cascade is a sequence of independent single-record deletes with
// no atomicity across them; a failure mid-cascade leaves orphaned
// membership rows, which the stream sweeper cleans up later.
func (s *Store) DeletePlaylist(ctx context.Context, userID, playlistID string) error {
	memberships, err := s.PlaylistSongs(ctx, playlistID)
	if err != nil {
		return fmt.Errorf("list playlist songs: %w", err)
	}

	for _, ps := range memberships {
		if err := s.DeletePlaylistSong(ctx, playlistID, ps.SongID, ps.Position); err != nil {
			return fmt.Errorf("delete membership %s: %w", ps.SongID, err)
		}
	}

	_, err = s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.config.TableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: keys.UserPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: keys.PlaylistSK(playlistID)},
		},
	})
	return err
}

// AddSongToPlaylist writes a membership record keyed by zero-padded
// position. A second call with the same position overwrites the prior
// membership (last-writer-wins).
func (s *Store) AddSongToPlaylist(ctx context.Context, playlistID, songID string, position int) (*model.PlaylistSong, error) {
	sk, err := keys.PlaylistSongSK(songID, position)
	if err != nil {
		return nil, err
	}

	ps := model.PlaylistSong{
		PlaylistID: playlistID,
		SongID:     songID,
		Position:   position,
		AddedAt:    nowISO(),
	}

	item, err := attributevalue.MarshalMap(ps)
	if err != nil {
		return nil, fmt.Errorf("marshal playlist song: %w", err)
	}
	item["PK"] = &types.AttributeValueMemberS{Value: keys.PlaylistPK(playlistID)}
	item["SK"] = &types.AttributeValueMemberS{Value: sk}
	item["entity_type"] = &types.AttributeValueMemberS{Value: model.TypePlaylistSong}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.config.TableName),
		Item:      item,
	})
	if err != nil {
		return nil, err
	}

	return &ps, nil
}

// PlaylistSongs returns all membership records for a playlist. The
// zero-padded sort keys mean the range query already yields them in
// position order, but readers sort on the decoded attribute anyway.
func (s *Store) PlaylistSongs(ctx context.Context, playlistID string) ([]model.PlaylistSong, error) {
	items, err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.config.TableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: keys.PlaylistPK(playlistID)},
			":prefix": &types.AttributeValueMemberS{Value: keys.SongPrefix},
		},
	})
	if err != nil {
		return nil, err
	}

	songs := make([]model.PlaylistSong, 0, len(items))
	for _, item := range items {
		var ps model.PlaylistSong
		if err := attributevalue.UnmarshalMap(item, &ps); err != nil {
			return nil, fmt.Errorf("unmarshal playlist song: %w", err)
		}
		songs = append(songs, ps)
	}
	return songs, nil
}

// DeletePlaylistSong deletes a single membership record.
func (s *Store) DeletePlaylistSong(ctx context.Context, playlistID, songID string, position int) error {
	sk, err := keys.PlaylistSongSK(songID, position)
	if err != nil {
		// Positions read back from the table are always in range; an
		// out-of-range position here means a corrupt record.
		return fmt.Errorf("membership key: %w", err)
	}

	_, err = s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.config.TableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: keys.PlaylistPK(playlistID)},
			"SK": &types.AttributeValueMemberS{Value: sk},
		},
	})
	return err
}
