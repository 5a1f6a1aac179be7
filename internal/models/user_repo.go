package models

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/supabase-community/gotrue-go/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TokenRefresher exchanges a refresh token for a new session.
type TokenRefresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error)
}

type mongoUser struct {
	ID        primitive.ObjectID `bson:"_id"`
	FirstName string             `bson:"firstName"`
	LastName  string             `bson:"lastName"`
	Avatar    string             `bson:"avatar"`
}

// FindProfiles reads the users collection. Ids that are not ObjectIDs cannot
// exist there and are skipped.
func (mdb *MongodbRepo) FindProfiles(ctx context.Context, ids []string) (map[string]UserSummary, error) {
	out := make(map[string]UserSummary, len(ids))
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range uniqueStrings(ids) {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return out, nil
	}

	col, err := mdb.GetCollection(UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	projection := bson.M{"firstName": 1, "lastName": 1, "avatar": 1}
	cursor, err := col.Find(ctx, bson.M{"_id": bson.M{"$in": oids}}, options.Find().SetProjection(projection))
	if err != nil {
		return nil, fmt.Errorf("error finding users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []mongoUser
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("error decoding users: %w", err)
	}
	for _, u := range users {
		id := u.ID.Hex()
		out[id] = UserSummary{ID: id, Name: DisplayName(u.FirstName, u.LastName), Avatar: u.Avatar}
	}
	return out, nil
}

type supabaseProfile struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"fullname"`
	AvatarURL string `json:"avatar_url"`
}

// FindProfiles reads the Supabase profiles table.
func (su *SupabaseRepo) FindProfiles(ctx context.Context, ids []string) (map[string]UserSummary, error) {
	out := make(map[string]UserSummary, len(ids))
	ids = uniqueStrings(ids)
	if len(ids) == 0 {
		return out, nil
	}

	raw, status, err := su.supabaseClient.From(ProfileTable).
		Select("id,username,fullname,avatar_url", "", false).
		In("id", ids).
		Execute()
	if err != nil {
		if status != 0 {
			return nil, fmt.Errorf("postgrest error: status=%d err=%v", status, err)
		}
		return nil, fmt.Errorf("failed to get profiles: %v", err)
	}

	var profiles []supabaseProfile
	if err := json.Unmarshal(raw, &profiles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile rows: %v", err)
	}
	for _, p := range profiles {
		name := p.FullName
		if name == "" {
			name = p.Username
		}
		out[p.ID] = UserSummary{ID: p.ID, Name: name, Avatar: p.AvatarURL}
	}
	return out, nil
}

func (su *SupabaseRepo) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	resp, err := su.supabaseClient.Auth.RefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %v", err)
	}
	return resp, nil
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
