package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/confidence/identity-api/internal/core/domain"
)

const resetTokensCollection = "password_reset_tokens"

type ResetTokenRepository struct {
	coll *mongo.Collection
}

func NewResetTokenRepository(db *mongo.Database) *ResetTokenRepository {
	return &ResetTokenRepository{coll: db.Collection(resetTokensCollection)}
}

type mongoResetToken struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Token      string             `bson:"token"`
	UserID     primitive.ObjectID `bson:"user_id"`
	ExpiryDate time.Time          `bson:"expiry_date"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func (r *ResetTokenRepository) Create(ctx context.Context, token *domain.PasswordResetToken) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	uid, err := primitive.ObjectIDFromHex(token.UserID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", token.UserID, err)
	}

	doc := mongoResetToken{
		Token:      token.Token,
		UserID:     uid,
		ExpiryDate: token.ExpiryDate,
		CreatedAt:  token.CreatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert reset token: %w", err)
	}
	token.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *ResetTokenRepository) FindByToken(ctx context.Context, value string) (*domain.PasswordResetToken, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mt mongoResetToken
	if err := r.coll.FindOne(ctx, bson.M{"token": value}).Decode(&mt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvalidResetToken
		}
		return nil, fmt.Errorf("find reset token: %w", err)
	}

	return &domain.PasswordResetToken{
		ID:         mt.ID.Hex(),
		Token:      mt.Token,
		UserID:     mt.UserID.Hex(),
		ExpiryDate: mt.ExpiryDate,
		CreatedAt:  mt.CreatedAt,
	}, nil
}

func (r *ResetTokenRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidResetToken
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete reset token: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrInvalidResetToken
	}
	return nil
}

func (r *ResetTokenRepository) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return 0, fmt.Errorf("invalid user id %q: %w", userID, err)
	}

	res, err := r.coll.DeleteMany(ctx, bson.M{"user_id": uid})
	if err != nil {
		return 0, fmt.Errorf("delete reset tokens by user: %w", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the token lookup index plus a TTL index so expired
// tokens are eventually swept by the server. Expiry is still checked at read
// time; the TTL sweep is housekeeping, not the correctness mechanism.
func (r *ResetTokenRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{
			Keys:    bson.D{{Key: "expiry_date", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
