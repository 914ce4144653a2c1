package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/invoicing-system/internal/core/domain"
	"github.com/99minutos/invoicing-system/internal/core/ports"
)

const (
	collectionUsers   = "users"
	indexUserEmail    = "uniq_email"
	indexUserUsername = "uniq_username"
)

var _ ports.UserRepository = (*UserRepository)(nil)

// UserRepository implements ports.UserRepository using MongoDB. Uniqueness
// is enforced by indexes on the lower-cased e-mail and the username.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type userDoc struct {
	ID               string    `bson:"_id"`
	Email            string    `bson:"email"`
	EmailLower       string    `bson:"email_lower"`
	Name             string    `bson:"name"`
	Username         string    `bson:"username"`
	FullName         string    `bson:"full_name"`
	Address          string    `bson:"address"`
	Mobile           string    `bson:"mobile"`
	Role             string    `bson:"role"`
	SubscriptionPlan string    `bson:"subscription_plan"`
	IsEmailVerified  bool      `bson:"is_email_verified"`
	Avatar           string    `bson:"avatar,omitempty"`
	PasswordHash     string    `bson:"password_hash,omitempty"`
	CreatedAt        time.Time `bson:"created_at"`
}

func toUserDoc(u *domain.User) userDoc {
	return userDoc{
		ID:               u.ID,
		Email:            u.Email,
		EmailLower:       strings.ToLower(u.Email),
		Name:             u.Name,
		Username:         u.Username,
		FullName:         u.FullName,
		Address:          u.Address,
		Mobile:           u.Mobile,
		Role:             string(u.Role),
		SubscriptionPlan: string(u.SubscriptionPlan),
		IsEmailVerified:  u.IsEmailVerified,
		Avatar:           u.Avatar,
		PasswordHash:     u.PasswordHash,
		CreatedAt:        u.CreatedAt.UTC(),
	}
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:               d.ID,
		Email:            d.Email,
		Name:             d.Name,
		Username:         d.Username,
		FullName:         d.FullName,
		Address:          d.Address,
		Mobile:           d.Mobile,
		Role:             domain.Role(d.Role),
		SubscriptionPlan: domain.SubscriptionPlan(d.SubscriptionPlan),
		IsEmailVerified:  d.IsEmailVerified,
		Avatar:           d.Avatar,
		PasswordHash:     d.PasswordHash,
		CreatedAt:        d.CreatedAt.UTC(),
	}
}

// duplicateUserError maps a duplicate-key failure to the matching sentinel.
func duplicateUserError(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return nil
	}
	if strings.Contains(err.Error(), indexUserUsername) {
		return domain.ErrDuplicateUsername
	}
	return domain.ErrDuplicateEmail
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	record := *user
	record.ID = domain.NewID()
	record.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if record.Role == "" {
		record.Role = domain.RoleUser
	}

	if _, err := r.col.InsertOne(ctx, toUserDoc(&record)); err != nil {
		if dup := duplicateUserError(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &record, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	current, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(current)

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": id}, toUserDoc(current))
	if err != nil {
		if dup := duplicateUserError(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return current, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// List returns users in creation order.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	out := make([]domain.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, *d.toDomain())
	}
	return out, nil
}

// Stats counts users per role with a single aggregation.
func (r *UserRepository) Stats(ctx context.Context) (domain.UserStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$role"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("user stats: %w", err)
	}
	var rows []struct {
		Role  string `bson:"_id"`
		Count int    `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return domain.UserStats{}, fmt.Errorf("decode user stats: %w", err)
	}

	var stats domain.UserStats
	for _, row := range rows {
		stats.Total += row.Count
		switch domain.Role(row.Role) {
		case domain.RoleAdmin:
			stats.Admins += row.Count
		case domain.RoleUser:
			stats.Users += row.Count
		}
	}
	return stats, nil
}

// EnsureIndexes creates the uniqueness indexes on the users collection.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email_lower", Value: 1}}, Options: options.Index().SetUnique(true).SetName(indexUserEmail)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true).SetName(indexUserUsername)},
		{Keys: bson.D{{Key: "email", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
