package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iho/gobank/internal/domain"
)

// ProfileRepository implements usecase.ProfileRepository on MongoDB. One
// document per user in the profiles collection, keyed by user_id.
type ProfileRepository struct {
	client     *mongo.Client
	database   string
	collection string
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(client *mongo.Client, database string) *ProfileRepository {
	return &ProfileRepository{
		client:     client,
		database:   database,
		collection: "profiles",
	}
}

type addressDoc struct {
	Street     string `bson:"street,omitempty"`
	City       string `bson:"city,omitempty"`
	State      string `bson:"state,omitempty"`
	Country    string `bson:"country,omitempty"`
	PostalCode string `bson:"postal_code,omitempty"`
}

type profileDoc struct {
	UserID               string          `bson:"user_id"`
	FirstName            string          `bson:"first_name"`
	LastName             string          `bson:"last_name"`
	Email                string          `bson:"email"`
	PhoneNumber          string          `bson:"phone_number,omitempty"`
	Address              addressDoc      `bson:"address,omitempty"`
	Accounts             []string        `bson:"accounts"`
	Tier                 string          `bson:"tier"`
	Preferences          map[string]any  `bson:"preferences,omitempty"`
	NotificationSettings map[string]bool `bson:"notification_settings,omitempty"`
	Active               bool            `bson:"active"`
	CreatedAt            time.Time       `bson:"created_at"`
	UpdatedAt            time.Time       `bson:"updated_at"`
}

func (r *ProfileRepository) col() *mongo.Collection {
	return r.client.Database(r.database).Collection(r.collection)
}

// GetByID returns the profile for userID, or domain.ErrProfileNotFound.
func (r *ProfileRepository) GetByID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	var doc profileDoc
	err := r.col().FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return doc.toDomain(), nil
}

// Update replaces the profile document, creating it if absent.
func (r *ProfileRepository) Update(ctx context.Context, profile *domain.UserProfile) error {
	doc := fromDomain(profile)
	opts := options.Replace().SetUpsert(true)
	_, err := r.col().ReplaceOne(ctx, bson.M{"user_id": profile.UserID}, doc, opts)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

func (doc *profileDoc) toDomain() *domain.UserProfile {
	return &domain.UserProfile{
		UserID:      doc.UserID,
		FirstName:   doc.FirstName,
		LastName:    doc.LastName,
		Email:       doc.Email,
		PhoneNumber: doc.PhoneNumber,
		Address: domain.Address{
			Street:     doc.Address.Street,
			City:       doc.Address.City,
			State:      doc.Address.State,
			Country:    doc.Address.Country,
			PostalCode: doc.Address.PostalCode,
		},
		Accounts:             doc.Accounts,
		Tier:                 domain.UserTier(doc.Tier),
		Preferences:          doc.Preferences,
		NotificationSettings: domain.NotificationSettings(doc.NotificationSettings),
		Active:               doc.Active,
		CreatedAt:            doc.CreatedAt,
		UpdatedAt:            doc.UpdatedAt,
	}
}

func fromDomain(p *domain.UserProfile) *profileDoc {
	return &profileDoc{
		UserID:      p.UserID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		PhoneNumber: p.PhoneNumber,
		Address: addressDoc{
			Street:     p.Address.Street,
			City:       p.Address.City,
			State:      p.Address.State,
			Country:    p.Address.Country,
			PostalCode: p.Address.PostalCode,
		},
		Accounts:             p.Accounts,
		Tier:                 string(p.Tier),
		Preferences:          p.Preferences,
		NotificationSettings: map[string]bool(p.NotificationSettings),
		Active:               p.Active,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}
