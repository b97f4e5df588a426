package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Identity is the stored account record backing email/password sign-in.
type Identity struct {
	bun.BaseModel `bun:"table:identities,alias:idn"`

	ID           uuid.UUID  `bun:"id,pk,notnull" json:"id"`
	Email        string     `bun:"email,notnull,unique" json:"email"`
	DisplayName  string     `bun:"display_name" json:"display_name"`
	PasswordHash string     `bun:"password_hash,notnull" json:"-"`
	CreatedAt    time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
	DeletedAt    *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// Identities is the slice of the repository the provider needs. Keeping it
// narrow makes the provider testable without a database.
type Identities interface {
	GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*Identity, error)
	Create(ctx context.Context, record *Identity, criteria ...repository.InsertCriteria) (*Identity, error)
}

type identities struct {
	repository.Repository[*Identity]
	db *bun.DB
}

var _ Identities = (*identities)(nil)

// NewIdentitiesRepository returns the bun-backed identity repository. Lookups
// resolve by ID or email, whichever the identifier parses as.
func NewIdentitiesRepository(db *bun.DB) Identities {
	repo := repository.NewRepository[*Identity](db, repository.ModelHandlers[*Identity]{
		NewRecord: func() *Identity { return &Identity{} },
		GetID: func(i *Identity) uuid.UUID {
			if i == nil {
				return uuid.Nil
			}
			return i.ID
		},
		SetID: func(i *Identity, id uuid.UUID) {
			if i != nil {
				i.ID = id
			}
		},
	})

	return &identities{
		Repository: repo,
		db:         db,
	}
}

func (r *identities) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*Identity, error) {
	column := "email"
	if _, err := uuid.Parse(identifier); err == nil {
		column = "id"
	}

	record := &Identity{}
	q := r.db.NewSelect().Model(record)

	for _, c := range criteria {
		q.Apply(c)
	}

	err := q.
		Where(fmt.Sprintf("?TableAlias.%s = ?", column), identifier).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"identifier": identifier,
				})
		}
		return nil, err
	}

	return record, nil
}

// Migrate creates the identities table when it does not exist yet.
func Migrate(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().
		Model((*Identity)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}
