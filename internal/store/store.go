package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andresmejia3/facewire/internal/codec"
	"github.com/andresmejia3/facewire/internal/types"
	"github.com/andresmejia3/facewire/internal/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when no enrollment has the requested ID.
var ErrNotFound = errors.New("enrollment not found")

// ErrNoImage is returned by GetImage for an enrollment stored without an image.
var ErrNoImage = errors.New("enrollment has no image")

const (
	kindImage   = "image"
	kindImage3D = "image3d"
)

// Store keeps enrolled face templates in PostgreSQL as serialized wire bytes.
type Store struct {
	conn *pgx.Conn
}

// Enrollment describes one stored template without its payloads.
type Enrollment struct {
	ID        uuid.UUID
	Name      string
	ImageKind string
	FaceSize  int
	ImageSize int
	CreatedAt time.Time
}

// HasImage reports whether an image was stored alongside the face.
func (e Enrollment) HasImage() bool { return e.ImageKind != "" }

// New establishes a connection to the database and ensures the schema is initialized.
func New(ctx context.Context, connString string) (*Store, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, err
	}

	if err := initSchema(ctx, conn); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	return &Store{conn: conn}, nil
}

// initSchema creates the enrollment table if it does not exist (Auto-Migration).
func initSchema(ctx context.Context, conn *pgx.Conn) error {
	query := `
		CREATE TABLE IF NOT EXISTS enrolled_faces (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			face BYTEA NOT NULL,
			image BYTEA,
			image_kind TEXT CHECK (image_kind IN ('image', 'image3d')),
			content_id TEXT NOT NULL UNIQUE,
			created_at TIMESTAMPTZ DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS enrolled_faces_name_idx ON enrolled_faces (name);
	`
	_, err := conn.Exec(ctx, query)
	return err
}

// Close terminates the database connection.
func (s *Store) Close(ctx context.Context) {
	s.conn.Close(ctx)
}

// Enroll serializes face and the optional img and stores them under name.
// Enrolling the same face bytes again renames the existing row and replaces its
// image instead of adding a duplicate.
func (s *Store) Enroll(ctx context.Context, name string, face types.Face, img types.Serializable) (uuid.UUID, error) {
	faceBytes, err := codec.SerializeFace(face)
	if err != nil {
		return uuid.Nil, err
	}

	var imgBytes []byte
	var kind *string
	if img != nil {
		if imgBytes, err = codec.SerializeImage(img); err != nil {
			return uuid.Nil, err
		}
		k := imageKind(img)
		kind = &k
	}

	var id string
	err = s.conn.QueryRow(ctx, `
		INSERT INTO enrolled_faces (id, name, face, image, image_kind, content_id)
		VALUES ($1::uuid, $2, $3, $4, $5, $6)
		ON CONFLICT (content_id) DO UPDATE
			SET name = EXCLUDED.name, image = EXCLUDED.image, image_kind = EXCLUDED.image_kind
		RETURNING id::text
	`, uuid.NewString(), name, faceBytes, imgBytes, kind, utils.ContentID(faceBytes)).Scan(&id)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(id)
}

func imageKind(img types.Serializable) string {
	switch img.(type) {
	case types.Image3D, *types.Image3D:
		return kindImage3D
	}
	return kindImage
}

// GetFace loads and deserializes the face stored under id.
func (s *Store) GetFace(ctx context.Context, id uuid.UUID) (types.Face, error) {
	var data []byte
	err := s.conn.QueryRow(ctx, "SELECT face FROM enrolled_faces WHERE id = $1::uuid", id.String()).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.Face{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return types.Face{}, err
	}
	return codec.DeserializeFace(data)
}

// GetImage loads the image stored under id as the variant it was enrolled with.
func (s *Store) GetImage(ctx context.Context, id uuid.UUID) (types.Serializable, error) {
	var data []byte
	var kind *string
	err := s.conn.QueryRow(ctx, "SELECT image, image_kind FROM enrolled_faces WHERE id = $1::uuid", id.String()).Scan(&data, &kind)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if kind == nil {
		return nil, fmt.Errorf("%s: %w", id, ErrNoImage)
	}

	if *kind == kindImage3D {
		img, err := codec.DeserializeImage3D(data)
		if err != nil {
			return nil, err
		}
		return img, nil
	}
	img, err := codec.DeserializeImage(data)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// ListFaces returns every enrollment, oldest first.
func (s *Store) ListFaces(ctx context.Context) ([]Enrollment, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT id::text, name, COALESCE(image_kind, ''), length(face), COALESCE(length(image), 0), created_at
		FROM enrolled_faces
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Enrollment
	for rows.Next() {
		var e Enrollment
		var id string
		if err := rows.Scan(&id, &e.Name, &e.ImageKind, &e.FaceSize, &e.ImageSize, &e.CreatedAt); err != nil {
			return nil, err
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Rename updates the name of an enrollment.
func (s *Store) Rename(ctx context.Context, id uuid.UUID, newName string) error {
	tag, err := s.conn.Exec(ctx, "UPDATE enrolled_faces SET name = $1 WHERE id = $2::uuid", newName, id.String())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes an enrollment.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.conn.Exec(ctx, "DELETE FROM enrolled_faces WHERE id = $1::uuid", id.String())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}

// Reset drops the application tables to clear the database state.
// The next New recreates them.
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.conn.Exec(ctx, `DROP TABLE IF EXISTS enrolled_faces CASCADE;`)
	return err
}
