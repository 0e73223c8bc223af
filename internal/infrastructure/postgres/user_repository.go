package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pharmaser/estado-medicamentos/internal/domain"
	"github.com/pharmaser/estado-medicamentos/internal/domain/entity"
	"github.com/pharmaser/estado-medicamentos/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario. El username llega ya normalizado (minúsculas).
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO usuarios (id, usuario, contrasena_hash, correo, rol, creado_en)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Username, user.PasswordHash, user.Email, user.Role, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateUser
		}
		return fmt.Errorf("insert usuario: %w", err)
	}
	return nil
}

// FindByUsername obtiene un usuario por username normalizado. (nil, nil) si no existe.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	query := `
		SELECT id, usuario, contrasena_hash, correo, rol, creado_en
		FROM usuarios WHERE usuario = $1`
	var u entity.User
	err := r.q.QueryRow(ctx, query, username).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.Role, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usuario por username: %w", err)
	}
	return &u, nil
}

// List devuelve todos los usuarios en orden de creación.
func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	query := `
		SELECT id, usuario, contrasena_hash, correo, rol, creado_en
		FROM usuarios ORDER BY creado_en`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list usuarios: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan usuario: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// Count devuelve el número de usuarios registrados.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM usuarios`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count usuarios: %w", err)
	}
	return n, nil
}
