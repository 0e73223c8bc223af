package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pharmaser/estado-medicamentos/internal/application/dto"
	"github.com/pharmaser/estado-medicamentos/internal/domain"
	"github.com/pharmaser/estado-medicamentos/internal/domain/entity"
	"github.com/pharmaser/estado-medicamentos/internal/domain/repository"
	"github.com/pharmaser/estado-medicamentos/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Options reglas de identidad configurables.
type Options struct {
	// EmailDomain sufijo obligatorio del correo de registro, ej. "@pharmaser.com.co".
	// Vacío desactiva la restricción.
	EmailDomain string
	// AdminUser/AdminPassword semilla cuando la tabla de usuarios está vacía.
	AdminUser     string
	AdminPassword string
}

// UseCase casos de uso de autenticación: login, registro y bootstrap del admin.
type UseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	opts     Options
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig, opts Options) *UseCase {
	return &UseCase{userRepo: userRepo, jwtCfg: jwtCfg, opts: opts}
}

// Register crea un usuario: normaliza el username a minúsculas, hashea la
// contraseña con bcrypt y persiste. Devuelve ErrDuplicateUser si el username ya
// existe (case-insensitive) y ErrInvalidEmail si el correo no pertenece al
// dominio corporativo configurado.
func (uc *UseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	username := entity.NormalizeUsername(in.Username)
	password := strings.TrimSpace(in.Password)
	if username == "" || password == "" {
		return nil, domain.ErrValidation
	}
	if uc.opts.EmailDomain != "" && in.Email != "" &&
		!strings.HasSuffix(strings.ToLower(in.Email), strings.ToLower(uc.opts.EmailDomain)) {
		return nil, domain.ErrInvalidEmail
	}
	existing, err := uc.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateUser
	}
	role := in.Role
	if role == "" {
		role = entity.RoleConsulta
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		Email:        strings.TrimSpace(in.Email),
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica username/contraseña, genera JWT y retorna token + usuario.
// El match de username es case-insensitive; la contraseña se compara contra el hash.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	username := entity.NormalizeUsername(in.Username)
	user, err := uc.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(strings.TrimSpace(in.Password))); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.Username, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

// ListUsers lista todos los usuarios (pantalla de gestión, solo admin).
func (uc *UseCase) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *toUserResponse(u))
	}
	return out, nil
}

// EnsureDefaultAdmin siembra el usuario admin configurado si la tabla está vacía.
// Un error de lectura se propaga: no se enmascara regenerando la tabla.
func (uc *UseCase) EnsureDefaultAdmin(ctx context.Context) error {
	n, err := uc.userRepo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(uc.opts.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &entity.User{
		ID:           uuid.New().String(),
		Username:     entity.NormalizeUsername(uc.opts.AdminUser),
		PasswordHash: string(hash),
		Role:         entity.RoleAdmin,
		CreatedAt:    time.Now(),
	}
	return uc.userRepo.Create(ctx, admin)
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
