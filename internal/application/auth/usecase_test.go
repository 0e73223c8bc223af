package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmaser/estado-medicamentos/internal/application/dto"
	"github.com/pharmaser/estado-medicamentos/internal/domain"
	"github.com/pharmaser/estado-medicamentos/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake en memoria del repositorio de usuarios
// ──────────────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	users []*entity.User
}

func (f *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	for _, u := range f.users {
		if u.Username == user.Username {
			return domain.ErrDuplicateUser
		}
	}
	cp := *user
	f.users = append(f.users, &cp)
	return nil
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) List(_ context.Context) ([]*entity.User, error) {
	return f.users, nil
}

func (f *fakeUserRepo) Count(_ context.Context) (int, error) {
	return len(f.users), nil
}

func newTestUseCase(repo *fakeUserRepo, opts Options) *UseCase {
	return NewUseCase(repo, JWTConfig{
		Secret:     "test-secret",
		ExpMinutes: 60,
		Issuer:     "control-medicamentos-test",
	}, opts)
}

// ──────────────────────────────────────────────────────────────────────────────
// Register
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_NormalizaUsernameYHasheaPassword(t *testing.T) {
	repo := &fakeUserRepo{}
	uc := newTestUseCase(repo, Options{})

	out, err := uc.Register(context.Background(), dto.RegisterRequest{
		Username: "  Maria.Lopez ",
		Password: "clave123",
	})
	require.NoError(t, err)
	assert.Equal(t, "maria.lopez", out.Username, "el username se guarda en minúsculas")
	assert.Equal(t, entity.RoleConsulta, out.Role, "rol por defecto")

	require.Len(t, repo.users, 1)
	assert.NotEqual(t, "clave123", repo.users[0].PasswordHash, "la contraseña nunca se persiste en texto plano")
}

func TestRegister_DuplicadoCaseInsensitive(t *testing.T) {
	repo := &fakeUserRepo{}
	uc := newTestUseCase(repo, Options{})

	_, err := uc.Register(context.Background(), dto.RegisterRequest{Username: "carlos", Password: "abc123"})
	require.NoError(t, err)

	// Mismo usuario con otra capitalización: debe rechazarse sin tocar la tabla.
	_, err = uc.Register(context.Background(), dto.RegisterRequest{Username: "CARLOS", Password: "otra456"})
	assert.ErrorIs(t, err, domain.ErrDuplicateUser)
	assert.Len(t, repo.users, 1, "el segundo registro no debe agregar filas")
}

func TestRegister_CamposVacios(t *testing.T) {
	uc := newTestUseCase(&fakeUserRepo{}, Options{})

	_, err := uc.Register(context.Background(), dto.RegisterRequest{Username: "", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.Register(context.Background(), dto.RegisterRequest{Username: "x", Password: "   "})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRegister_DominioCorporativo(t *testing.T) {
	uc := newTestUseCase(&fakeUserRepo{}, Options{EmailDomain: "@pharmaser.com.co"})

	_, err := uc.Register(context.Background(), dto.RegisterRequest{
		Username: "ana", Password: "abc123", Email: "ana@gmail.com",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = uc.Register(context.Background(), dto.RegisterRequest{
		Username: "ana", Password: "abc123", Email: "Ana@Pharmaser.com.co",
	})
	assert.NoError(t, err, "el sufijo se compara case-insensitive")

	// Sin correo no aplica la restricción.
	_, err = uc.Register(context.Background(), dto.RegisterRequest{Username: "luis", Password: "abc123"})
	assert.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_CredencialesCorrectas(t *testing.T) {
	repo := &fakeUserRepo{}
	uc := newTestUseCase(repo, Options{})

	_, err := uc.Register(context.Background(), dto.RegisterRequest{Username: "admin", Password: "250382"})
	require.NoError(t, err)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Username: "ADMIN", Password: "250382"})
	require.NoError(t, err, "el username hace match case-insensitive")
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "admin", out.User.Username)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	repo := &fakeUserRepo{}
	uc := newTestUseCase(repo, Options{})

	_, err := uc.Register(context.Background(), dto.RegisterRequest{Username: "admin", Password: "250382"})
	require.NoError(t, err)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	uc := newTestUseCase(&fakeUserRepo{}, Options{})

	_, err := uc.Login(context.Background(), dto.LoginRequest{Username: "nadie", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ──────────────────────────────────────────────────────────────────────────────
// Bootstrap del admin
// ──────────────────────────────────────────────────────────────────────────────

func TestEnsureDefaultAdmin_SiembraSoloConTablaVacia(t *testing.T) {
	repo := &fakeUserRepo{}
	uc := newTestUseCase(repo, Options{AdminUser: "admin", AdminPassword: "250382"})

	require.NoError(t, uc.EnsureDefaultAdmin(context.Background()))
	require.Len(t, repo.users, 1)
	assert.Equal(t, "admin", repo.users[0].Username)
	assert.Equal(t, entity.RoleAdmin, repo.users[0].Role)

	// Con el admin sembrado debe poderse iniciar sesión (escenario de aceptación).
	_, err := uc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "250382"})
	assert.NoError(t, err)

	// Segunda llamada: tabla no vacía, no siembra otra vez.
	require.NoError(t, uc.EnsureDefaultAdmin(context.Background()))
	assert.Len(t, repo.users, 1)
}
