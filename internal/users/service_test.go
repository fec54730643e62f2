package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/media2net-app/bloemenvandegier-sub001/pkg/config"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
	pkgerrors "github.com/media2net-app/bloemenvandegier-sub001/pkg/errors"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/security"
)

type stubUserRepo struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User
	updated *models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: map[string]*models.User{}, byID: map[uuid.UUID]*models.User{}}
}

func (s *stubUserRepo) add(user *models.User) {
	s.byEmail[user.Email] = user
	s.byID[user.ID] = user
}

func (s *stubUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = uuid.New()
	s.add(user)
	return nil
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) Update(_ context.Context, user *models.User) error {
	s.updated = user
	return nil
}

func newTestService(t *testing.T, repo UserRepository) Service {
	t.Helper()
	svc, err := NewService(repo, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func TestRegisterCreatesCustomer(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepo()
	svc := newTestService(t, repo)

	dto, err := svc.Register(context.Background(), RegisterInput{
		Email:     " Klant@Example.COM ",
		Password:  "hortensia8",
		FirstName: "Fleur",
		LastName:  "de Gier",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.Email != "klant@example.com" {
		t.Fatalf("expected normalized email, got %q", dto.Email)
	}
	if dto.Role != string(enums.UserRoleCustomer) {
		t.Fatalf("expected customer role, got %q", dto.Role)
	}

	stored := repo.byEmail["klant@example.com"]
	if stored == nil || stored.PasswordHash == "hortensia8" {
		t.Fatal("expected password to be hashed")
	}
	if ok, err := security.VerifyPassword("hortensia8", stored.PasswordHash); err != nil || !ok {
		t.Fatalf("expected hash to verify, got ok=%t err=%v", ok, err)
	}
}

func TestRegisterValidates(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubUserRepo())

	cases := []struct {
		name  string
		input RegisterInput
	}{
		{"missing email", RegisterInput{Password: "hortensia8", FirstName: "F", LastName: "G"}},
		{"bad email", RegisterInput{Email: "nope", Password: "hortensia8", FirstName: "F", LastName: "G"}},
		{"short password", RegisterInput{Email: "a@b.nl", Password: "kort", FirstName: "F", LastName: "G"}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.Register(context.Background(), tc.input)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepo()
	repo.add(&models.User{ID: uuid.New(), Email: "klant@example.com"})
	svc := newTestService(t, repo)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:     "klant@example.com",
		Password:  "hortensia8",
		FirstName: "Fleur",
		LastName:  "de Gier",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	hash, err := security.HashPassword("oud-wachtwoord", config.PasswordConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	user := &models.User{ID: uuid.New(), Email: "klant@example.com", PasswordHash: hash}
	repo := newStubUserRepo()
	repo.add(user)
	svc := newTestService(t, repo)

	err = svc.ChangePassword(context.Background(), user.ID, "fout-wachtwoord", "nieuw-wachtwoord")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	if err := svc.ChangePassword(context.Background(), user.ID, "oud-wachtwoord", "nieuw-wachtwoord"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.updated == nil {
		t.Fatal("expected user to be saved")
	}
	if ok, _ := security.VerifyPassword("nieuw-wachtwoord", repo.updated.PasswordHash); !ok {
		t.Fatal("expected new password to verify")
	}
}
