package authsvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/miteshanshu/Library-Management-System-Database/model"
	mtrepo "github.com/miteshanshu/Library-Management-System-Database/repository/membership"
	userrepo "github.com/miteshanshu/Library-Management-System-Database/repository/user"
	"github.com/miteshanshu/Library-Management-System-Database/util/apperr"
	"github.com/miteshanshu/Library-Management-System-Database/util/hash"
	jwtutil "github.com/miteshanshu/Library-Management-System-Database/util/jwt"
)

type Service interface {
	Login(ctx context.Context, req model.LoginReq) (*model.User, string, error)

	// RegisterStudent creates a student account plus its library member
	// record and returns the user with a fresh token.
	RegisterStudent(ctx context.Context, req model.RegisterStudentReq) (*model.User, string, error)

	// CreateLibrarian is the admin-only account creation path. No member
	// record is created and no token is issued.
	CreateLibrarian(ctx context.Context, req model.RegisterStudentReq) (*model.User, error)

	Me(ctx context.Context, userID int64) (*model.User, error)
}

type service struct {
	ur       userrepo.Repo
	mr       mtrepo.Repo
	secret   string
	ttlHours int
}

func New(ur userrepo.Repo, mr mtrepo.Repo, secret string, ttlHours int) Service {
	return &service{ur: ur, mr: mr, secret: secret, ttlHours: ttlHours}
}

func (s *service) Login(ctx context.Context, req model.LoginReq) (*model.User, string, error) {
	u, err := s.ur.ByEmail(ctx, req.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", apperr.Authentication("invalid email or password")
	}
	if err != nil {
		return nil, "", apperr.Internal(err)
	}
	if !hash.Check(u.PasswordHash, req.Password) {
		return nil, "", apperr.Authentication("invalid email or password")
	}
	if !u.IsActive {
		return nil, "", apperr.Authentication("account is deactivated")
	}

	token, err := s.issue(u)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}
	return u, token, nil
}

func (s *service) RegisterStudent(ctx context.Context, req model.RegisterStudentReq) (*model.User, string, error) {
	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}

	mt, err := s.mr.DefaultMembershipType(ctx)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}

	u := &model.User{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hashed,
		Role:         model.RoleStudent,
	}

	if _, err := s.ur.RegisterStudent(ctx, u, newCardNumber(), mt.ID); err != nil {
		if derr := mapDuplicateErr(err); derr != nil {
			return nil, "", derr
		}
		return nil, "", apperr.Internal(err)
	}

	token, err := s.issue(u)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}
	return u, token, nil
}

func (s *service) CreateLibrarian(ctx context.Context, req model.RegisterStudentReq) (*model.User, error) {
	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	u := &model.User{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hashed,
		Role:         model.RoleLibrarian,
	}
	if err := s.ur.Create(ctx, u); err != nil {
		if derr := mapDuplicateErr(err); derr != nil {
			return nil, derr
		}
		return nil, apperr.Internal(err)
	}
	return u, nil
}

func (s *service) Me(ctx context.Context, userID int64) (*model.User, error) {
	u, err := s.ur.ByID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return u, nil
}

func (s *service) issue(u *model.User) (string, error) {
	return jwtutil.Issue(s.secret, jwtutil.Claims{
		UserID:   u.ID,
		Email:    u.Email,
		Role:     string(u.Role),
		FullName: u.FullName,
	}, s.ttlHours)
}

// newCardNumber mints a library card number. Uniqueness is ultimately
// enforced by the members.card_number constraint.
func newCardNumber() string {
	return "LIB-" + strings.ToUpper(uuid.NewString()[:8])
}

func mapDuplicateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		cn := strings.ToLower(pgErr.ConstraintName)
		msg := strings.ToLower(pgErr.Message)
		if strings.Contains(cn, "email") || strings.Contains(msg, "email") {
			return apperr.Validation("email already registered")
		}
		if strings.Contains(cn, "card_number") || strings.Contains(msg, "card_number") {
			return apperr.Validation("card number already in use")
		}
		return apperr.Validation("duplicate value")
	}
	return nil
}
