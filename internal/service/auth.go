package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/epasal/epasal-backend/internal/model"
)

var (
	ErrEmailTaken         = errors.New("email already exists")
	ErrPhoneTaken         = errors.New("phone number already exists")
	ErrInvalidTempID      = errors.New("invalid temp_id")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService struct {
	pool   *pgxpool.Pool
	mailer *Mailer
	log    zerolog.Logger
}

func NewAuthService(pool *pgxpool.Pool, mailer *Mailer, log zerolog.Logger) *AuthService {
	return &AuthService{
		pool:   pool,
		mailer: mailer,
		log:    log.With().Str("component", "auth").Logger(),
	}
}

type SignupInput struct {
	Name     string
	Number   string
	Email    string
	Password string
}

// BeginSignup stages a new account: conflict check, password hash, temp user
// insert and OTP email. The account only materialises after Verify.
func (s *AuthService) BeginSignup(ctx context.Context, in SignupInput) (*model.TempUser, error) {
	var exists int
	err := s.pool.QueryRow(ctx,
		"SELECT 1 FROM logininfo WHERE email = $1 OR phone_number = $2",
		in.Email, in.Number,
	).Scan(&exists)
	if err == nil {
		return nil, s.conflictField(ctx, in.Email)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := generateOTP()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP: %w", err)
	}

	temp := &model.TempUser{
		TempID:   "signup" + uuid.NewString(),
		Name:     in.Name,
		Number:   in.Number,
		Email:    in.Email,
		Password: string(hashed),
		Code:     code,
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO temp_users (temp_id, name, number, gmail, password, code)
         VALUES ($1, $2, $3, $4, $5, $6)`,
		temp.TempID, temp.Name, temp.Number, temp.Email, temp.Password, temp.Code,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to stage signup: %w", err)
	}

	if err := s.mailer.SendOTP(temp.Email, temp.Code); err != nil {
		return nil, fmt.Errorf("failed to send OTP email: %w", err)
	}

	return temp, nil
}

func (s *AuthService) conflictField(ctx context.Context, email string) error {
	var exists int
	err := s.pool.QueryRow(ctx, "SELECT 1 FROM logininfo WHERE email = $1", email).Scan(&exists)
	return classifyConflict(err)
}

// classifyConflict maps the email re-check result to a signup conflict. A row
// means the email is taken, no row means the phone matched; anything else is
// a storage failure, not a conflict.
func classifyConflict(lookupErr error) error {
	switch {
	case lookupErr == nil:
		return ErrEmailTaken
	case errors.Is(lookupErr, pgx.ErrNoRows):
		return ErrPhoneTaken
	default:
		return fmt.Errorf("failed to identify signup conflict: %w", lookupErr)
	}
}

// Verify promotes a staged signup into logininfo and removes the temp row.
func (s *AuthService) Verify(ctx context.Context, tempID string) error {
	var temp model.TempUser
	err := s.pool.QueryRow(ctx,
		"SELECT name, number, gmail, password FROM temp_users WHERE temp_id = $1", tempID,
	).Scan(&temp.Name, &temp.Number, &temp.Email, &temp.Password)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrInvalidTempID
	}
	if err != nil {
		return fmt.Errorf("failed to look up staged signup: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO logininfo (name, phone_number, email, password, status)
         VALUES ($1, $2, $3, $4, 'user')`,
		temp.Name, temp.Number, temp.Email, temp.Password,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if _, err := s.pool.Exec(ctx, "DELETE FROM temp_users WHERE temp_id = $1", tempID); err != nil {
		return fmt.Errorf("failed to clear staged signup: %w", err)
	}

	return nil
}

// Login verifies credentials and opens a 24 hour DB-backed session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.Session, error) {
	var (
		userID int
		hashed string
		status string
	)
	err := s.pool.QueryRow(ctx,
		"SELECT id, password, status FROM logininfo WHERE email = $1", email,
	).Scan(&userID, &hashed, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	data, err := json.Marshal(map[string]any{
		"user_id": userID,
		"email":   email,
		"status":  status,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session data: %w", err)
	}

	session := &model.Session{
		ID:        sessionID,
		UserID:    userID,
		Data:      data,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}

	_, err = s.pool.Exec(ctx,
		"INSERT INTO sessions (id, user_id, data, created_at, expires_at) VALUES ($1, $2, $3, $4, $5)",
		session.ID, session.UserID, session.Data, session.CreatedAt, session.ExpiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	_, err := s.pool.Exec(ctx, "DELETE FROM sessions WHERE id = $1", sessionID)
	return err
}

func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	var session model.Session
	err := s.pool.QueryRow(ctx,
		"SELECT id, user_id, data, created_at, expires_at FROM sessions WHERE id = $1 AND expires_at > NOW()",
		sessionID,
	).Scan(&session.ID, &session.UserID, &session.Data, &session.CreatedAt, &session.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("session not found or expired")
	}
	return &session, nil
}

// UserInfo returns the public profile for a user id.
func (s *AuthService) UserInfo(ctx context.Context, userID int) (*model.UserInfo, error) {
	var info model.UserInfo
	err := s.pool.QueryRow(ctx,
		`SELECT id AS user_id, name, email, phone_number, balance
         FROM logininfo WHERE id = $1`, userID,
	).Scan(&info.UserID, &info.Name, &info.Email, &info.PhoneNumber, &info.Balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	return &info, nil
}

func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// generateOTP returns a five digit verification code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(90000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%05d", n.Int64()+10000), nil
}
