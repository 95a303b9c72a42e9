package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/dcpatrol/patrol/internal/domain/models"
	"github.com/dcpatrol/patrol/internal/domain/ports"
	"github.com/dcpatrol/patrol/internal/metrics"
	"github.com/dcpatrol/patrol/internal/observability"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

// Provider is the local credential store and token issuer. Accounts and
// login history live in the same document store as the inspection
// documents. This is a demo-grade scheme and makes no real security
// guarantees.
type Provider struct {
	mu       sync.Mutex
	store    ports.DocumentStore
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
	logger   observability.Logger

	accounts     []models.Account
	loginHistory map[string]time.Time
}

var (
	_ ports.AuthProvider     = (*Provider)(nil)
	_ ports.AccountRegistrar = (*Provider)(nil)
)

// ProviderOption configures the provider
type ProviderOption func(*Provider)

// WithClock overrides the time source, used by tests
func WithClock(now func() time.Time) ProviderOption {
	return func(p *Provider) { p.now = now }
}

// NewProvider creates the local auth provider. When no accounts
// document exists the three demo accounts (admin, engineer, viewer; all
// with password "password123") are seeded and persisted.
func NewProvider(ctx context.Context, store ports.DocumentStore, secret string, tokenTTL time.Duration, opts ...ProviderOption) (*Provider, error) {
	p := &Provider{
		store:        store,
		secret:       []byte(secret),
		tokenTTL:     tokenTTL,
		now:          time.Now,
		logger:       observability.New("auth-provider", ""),
		loginHistory: map[string]time.Time{},
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.load(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Provider) load(ctx context.Context) error {
	raw, err := p.store.Load(ctx, ports.KeyAccounts)
	switch {
	case errors.Is(err, ports.ErrKeyNotFound):
		seeded, err := seedAccounts(p.now())
		if err != nil {
			return err
		}
		p.accounts = seeded
		if err := p.saveAccounts(ctx); err != nil {
			p.logger.Warnw("failed to persist seeded accounts", "error", err)
		}
	case err != nil:
		p.logger.Warnw("accounts load failed, seeding defaults", "error", err)
		p.accounts, err = seedAccounts(p.now())
		if err != nil {
			return err
		}
	default:
		if err := json.Unmarshal(raw, &p.accounts); err != nil {
			p.logger.Warnw("accounts document unparseable, seeding defaults", "error", err)
			p.accounts, err = seedAccounts(p.now())
			if err != nil {
				return err
			}
		}
	}

	if raw, err := p.store.Load(ctx, ports.KeyLoginHistory); err == nil {
		var history map[string]time.Time
		if err := json.Unmarshal(raw, &history); err == nil && history != nil {
			p.loginHistory = history
		}
	}
	return nil
}

// seedAccounts builds the demo account set of the original deployment
func seedAccounts(now time.Time) ([]models.Account, error) {
	demos := []struct {
		username string
		fullName string
		email    string
		role     models.Role
	}{
		{"admin", "Xia Xiuping", "admin@example.edu", models.RoleAdmin},
		{"engineer", "Chen Ruixi", "engineer@example.edu", models.RoleEngineer},
		{"viewer", "Zhang Xin", "viewer@example.edu", models.RoleViewer},
	}

	accounts := make([]models.Account, 0, len(demos))
	for _, d := range demos {
		hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash demo password: %w", err)
		}
		accounts = append(accounts, models.Account{
			ID:           uuid.NewString(),
			Username:     d.username,
			FullName:     d.fullName,
			Email:        d.email,
			PasswordHash: string(hash),
			Role:         d.role,
			Status:       models.AccountStatusActive,
			CreatedAt:    now,
		})
	}
	return accounts, nil
}

func (p *Provider) saveAccounts(ctx context.Context) error {
	raw, err := json.Marshal(p.accounts)
	if err != nil {
		return fmt.Errorf("marshal accounts: %w", err)
	}
	if err := p.store.Save(ctx, ports.KeyAccounts, raw); err != nil {
		return fmt.Errorf("%w: save accounts: %v", models.ErrPersistence, err)
	}
	return nil
}

func (p *Provider) saveLoginHistory(ctx context.Context) error {
	raw, err := json.Marshal(p.loginHistory)
	if err != nil {
		return fmt.Errorf("marshal login history: %w", err)
	}
	if err := p.store.Save(ctx, ports.KeyLoginHistory, raw); err != nil {
		return fmt.Errorf("%w: save login history: %v", models.ErrPersistence, err)
	}
	return nil
}

func (p *Provider) findAccount(username string) *models.Account {
	for i := range p.accounts {
		if p.accounts[i].Username == username {
			return &p.accounts[i]
		}
	}
	return nil
}

// Authenticate validates credentials and issues a session token.
// Pending and inactive accounts are rejected even with correct
// credentials.
func (p *Provider) Authenticate(ctx context.Context, username, password string) (*models.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	account := p.findAccount(username)
	if account == nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, models.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		p.logger.Warnw("login rejected, bad password", "username", username)
		return nil, models.ErrInvalidCredentials
	}
	switch account.Status {
	case models.AccountStatusPending:
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, models.ErrAccountPending
	case models.AccountStatusInactive:
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, models.ErrAccountInactive
	}

	now := p.now()
	token, err := p.issueToken(account, now)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	var lastLogin *time.Time
	if prev, ok := p.loginHistory[username]; ok {
		t := prev
		lastLogin = &t
	}
	p.loginHistory[username] = now
	if err := p.saveLoginHistory(ctx); err != nil {
		p.logger.Warnw("failed to persist login history", "username", username, "error", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	p.logger.Infow("login succeeded", "username", username, "role", account.Role)

	return &models.Session{
		Account:   account.Sanitized(),
		Token:     token,
		LoginTime: now,
		LastLogin: lastLogin,
	}, nil
}

func (p *Provider) issueToken(account *models.Account, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  account.Username,
		"role": string(account.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(p.tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

// Verify resolves a token back to its account
func (p *Provider) Verify(ctx context.Context, token string) (*models.Account, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return p.now() }))
	if err != nil || !parsed.Valid {
		return nil, models.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.ErrInvalidToken
	}
	username, _ := claims["sub"].(string)

	p.mu.Lock()
	defer p.mu.Unlock()
	account := p.findAccount(username)
	if account == nil || account.Status != models.AccountStatusActive {
		return nil, models.ErrInvalidToken
	}
	out := account.Sanitized()
	return &out, nil
}

// Register creates a new pending account after field validation
func (p *Provider) Register(ctx context.Context, req ports.RegistrationRequest) (*models.Account, error) {
	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, a := range p.accounts {
		if a.Username == req.Username || a.Email == req.Email {
			return nil, models.ErrAccountExists
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := models.Account{
		ID:           uuid.NewString(),
		Username:     req.Username,
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         req.Role,
		Status:       models.AccountStatusPending,
		Department:   req.Department,
		CreatedAt:    p.now(),
	}
	p.accounts = append(p.accounts, account)

	if err := p.saveAccounts(ctx); err != nil {
		return nil, err
	}

	p.logger.Infow("account registered, awaiting activation", "username", account.Username, "role", account.Role)
	out := account.Sanitized()
	return &out, nil
}

func validateRegistration(req ports.RegistrationRequest) error {
	if len(req.Username) < 3 || len(req.Username) > 20 {
		return errors.New("username must be 3-20 characters")
	}
	if len(req.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if req.FullName == "" {
		return errors.New("full name is required")
	}
	if !emailRegex.MatchString(req.Email) {
		return errors.New("invalid email address")
	}
	if req.Phone != "" && !phoneRegex.MatchString(req.Phone) {
		return errors.New("invalid phone number")
	}
	if err := models.ValidateRole(req.Role); err != nil {
		return err
	}
	return nil
}
