// Package account registers and authenticates players.
package account

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"headsup-server/internal/util"
	"headsup-server/pkg/ledger"
	"headsup-server/pkg/model"

	"github.com/badoux/checkmail"
	"github.com/sirupsen/logrus"
	"github.com/synacor/argon2id"
)

// MinPasswordLength is the shortest password allowed
const MinPasswordLength = 6

// ErrInvalidEmailOrPassword is an error for an invalid email or password
var ErrInvalidEmailOrPassword = model.UserError("invalid email address and/or password")

// registration errors
var (
	ErrInvalidDisplayName = model.UserError("display name must only contain letters, numbers, and spaces, and be 40 characters or less")
	ErrInvalidEmail       = model.UserError("missing or invalid email address")
	ErrPasswordTooShort   = model.UserError("password must be 6 or more characters")
	ErrInvalidAmount      = model.UserError("amount cannot be zero")
)

var validDisplayNameRx = regexp.MustCompile(`^[\p{L}\p{N} ]{0,40}\z`)

// Registration is the information needed to create a player
type Registration struct {
	Email       string
	DisplayName string
	Password    string
	IsSiteAdmin bool
}

// Service manages players
type Service struct {
	store           ledger.Store
	startingBalance int64
}

// NewService returns a new Service
// Every registered player starts with startingBalance.
func NewService(store ledger.Store, startingBalance int64) *Service {
	return &Service{
		store:           store,
		startingBalance: startingBalance,
	}
}

// Register validates the registration and creates the player
// A random display name is assigned if one isn't provided.
func (s *Service) Register(ctx context.Context, reg Registration) (*model.Player, error) {
	displayName := strings.TrimSpace(reg.DisplayName)
	if !validDisplayNameRx.MatchString(displayName) {
		return nil, ErrInvalidDisplayName
	}

	if displayName == "" {
		displayName = util.GetRandomName()
	}

	email := strings.TrimSpace(reg.Email)
	if err := checkmail.ValidateFormat(email); err != nil {
		return nil, ErrInvalidEmail
	}

	if len(reg.Password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := argon2id.DefaultHashPassword(reg.Password)
	if err != nil {
		return nil, err
	}

	player, err := s.store.CreatePlayer(ctx, &model.Player{
		Email:        email,
		DisplayName:  displayName,
		IsSiteAdmin:  reg.IsSiteAdmin,
		PasswordHash: hash,
		Balance:      s.startingBalance,
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"playerID":    player.ID,
		"displayName": player.DisplayName,
	}).Info("registered player")

	return player, nil
}

// Authenticate returns the player if the email and password are valid
func (s *Service) Authenticate(ctx context.Context, email, password string) (*model.Player, error) {
	player, err := s.store.GetPlayerByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			// prevent timing attacks
			_ = argon2id.Compare("", "")
			return nil, ErrInvalidEmailOrPassword
		}

		return nil, err
	}

	if err := argon2id.Compare(player.PasswordHash, password); err != nil {
		return nil, ErrInvalidEmailOrPassword
	}

	return player, nil
}

// GetPlayer returns a player by ID
func (s *Service) GetPlayer(ctx context.Context, id int64) (*model.Player, error) {
	return s.store.GetPlayerByID(ctx, id)
}

// ListPlayers returns players ordered by ID
func (s *Service) ListPlayers(ctx context.Context, offset int64, limit int) ([]*model.Player, error) {
	return s.store.ListPlayers(ctx, offset, limit)
}

// AdjustBalance credits (or debits, if amount is negative) the player's balance
// The balance can never go below zero.
func (s *Service) AdjustBalance(ctx context.Context, playerID, amount int64) (int64, error) {
	if amount == 0 {
		return 0, ErrInvalidAmount
	}

	balance, err := s.store.AdjustBalance(ctx, playerID, amount)
	if err != nil {
		return 0, err
	}

	logrus.WithFields(logrus.Fields{
		"playerID": playerID,
		"amount":   amount,
		"balance":  balance,
	}).Info("adjusted balance")

	return balance, nil
}
