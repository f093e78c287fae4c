package controllers

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/watchlistarr/internal/models"
	"github.com/amaumene/watchlistarr/internal/store"
)

var userIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

const maxUserIDLength = 16

// AuthController handles registration, login, logout and account changes.
type AuthController struct {
	store    *store.Store
	validate *validator.Validate
	logger   *logrus.Logger
}

// NewAuthController creates a new auth controller.
func NewAuthController(st *store.Store, logger *logrus.Logger) *AuthController {
	return &AuthController{
		store:    st,
		validate: validator.New(),
		logger:   logger,
	}
}

func (c *AuthController) validateUserID(id string) error {
	if id == "" {
		return models.ErrEmptyField
	}
	if len(id) > maxUserIDLength {
		return models.ErrUserIDTooLong
	}
	if !userIDPattern.MatchString(id) {
		return models.ErrInvalidUserID
	}
	return nil
}

func (c *AuthController) validateEmail(email string) error {
	if email == "" {
		return models.ErrEmptyField
	}
	if err := c.validate.Var(email, "email"); err != nil {
		return models.ErrInvalidEmail
	}
	return nil
}

// Register adds a new user, starts their session and hydrates their (empty)
// watchlist slice. ID and email must be unique across all registered users.
func (c *AuthController) Register(id, email string) error {
	if err := c.validateUserID(id); err != nil {
		return err
	}
	if err := c.validateEmail(email); err != nil {
		return err
	}

	users, _ := c.store.RegisteredUsers()
	for _, u := range users {
		if u.Email == email {
			return models.ErrEmailExists
		}
		if u.ID == id {
			return models.ErrUserExists
		}
	}

	users = append(users, models.User{ID: id, Email: email})
	if err := c.store.SetRegisteredUsers(users); err != nil {
		return err
	}
	if err := c.store.SetCurrentSession(id); err != nil {
		return err
	}
	c.store.RefreshWatchlists()

	c.logger.WithField("user_id", id).Info("User registered")
	return nil
}

// Login activates the session for an existing user. The supplied email must
// match the one registered for that user id.
func (c *AuthController) Login(id, email string) error {
	users, _ := c.store.RegisteredUsers()

	var user *models.User
	for i := range users {
		if users[i].ID == id {
			user = &users[i]
			break
		}
	}
	if user == nil {
		return models.ErrUserNotFound
	}
	if user.Email != email {
		return models.ErrEmailMismatch
	}

	if err := c.store.SetCurrentSession(id); err != nil {
		return err
	}
	c.store.RefreshWatchlists()

	c.logger.WithField("user_id", id).Info("User logged in")
	return nil
}

// Logout clears the session flag and re-hydrates state from durable
// storage.
func (c *AuthController) Logout() error {
	userID, _ := c.store.CurrentUserID()
	if err := c.store.ClearSession(); err != nil {
		return err
	}
	c.store.RefreshUsers()

	c.logger.WithField("user_id", userID).Info("User logged out")
	return nil
}

// SaveAccount applies account-settings changes for the session user. Empty
// newID or newEmail means "keep the current value". Changing the id also
// moves the durable watchlist entry to the new key.
func (c *AuthController) SaveAccount(newID, newEmail, img string) error {
	currentID, ok := c.store.CurrentUserID()
	if !ok {
		return models.ErrNoSession
	}

	users, _ := c.store.RegisteredUsers()
	idx := -1
	for i := range users {
		if users[i].ID == currentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.ErrUserNotFound
	}

	if newID != "" {
		if err := c.validateUserID(newID); err != nil {
			return err
		}
		for _, u := range users {
			if u.ID == newID {
				return models.ErrUserExists
			}
		}
	}
	if newEmail != "" {
		if err := c.validateEmail(newEmail); err != nil {
			return err
		}
		for _, u := range users {
			if u.Email == newEmail {
				return models.ErrEmailExists
			}
		}
	}

	if newID != "" {
		if err := c.store.RenameUserKey(currentID, newID); err != nil {
			return fmt.Errorf("failed to move watchlists to new user id: %w", err)
		}
		users[idx].ID = newID
		if err := c.store.SetCurrentSession(newID); err != nil {
			return err
		}
	}
	if newEmail != "" {
		users[idx].Email = newEmail
	}
	if img != "" {
		users[idx].Img = img
	}

	if err := c.store.SetRegisteredUsers(users); err != nil {
		return err
	}
	if newID != "" {
		c.store.RefreshWatchlists()
	}

	c.logger.WithFields(logrus.Fields{
		"user_id":    currentID,
		"id_changed": newID != "",
	}).Info("Account settings saved")
	return nil
}
