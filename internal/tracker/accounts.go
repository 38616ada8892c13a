package tracker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/hammamikhairi/fatfit/internal/auth"
	"github.com/hammamikhairi/fatfit/internal/domain"
	"github.com/hammamikhairi/fatfit/internal/quiz"
)

// Registration is the sign-up form.
type Registration struct {
	FullName string `json:"fullname"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CheckUser reports whether the username or email is taken. At least one
// must be given.
func (s *Service) CheckUser(ctx context.Context, username, email string) (bool, error) {
	if username == "" && email == "" {
		return false, fmt.Errorf("%w: username or email missing", domain.ErrInvalidInput)
	}
	return s.users.Exists(ctx, username, email)
}

// Register creates an account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, r Registration) (*domain.User, error) {
	if r.FullName == "" || r.Username == "" || r.Email == "" || r.Password == "" {
		return nil, fmt.Errorf("%w: username, email, fullname, and password are required", domain.ErrInvalidInput)
	}

	exists, err := s.users.Exists(ctx, r.Username, r.Email)
	if err != nil {
		return nil, fmt.Errorf("checking user: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: user already exists", domain.ErrAlreadyExists)
	}

	hash, err := auth.HashPassword(r.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		FullName:     r.FullName,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.log.Info("registered user %s", user.Username)
	return user, nil
}

// Login checks credentials and returns a signed session token. Unknown
// users and wrong passwords are indistinguishable.
func (s *Service) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}
	if s.tokens == nil {
		return "", nil, ErrNotConfigured
	}

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil, fmt.Errorf("%w: incorrect username or password", domain.ErrUnauthorized)
	}
	if err != nil {
		return "", nil, fmt.Errorf("loading user: %w", err)
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return "", nil, fmt.Errorf("%w: incorrect username or password", domain.ErrUnauthorized)
		}
		return "", nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}
	s.log.Debug("user %s logged in", username)
	return token, user, nil
}

// RenameUser moves the account and its quiz answers to a new username.
func (s *Service) RenameUser(ctx context.Context, username, newUsername string) error {
	newUsername = strings.TrimSpace(newUsername)
	if newUsername == "" {
		return fmt.Errorf("%w: new username is required", domain.ErrInvalidInput)
	}

	if err := s.users.Rename(ctx, username, newUsername); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return fmt.Errorf("%w: username already taken", domain.ErrAlreadyExists)
		}
		return fmt.Errorf("renaming user: %w", err)
	}
	if err := s.answers.Rename(ctx, username, newUsername); err != nil {
		if rbErr := s.users.Rename(ctx, newUsername, username); rbErr != nil {
			s.log.Error("rename %s -> %s: answers failed and user rollback failed: %v", username, newUsername, rbErr)
			return fmt.Errorf("renaming answers: %w (rollback: %v)", err, rbErr)
		}
		return fmt.Errorf("renaming answers: %w", err)
	}
	if s.planCache != nil {
		s.planCache.Invalidate(username)
	}

	s.log.Info("renamed user %s -> %s", username, newUsername)
	return nil
}

// DeleteUser removes the account and its quiz answers. Answers are removed
// even when the account is already gone.
func (s *Service) DeleteUser(ctx context.Context, username string) error {
	userErr := s.users.Delete(ctx, username)
	if err := s.answers.DeleteAll(ctx, username); err != nil {
		return fmt.Errorf("deleting answers: %w", err)
	}
	if s.planCache != nil {
		s.planCache.Invalidate(username)
	}
	if userErr != nil {
		return fmt.Errorf("deleting user: %w", userErr)
	}

	s.log.Info("deleted user %s", username)
	return nil
}

// ResetPassword replaces the password of the account with the given email.
func (s *Service) ResetPassword(ctx context.Context, email, newPassword string) error {
	if email == "" || newPassword == "" {
		return fmt.Errorf("%w: email and newPassword are required", domain.ErrInvalidInput)
	}
	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		return fmt.Errorf("finding user by email: %w", err)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.SetPassword(ctx, email, hash); err != nil {
		return fmt.Errorf("setting password: %w", err)
	}
	return nil
}

// SaveAnswers stores a quiz submission.
func (s *Service) SaveAnswers(ctx context.Context, username string, answers domain.Answers) error {
	if username == "" || answers == nil {
		return fmt.Errorf("%w: username or answers are missing or invalid", domain.ErrInvalidInput)
	}
	set := domain.AnswerSet{Username: username, Answers: answers, SubmittedAt: s.now()}
	if err := s.answers.Save(ctx, set); err != nil {
		return fmt.Errorf("saving answers: %w", err)
	}
	if s.planCache != nil {
		s.planCache.Invalidate(username)
	}
	return nil
}

// ProfileView is the dashboard rendering of the latest quiz answers. Numeric
// fields are nil when the stored answer was not a number.
type ProfileView struct {
	Age    *float64    `json:"age"`
	Gender string      `json:"gender"`
	Weight *float64    `json:"weight"`
	Height *float64    `json:"height"`
	Goal   domain.Goal `json:"goal"`
}

// Dashboard is the personalized landing page payload.
type Dashboard struct {
	User               *domain.User `json:"user"`
	Profile            *ProfileView `json:"extractedUserAnswers"`
	DailyCalorieTarget *int         `json:"dailyCalorieTarget"`
}

// Dashboard returns the user with their profile and daily calorie target.
// Profile and target are nil until the quiz has been answered.
func (s *Service) Dashboard(ctx context.Context, username string) (*Dashboard, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	user.PasswordHash = ""

	d := &Dashboard{User: user}

	set, err := s.answers.Latest(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return d, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading answers: %w", err)
	}

	ex := quiz.Extract(set.Answers)
	goal := s.calc.Goal(ex.RawGoal)
	target := s.calc.Calories(ex.Profile, goal)

	d.Profile = &ProfileView{
		Age:    number(ex.Profile.Age),
		Gender: quiz.Gender(set.Answers),
		Weight: number(ex.Profile.WeightKg),
		Height: number(ex.Profile.HeightCm),
		Goal:   goal,
	}
	d.DailyCalorieTarget = &target
	return d, nil
}

func number(f float64) *float64 {
	if math.IsNaN(f) {
		return nil
	}
	return &f
}
