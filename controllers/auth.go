package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mralligator/appointment-scheduler/auth"
	"github.com/mralligator/appointment-scheduler/logging"
	"github.com/mralligator/appointment-scheduler/middleware"
	"github.com/mralligator/appointment-scheduler/utils"
)

// Credentials is the one-admin login store.
type Credentials interface {
	Exists() bool
	Create(email, password string) error
	Verify(email, password string) error
}

type AuthController struct {
	credentials Credentials
	secret      []byte
	logger      *logging.Logger
	now         func() time.Time
}

func NewAuthController(credentials Credentials, secret []byte, logger *logging.Logger) *AuthController {
	if logger == nil {
		logger = logging.Default()
	}
	return &AuthController{credentials: credentials, secret: secret, logger: logger, now: time.Now}
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SetupStatus reports whether the one-time admin setup still has to run.
func (ac *AuthController) SetupStatus(c *fiber.Ctx) error {
	exists := ac.credentials.Exists()
	msg := "Admin setup required"
	if exists {
		msg = "Admin already configured"
	}
	return c.JSON(fiber.Map{"needsSetup": !exists, "message": msg})
}

// Setup creates the admin login and returns a token for it.
func (ac *AuthController) Setup(c *fiber.Ctx) error {
	input := new(loginInput)
	if err := c.BodyParser(input); err != nil {
		return badRequest(c, "Cannot parse JSON", err)
	}

	if err := ac.credentials.Create(input.Email, input.Password); err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingCredentials),
			errors.Is(err, auth.ErrAdminExists),
			errors.Is(err, auth.ErrPasswordTooShort):
			return badRequest(c, err.Error(), err)
		}
		ac.logger.Error("admin setup failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create admin",
			Error:   err.Error(),
		})
	}

	ac.logger.Info("admin account created", "email", input.Email)
	return ac.issue(c, input.Email, "Admin created successfully")
}

// Login handles admin authentication
func (ac *AuthController) Login(c *fiber.Ctx) error {
	input := new(loginInput)
	if err := c.BodyParser(input); err != nil {
		return badRequest(c, "Cannot parse JSON", err)
	}

	err := ac.credentials.Verify(input.Email, input.Password)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrMissingCredentials), errors.Is(err, auth.ErrAdminNotConfigured):
		return badRequest(c, err.Error(), err)
	case errors.Is(err, auth.ErrInvalidCredentials):
		ac.logger.Warn("admin login rejected", "email", input.Email)
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "Invalid credentials",
			Error:   err.Error(),
		})
	default:
		ac.logger.Error("admin login failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Login failed",
			Error:   err.Error(),
		})
	}

	return ac.issue(c, input.Email, "Login successful")
}

// Verify echoes the session of a valid token.
func (ac *AuthController) Verify(c *fiber.Ctx) error {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "No authentication token",
			Error:   "Unauthorized",
		})
	}
	return c.JSON(fiber.Map{"success": true, "admin": session})
}

func (ac *AuthController) issue(c *fiber.Ctx, email, msg string) error {
	token, err := auth.IssueToken(ac.secret, email, ac.now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to generate token",
			Error:   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"success": true, "message": msg, "token": token})
}
