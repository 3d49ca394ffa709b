package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/estoquehub/internal/client"
	"github.com/estoquehub/internal/model"
)

// AuthController drives the login and registration pages.
type AuthController struct {
	app *App
}

// NewAuthController creates a new auth controller
func NewAuthController(app *App) *AuthController {
	return &AuthController{app: app}
}

// Login validates the credentials, authenticates and stores the session.
func (c *AuthController) Login(ctx context.Context, email, password string) (*client.Session, error) {
	if err := ValidateLogin(email, password); err != nil {
		return nil, err
	}
	resp, err := c.app.api.Login(ctx, &model.LoginRequest{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		return nil, err
	}
	return c.store(resp)
}

// Register validates the form, creates the account and stores the session
func (c *AuthController) Register(ctx context.Context, name, email, password string) (*client.Session, error) {
	if err := ValidateRegister(name, email, password); err != nil {
		return nil, err
	}
	resp, err := c.app.api.Register(ctx, &model.RegisterRequest{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	return c.store(resp)
}

func (c *AuthController) store(resp *model.LoginResponse) (*client.Session, error) {
	if resp == nil || resp.Token == "" || resp.User == nil {
		return nil, errors.New("invalid response from server")
	}
	session := &client.Session{
		Token:     resp.Token,
		Email:     resp.User.Email,
		Name:      resp.User.Name,
		LoginTime: c.app.now(),
	}
	if err := c.app.sessions.Save(session); err != nil {
		return nil, err
	}
	return session, nil
}

// RunLogin is the interactive login command. An existing valid session
// skips the prompt.
func (a *App) RunLogin(ctx context.Context) error {
	if session, err := a.RequireSession(); err == nil {
		a.printf("already logged in as %s, run 'estoquehub logout' to switch user\n", session.Email)
		return nil
	}

	email, err := GetSimpleText(a.in, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := a.password("Password")
	if err != nil {
		return err
	}

	session, err := NewAuthController(a).Login(ctx, email, password)
	if err != nil {
		return err
	}
	a.printf("login successful, welcome %s\n", session.Name)
	return nil
}

// RunRegister prompts for a new account
func (a *App) RunRegister(ctx context.Context) error {
	name, err := GetSimpleText(a.in, "Name", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.in, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := a.password("Password")
	if err != nil {
		return err
	}

	session, err := NewAuthController(a).Register(ctx, name, email, password)
	if err != nil {
		return err
	}
	a.printf("account created, logged in as %s\n", session.Email)
	return nil
}

// RunLogout forgets the stored session
func (a *App) RunLogout() error {
	if err := a.sessions.Clear(); err != nil {
		return err
	}
	a.printf("logged out\n")
	return nil
}

// RunWhoAmI prints the session owner as the server sees it.
func (a *App) RunWhoAmI(ctx context.Context) error {
	session, err := a.RequireSession()
	if err != nil {
		return err
	}
	user, err := a.api.Profile(ctx, session)
	if err != nil {
		return err
	}
	a.printf("%s <%s>\nlogged in at %s\n", user.Name, user.Email, session.LoginTime.Local().Format("2006-01-02 15:04"))
	return nil
}

// ErrorLine turns an error into the single line shown to the user.
func ErrorLine(err error) string {
	if sessionRejected(err) {
		return "session rejected by server, run 'estoquehub login' again"
	}
	return fmt.Sprintf("error: %v", err)
}

// Fail returns the line to show for err. A token the server rejected also
// clears the stored session so the next command asks for a login.
func (a *App) Fail(err error) string {
	if sessionRejected(err) {
		_ = a.sessions.Clear()
	}
	return ErrorLine(err)
}

func sessionRejected(err error) bool {
	var apiErr *client.APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized && apiErr.Code == "unauthorized"
}
